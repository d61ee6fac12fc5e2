// Package ratelimit throttles outbound mail per recipient address. It guards
// the SMTP relay against repeated signup/forgot-password submissions; token
// verification attempts are never limited here.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type MailCooldown struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewMailCooldown(rdb *redis.Client, ttl time.Duration) *MailCooldown {
	return &MailCooldown{
		rdb: rdb,
		ttl: ttl,
	}
}

// Allow reports whether a mail of the given kind may be sent to the address
// now. The first call within the window claims the slot; later calls are
// denied until the key expires.
func (c *MailCooldown) Allow(ctx context.Context, kind string, email string) (bool, error) {
	key := fmt.Sprintf("mail_cooldown_%s_%s", kind, email)
	return c.rdb.SetNX(ctx, key, 1, c.ttl).Result()
}
