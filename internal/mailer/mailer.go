// Package mailer publishes mail messages onto the RabbitMQ queue consumed by
// cmd/mail. A state transition is committed to the database before its mail
// is published; a publish failure surfaces to the caller but never rolls the
// transition back.
package mailer

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/gdgu-dev/student-portal/backend/internal/config"
	"github.com/gdgu-dev/student-portal/backend/internal/domain"
)

const QueueName = "email_queue"

type QueueMailer struct {
	cfg     *config.Config
	channel *amqp.Channel
}

func NewQueueMailer(cfg *config.Config, ch *amqp.Channel) *QueueMailer {
	return &QueueMailer{
		cfg:     cfg,
		channel: ch,
	}
}

func (m *QueueMailer) Publish(message domain.MailMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(m.cfg.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return m.channel.PublishWithContext(
		ctx,
		"",
		QueueName,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
