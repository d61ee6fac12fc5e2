package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	mathrand "math/rand"
)

// GenerateVerificationCode returns a 6-digit code in [100000, 999999].
// The code is user-typed, so the small space is traded for usability; it is
// single-use and expires after a short window.
func GenerateVerificationCode() string {
	return fmt.Sprintf("%d", 100000+mathrand.Intn(900000))
}

// GenerateResetToken returns a 40-character hex string backed by 20 bytes
// from crypto/rand. The token is only ever delivered inside a link.
func GenerateResetToken() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
