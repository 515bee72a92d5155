package services

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Mailer delivers one-time recovery codes.
type Mailer interface {
	SendOTP(ctx context.Context, email, code string, ttl time.Duration) error
}

// LogMailer writes codes to the log instead of sending mail. Development only.
type LogMailer struct {
	Log *zap.Logger
}

func (m LogMailer) SendOTP(_ context.Context, email, code string, ttl time.Duration) error {
	m.Log.Info("recovery code issued",
		zap.String("email", email),
		zap.String("code", code),
		zap.Duration("ttl", ttl),
	)
	return nil
}
