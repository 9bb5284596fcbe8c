package mailer

import (
	"context"
	"time"

	"go.uber.org/zap"
	"techsavvy.backend/pkg/logger"
)

// LogMailer writes codes to the log instead of sending mail. Development
// stand-in for the SMTP transport.
type LogMailer struct{}

// NewLogMailer creates a mailer that only logs.
func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (l *LogMailer) SendVerificationCode(email, name, code string, expiry time.Duration) error {
	logger.Info(context.Background(), "verification code (log mailer)",
		zap.String("email", email),
		zap.String("code", code),
		zap.Duration("expiry", expiry),
	)
	return nil
}

func (l *LogMailer) SendPasswordResetCode(email, name, code string, expiry time.Duration) error {
	logger.Info(context.Background(), "password reset code (log mailer)",
		zap.String("email", email),
		zap.String("code", code),
		zap.Duration("expiry", expiry),
	)
	return nil
}

func (l *LogMailer) SendWelcome(email, name string) error {
	logger.Info(context.Background(), "welcome email (log mailer)",
		zap.String("email", email),
	)
	return nil
}
