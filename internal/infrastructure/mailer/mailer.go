package mailer

import (
	"context"

	"github.com/brooklinpub/admin-api/internal/infrastructure/logger"
)

// LogMailer writes account emails to the log instead of sending them. It
// stands in until an SMTP or provider integration is configured.
type LogMailer struct {
	logger *logger.Logger
}

// NewLogMailer creates a logging mailer
func NewLogMailer(logger *logger.Logger) *LogMailer {
	return &LogMailer{logger: logger.WithComponent("mailer")}
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	m.logger.Infow("Password reset email", "to", email, "token", token)
	return nil
}

func (m *LogMailer) SendEmailVerification(ctx context.Context, email, token string) error {
	m.logger.Infow("Verification email", "to", email, "token", token)
	return nil
}
