// Package mailer delivers one-time passwords to residents.
package mailer

import (
	"context"
	"time"

	"github.com/dmitrijs2005/residentportal/internal/logging"
)

type Mailer interface {
	SendOTP(ctx context.Context, email, code string, validFor time.Duration) error
}

// LogMailer writes the code to the log instead of sending mail. Meant for
// development and demo deployments.
type LogMailer struct {
	logger logging.Logger
}

func NewLogMailer(logger logging.Logger) *LogMailer {
	return &LogMailer{logger: logger.With("module", "mailer")}
}

func (m *LogMailer) SendOTP(ctx context.Context, email, code string, validFor time.Duration) error {
	m.logger.Info(ctx, "otp issued", "email", email, "code", code, "valid_for", validFor.String())
	return nil
}
