// Package email delivers agent notifications.
package email

import (
	"context"
	"time"

	"sales_crm_backend/platform/config"
)

// FollowUpReminder is the content of a follow-up reminder email.
type FollowUpReminder struct {
	AgentName  string
	ClientName string
	Company    string
	Subject    string
	DueDate    time.Time
	Notes      string
}

type Sender interface {
	SendFollowUpReminder(ctx context.Context, toEmail string, reminder FollowUpReminder) error
}

type NoopSender struct{}

func (NoopSender) SendFollowUpReminder(ctx context.Context, toEmail string, reminder FollowUpReminder) error {
	return nil
}

// NewSender returns an SMTP sender when SMTP is configured and a no-op
// sender otherwise.
func NewSender(cfg config.SMTPConfig) Sender {
	if !cfg.IsSMTPEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetSMTPFromAddress(),
		cfg.GetSMTPFromName(),
	)
}
