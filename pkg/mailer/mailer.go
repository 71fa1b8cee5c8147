package mailer

import (
	"context"
	"errors"
)

// Mailer validates messages and passes them to a Sender.
type Mailer struct {
	sender Sender
	config Config
}

// New creates a new Mailer with the given sender.
func New(sender Sender, cfg Config) *Mailer {
	return &Mailer{
		sender: sender,
		config: cfg,
	}
}

// SendRaw sends a pre-built email. The configured From and subject prefix
// are applied to a copy; email itself is not modified.
func (m *Mailer) SendRaw(ctx context.Context, email *Email) error {
	if email == nil || len(email.To) == 0 {
		return ErrNoRecipient
	}
	if email.Subject == "" {
		return ErrNoSubject
	}
	if email.HTML == "" && email.Text == "" {
		return ErrNoContent
	}

	msg := *email
	if msg.From == "" {
		msg.From = m.config.From
	}
	if m.config.SubjectPrefix != "" {
		msg.Subject = m.config.SubjectPrefix + " " + msg.Subject
	}

	if err := m.sender.Send(ctx, &msg); err != nil {
		return errors.Join(ErrSendFailed, err)
	}

	return nil
}
