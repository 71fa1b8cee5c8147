package resend

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/colony/pkg/mailer"
)

// Sender delivers mail through the Resend API.
type Sender struct {
	client *resend.Client
	config Config
}

// New creates a Resend sender.
func New(cfg Config) *Sender {
	return &Sender{
		client: resend.NewClient(cfg.APIKey),
		config: cfg,
	}
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	if _, err := s.client.Emails.SendWithContext(ctx, s.buildRequest(email)); err != nil {
		return fmt.Errorf("resend: failed to send email: %w", err)
	}
	return nil
}

func (s *Sender) buildRequest(email *mailer.Email) *resend.SendEmailRequest {
	req := &resend.SendEmailRequest{
		From:    s.from(email.From),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		ReplyTo: email.ReplyTo,
		Cc:      email.CC,
		Bcc:     email.BCC,
		Headers: email.Headers,
	}

	for _, a := range email.Attachments {
		req.Attachments = append(req.Attachments, &resend.Attachment{
			Filename:    a.Filename,
			Content:     a.Content,
			ContentType: a.ContentType,
			ContentId:   a.ContentID,
		})
	}

	for _, name := range slices.Sorted(maps.Keys(email.Tags)) {
		req.Tags = append(req.Tags, resend.Tag{Name: name, Value: tagValue(email.Tags[name])})
	}
	return req
}

// from falls back to the configured sender identity.
func (s *Sender) from(override string) string {
	switch {
	case override != "":
		return override
	case s.config.SenderName != "":
		return mailer.Recipient(s.config.SenderName, s.config.SenderEmail)
	default:
		return s.config.SenderEmail
	}
}

// tagValue converts a tag value for the Resend API.
// Presence-only tags become "true".
func tagValue(v any) string {
	switch val := v.(type) {
	case nil, struct{}:
		return "true"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
