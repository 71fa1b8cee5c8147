package mailer

import (
	"context"
	"log/slog"
)

// LogSender writes messages to a logger instead of delivering them.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender returns a Sender that logs every message at Info level.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

// Send implements Sender.
func (s *LogSender) Send(ctx context.Context, email *Email) error {
	s.logger.InfoContext(ctx, "email",
		slog.Any("to", email.To),
		slog.String("from", email.From),
		slog.String("subject", email.Subject),
		slog.String("text", email.Text),
	)
	return nil
}
