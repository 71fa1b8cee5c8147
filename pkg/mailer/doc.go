// Package mailer is the outgoing email boundary.
//
// Providers implement [Sender]; [Mailer] validates prepared messages and
// fills in the configured sender address before handing them over. The
// framework uses it to deliver uncaught exception reports.
//
// Two senders ship with the framework: the Resend API client in
// mailer/resend, and [LogSender], which writes messages to a slog.Logger and
// is handy in development.
//
//	m := mailer.New(resend.New(resend.Config{APIKey: key, SenderEmail: from}), mailer.Config{})
//	err := m.SendRaw(ctx, &mailer.Email{
//		To:      []string{"ops@example.com"},
//		Subject: "Report",
//		HTML:    "<p>All good</p>",
//	})
package mailer
