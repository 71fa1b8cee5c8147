package mailer

import "fmt"

// Tags represents provider tags. Values are either struct{}{} for
// presence-only tags or a value converted to a string by the provider.
type Tags map[string]any

// Recipient formats a name and email into RFC 5322 address format.
// Returns "Name <email>" if name is provided, otherwise just email.
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

// Email represents a fully-prepared email message ready for sending.
type Email struct {
	Headers     map[string]string // Custom headers
	Tags        Tags              // Provider-specific tags/categories
	Subject     string
	HTML        string // HTML body content
	Text        string // Plain text alternative
	From        string // Override default sender (if provider allows)
	ReplyTo     string
	To          []string // At least one required
	CC          []string
	BCC         []string
	Attachments []Attachment
}

// Attachment represents an email attachment.
type Attachment struct {
	Filename    string
	ContentType string // MIME type (e.g., "text/plain")
	ContentID   string // Optional Content-ID for inline attachments
	Content     []byte
}
