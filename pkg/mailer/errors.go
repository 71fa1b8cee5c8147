package mailer

import "errors"

var (
	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("mailer: email must have at least one recipient")

	// ErrNoSubject indicates no subject was provided.
	ErrNoSubject = errors.New("mailer: email must have a subject")

	// ErrNoContent indicates neither HTML nor text content was provided.
	ErrNoContent = errors.New("mailer: email must have content")

	// ErrSendFailed indicates email sending failed.
	ErrSendFailed = errors.New("mailer: failed to send email")
)
