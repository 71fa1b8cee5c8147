package mailer

import "context"

// Sender delivers a prepared message. The exception reporter calls it once
// per failed dispatch, so implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, email *Email) error
}
