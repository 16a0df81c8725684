package ports

import "context"

// Mail is a single outbound message.
type Mail struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers mail. Actual transport is an external collaborator; the
// in-process implementations either log or enqueue to a worker pool.
type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}
