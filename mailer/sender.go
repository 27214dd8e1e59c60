package mailer

import "context"

// Email is a fully prepared message: one recipient, HTML body with a
// plain-text alternative.
type Email struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender is the minimal delivery interface. The SMTP implementation is the
// real one; tests substitute an in-memory fake.
type Sender interface {
	Send(ctx context.Context, email *Email) error
}
