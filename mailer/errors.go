package mailer

import "errors"

var (
	// ErrNoRecipient indicates the email had no destination address.
	ErrNoRecipient = errors.New("email must have a recipient")

	// ErrAuth indicates the relay rejected the credentials. Fatal for the
	// run; retrying with the same credentials cannot help.
	ErrAuth = errors.New("smtp authentication failed")

	// ErrRecipient indicates the relay rejected the destination address,
	// as opposed to the credentials.
	ErrRecipient = errors.New("recipient rejected")

	// ErrTransport covers connection, timeout, and protocol failures.
	// Possibly transient, but never retried within a run: a blind resend
	// risks a duplicate post.
	ErrTransport = errors.New("smtp transport error")
)

// Kind names the delivery error class for the run log. Returns "" for nil.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuth):
		return "auth"
	case errors.Is(err, ErrRecipient):
		return "recipient"
	default:
		return "transport"
	}
}
