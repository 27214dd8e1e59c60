package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/textproto"
	"strings"
	"time"

	mail "github.com/wneessen/go-mail"
)

// Config holds the relay settings. Port 465 means implicit TLS, which is what
// the common providers' app-password setups expect.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

// SMTPSender delivers email over one authenticated encrypted SMTP session per
// send. No in-run retry: re-sending after a transient failure could create a
// duplicate post on the receiving platform.
type SMTPSender struct {
	cfg    Config
	logger *slog.Logger
}

func NewSMTPSender(cfg Config, logger *slog.Logger) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, errors.New("smtp credentials are required")
	}
	if cfg.Port == 0 {
		cfg.Port = 465
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SMTPSender{cfg: cfg, logger: logger}, nil
}

func (s *SMTPSender) Send(ctx context.Context, email *Email) error {
	if email.To == "" {
		return ErrNoRecipient
	}

	msg := mail.NewMsg()
	if err := msg.From(email.From); err != nil {
		return fmt.Errorf("%w: invalid from address %q: %v", ErrTransport, email.From, err)
	}
	if err := msg.To(email.To); err != nil {
		return fmt.Errorf("%w: invalid address %q: %v", ErrRecipient, email.To, err)
	}
	msg.Subject(email.Subject)
	msg.SetBodyString(mail.TypeTextPlain, email.Text)
	msg.AddAlternativeString(mail.TypeTextHTML, email.HTML)

	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
		mail.WithTimeout(s.cfg.Timeout),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}

	s.logger.Info("sending email", "to", email.To, "subject", email.Subject, "relay", s.cfg.Host)
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return Classify(err)
	}
	return nil
}

// Classify maps a raw delivery failure onto the error taxonomy so the
// operator can tell a credential problem from an address problem. Best
// effort: unrecognized failures count as transport errors.
func Classify(err error) error {
	var sendErr *mail.SendError
	if errors.As(err, &sendErr) {
		switch sendErr.Reason {
		case mail.ErrSMTPRcptTo, mail.ErrGetRcpts:
			return fmt.Errorf("%w: %v", ErrRecipient, err)
		}
	}

	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		switch protoErr.Code {
		case 530, 534, 535:
			return fmt.Errorf("%w: %v", ErrAuth, err)
		case 550, 551, 553:
			return fmt.Errorf("%w: %v", ErrRecipient, err)
		}
	}

	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "authentication failed"), strings.Contains(lower, "auth"):
		return fmt.Errorf("%w: %v", ErrAuth, err)
	case strings.Contains(lower, "recipient"):
		return fmt.Errorf("%w: %v", ErrRecipient, err)
	}
	return fmt.Errorf("%w: %v", ErrTransport, err)
}
