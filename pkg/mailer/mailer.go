// Package mailer provides the outbound mail transports used for notice
// notifications: SMTP, SendGrid and a console driver for development.
package mailer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-assistant-api/pkg/config"
)

// Message is a single plain-text email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Session is an open transport. Send is called once per recipient so a failure
// for one address does not affect the rest.
type Session interface {
	Send(ctx context.Context, msg Message) error
	Close() error
}

// Mailer opens sessions against a configured transport.
type Mailer interface {
	// Configured reports whether credentials are present.
	Configured() bool
	// Open connects and authenticates.
	Open(ctx context.Context) (Session, error)
	// DefaultFrom is the sender address used when a message has none.
	DefaultFrom() string
}

// New selects a transport according to cfg.Driver.
func New(cfg config.MailConfig, domain string, logger *zap.Logger) (Mailer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	from := defaultFrom(cfg, domain)
	switch cfg.Driver {
	case "", config.MailDriverSMTP:
		return NewSMTP(cfg, from), nil
	case config.MailDriverSendGrid:
		return NewSendGrid(cfg.SendGridAPIKey, from), nil
	case config.MailDriverConsole:
		return NewConsole(from, logger), nil
	default:
		return nil, fmt.Errorf("unknown mail driver %q", cfg.Driver)
	}
}

func defaultFrom(cfg config.MailConfig, domain string) string {
	switch {
	case cfg.From != "":
		return cfg.From
	case cfg.User != "":
		return cfg.User
	case domain != "":
		return "no-reply@" + domain
	default:
		return "no-reply@example.com"
	}
}
