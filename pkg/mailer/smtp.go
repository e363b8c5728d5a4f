package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/noah-isme/campus-assistant-api/pkg/config"
	appErrors "github.com/noah-isme/campus-assistant-api/pkg/errors"
)

// SMTP delivers through an SMTP relay. Port 465 or UseSSL selects implicit TLS,
// otherwise STARTTLS is required when UseTLS is set.
type SMTP struct {
	cfg  config.MailConfig
	from string
}

// NewSMTP builds an SMTP transport.
func NewSMTP(cfg config.MailConfig, from string) *SMTP {
	return &SMTP{cfg: cfg, from: from}
}

func (s *SMTP) Configured() bool {
	return s.cfg.Host != "" && s.cfg.User != "" && s.cfg.Password != ""
}

func (s *SMTP) DefaultFrom() string { return s.from }

func (s *SMTP) Open(ctx context.Context) (Session, error) {
	if !s.Configured() {
		return nil, appErrors.ErrMailNotConfigured
	}
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.User),
		mail.WithPassword(s.cfg.Password),
	}
	if s.cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(s.cfg.Timeout))
	}
	switch {
	case s.cfg.UseSSL:
		opts = append(opts, mail.WithSSL())
	case s.cfg.UseTLS:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	if err := client.DialWithContext(ctx); err != nil {
		return nil, fmt.Errorf("smtp dial %s:%d: %w", s.cfg.Host, s.cfg.Port, err)
	}
	return &smtpSession{client: client, from: s.from}, nil
}

type smtpSession struct {
	client *mail.Client
	from   string
}

func (s *smtpSession) Send(_ context.Context, msg Message) error {
	m := mail.NewMsg()
	from := msg.From
	if from == "" {
		from = s.from
	}
	if err := m.From(from); err != nil {
		return fmt.Errorf("set sender %s: %w", from, err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("set recipient %s: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	if err := s.client.Send(m); err != nil {
		return fmt.Errorf("send to %s: %w", msg.To, err)
	}
	return nil
}

func (s *smtpSession) Close() error {
	return s.client.Close()
}
