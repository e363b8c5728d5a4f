package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	appErrors "github.com/noah-isme/campus-assistant-api/pkg/errors"
)

var (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendGrid delivers through the SendGrid v3 API. Each Send is one API call.
type SendGrid struct {
	key  string
	from string
}

// NewSendGrid builds a SendGrid transport.
func NewSendGrid(key, from string) *SendGrid {
	return &SendGrid{key: key, from: from}
}

func (s *SendGrid) Configured() bool { return s.key != "" }

func (s *SendGrid) DefaultFrom() string { return s.from }

func (s *SendGrid) Open(context.Context) (Session, error) {
	if !s.Configured() {
		return nil, appErrors.ErrMailNotConfigured
	}
	return &sendgridSession{key: s.key, from: s.from}, nil
}

type sendgridSession struct {
	key  string
	from string
}

func (s *sendgridSession) Send(ctx context.Context, msg Message) error {
	from := msg.From
	if from == "" {
		from = s.from
	}
	m := sgmail.NewSingleEmail(
		sgmail.NewEmail("", from),
		msg.Subject,
		sgmail.NewEmail("", msg.To),
		msg.Body,
		"",
	)

	req := sendgrid.GetRequest(s.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid send to %s: %w", msg.To, err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid send to %s: status %d: %s", msg.To, res.StatusCode, res.Body)
	}
	return nil
}

func (s *sendgridSession) Close() error { return nil }
