package mailer

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Console writes messages to the logger instead of delivering them and keeps a
// copy of each for inspection.
type Console struct {
	from   string
	logger *zap.Logger

	mu   sync.Mutex
	sent []Message
}

// NewConsole builds a console transport.
func NewConsole(from string, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{from: from, logger: logger}
}

func (c *Console) Configured() bool { return true }

func (c *Console) DefaultFrom() string { return c.from }

func (c *Console) Open(context.Context) (Session, error) {
	return c, nil
}

func (c *Console) Send(_ context.Context, msg Message) error {
	if msg.From == "" {
		msg.From = c.from
	}
	c.logger.Info("console mail",
		zap.String("from", msg.From),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	c.mu.Lock()
	c.sent = append(c.sent, msg)
	c.mu.Unlock()
	return nil
}

func (c *Console) Close() error { return nil }

// Sent returns the messages recorded so far.
func (c *Console) Sent() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.sent))
	copy(out, c.sent)
	return out
}
