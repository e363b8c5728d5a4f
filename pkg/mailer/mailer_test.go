package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-assistant-api/pkg/config"
	appErrors "github.com/noah-isme/campus-assistant-api/pkg/errors"
)

func TestNewSelectsDriver(t *testing.T) {
	m, err := New(config.MailConfig{Driver: config.MailDriverConsole}, "college.edu", nil)
	require.NoError(t, err)
	assert.IsType(t, &Console{}, m)
	assert.Equal(t, "no-reply@college.edu", m.DefaultFrom())

	m, err = New(config.MailConfig{Driver: config.MailDriverSendGrid}, "", nil)
	require.NoError(t, err)
	assert.False(t, m.Configured())

	_, err = New(config.MailConfig{Driver: "pigeon"}, "", nil)
	require.Error(t, err)
}

func TestSMTPConfigured(t *testing.T) {
	s := NewSMTP(config.MailConfig{Host: "smtp.example.com", User: "bot@example.com"}, "bot@example.com")
	assert.False(t, s.Configured())

	_, err := s.Open(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrMailNotConfigured)

	s = NewSMTP(config.MailConfig{Host: "smtp.example.com", User: "bot@example.com", Password: "x"}, "bot@example.com")
	assert.True(t, s.Configured())
}

func TestDefaultFromPrefersExplicitSender(t *testing.T) {
	assert.Equal(t, "notices@college.edu", defaultFrom(config.MailConfig{From: "notices@college.edu", User: "u@x"}, "college.edu"))
	assert.Equal(t, "u@x", defaultFrom(config.MailConfig{User: "u@x"}, "college.edu"))
	assert.Equal(t, "no-reply@example.com", defaultFrom(config.MailConfig{}, ""))
}

func TestConsoleRecordsMessages(t *testing.T) {
	c := NewConsole("bot@college.edu", nil)
	session, err := c.Open(context.Background())
	require.NoError(t, err)

	require.NoError(t, session.Send(context.Background(), Message{To: "a@college.edu", Subject: "New Notice: Exams", Body: "b"}))
	require.NoError(t, session.Close())

	sent := c.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "bot@college.edu", sent[0].From)
	assert.Equal(t, "a@college.edu", sent[0].To)
}
