package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-assistant-api/internal/models"
	"github.com/noah-isme/campus-assistant-api/pkg/mailer"
)

type mockRecipientRepo struct {
	users     []models.User
	err       error
	gotDept   *string
	gotYear   *int
	callCount int
}

func (m *mockRecipientRepo) ListActiveStudentRecipients(ctx context.Context, department *string, year *int) ([]models.User, error) {
	m.callCount++
	m.gotDept, m.gotYear = department, year
	return m.users, m.err
}

type stubMailer struct {
	configured bool
	openErr    error
	failFor    map[string]bool
	sent       []mailer.Message
	closed     bool
}

func (m *stubMailer) Configured() bool    { return m.configured }
func (m *stubMailer) DefaultFrom() string { return "no-reply@college.edu" }

func (m *stubMailer) Open(ctx context.Context) (mailer.Session, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	return m, nil
}

func (m *stubMailer) Send(ctx context.Context, msg mailer.Message) error {
	if m.failFor[msg.To] {
		return errors.New("550 mailbox unavailable")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *stubMailer) Close() error {
	m.closed = true
	return nil
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func student(id, email string) models.User {
	return models.User{ID: id, Role: models.RoleStudent, Email: strPtr(email), IsActive: true}
}

func TestNotificationNoRecipientsStillLogsOnce(t *testing.T) {
	logs := &mockLogRepo{}
	svc := NewNotificationService(&mockRecipientRepo{}, &stubMailer{configured: true}, NewLogService(logs, zap.NewNop()), nil, "college.edu", zap.NewNop())

	res := svc.NoticePublished(context.Background(), &models.Notice{ID: "n1", Title: "Holiday", Visibility: models.VisibilityStudent}, strPtr("mod-1"))

	assert.Equal(t, NotificationResult{}, res)
	require.Len(t, logs.emails, 1)
	assert.Zero(t, logs.emails[0].Attempted)
	assert.Zero(t, logs.emails[0].Succeeded)
	assert.Equal(t, []string{"email not configured or no recipients would_send=0"}, logs.messages(models.LogModuleEmail))
}

func TestNotificationUnconfiguredTransport(t *testing.T) {
	logs := &mockLogRepo{}
	repo := &mockRecipientRepo{users: []models.User{student("s1", "a@college.edu"), student("s2", "b@college.edu")}}
	svc := NewNotificationService(repo, &stubMailer{}, NewLogService(logs, zap.NewNop()), nil, "", zap.NewNop())

	res := svc.NoticePublished(context.Background(), &models.Notice{ID: "n1", Title: "Holiday", Visibility: models.VisibilityPublic}, nil)

	assert.Zero(t, res.Attempted)
	require.Len(t, logs.emails, 1)
	assert.Equal(t, []string{"email not configured or no recipients would_send=2"}, logs.messages(models.LogModuleEmail))
}

func TestNotificationPerRecipientFailureIsIsolated(t *testing.T) {
	logs := &mockLogRepo{}
	repo := &mockRecipientRepo{users: []models.User{
		student("s1", "a@college.edu"),
		student("s2", "bad@college.edu"),
		{ID: "s3", Role: models.RoleStudent},
		student("s4", "c@college.edu"),
	}}
	mail := &stubMailer{configured: true, failFor: map[string]bool{"bad@college.edu": true}}
	svc := NewNotificationService(repo, mail, NewLogService(logs, zap.NewNop()), nil, "college.edu", zap.NewNop())

	notice := &models.Notice{
		ID:               "n1",
		Title:            "Lab exam",
		Summary:          strPtr("Bring ID"),
		Visibility:       models.VisibilityRestricted,
		CategoryName:     strPtr("Exams"),
		TargetDepartment: strPtr("CSE"),
		TargetYear:       intPtr(3),
	}
	res := svc.NoticePublished(context.Background(), notice, strPtr("mod-1"))

	assert.Equal(t, NotificationResult{Attempted: 3, Succeeded: 2}, res)
	assert.Equal(t, "CSE", *repo.gotDept)
	assert.Equal(t, 3, *repo.gotYear)
	assert.True(t, mail.closed)
	require.Len(t, mail.sent, 2)
	assert.Equal(t, "New Notice: Lab exam", mail.sent[0].Subject)
	assert.Equal(t, "A new notice has been published.\n\nTitle: Lab exam\nSummary: Bring ID\nVisibility: restricted\n\nVisit the portal to read more: https://college.edu/student/notices\n", mail.sent[0].Body)
	assert.Equal(t, []string{"send failed for bad@college.edu: 550 mailbox unavailable"}, logs.messages(models.LogModuleEmail))

	require.Len(t, logs.emails, 1)
	entry := logs.emails[0]
	assert.Equal(t, "New Notice: Lab exam [category=Exams visibility=restricted department=CSE year=3]", entry.Subject)
	assert.Equal(t, 3, entry.Attempted)
	assert.Equal(t, 2, entry.Succeeded)
	assert.Equal(t, "n1", *entry.NoticeID)
}

func TestNotificationOpenFailure(t *testing.T) {
	logs := &mockLogRepo{}
	repo := &mockRecipientRepo{users: []models.User{student("s1", "a@college.edu")}}
	mail := &stubMailer{configured: true, openErr: errors.New("535 authentication failed")}
	svc := NewNotificationService(repo, mail, NewLogService(logs, zap.NewNop()), nil, "", zap.NewNop())

	res := svc.NoticePublished(context.Background(), &models.Notice{ID: "n1", Title: "T", Visibility: models.VisibilityStudent}, nil)

	assert.Zero(t, res.Attempted)
	assert.Nil(t, repo.gotDept)
	assert.Equal(t, []string{"smtp connect/auth failed: 535 authentication failed"}, logs.messages(models.LogModuleEmail))
	assert.Len(t, logs.emails, 1)
}
