package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-assistant-api/internal/models"
	"github.com/noah-isme/campus-assistant-api/pkg/mailer"
)

type recipientRepository interface {
	ListActiveStudentRecipients(ctx context.Context, department *string, year *int) ([]models.User, error)
}

// NotificationResult summarises one notification run.
type NotificationResult struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
}

// NotificationService emails students when a notice is published. Delivery is
// attempted per recipient; failures are written to the system log and never
// returned.
type NotificationService struct {
	users   recipientRepository
	mail    mailer.Mailer
	logs    *LogService
	metrics *MetricsService
	domain  string
	logger  *zap.Logger
}

// NewNotificationService constructs a NotificationService. A nil mailer behaves
// like an unconfigured transport.
func NewNotificationService(users recipientRepository, mail mailer.Mailer, logs *LogService, metrics *MetricsService, domain string, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{users: users, mail: mail, logs: logs, metrics: metrics, domain: domain, logger: logger}
}

// NoticePublished notifies the eligible students for notice and always writes
// exactly one email log row.
func (s *NotificationService) NoticePublished(ctx context.Context, notice *models.Notice, sentBy *string) NotificationResult {
	var result NotificationResult
	defer func() {
		noticeID := notice.ID
		s.logs.RecordEmail(ctx, &models.EmailLog{
			NoticeID:  &noticeID,
			SentBy:    sentBy,
			Subject:   emailLogSubject(notice),
			Attempted: result.Attempted,
			Succeeded: result.Succeeded,
		})
		s.metrics.RecordEmails(result.Attempted, result.Succeeded)
	}()

	recipients, err := s.recipients(ctx, notice)
	if err != nil {
		s.logs.Record(ctx, models.LogModuleEmail, fmt.Sprintf("bulk send error: %v", err))
		return result
	}
	if len(recipients) == 0 || s.mail == nil || !s.mail.Configured() {
		s.logs.Record(ctx, models.LogModuleEmail, fmt.Sprintf("email not configured or no recipients would_send=%d", len(recipients)))
		return result
	}

	session, err := s.mail.Open(ctx)
	if err != nil {
		s.logs.Record(ctx, models.LogModuleEmail, fmt.Sprintf("smtp connect/auth failed: %v", err))
		return result
	}
	defer func() {
		if err := session.Close(); err != nil {
			s.logger.Warn("failed to close mail session", zap.Error(err))
		}
	}()

	subject := "New Notice: " + notice.Title
	body := s.body(notice)
	for _, to := range recipients {
		result.Attempted++
		err := session.Send(ctx, mailer.Message{
			From:    s.mail.DefaultFrom(),
			To:      to,
			Subject: subject,
			Body:    body,
		})
		if err != nil {
			s.logs.Record(ctx, models.LogModuleEmail, fmt.Sprintf("send failed for %s: %v", to, err))
			continue
		}
		result.Succeeded++
	}
	return result
}

func (s *NotificationService) recipients(ctx context.Context, notice *models.Notice) ([]string, error) {
	var dept *string
	var year *int
	if notice.Visibility == models.VisibilityRestricted {
		dept, year = notice.TargetDepartment, notice.TargetYear
	}
	users, err := s.users.ListActiveStudentRecipients(ctx, dept, year)
	if err != nil {
		return nil, err
	}
	emails := make([]string, 0, len(users))
	for _, u := range users {
		if u.Email != nil && strings.TrimSpace(*u.Email) != "" {
			emails = append(emails, strings.TrimSpace(*u.Email))
		}
	}
	return emails, nil
}

func (s *NotificationService) body(notice *models.Notice) string {
	summary := ""
	if notice.Summary != nil {
		summary = *notice.Summary
	}
	link := "/student/notices"
	if s.domain != "" {
		link = "https://" + s.domain + link
	}
	return fmt.Sprintf("A new notice has been published.\n\nTitle: %s\nSummary: %s\nVisibility: %s\n\nVisit the portal to read more: %s\n",
		notice.Title, summary, notice.Visibility, link)
}

// emailLogSubject encodes the audience of a publish run into the log subject.
func emailLogSubject(notice *models.Notice) string {
	tags := make([]string, 0, 4)
	if notice.CategoryName != nil && *notice.CategoryName != "" {
		tags = append(tags, "category="+*notice.CategoryName)
	}
	tags = append(tags, "visibility="+string(notice.Visibility))
	if notice.TargetDepartment != nil {
		tags = append(tags, "department="+*notice.TargetDepartment)
	}
	if notice.TargetYear != nil {
		tags = append(tags, "year="+strconv.Itoa(*notice.TargetYear))
	}
	return fmt.Sprintf("New Notice: %s [%s]", notice.Title, strings.Join(tags, " "))
}
