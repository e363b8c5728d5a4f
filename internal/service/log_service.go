package service

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-assistant-api/internal/models"
	appErrors "github.com/noah-isme/campus-assistant-api/pkg/errors"
)

type logRepository interface {
	CreateSystemLog(ctx context.Context, entry *models.SystemLog) error
	CreateEmailLog(ctx context.Context, entry *models.EmailLog) error
	ListSystemLogs(ctx context.Context, filter models.LogFilter) ([]models.SystemLog, error)
	ListEmailLogs(ctx context.Context, limit int) ([]models.EmailLog, error)
}

// LogService writes the persistent audit trail and mirrors it to zap. Write
// failures are logged and never returned to the caller.
type LogService struct {
	repo   logRepository
	logger *zap.Logger
}

// NewLogService constructs a LogService.
func NewLogService(repo logRepository, logger *zap.Logger) *LogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogService{repo: repo, logger: logger}
}

// Record appends a system log entry.
func (s *LogService) Record(ctx context.Context, module, message string) {
	if s == nil {
		return
	}
	s.logger.Info("system log", zap.String("module", module), zap.String("message", message))
	if s.repo == nil {
		return
	}
	if err := s.repo.CreateSystemLog(ctx, &models.SystemLog{Module: module, Message: message}); err != nil {
		s.logger.Warn("failed to persist system log", zap.String("module", module), zap.Error(err))
	}
}

// Event records "action k=v ..." built from alternating key/value pairs. Nil
// values, including typed nil pointers, are skipped.
func (s *LogService) Event(ctx context.Context, module, action string, kv ...interface{}) {
	s.Record(ctx, module, FormatEvent(action, kv...))
}

// FormatEvent renders an event message.
func FormatEvent(action string, kv ...interface{}) string {
	parts := []string{action}
	for i := 0; i+1 < len(kv); i += 2 {
		value, ok := deref(kv[i+1])
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%v=%v", kv[i], value))
	}
	return strings.Join(parts, " ")
}

func deref(v interface{}) (interface{}, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, false
		}
		return rv.Elem().Interface(), true
	}
	return v, true
}

// RecordEmail appends an email log entry.
func (s *LogService) RecordEmail(ctx context.Context, entry *models.EmailLog) {
	if s == nil {
		return
	}
	s.logger.Info("email log",
		zap.String("subject", entry.Subject),
		zap.Int("attempted", entry.Attempted),
		zap.Int("succeeded", entry.Succeeded),
	)
	if s.repo == nil {
		return
	}
	if err := s.repo.CreateEmailLog(ctx, entry); err != nil {
		s.logger.Warn("failed to persist email log", zap.Error(err))
	}
}

// SystemLogs lists recent system events.
func (s *LogService) SystemLogs(ctx context.Context, filter models.LogFilter) ([]models.SystemLog, error) {
	logs, err := s.repo.ListSystemLogs(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list system logs")
	}
	return logs, nil
}

// EmailLogs lists recent notification runs.
func (s *LogService) EmailLogs(ctx context.Context, limit int) ([]models.EmailLog, error) {
	logs, err := s.repo.ListEmailLogs(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list email logs")
	}
	return logs, nil
}
