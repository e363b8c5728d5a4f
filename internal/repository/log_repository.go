package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-assistant-api/internal/models"
)

// LogRepository stores the system and email audit trails.
type LogRepository struct {
	db *sqlx.DB
}

// NewLogRepository creates the repository.
func NewLogRepository(db *sqlx.DB) *LogRepository {
	return &LogRepository{db: db}
}

// CreateSystemLog appends an operational event.
func (r *LogRepository) CreateSystemLog(ctx context.Context, entry *models.SystemLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO system_logs (id, module, message, created_at) VALUES (:id, :module, :message, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create system log: %w", err)
	}
	return nil
}

// CreateEmailLog appends a notification summary.
func (r *LogRepository) CreateEmailLog(ctx context.Context, entry *models.EmailLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.SentAt.IsZero() {
		entry.SentAt = time.Now().UTC()
	}
	const query = `INSERT INTO email_logs (id, notice_id, sent_by, subject, attempted, succeeded, sent_at)
VALUES (:id, :notice_id, :sent_by, :subject, :attempted, :succeeded, :sent_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create email log: %w", err)
	}
	return nil
}

// ListSystemLogs returns the newest events, optionally for one module.
func (r *LogRepository) ListSystemLogs(ctx context.Context, filter models.LogFilter) ([]models.SystemLog, error) {
	limit := normalizeLogLimit(filter.Limit)
	var (
		logs []models.SystemLog
		err  error
	)
	if filter.Module != "" {
		const query = `SELECT id, module, message, created_at FROM system_logs WHERE module = $1 ORDER BY created_at DESC LIMIT $2`
		err = r.db.SelectContext(ctx, &logs, query, filter.Module, limit)
	} else {
		const query = `SELECT id, module, message, created_at FROM system_logs ORDER BY created_at DESC LIMIT $1`
		err = r.db.SelectContext(ctx, &logs, query, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list system logs: %w", err)
	}
	return logs, nil
}

// ListEmailLogs returns the newest notification summaries.
func (r *LogRepository) ListEmailLogs(ctx context.Context, limit int) ([]models.EmailLog, error) {
	const query = `SELECT id, notice_id, sent_by, subject, attempted, succeeded, sent_at FROM email_logs ORDER BY sent_at DESC LIMIT $1`
	var logs []models.EmailLog
	if err := r.db.SelectContext(ctx, &logs, query, normalizeLogLimit(limit)); err != nil {
		return nil, fmt.Errorf("list email logs: %w", err)
	}
	return logs, nil
}

func normalizeLogLimit(limit int) int {
	if limit <= 0 {
		return 100
	}
	if limit > 5000 {
		return 5000
	}
	return limit
}
