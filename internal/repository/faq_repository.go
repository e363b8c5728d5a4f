package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-assistant-api/internal/models"
)

const faqColumns = `id, question, answer, category, target_department, status, asked_by, answered_by, created_at, answered_at`

// FAQRepository persists questions and answers.
type FAQRepository struct {
	db *sqlx.DB
}

// NewFAQRepository creates the repository.
func NewFAQRepository(db *sqlx.DB) *FAQRepository {
	return &FAQRepository{db: db}
}

// Create inserts a question.
func (r *FAQRepository) Create(ctx context.Context, faq *models.FAQ) error {
	if faq.ID == "" {
		faq.ID = uuid.NewString()
	}
	if faq.CreatedAt.IsZero() {
		faq.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO faqs (id, question, answer, category, target_department, status, asked_by, answered_by, created_at, answered_at)
VALUES (:id, :question, :answer, :category, :target_department, :status, :asked_by, :answered_by, :created_at, :answered_at)`
	if _, err := r.db.NamedExecContext(ctx, query, faq); err != nil {
		return fmt.Errorf("create faq: %w", err)
	}
	return nil
}

// GetByID returns a question by identifier.
func (r *FAQRepository) GetByID(ctx context.Context, id string) (*models.FAQ, error) {
	query := `SELECT ` + faqColumns + ` FROM faqs WHERE id = $1`
	var faq models.FAQ
	if err := r.db.GetContext(ctx, &faq, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get faq: %w", err)
	}
	return &faq, nil
}

// Answer sets answer, answerer and timestamp together. It only touches a
// pending row and returns sql.ErrNoRows when the question was already answered.
func (r *FAQRepository) Answer(ctx context.Context, id, answer string, answeredBy *string, at time.Time) error {
	const query = `UPDATE faqs SET answer = $2, answered_by = $3, answered_at = $4, status = 'answered'
WHERE id = $1 AND status = 'pending'`
	res, err := r.db.ExecContext(ctx, query, id, answer, answeredBy, at)
	if err != nil {
		return fmt.Errorf("answer faq: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a question.
func (r *FAQRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM faqs WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete faq: %w", err)
	}
	return nil
}

// List returns questions matching the filter, newest first.
func (r *FAQRepository) List(ctx context.Context, filter models.FAQFilter) ([]models.FAQ, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	var scope []string
	if filter.Status != nil {
		clause := fmt.Sprintf("status = $%d", len(args)+1)
		args = append(args, *filter.Status)
		if filter.Department != nil {
			clause += fmt.Sprintf(" AND target_department = $%d", len(args)+1)
			args = append(args, *filter.Department)
		}
		scope = append(scope, "("+clause+")")
	}
	if filter.AskedBy != "" {
		scope = append(scope, fmt.Sprintf("asked_by = $%d", len(args)+1))
		args = append(args, filter.AskedBy)
	}
	if len(scope) > 0 {
		where = append(where, "("+strings.Join(scope, " OR ")+")")
	}
	if filter.Category != "" {
		where = append(where, fmt.Sprintf("category = $%d", len(args)+1))
		args = append(args, filter.Category)
	}
	if filter.Search != "" {
		n := len(args) + 1
		where = append(where, fmt.Sprintf("(question ILIKE $%d OR answer ILIKE $%d)", n, n))
		args = append(args, "%"+filter.Search+"%")
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := fmt.Sprintf("SELECT %s FROM faqs WHERE %s ORDER BY created_at DESC LIMIT %d", faqColumns, strings.Join(where, " AND "), limit)
	var faqs []models.FAQ
	if err := r.db.SelectContext(ctx, &faqs, query, args...); err != nil {
		return nil, fmt.Errorf("list faqs: %w", err)
	}
	return faqs, nil
}

// CountByStatus returns totals keyed by status.
func (r *FAQRepository) CountByStatus(ctx context.Context) (map[models.FAQStatus]int, error) {
	const query = `SELECT status, COUNT(*) AS total FROM faqs GROUP BY status`
	var rows []struct {
		Status models.FAQStatus `db:"status"`
		Total  int              `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count faqs by status: %w", err)
	}
	counts := make(map[models.FAQStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// CountByAsker returns the number of questions a user submitted.
func (r *FAQRepository) CountByAsker(ctx context.Context, userID string) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM faqs WHERE asked_by = $1`, userID); err != nil {
		return 0, fmt.Errorf("count faqs by asker: %w", err)
	}
	return total, nil
}
