package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/campus-assistant-api/internal/models"
)

const noticeSelect = `SELECT n.id, n.title, n.summary, n.content, n.category_id, c.name AS category_name, n.visibility, n.status,
n.target_department, n.target_year, n.created_by, n.created_at, n.updated_at
FROM notices n LEFT JOIN notice_categories c ON c.id = n.category_id`

const noticeFileColumns = `id, notice_id, original_name, stored_path, file_type, uploaded_at`

// NoticeRepository persists notices, their categories and attachments.
type NoticeRepository struct {
	db *sqlx.DB
}

// NewNoticeRepository creates the repository.
func NewNoticeRepository(db *sqlx.DB) *NoticeRepository {
	return &NoticeRepository{db: db}
}

// EnsureCategory returns the category with the given name, creating it on first use.
func (r *NoticeRepository) EnsureCategory(ctx context.Context, name string) (*models.NoticeCategory, error) {
	const query = `INSERT INTO notice_categories (id, name, created_at) VALUES ($1, $2, $3)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id, name, created_at`
	var category models.NoticeCategory
	if err := r.db.GetContext(ctx, &category, query, uuid.NewString(), name, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("ensure notice category: %w", err)
	}
	return &category, nil
}

// ListCategories returns all categories ordered by name.
func (r *NoticeRepository) ListCategories(ctx context.Context) ([]models.NoticeCategory, error) {
	const query = `SELECT id, name, created_at FROM notice_categories ORDER BY name`
	var categories []models.NoticeCategory
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list notice categories: %w", err)
	}
	return categories, nil
}

// List returns notices inside the filter's scope, newest first, with the total count.
func (r *NoticeRepository) List(ctx context.Context, filter models.NoticeFilter) ([]models.Notice, int, error) {
	where, args := noticeConditions(filter)
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("%s WHERE %s ORDER BY n.created_at DESC LIMIT %d OFFSET %d", noticeSelect, whereClause, size, offset)
	var notices []models.Notice
	if err := r.db.SelectContext(ctx, &notices, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list notices: %w", err)
	}
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM notices n LEFT JOIN notice_categories c ON c.id = n.category_id WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count notices: %w", err)
	}
	return notices, total, nil
}

func noticeConditions(filter models.NoticeFilter) ([]string, []interface{}) {
	where := []string{"1=1"}
	args := []interface{}{}
	scope := filter.Scope

	if scope.PublishedOnly {
		where = append(where, "n.status = 'published'")
	}
	if scope.AuthorID != "" {
		where = append(where, fmt.Sprintf("n.created_by = $%d", len(args)+1))
		args = append(args, scope.AuthorID)
	}

	var tiers []string
	if len(scope.Visibilities) > 0 {
		values := make([]string, len(scope.Visibilities))
		for i, v := range scope.Visibilities {
			values[i] = string(v)
		}
		tiers = append(tiers, fmt.Sprintf("n.visibility = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(values))
	}
	if scope.RestrictedDept != nil && scope.RestrictedYear != nil {
		tiers = append(tiers, fmt.Sprintf("(n.visibility = 'restricted' AND n.target_department = $%d AND n.target_year = $%d)", len(args)+1, len(args)+2))
		args = append(args, *scope.RestrictedDept, *scope.RestrictedYear)
	}
	if len(tiers) > 0 {
		where = append(where, "("+strings.Join(tiers, " OR ")+")")
	}

	if filter.Category != "" {
		where = append(where, fmt.Sprintf("c.name = $%d", len(args)+1))
		args = append(args, filter.Category)
	}
	if filter.Today {
		where = append(where, "n.created_at::date = CURRENT_DATE")
	}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("n.title ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	return where, args
}

// GetByID returns a notice by identifier.
func (r *NoticeRepository) GetByID(ctx context.Context, id string) (*models.Notice, error) {
	query := noticeSelect + ` WHERE n.id = $1`
	var notice models.Notice
	if err := r.db.GetContext(ctx, &notice, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get notice: %w", err)
	}
	return &notice, nil
}

// Create inserts a new notice.
func (r *NoticeRepository) Create(ctx context.Context, notice *models.Notice) error {
	if notice.ID == "" {
		notice.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if notice.CreatedAt.IsZero() {
		notice.CreatedAt = now
	}
	notice.UpdatedAt = now
	const query = `INSERT INTO notices (id, title, summary, content, category_id, visibility, status, target_department, target_year, created_by, created_at, updated_at)
VALUES (:id, :title, :summary, :content, :category_id, :visibility, :status, :target_department, :target_year, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, notice); err != nil {
		return fmt.Errorf("create notice: %w", err)
	}
	return nil
}

// Update modifies the editable fields of a notice.
func (r *NoticeRepository) Update(ctx context.Context, notice *models.Notice) error {
	notice.UpdatedAt = time.Now().UTC()
	const query = `UPDATE notices SET title = :title, summary = :summary, content = :content, category_id = :category_id,
visibility = :visibility, target_department = :target_department, target_year = :target_year, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, notice); err != nil {
		return fmt.Errorf("update notice: %w", err)
	}
	return nil
}

// SetStatus moves a notice through its lifecycle.
func (r *NoticeRepository) SetStatus(ctx context.Context, id string, status models.NoticeStatus) error {
	const query = `UPDATE notices SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("set notice status: %w", err)
	}
	return nil
}

// Delete removes a notice. Attachments cascade.
func (r *NoticeRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM notices WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete notice: %w", err)
	}
	return nil
}

// CountByStatus returns notice totals keyed by status.
func (r *NoticeRepository) CountByStatus(ctx context.Context) (map[models.NoticeStatus]int, error) {
	const query = `SELECT status, COUNT(*) AS total FROM notices GROUP BY status`
	var rows []struct {
		Status models.NoticeStatus `db:"status"`
		Total  int                 `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count notices by status: %w", err)
	}
	counts := make(map[models.NoticeStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// AddFile records an attachment.
func (r *NoticeRepository) AddFile(ctx context.Context, file *models.NoticeFile) error {
	if file.ID == "" {
		file.ID = uuid.NewString()
	}
	if file.UploadedAt.IsZero() {
		file.UploadedAt = time.Now().UTC()
	}
	const query = `INSERT INTO notice_files (id, notice_id, original_name, stored_path, file_type, uploaded_at)
VALUES (:id, :notice_id, :original_name, :stored_path, :file_type, :uploaded_at)`
	if _, err := r.db.NamedExecContext(ctx, query, file); err != nil {
		return fmt.Errorf("add notice file: %w", err)
	}
	return nil
}

// ListFiles returns the attachments of a notice.
func (r *NoticeRepository) ListFiles(ctx context.Context, noticeID string) ([]models.NoticeFile, error) {
	query := `SELECT ` + noticeFileColumns + ` FROM notice_files WHERE notice_id = $1 ORDER BY uploaded_at`
	var files []models.NoticeFile
	if err := r.db.SelectContext(ctx, &files, query, noticeID); err != nil {
		return nil, fmt.Errorf("list notice files: %w", err)
	}
	return files, nil
}

// GetFile returns one attachment.
func (r *NoticeRepository) GetFile(ctx context.Context, id string) (*models.NoticeFile, error) {
	query := `SELECT ` + noticeFileColumns + ` FROM notice_files WHERE id = $1`
	var file models.NoticeFile
	if err := r.db.GetContext(ctx, &file, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get notice file: %w", err)
	}
	return &file, nil
}

// DeleteFile removes one attachment row.
func (r *NoticeRepository) DeleteFile(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM notice_files WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete notice file: %w", err)
	}
	return nil
}
