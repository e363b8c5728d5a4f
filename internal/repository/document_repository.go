package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-assistant-api/internal/models"
)

// DocumentRepository stores the content-addressed chatbot corpus.
type DocumentRepository struct {
	db *sqlx.DB
}

// NewDocumentRepository creates the repository.
func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// InsertIfAbsent stores doc unless a row with the same content hash exists.
// It reports whether a row was inserted.
func (r *DocumentRepository) InsertIfAbsent(ctx context.Context, doc *models.ChatbotDocument) (bool, error) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO chatbot_documents (id, source_type, source_id, content, content_hash, visibility, created_at)
VALUES (:id, :source_type, :source_id, :content, :content_hash, :visibility, :created_at)
ON CONFLICT (content_hash) DO NOTHING`
	res, err := r.db.NamedExecContext(ctx, query, doc)
	if err != nil {
		return false, fmt.Errorf("insert chatbot document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert chatbot document: %w", err)
	}
	return n > 0, nil
}

// List returns documents, newest first.
func (r *DocumentRepository) List(ctx context.Context, filter models.DocumentFilter) ([]models.ChatbotDocument, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.SourceType != nil {
		where = append(where, fmt.Sprintf("source_type = $%d", len(args)+1))
		args = append(args, *filter.SourceType)
	}
	if filter.Visibility != nil {
		where = append(where, fmt.Sprintf("visibility = $%d", len(args)+1))
		args = append(args, *filter.Visibility)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := fmt.Sprintf(`SELECT id, source_type, source_id, content, content_hash, visibility, created_at
FROM chatbot_documents WHERE %s ORDER BY created_at DESC LIMIT %d`, strings.Join(where, " AND "), limit)
	var docs []models.ChatbotDocument
	if err := r.db.SelectContext(ctx, &docs, query, args...); err != nil {
		return nil, fmt.Errorf("list chatbot documents: %w", err)
	}
	return docs, nil
}

// Count returns the corpus size.
func (r *DocumentRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM chatbot_documents`); err != nil {
		return 0, fmt.Errorf("count chatbot documents: %w", err)
	}
	return total, nil
}
