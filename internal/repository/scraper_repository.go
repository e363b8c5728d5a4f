package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-assistant-api/internal/models"
)

// ScraperRepository persists scrape targets and their run history.
type ScraperRepository struct {
	db *sqlx.DB
}

// NewScraperRepository creates the repository.
func NewScraperRepository(db *sqlx.DB) *ScraperRepository {
	return &ScraperRepository{db: db}
}

// CreateWebsite inserts a site. It reports false when the URL is already registered.
func (r *ScraperRepository) CreateWebsite(ctx context.Context, site *models.ScrapedWebsite) (bool, error) {
	if site.ID == "" {
		site.ID = uuid.NewString()
	}
	if site.AddedAt.IsZero() {
		site.AddedAt = time.Now().UTC()
	}
	const query = `INSERT INTO scraped_websites (id, url, name, enabled, added_at)
VALUES (:id, :url, :name, :enabled, :added_at)
ON CONFLICT (url) DO NOTHING`
	res, err := r.db.NamedExecContext(ctx, query, site)
	if err != nil {
		return false, fmt.Errorf("create website: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ListWebsites returns every site, most recently added first.
func (r *ScraperRepository) ListWebsites(ctx context.Context) ([]models.ScrapedWebsite, error) {
	const query = `SELECT id, url, name, enabled, added_at FROM scraped_websites ORDER BY added_at DESC`
	var sites []models.ScrapedWebsite
	if err := r.db.SelectContext(ctx, &sites, query); err != nil {
		return nil, fmt.Errorf("list websites: %w", err)
	}
	return sites, nil
}

// GetWebsite returns one site.
func (r *ScraperRepository) GetWebsite(ctx context.Context, id string) (*models.ScrapedWebsite, error) {
	const query = `SELECT id, url, name, enabled, added_at FROM scraped_websites WHERE id = $1`
	var site models.ScrapedWebsite
	if err := r.db.GetContext(ctx, &site, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get website: %w", err)
	}
	return &site, nil
}

// SetEnabled toggles a site.
func (r *ScraperRepository) SetEnabled(ctx context.Context, id string, enabled bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE scraped_websites SET enabled = $2 WHERE id = $1`, id, enabled)
	if err != nil {
		return fmt.Errorf("set website enabled: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteWebsite removes a site; its logs cascade.
func (r *ScraperRepository) DeleteWebsite(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM scraped_websites WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete website: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountWebsites returns the number of registered sites.
func (r *ScraperRepository) CountWebsites(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM scraped_websites`); err != nil {
		return 0, fmt.Errorf("count websites: %w", err)
	}
	return total, nil
}

// CreateLog records one scrape attempt.
func (r *ScraperRepository) CreateLog(ctx context.Context, log *models.ScrapeLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.ScrapedAt.IsZero() {
		log.ScrapedAt = time.Now().UTC()
	}
	const query = `INSERT INTO scrape_logs (id, website_id, status, extracted_text_length, pdf_links_found, scraped_at)
VALUES (:id, :website_id, :status, :extracted_text_length, :pdf_links_found, :scraped_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create scrape log: %w", err)
	}
	return nil
}

// ListLogs returns the most recent attempts with the site URL.
func (r *ScraperRepository) ListLogs(ctx context.Context, limit int) ([]models.ScrapeLog, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `SELECT l.id, l.website_id, w.url AS website_url, l.status, l.extracted_text_length, l.pdf_links_found, l.scraped_at
FROM scrape_logs l JOIN scraped_websites w ON w.id = l.website_id
ORDER BY l.scraped_at DESC LIMIT $1`
	var logs []models.ScrapeLog
	if err := r.db.SelectContext(ctx, &logs, query, limit); err != nil {
		return nil, fmt.Errorf("list scrape logs: %w", err)
	}
	return logs, nil
}
