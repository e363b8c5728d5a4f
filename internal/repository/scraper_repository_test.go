package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-assistant-api/internal/models"
)

func TestScraperRepositoryCreateWebsiteDuplicate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScraperRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (url) DO NOTHING")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := repo.CreateWebsite(context.Background(), &models.ScrapedWebsite{URL: "https://college.edu/news", Enabled: true})
	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScraperRepositoryListLogs(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScraperRepository(db)

	url := "https://college.edu/news"
	rows := sqlmock.NewRows([]string{"id", "website_id", "website_url", "status", "extracted_text_length", "pdf_links_found", "scraped_at"}).
		AddRow("l1", "w1", url, "success", 1200, 2, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("JOIN scraped_websites w ON w.id = l.website_id")).
		WithArgs(50).
		WillReturnRows(rows)

	logs, err := repo.ListLogs(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, url, *logs[0].WebsiteURL)
	assert.Equal(t, 2, logs[0].PDFLinksFound)
}

func TestScraperRepositorySetEnabledMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScraperRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE scraped_websites SET enabled = $2 WHERE id = $1")).
		WithArgs("missing", false).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetEnabled(context.Background(), "missing", false)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}
