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

var faqColumnNames = []string{"id", "question", "answer", "category", "target_department", "status", "asked_by", "answered_by", "created_at", "answered_at"}

func TestFAQRepositoryListModeratorQueue(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFAQRepository(db)

	status := models.FAQStatusPending
	dept := "CSE"
	rows := sqlmock.NewRows(faqColumnNames).
		AddRow("f1", "When is the exam?", nil, nil, "CSE", "pending", "s1", nil, time.Now(), nil)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND ((status = $1 AND target_department = $2) OR asked_by = $3) ORDER BY created_at DESC LIMIT 100")).
		WithArgs(status, dept, "mod-1").
		WillReturnRows(rows)

	faqs, err := repo.List(context.Background(), models.FAQFilter{Status: &status, Department: &dept, AskedBy: "mod-1"})
	require.NoError(t, err)
	require.Len(t, faqs, 1)
	assert.Equal(t, models.FAQStatusPending, faqs[0].Status)
	assert.Nil(t, faqs[0].Answer)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFAQRepositoryAnswerAlreadyAnswered(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFAQRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND status = 'pending'")).
		WithArgs("f1", "Next Monday", "mod-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	by := "mod-1"
	err := repo.Answer(context.Background(), "f1", "Next Monday", &by, time.Now())
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFAQRepositoryCountByStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFAQRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT status, COUNT(*) AS total FROM faqs GROUP BY status")).
		WillReturnRows(sqlmock.NewRows([]string{"status", "total"}).AddRow("pending", 2).AddRow("answered", 5))

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, counts[models.FAQStatusPending])
	assert.Equal(t, 5, counts[models.FAQStatusAnswered])
}
