package service

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-assistant-api/internal/dto"
	"github.com/noah-isme/campus-assistant-api/internal/models"
	appErrors "github.com/noah-isme/campus-assistant-api/pkg/errors"
	"github.com/noah-isme/campus-assistant-api/pkg/textnorm"
)

type mockFAQRepo struct {
	faqs       map[string]*models.FAQ
	lastFilter models.FAQFilter
	seq        int
}

func newMockFAQRepo() *mockFAQRepo {
	return &mockFAQRepo{faqs: map[string]*models.FAQ{}}
}

func (m *mockFAQRepo) Create(ctx context.Context, faq *models.FAQ) error {
	m.seq++
	faq.ID = fmt.Sprintf("f%d", m.seq)
	clone := *faq
	m.faqs[faq.ID] = &clone
	return nil
}

func (m *mockFAQRepo) GetByID(ctx context.Context, id string) (*models.FAQ, error) {
	f, ok := m.faqs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *f
	return &clone, nil
}

func (m *mockFAQRepo) Answer(ctx context.Context, id, answer string, answeredBy *string, at time.Time) error {
	f := m.faqs[id]
	if f.Status != models.FAQStatusPending {
		return sql.ErrNoRows
	}
	f.Answer, f.AnsweredBy, f.AnsweredAt, f.Status = &answer, answeredBy, &at, models.FAQStatusAnswered
	return nil
}

func (m *mockFAQRepo) Delete(ctx context.Context, id string) error {
	delete(m.faqs, id)
	return nil
}

func (m *mockFAQRepo) List(ctx context.Context, filter models.FAQFilter) ([]models.FAQ, error) {
	m.lastFilter = filter
	return nil, nil
}

func newTestFAQService(repo *mockFAQRepo, docs *mockDocumentRepo) *FAQService {
	logSvc := NewLogService(&mockLogRepo{}, zap.NewNop())
	ingest := NewIngestService(docs, NewPDFService(logSvc, zap.NewNop()), nil, zap.NewNop())
	return NewFAQService(repo, ingest, nil, logSvc, nil, zap.NewNop())
}

func TestFAQSubmitAndAnswerIngests(t *testing.T) {
	repo := newMockFAQRepo()
	docs := newMockDocumentRepo()
	svc := newTestFAQService(repo, docs)
	ctx := context.Background()

	faq, err := svc.Submit(ctx, studentViewer("CSE", 3), dto.SubmitFAQRequest{Question: "When is the fest?", Category: "Events"})
	require.NoError(t, err)
	assert.Equal(t, models.FAQStatusPending, faq.Status)
	assert.Equal(t, "s1", *faq.AskedBy)

	answered, err := svc.Answer(ctx, testModerator, faq.ID, dto.AnswerFAQRequest{Answer: " In March "})
	require.NoError(t, err)
	assert.Equal(t, models.FAQStatusAnswered, answered.Status)
	assert.Equal(t, "In March", *answered.Answer)
	assert.Equal(t, "mod-1", *answered.AnsweredBy)
	require.NotNil(t, answered.AnsweredAt)

	require.Len(t, docs.byHash, 1)
	doc := docs.byHash[textnorm.Hash("Q: When is the fest?\nA: In March")]
	assert.Equal(t, models.SourceFAQ, doc.SourceType)
	assert.Equal(t, models.DocumentPublic, doc.Visibility)
}

func TestFAQAnswerTwiceConflicts(t *testing.T) {
	repo := newMockFAQRepo()
	svc := newTestFAQService(repo, newMockDocumentRepo())
	ctx := context.Background()

	faq, err := svc.Create(ctx, testModerator, dto.CreateFAQRequest{Question: "Canteen hours?", Answer: "8 to 6"})
	require.NoError(t, err)
	assert.Equal(t, models.FAQStatusAnswered, faq.Status)

	_, err = svc.Answer(ctx, testModerator, faq.ID, dto.AnswerFAQRequest{Answer: "9 to 5"})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, appErrors.FromError(err).Status)
	assert.Equal(t, "8 to 6", *repo.faqs[faq.ID].Answer)
}

func TestFAQAnswerRequiresText(t *testing.T) {
	svc := newTestFAQService(newMockFAQRepo(), newMockDocumentRepo())
	_, err := svc.Answer(context.Background(), testModerator, "f1", dto.AnswerFAQRequest{Answer: "   "})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}

func TestFAQListForModerationScopesDepartment(t *testing.T) {
	repo := newMockFAQRepo()
	svc := newTestFAQService(repo, newMockDocumentRepo())
	dept := "ECE"

	faqs, err := svc.ListForModeration(context.Background(), models.Viewer{UserID: "mod-9", Role: models.RoleModerator, Department: &dept})
	require.NoError(t, err)
	assert.NotNil(t, faqs)
	assert.Equal(t, models.FAQStatusPending, *repo.lastFilter.Status)
	assert.Equal(t, "ECE", *repo.lastFilter.Department)
	assert.Equal(t, "mod-9", repo.lastFilter.AskedBy)

	_, err = svc.ListAnswered(context.Background(), " Exams ", "date")
	require.NoError(t, err)
	assert.Equal(t, models.FAQStatusAnswered, *repo.lastFilter.Status)
	assert.Equal(t, "Exams", repo.lastFilter.Category)
	assert.Equal(t, "date", repo.lastFilter.Search)
}

func TestFAQDeleteMissing(t *testing.T) {
	svc := newTestFAQService(newMockFAQRepo(), newMockDocumentRepo())
	err := svc.Delete(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestFAQChangesInvalidateAdminDashboard(t *testing.T) {
	repo := newMockFAQRepo()
	svc := newTestFAQService(repo, newMockDocumentRepo())
	store := newMemoryCache()
	svc.cache = NewCacheService(store, nil, time.Minute, zap.NewNop(), true)
	ctx := context.Background()
	prime := func() {
		require.NoError(t, svc.cache.Set(ctx, cacheKeyAdminDashboard, map[string]int{"pending_faqs": 0}, time.Minute))
	}

	prime()
	faq, err := svc.Submit(ctx, studentViewer("CSE", 3), dto.SubmitFAQRequest{Question: "Is the library open on Sunday?"})
	require.NoError(t, err)
	assert.NotContains(t, store.entries, cacheKeyAdminDashboard)

	prime()
	require.NoError(t, svc.Delete(ctx, faq.ID))
	assert.NotContains(t, store.entries, cacheKeyAdminDashboard)
}
