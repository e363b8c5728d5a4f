package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-assistant-api/internal/dto"
	"github.com/noah-isme/campus-assistant-api/internal/models"
	appErrors "github.com/noah-isme/campus-assistant-api/pkg/errors"
	"github.com/noah-isme/campus-assistant-api/pkg/storage"
)

type mockNoticeRepo struct {
	notices    map[string]*models.Notice
	files      map[string]*models.NoticeFile
	categories map[string]*models.NoticeCategory
	lastFilter models.NoticeFilter
	seq        int
}

func newMockNoticeRepo() *mockNoticeRepo {
	return &mockNoticeRepo{
		notices:    map[string]*models.Notice{},
		files:      map[string]*models.NoticeFile{},
		categories: map[string]*models.NoticeCategory{},
	}
}

func (m *mockNoticeRepo) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s%d", prefix, m.seq)
}

func (m *mockNoticeRepo) EnsureCategory(ctx context.Context, name string) (*models.NoticeCategory, error) {
	if c, ok := m.categories[name]; ok {
		return c, nil
	}
	c := &models.NoticeCategory{ID: m.nextID("c"), Name: name}
	m.categories[name] = c
	return c, nil
}

func (m *mockNoticeRepo) ListCategories(ctx context.Context) ([]models.NoticeCategory, error) {
	out := make([]models.NoticeCategory, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockNoticeRepo) List(ctx context.Context, filter models.NoticeFilter) ([]models.Notice, int, error) {
	m.lastFilter = filter
	var out []models.Notice
	for _, n := range m.notices {
		out = append(out, *n)
	}
	return out, len(out), nil
}

func (m *mockNoticeRepo) GetByID(ctx context.Context, id string) (*models.Notice, error) {
	n, ok := m.notices[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *n
	return &clone, nil
}

func (m *mockNoticeRepo) Create(ctx context.Context, notice *models.Notice) error {
	notice.ID = m.nextID("n")
	clone := *notice
	m.notices[notice.ID] = &clone
	return nil
}

func (m *mockNoticeRepo) Update(ctx context.Context, notice *models.Notice) error {
	clone := *notice
	m.notices[notice.ID] = &clone
	return nil
}

func (m *mockNoticeRepo) SetStatus(ctx context.Context, id string, status models.NoticeStatus) error {
	m.notices[id].Status = status
	return nil
}

func (m *mockNoticeRepo) Delete(ctx context.Context, id string) error {
	delete(m.notices, id)
	for fid, f := range m.files {
		if f.NoticeID == id {
			delete(m.files, fid)
		}
	}
	return nil
}

func (m *mockNoticeRepo) AddFile(ctx context.Context, file *models.NoticeFile) error {
	file.ID = m.nextID("f")
	clone := *file
	m.files[file.ID] = &clone
	return nil
}

func (m *mockNoticeRepo) ListFiles(ctx context.Context, noticeID string) ([]models.NoticeFile, error) {
	var out []models.NoticeFile
	for _, f := range m.files {
		if f.NoticeID == noticeID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (m *mockNoticeRepo) GetFile(ctx context.Context, id string) (*models.NoticeFile, error) {
	f, ok := m.files[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *f
	return &clone, nil
}

func (m *mockNoticeRepo) DeleteFile(ctx context.Context, id string) error {
	delete(m.files, id)
	return nil
}

type noticeFixture struct {
	svc   *NoticeService
	repo  *mockNoticeRepo
	docs  *mockDocumentRepo
	logs  *mockLogRepo
	store *storage.LocalStorage
}

func newNoticeFixture(t *testing.T, recipients []models.User) *noticeFixture {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	repo := newMockNoticeRepo()
	docs := newMockDocumentRepo()
	logs := &mockLogRepo{}
	logSvc := NewLogService(logs, zap.NewNop())
	ingest := NewIngestService(docs, NewPDFService(logSvc, zap.NewNop()), nil, zap.NewNop())
	notifier := NewNotificationService(&mockRecipientRepo{users: recipients}, &stubMailer{configured: true}, logSvc, nil, "college.edu", zap.NewNop())
	svc := NewNoticeService(repo, store, ingest, notifier, nil, logSvc, validator.New(), zap.NewNop())
	svc.now = func() time.Time { return time.Unix(1700000000, 0) }
	return &noticeFixture{svc: svc, repo: repo, docs: docs, logs: logs, store: store}
}

var testModerator = models.Viewer{UserID: "mod-1", LoginID: "mod", Role: models.RoleModerator}

func TestNoticeCreateRestrictedRequiresTargets(t *testing.T) {
	fx := newNoticeFixture(t, nil)

	_, err := fx.svc.Create(context.Background(), testModerator, dto.NoticeRequest{
		Title:            "Lab exam",
		Visibility:       "restricted",
		TargetDepartment: strPtr("CSE"),
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "Restricted requires department and year", appErr.Message)
	assert.Empty(t, fx.repo.notices)
}

func TestNoticeCreateRejectsUnknownVisibility(t *testing.T) {
	fx := newNoticeFixture(t, nil)

	_, err := fx.svc.Create(context.Background(), testModerator, dto.NoticeRequest{Title: "x", Visibility: "secret"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestNoticeCreateDefaultsCategoryAndDraft(t *testing.T) {
	fx := newNoticeFixture(t, nil)

	notice, err := fx.svc.Create(context.Background(), testModerator, dto.NoticeRequest{Title: " Holiday ", Visibility: "public", Content: "Closed Monday"})
	require.NoError(t, err)
	assert.Equal(t, "Holiday", notice.Title)
	assert.Equal(t, models.NoticeStatusDraft, notice.Status)
	assert.Equal(t, "General", *notice.CategoryName)
	assert.Equal(t, "mod-1", notice.CreatedBy)
}

func TestNoticePublishIdenticalTextIngestsOnce(t *testing.T) {
	fx := newNoticeFixture(t, nil)
	ctx := context.Background()
	req := dto.NoticeRequest{Title: "Exam Schedule", Summary: "Semester end", Content: "See attached timetable", Visibility: "student"}

	first, err := fx.svc.Create(ctx, testModerator, req)
	require.NoError(t, err)
	second, err := fx.svc.Create(ctx, testModerator, req)
	require.NoError(t, err)

	_, err = fx.svc.Publish(ctx, testModerator, first.ID, false)
	require.NoError(t, err)
	_, err = fx.svc.Publish(ctx, testModerator, second.ID, false)
	require.NoError(t, err)

	require.Len(t, fx.docs.byHash, 1)
	doc := fx.docs.byHash[fx.docs.order[0]]
	assert.Equal(t, models.DocumentStudent, doc.Visibility)
	assert.Equal(t, first.ID, *doc.SourceID)
	assert.Empty(t, fx.logs.emails)
}

func TestNoticePublishWithEmailAndNoRecipients(t *testing.T) {
	fx := newNoticeFixture(t, nil)
	ctx := context.Background()

	notice, err := fx.svc.Create(ctx, testModerator, dto.NoticeRequest{Title: "Holiday", Visibility: "public"})
	require.NoError(t, err)

	resp, err := fx.svc.Publish(ctx, testModerator, notice.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "published", resp.Status)
	assert.Zero(t, resp.Attempted)
	assert.Zero(t, resp.Succeeded)

	require.Len(t, fx.logs.emails, 1)
	assert.Zero(t, fx.logs.emails[0].Attempted)
	assert.Zero(t, fx.logs.emails[0].Succeeded)
}

func TestNoticePublishByOtherModeratorForbidden(t *testing.T) {
	fx := newNoticeFixture(t, nil)
	ctx := context.Background()
	notice, err := fx.svc.Create(ctx, testModerator, dto.NoticeRequest{Title: "Holiday", Visibility: "public"})
	require.NoError(t, err)

	other := models.Viewer{UserID: "mod-2", Role: models.RoleModerator}
	_, err = fx.svc.Publish(ctx, other, notice.ID, false)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, appErrors.FromError(err).Status)

	admin := models.Viewer{UserID: "a1", Role: models.RoleAdmin}
	_, err = fx.svc.Publish(ctx, admin, notice.ID, false)
	require.NoError(t, err)
}

func TestNoticeAttachFile(t *testing.T) {
	fx := newNoticeFixture(t, nil)
	ctx := context.Background()
	notice, err := fx.svc.Create(ctx, testModerator, dto.NoticeRequest{Title: "Timetable", Visibility: "student"})
	require.NoError(t, err)

	_, err = fx.svc.AttachFile(ctx, testModerator, notice.ID, "payload.exe", strings.NewReader("MZ"))
	require.Error(t, err)
	assert.Equal(t, http.StatusUnsupportedMediaType, appErrors.FromError(err).Status)

	file, err := fx.svc.AttachFile(ctx, testModerator, notice.ID, "Timetable.PDF", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, ".pdf", file.FileType)
	assert.Equal(t, "Timetable.PDF", file.OriginalName)
	assert.Equal(t, filepath.Join(fx.store.Root(), notice.ID+"_1700000000.pdf"), file.StoredPath)
	_, statErr := os.Stat(file.StoredPath)
	assert.NoError(t, statErr)
}

func TestNoticeDeleteRemovesFiles(t *testing.T) {
	fx := newNoticeFixture(t, nil)
	ctx := context.Background()
	notice, err := fx.svc.Create(ctx, testModerator, dto.NoticeRequest{Title: "Timetable", Visibility: "public"})
	require.NoError(t, err)
	file, err := fx.svc.AttachFile(ctx, testModerator, notice.ID, "a.png", strings.NewReader("png"))
	require.NoError(t, err)

	require.NoError(t, fx.svc.Delete(ctx, testModerator, notice.ID))
	assert.Empty(t, fx.repo.notices)
	_, statErr := os.Stat(file.StoredPath)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestNoticeGetHidesRestrictedMismatch(t *testing.T) {
	fx := newNoticeFixture(t, nil)
	ctx := context.Background()
	notice, err := fx.svc.Create(ctx, testModerator, dto.NoticeRequest{Title: "Lab", Visibility: "restricted", TargetDepartment: strPtr("CSE"), TargetYear: intPtr(3)})
	require.NoError(t, err)
	_, err = fx.svc.Publish(ctx, testModerator, notice.ID, false)
	require.NoError(t, err)

	_, err = fx.svc.Get(ctx, studentViewer("CSE", 2), notice.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)

	got, err := fx.svc.Get(ctx, studentViewer("CSE", 3), notice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lab", got.Title)
}

func TestNoticeListAppliesViewerScope(t *testing.T) {
	fx := newNoticeFixture(t, nil)

	_, page, err := fx.svc.List(context.Background(), studentViewer("CSE", 3), NoticeListQuery{Category: "Exams", Today: true})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PageSize)
	assert.True(t, fx.repo.lastFilter.Scope.PublishedOnly)
	assert.Equal(t, "CSE", *fx.repo.lastFilter.Scope.RestrictedDept)
	assert.Equal(t, "Exams", fx.repo.lastFilter.Category)
	assert.True(t, fx.repo.lastFilter.Today)
}
