package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-assistant-api/internal/dto"
	"github.com/noah-isme/campus-assistant-api/internal/models"
	appErrors "github.com/noah-isme/campus-assistant-api/pkg/errors"
)

const defaultNoticeCategory = "General"

// allowedNoticeExt lists the attachment types a notice accepts.
var allowedNoticeExt = map[string]bool{".pdf": true, ".png": true, ".jpg": true, ".jpeg": true}

type noticeRepository interface {
	EnsureCategory(ctx context.Context, name string) (*models.NoticeCategory, error)
	ListCategories(ctx context.Context) ([]models.NoticeCategory, error)
	List(ctx context.Context, filter models.NoticeFilter) ([]models.Notice, int, error)
	GetByID(ctx context.Context, id string) (*models.Notice, error)
	Create(ctx context.Context, notice *models.Notice) error
	Update(ctx context.Context, notice *models.Notice) error
	SetStatus(ctx context.Context, id string, status models.NoticeStatus) error
	Delete(ctx context.Context, id string) error
	AddFile(ctx context.Context, file *models.NoticeFile) error
	ListFiles(ctx context.Context, noticeID string) ([]models.NoticeFile, error)
	GetFile(ctx context.Context, id string) (*models.NoticeFile, error)
	DeleteFile(ctx context.Context, id string) error
}

type attachmentStore interface {
	SaveStream(name string, r io.Reader) (string, error)
	Delete(name string) error
}

type noticeNotifier interface {
	NoticePublished(ctx context.Context, notice *models.Notice, sentBy *string) NotificationResult
}

// NoticeListQuery holds request-level notice filters.
type NoticeListQuery struct {
	Category string
	Today    bool
	Search   string
	Page     int
	PageSize int
}

type noticeAttachment struct {
	Name string `validate:"required,notice_ext"`
}

// NoticeService implements the notice lifecycle and its visibility rules.
type NoticeService struct {
	repo      noticeRepository
	files     attachmentStore
	ingest    *IngestService
	notifier  noticeNotifier
	cache     *CacheService
	logs      *LogService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewNoticeService constructs a NoticeService.
func NewNoticeService(repo noticeRepository, files attachmentStore, ingest *IngestService, notifier noticeNotifier, cache *CacheService, logs *LogService, validate *validator.Validate, logger *zap.Logger) *NoticeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &NoticeService{
		repo:      repo,
		files:     files,
		ingest:    ingest,
		notifier:  notifier,
		cache:     cache,
		logs:      logs,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
	svc.validator.RegisterValidation("visibility", func(fl validator.FieldLevel) bool {
		return models.NoticeVisibility(fl.Field().String()).Valid()
	})
	svc.validator.RegisterValidation("notice_ext", func(fl validator.FieldLevel) bool {
		return allowedNoticeExt[strings.ToLower(filepath.Ext(fl.Field().String()))]
	})
	return svc
}

// Create stores a draft notice authored by the viewer.
func (s *NoticeService) Create(ctx context.Context, viewer models.Viewer, req dto.NoticeRequest) (*models.Notice, error) {
	notice := &models.Notice{Status: models.NoticeStatusDraft, CreatedBy: viewer.UserID}
	if err := s.apply(ctx, notice, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, notice); err != nil {
		s.logs.Event(ctx, models.LogModuleNotice, "create error", "error", err, "title", req.Title, "author_id", viewer.UserID)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create notice")
	}
	return notice, nil
}

// Update edits a notice owned by the viewer, or any notice for admins.
func (s *NoticeService) Update(ctx context.Context, viewer models.Viewer, id string, req dto.NoticeRequest) (*models.Notice, error) {
	notice, err := s.managed(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, notice, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, notice); err != nil {
		s.logs.Event(ctx, models.LogModuleNotice, "update error", "error", err, "notice_id", id)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update notice")
	}
	if notice.Published() {
		s.invalidate(ctx)
	}
	return notice, nil
}

func (s *NoticeService) apply(ctx context.Context, notice *models.Notice, req dto.NoticeRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notice payload")
	}
	visibility := models.NoticeVisibility(req.Visibility)
	dept := trimmedOrNil(req.TargetDepartment)
	if visibility == models.VisibilityRestricted && (dept == nil || req.TargetYear == nil) {
		return appErrors.Clone(appErrors.ErrValidation, "Restricted requires department and year")
	}

	categoryName := strings.TrimSpace(req.Category)
	if categoryName == "" {
		categoryName = defaultNoticeCategory
	}
	category, err := s.repo.EnsureCategory(ctx, categoryName)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve category")
	}

	notice.Title = strings.TrimSpace(req.Title)
	notice.Summary = optionalText(req.Summary)
	notice.Content = optionalText(req.Content)
	notice.CategoryID = &category.ID
	notice.CategoryName = &category.Name
	notice.Visibility = visibility
	notice.TargetDepartment = dept
	notice.TargetYear = req.TargetYear
	return nil
}

// AttachFile stores an upload for a notice the viewer manages.
func (s *NoticeService) AttachFile(ctx context.Context, viewer models.Viewer, noticeID, originalName string, body io.Reader) (*models.NoticeFile, error) {
	notice, err := s.managed(ctx, viewer, noticeID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(noticeAttachment{Name: originalName}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnsupportedFile.Code, appErrors.ErrUnsupportedFile.Status, "invalid type")
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	storedName := fmt.Sprintf("%s_%d%s", notice.ID, s.now().UTC().Unix(), ext)
	path, err := s.files.SaveStream(storedName, body)
	if err != nil {
		s.logs.Event(ctx, models.LogModuleNotice, "upload error", "error", err, "notice_id", notice.ID, "file", originalName)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store file")
	}

	file := &models.NoticeFile{
		NoticeID:     notice.ID,
		OriginalName: filepath.Base(originalName),
		StoredPath:   path,
		FileType:     ext,
	}
	if err := s.repo.AddFile(ctx, file); err != nil {
		if rmErr := s.files.Delete(path); rmErr != nil {
			s.logger.Warn("failed to remove orphaned upload", zap.String("path", path), zap.Error(rmErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record file")
	}
	return file, nil
}

// DeleteFile removes one attachment from disk and the database.
func (s *NoticeService) DeleteFile(ctx context.Context, viewer models.Viewer, noticeID, fileID string) error {
	notice, err := s.managed(ctx, viewer, noticeID)
	if err != nil {
		return err
	}
	file, err := s.repo.GetFile(ctx, fileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "file not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load file")
	}
	if file.NoticeID != notice.ID {
		return appErrors.Clone(appErrors.ErrNotFound, "file not found")
	}
	s.removeFromDisk(ctx, notice.ID, file)
	if err := s.repo.DeleteFile(ctx, file.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete file")
	}
	return nil
}

// Publish marks the notice published, feeds its text and PDF attachments to
// the chatbot corpus and optionally notifies students. Ingestion and mail
// failures are logged and do not fail the publish.
func (s *NoticeService) Publish(ctx context.Context, viewer models.Viewer, id string, sendEmail bool) (*dto.PublishNoticeResponse, error) {
	notice, err := s.managed(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetStatus(ctx, notice.ID, models.NoticeStatusPublished); err != nil {
		s.logs.Event(ctx, models.LogModuleNotice, "publish error", "error", err, "notice_id", notice.ID)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to publish notice")
	}
	notice.Status = models.NoticeStatusPublished

	visibility := DocumentVisibilityFor(notice.Visibility)
	sourceID := notice.ID
	text := fmt.Sprintf("%s\n%s\n%s", notice.Title, deref0(notice.Summary), deref0(notice.Content))
	if _, err := s.ingest.IngestText(ctx, models.SourceNotice, &sourceID, text, visibility); err != nil {
		s.logger.Warn("notice ingestion failed", zap.String("notice_id", notice.ID), zap.Error(err))
	}

	files, err := s.repo.ListFiles(ctx, notice.ID)
	if err != nil {
		s.logger.Warn("failed to list notice files for ingestion", zap.String("notice_id", notice.ID), zap.Error(err))
	}
	for _, f := range files {
		if f.FileType != ".pdf" {
			continue
		}
		if _, err := s.ingest.IngestPDF(ctx, models.SourceNoticePDF, &sourceID, f.StoredPath, visibility); err != nil {
			s.logger.Warn("notice pdf ingestion failed", zap.String("file_id", f.ID), zap.Error(err))
		}
	}

	resp := &dto.PublishNoticeResponse{NoticeID: notice.ID, Status: string(notice.Status)}
	if sendEmail && s.notifier != nil {
		author := notice.CreatedBy
		result := s.notifier.NoticePublished(ctx, notice, &author)
		resp.Attempted, resp.Succeeded = result.Attempted, result.Succeeded
	}

	s.invalidate(ctx)
	return resp, nil
}

// Delete removes a notice and its files. File removal failures are logged as
// warnings.
func (s *NoticeService) Delete(ctx context.Context, viewer models.Viewer, id string) error {
	notice, err := s.managed(ctx, viewer, id)
	if err != nil {
		return err
	}
	files, err := s.repo.ListFiles(ctx, notice.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load notice files")
	}
	for i := range files {
		s.removeFromDisk(ctx, notice.ID, &files[i])
	}
	if err := s.repo.Delete(ctx, notice.ID); err != nil {
		s.logs.Event(ctx, models.LogModuleNotice, "delete error", "error", err, "notice_id", notice.ID, "owner_id", viewer.UserID)
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete notice")
	}
	if notice.Published() {
		s.invalidate(ctx)
	}
	return nil
}

// Get returns a notice with its attachments if the viewer may see it. Notices
// outside the viewer's scope are reported as not found.
func (s *NoticeService) Get(ctx context.Context, viewer models.Viewer, id string) (*models.Notice, error) {
	notice, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanViewNotice(viewer, notice) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "notice not found")
	}
	files, err := s.repo.ListFiles(ctx, notice.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load notice files")
	}
	notice.Files = files
	return notice, nil
}

type cachedNoticePage struct {
	Notices []models.Notice `json:"notices"`
	Total   int             `json:"total"`
}

// List returns the notices visible to the viewer. The unfiltered guest listing
// is cached.
func (s *NoticeService) List(ctx context.Context, viewer models.Viewer, q NoticeListQuery) ([]models.Notice, *models.Pagination, error) {
	filter := models.NoticeFilter{
		Scope:    NoticeScopeFor(viewer),
		Category: strings.TrimSpace(q.Category),
		Today:    q.Today,
		Search:   strings.TrimSpace(q.Search),
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	cacheable := viewer.IsGuest() && filter.Category == "" && !filter.Today && filter.Search == ""
	key := fmt.Sprintf("%s:p%d:s%d", cacheKeyPublicNotices, filter.Page, filter.PageSize)
	if cacheable {
		var page cachedNoticePage
		if hit, _ := s.cache.Get(ctx, key, &page); hit {
			return page.Notices, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: page.Total}, nil
		}
	}

	notices, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notices")
	}
	if notices == nil {
		notices = []models.Notice{}
	}
	if cacheable {
		_ = s.cache.Set(ctx, key, cachedNoticePage{Notices: notices, Total: total}, 0)
	}
	return notices, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Categories lists all notice categories.
func (s *NoticeService) Categories(ctx context.Context) ([]models.NoticeCategory, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list categories")
	}
	return categories, nil
}

func (s *NoticeService) load(ctx context.Context, id string) (*models.Notice, error) {
	notice, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "notice not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load notice")
	}
	return notice, nil
}

func (s *NoticeService) managed(ctx context.Context, viewer models.Viewer, id string) (*models.Notice, error) {
	notice, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanManageNotice(viewer, notice) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "forbidden")
	}
	return notice, nil
}

func (s *NoticeService) removeFromDisk(ctx context.Context, noticeID string, file *models.NoticeFile) {
	if file.StoredPath == "" {
		return
	}
	if err := s.files.Delete(file.StoredPath); err != nil {
		s.logger.Warn("failed to remove notice file", zap.String("file_id", file.ID), zap.Error(err))
		s.logs.Event(ctx, models.LogModuleNotice, "file delete warn", "error", err, "notice_id", noticeID, "file_id", file.ID)
	}
}

func (s *NoticeService) invalidate(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, cacheKeyPublicNotices+"*")
	_ = s.cache.Invalidate(ctx, cacheKeyAdminDashboard)
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

func optionalText(v string) *string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}

func deref0(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
