package service

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-assistant-api/internal/models"
	appErrors "github.com/noah-isme/campus-assistant-api/pkg/errors"
)

type fileRepository interface {
	GetFile(ctx context.Context, id string) (*models.NoticeFile, error)
	GetByID(ctx context.Context, id string) (*models.Notice, error)
}

type storageRoot interface {
	Contains(path string) bool
}

// DownloadRequest carries request metadata recorded with every download event.
type DownloadRequest struct {
	FileID string
	Method string
	IP     string
}

// FileDownload points at a servable attachment.
type FileDownload struct {
	Path string
	Name string
}

// FileService authorizes attachment downloads.
type FileService struct {
	repo   fileRepository
	root   storageRoot
	logs   *LogService
	logger *zap.Logger
}

// NewFileService constructs a FileService rooted at the notice upload directory.
func NewFileService(repo fileRepository, root storageRoot, logs *LogService, logger *zap.Logger) *FileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileService{repo: repo, root: root, logs: logs, logger: logger}
}

// Resolve checks that viewer may download the file and that it is on disk.
// Every denial is recorded as a files event before the error is returned.
func (s *FileService) Resolve(ctx context.Context, viewer models.Viewer, req DownloadRequest) (*FileDownload, error) {
	var noticeID *string
	event := func(action string, extra ...interface{}) {
		kv := []interface{}{"file_id", req.FileID, "notice_id", noticeID, "user", viewerLogin(viewer), "role", viewerRole(viewer)}
		kv = append(kv, extra...)
		kv = append(kv, "method", req.Method, "ip", req.IP)
		s.logs.Event(ctx, models.LogModuleFiles, action, kv...)
	}

	file, err := s.repo.GetFile(ctx, req.FileID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		event("error", "error", err.Error())
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load file")
	}
	var notice *models.Notice
	if file != nil {
		noticeID = &file.NoticeID
		notice, err = s.repo.GetByID(ctx, file.NoticeID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			event("error", "error", err.Error())
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load notice")
		}
	}
	if file == nil || notice == nil || !notice.Published() {
		event("not_found_or_unpublished")
		return nil, appErrors.Clone(appErrors.ErrNotFound, "file not found")
	}

	if !CanDownloadAttachment(viewer, notice) {
		event("forbidden_download")
		return nil, appErrors.Clone(appErrors.ErrForbidden, "login as a student to download this file")
	}

	if !s.root.Contains(file.StoredPath) {
		event("blocked_path_traversal")
		return nil, appErrors.Clone(appErrors.ErrForbidden, "file is outside the upload directory")
	}

	info, err := os.Stat(file.StoredPath)
	if err != nil {
		if os.IsNotExist(err) {
			event("missing_file_on_disk")
			return nil, appErrors.Clone(appErrors.ErrNotFound, "file not found")
		}
		event("error", "error", err.Error())
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read file")
	}
	if info.IsDir() {
		event("missing_file_on_disk")
		return nil, appErrors.Clone(appErrors.ErrNotFound, "file not found")
	}

	name := strings.TrimSpace(file.OriginalName)
	if name == "" {
		name = filepath.Base(file.StoredPath)
	}
	return &FileDownload{Path: file.StoredPath, Name: name}, nil
}

func viewerLogin(v models.Viewer) string {
	if v.IsGuest() {
		return "guest"
	}
	return v.LoginID
}

func viewerRole(v models.Viewer) string {
	if v.IsGuest() {
		return "guest"
	}
	return strings.ToLower(string(v.Role))
}
