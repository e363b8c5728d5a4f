package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-assistant-api/internal/dto"
	"github.com/noah-isme/campus-assistant-api/internal/models"
	appErrors "github.com/noah-isme/campus-assistant-api/pkg/errors"
	"github.com/noah-isme/campus-assistant-api/pkg/export"
	"github.com/noah-isme/campus-assistant-api/pkg/storage"
)

// Export datasets.
const (
	ExportSystemLogs = "system"
	ExportEmailLogs  = "email"
	ExportScrapeLogs = "scrape"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type scrapeLogLister interface {
	ListLogs(ctx context.Context, limit int) ([]models.ScrapeLog, error)
}

type tableRenderer interface {
	Render(table export.Table) ([]byte, error)
	ContentType() string
	Extension() string
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	FileName  string
	Token     string
	URL       string
	Rows      int
	ExpiresAt time.Time
}

// ExportDownload is an opened export ready to stream.
type ExportDownload struct {
	File        *os.File
	Name        string
	ContentType string
}

// ExportService renders log tables to CSV or PDF and hands out signed links.
type ExportService struct {
	logs      *LogService
	scrapes   scrapeLogLister
	storage   fileStorage
	renderers map[string]tableRenderer
	signer    *storage.SignedURLSigner
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ExportConfig
	now       func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(logs *LogService, scrapes scrapeLogLister, files fileStorage, signer *storage.SignedURLSigner, validate *validator.Validate, logger *zap.Logger, cfg ExportConfig) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		logs:    logs,
		scrapes: scrapes,
		storage: files,
		renderers: map[string]tableRenderer{
			"csv": export.NewCSVExporter(),
			"pdf": export.NewPDFExporter(),
		},
		signer:    signer,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Generate renders the requested log table and stores it under the export dir.
func (s *ExportService) Generate(ctx context.Context, req dto.ExportRequest) (*ExportResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}
	renderer := s.renderers[req.Format]

	table, err := s.buildTable(ctx, req)
	if err != nil {
		return nil, err
	}
	payload, err := renderer.Render(table)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	id := uuid.NewString()
	name := fmt.Sprintf("%s_logs_%s_%s%s", req.Dataset, s.now().UTC().Format("20060102_150405"), id[:8], renderer.Extension())
	if _, err := s.storage.Save(name, payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}

	token, expiresAt, err := s.signer.Generate(id, name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export")
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	s.logger.Info("export generated", zap.String("dataset", req.Dataset), zap.String("file", name), zap.Int("rows", len(table.Rows)))
	return &ExportResult{
		FileName:  name,
		Token:     token,
		URL:       fmt.Sprintf("%s/exports/%s", prefix, token),
		Rows:      len(table.Rows),
		ExpiresAt: expiresAt,
	}, nil
}

// Open validates a download token and opens the referenced export.
func (s *ExportService) Open(token string) (*ExportDownload, error) {
	_, name, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid or expired link")
	}
	file, err := s.storage.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export")
	}
	contentType := "application/octet-stream"
	for _, r := range s.renderers {
		if strings.EqualFold(filepath.Ext(name), r.Extension()) {
			contentType = r.ContentType()
		}
	}
	return &ExportDownload{File: file, Name: name, ContentType: contentType}, nil
}

// Cleanup removes exports older than ttl, or the configured TTL when ttl <= 0.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildTable(ctx context.Context, req dto.ExportRequest) (export.Table, error) {
	switch req.Dataset {
	case ExportSystemLogs:
		rows, err := s.logs.SystemLogs(ctx, models.LogFilter{Module: req.Module, Limit: req.Limit})
		if err != nil {
			return export.Table{}, err
		}
		table := export.Table{Title: "System Logs", Columns: []string{"Time", "Module", "Message"}}
		for _, r := range rows {
			table.Rows = append(table.Rows, []string{formatExportTime(r.CreatedAt), r.Module, r.Message})
		}
		return table, nil
	case ExportEmailLogs:
		rows, err := s.logs.EmailLogs(ctx, req.Limit)
		if err != nil {
			return export.Table{}, err
		}
		table := export.Table{Title: "Email Logs", Columns: []string{"Time", "Notice", "Subject", "Attempted", "Succeeded"}}
		for _, r := range rows {
			table.Rows = append(table.Rows, []string{formatExportTime(r.SentAt), deref0(r.NoticeID), r.Subject, strconv.Itoa(r.Attempted), strconv.Itoa(r.Succeeded)})
		}
		return table, nil
	case ExportScrapeLogs:
		rows, err := s.scrapes.ListLogs(ctx, req.Limit)
		if err != nil {
			return export.Table{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list scrape logs")
		}
		table := export.Table{Title: "Scrape Logs", Columns: []string{"Time", "Website", "Status", "Text Length", "PDFs"}}
		for _, r := range rows {
			table.Rows = append(table.Rows, []string{formatExportTime(r.ScrapedAt), deref0(r.WebsiteURL), string(r.Status), strconv.Itoa(r.ExtractedTextLength), strconv.Itoa(r.PDFLinksFound)})
		}
		return table, nil
	}
	return export.Table{}, appErrors.Clone(appErrors.ErrValidation, "unknown dataset")
}

func formatExportTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}
