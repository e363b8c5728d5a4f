package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-assistant-api/internal/models"
	appErrors "github.com/noah-isme/campus-assistant-api/pkg/errors"
	"github.com/noah-isme/campus-assistant-api/pkg/textnorm"
)

type documentRepository interface {
	InsertIfAbsent(ctx context.Context, doc *models.ChatbotDocument) (bool, error)
	List(ctx context.Context, filter models.DocumentFilter) ([]models.ChatbotDocument, error)
	Count(ctx context.Context) (int, error)
}

// IngestService feeds the content-addressed chatbot corpus. Documents are keyed
// by the hash of their normalized text across every source type, so the first
// source to contribute a text keeps it.
type IngestService struct {
	docs    documentRepository
	pdf     *PDFService
	metrics *MetricsService
	logger  *zap.Logger
}

// NewIngestService constructs an IngestService.
func NewIngestService(docs documentRepository, pdf *PDFService, metrics *MetricsService, logger *zap.Logger) *IngestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngestService{docs: docs, pdf: pdf, metrics: metrics, logger: logger}
}

// IngestText stores text unless a document with the same normalized content
// already exists. Blank text is ignored. It reports whether a row was written.
func (s *IngestService) IngestText(ctx context.Context, source models.DocumentSource, sourceID *string, text string, visibility models.DocumentVisibility) (bool, error) {
	if strings.TrimSpace(text) == "" {
		return false, nil
	}
	doc := &models.ChatbotDocument{
		SourceType:  source,
		SourceID:    sourceID,
		Content:     text,
		ContentHash: textnorm.Hash(text),
		Visibility:  visibility,
	}
	inserted, err := s.docs.InsertIfAbsent(ctx, doc)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store chatbot document")
	}
	s.metrics.RecordIngest(source, inserted)
	if !inserted {
		s.logger.Debug("duplicate chatbot document skipped", zap.String("source", string(source)), zap.String("hash", doc.ContentHash))
	}
	return inserted, nil
}

// IngestPDF extracts the file at path and ingests its normalized text.
func (s *IngestService) IngestPDF(ctx context.Context, source models.DocumentSource, sourceID *string, path string, visibility models.DocumentVisibility) (bool, error) {
	text := s.pdf.Extract(ctx, path)
	if text == "" {
		return false, nil
	}
	return s.IngestText(ctx, source, sourceID, text, visibility)
}

// Documents lists the stored corpus for admins.
func (s *IngestService) Documents(ctx context.Context, filter models.DocumentFilter) ([]models.ChatbotDocument, error) {
	docs, err := s.docs.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list chatbot documents")
	}
	return docs, nil
}

// DocumentVisibilityFor maps a notice tier onto the two-tier corpus.
func DocumentVisibilityFor(v models.NoticeVisibility) models.DocumentVisibility {
	if v == models.VisibilityPublic {
		return models.DocumentPublic
	}
	return models.DocumentStudent
}
