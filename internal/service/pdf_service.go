package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-assistant-api/internal/models"
	"github.com/noah-isme/campus-assistant-api/pkg/pdftext"
	"github.com/noah-isme/campus-assistant-api/pkg/textnorm"
)

// pdfExtractor reads the plain text out of a PDF file.
type pdfExtractor func(path string) (string, error)

// PDFService turns PDF files into normalized text. Extraction failures are
// recorded and yield an empty string.
type PDFService struct {
	extract pdfExtractor
	logs    *LogService
	logger  *zap.Logger
}

// NewPDFService constructs a PDFService backed by pkg/pdftext.
func NewPDFService(logs *LogService, logger *zap.Logger) *PDFService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFService{extract: pdftext.Extract, logs: logs, logger: logger}
}

// Extract returns the normalized text of the PDF at path, or "" when nothing
// usable could be read.
func (s *PDFService) Extract(ctx context.Context, path string) string {
	raw, err := s.extract(path)
	if err != nil {
		s.logger.Warn("pdf extraction failed", zap.String("path", path), zap.Error(err))
		s.logs.Record(ctx, models.LogModulePDF, fmt.Sprintf("pdf extract error: %v", err))
		return ""
	}
	return textnorm.Content(raw)
}
