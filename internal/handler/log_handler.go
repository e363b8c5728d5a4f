package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-assistant-api/internal/dto"
	"github.com/noah-isme/campus-assistant-api/internal/models"
	"github.com/noah-isme/campus-assistant-api/internal/service"
	appErrors "github.com/noah-isme/campus-assistant-api/pkg/errors"
	"github.com/noah-isme/campus-assistant-api/pkg/response"
)

type logReader interface {
	SystemLogs(ctx context.Context, filter models.LogFilter) ([]models.SystemLog, error)
	EmailLogs(ctx context.Context, limit int) ([]models.EmailLog, error)
}

type exportService interface {
	Generate(ctx context.Context, req dto.ExportRequest) (*service.ExportResult, error)
	Open(token string) (*service.ExportDownload, error)
}

type documentLister interface {
	Documents(ctx context.Context, filter models.DocumentFilter) ([]models.ChatbotDocument, error)
}

// LogHandler serves the admin log views, exports and the document corpus.
type LogHandler struct {
	logs      logReader
	exports   exportService
	documents documentLister
}

// NewLogHandler constructs the handler.
func NewLogHandler(logs logReader, exports exportService, documents documentLister) *LogHandler {
	return &LogHandler{logs: logs, exports: exports, documents: documents}
}

// SystemLogs godoc
// @Summary Recent system logs
// @Tags Logs
// @Produce json
// @Param module query string false "Module filter (auth, admin, email, files, scraper, pdf)"
// @Param limit query int false "Max rows" default(200)
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/logs/system [get]
func (h *LogHandler) SystemLogs(c *gin.Context) {
	filter := models.LogFilter{
		Module: strings.TrimSpace(c.Query("module")),
		Limit:  queryInt(c, "limit", 200),
	}
	logs, err := h.logs.SystemLogs(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, nil)
}

// EmailLogs godoc
// @Summary Recent email logs
// @Tags Logs
// @Produce json
// @Param limit query int false "Max rows" default(200)
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/logs/email [get]
func (h *LogHandler) EmailLogs(c *gin.Context) {
	logs, err := h.logs.EmailLogs(c.Request.Context(), queryInt(c, "limit", 200))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, nil)
}

// Export godoc
// @Summary Export logs as CSV or PDF
// @Tags Logs
// @Accept json
// @Produce json
// @Param payload body dto.ExportRequest true "Export selection"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/logs/export [post]
func (h *LogHandler) Export(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}
	result, err := h.exports.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ExportResponse{
		URL:       result.URL,
		ExpiresAt: result.ExpiresAt.UTC().Format(time.RFC3339),
		Rows:      result.Rows,
	})
}

// DownloadExport godoc
// @Summary Download a generated export
// @Tags Logs
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} binary
// @Failure 403 {object} response.Envelope
// @Router /exports/{token} [get]
func (h *LogHandler) DownloadExport(c *gin.Context) {
	download, err := h.exports.Open(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close() //nolint:errcheck

	var size int64 = -1
	if info, statErr := download.File.Stat(); statErr == nil {
		size = info.Size()
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", download.Name))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, size, download.ContentType, download.File, nil)
}

// Documents godoc
// @Summary Chatbot document corpus
// @Tags Logs
// @Produce json
// @Param source_type query string false "notice, notice_pdf, faq, scrape_text, scrape_pdf or seed"
// @Param visibility query string false "public or student"
// @Param limit query int false "Max rows" default(100)
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/documents [get]
func (h *LogHandler) Documents(c *gin.Context) {
	filter := models.DocumentFilter{Limit: queryInt(c, "limit", 100)}
	if raw := strings.TrimSpace(c.Query("source_type")); raw != "" {
		source := models.DocumentSource(raw)
		filter.SourceType = &source
	}
	if raw := strings.TrimSpace(c.Query("visibility")); raw != "" {
		visibility := models.DocumentVisibility(raw)
		filter.Visibility = &visibility
	}
	docs, err := h.documents.Documents(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, docs, nil)
}
