package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-assistant-api/internal/models"
	"github.com/noah-isme/campus-assistant-api/internal/service"
	"github.com/noah-isme/campus-assistant-api/pkg/response"
)

type fileService interface {
	Resolve(ctx context.Context, viewer models.Viewer, req service.DownloadRequest) (*service.FileDownload, error)
}

// FileHandler streams notice attachments.
type FileHandler struct {
	service fileService
}

// NewFileHandler constructs the handler.
func NewFileHandler(svc fileService) *FileHandler {
	return &FileHandler{service: svc}
}

// Download godoc
// @Summary Download notice attachment
// @Description Attachments of unpublished notices are never served; non-public notices require a login
// @Tags Files
// @Produce octet-stream
// @Param id path string true "File ID"
// @Success 200 {file} binary
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /files/notices/{id} [get]
func (h *FileHandler) Download(c *gin.Context) {
	file, err := h.service.Resolve(c.Request.Context(), viewerFromContext(c), service.DownloadRequest{
		FileID: c.Param("id"),
		Method: c.Request.Method,
		IP:     c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.FileAttachment(file.Path, file.Name)
}
