package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-assistant-api/internal/dto"
	"github.com/noah-isme/campus-assistant-api/internal/models"
	"github.com/noah-isme/campus-assistant-api/internal/service"
	appErrors "github.com/noah-isme/campus-assistant-api/pkg/errors"
	"github.com/noah-isme/campus-assistant-api/pkg/response"
)

type noticeService interface {
	Create(ctx context.Context, viewer models.Viewer, req dto.NoticeRequest) (*models.Notice, error)
	Update(ctx context.Context, viewer models.Viewer, id string, req dto.NoticeRequest) (*models.Notice, error)
	AttachFile(ctx context.Context, viewer models.Viewer, noticeID, originalName string, body io.Reader) (*models.NoticeFile, error)
	DeleteFile(ctx context.Context, viewer models.Viewer, noticeID, fileID string) error
	Publish(ctx context.Context, viewer models.Viewer, id string, sendEmail bool) (*dto.PublishNoticeResponse, error)
	Delete(ctx context.Context, viewer models.Viewer, id string) error
	Get(ctx context.Context, viewer models.Viewer, id string) (*models.Notice, error)
	List(ctx context.Context, viewer models.Viewer, q service.NoticeListQuery) ([]models.Notice, *models.Pagination, error)
	Categories(ctx context.Context) ([]models.NoticeCategory, error)
}

// NoticeHandler exposes notice browsing and management.
type NoticeHandler struct {
	service noticeService
}

// NewNoticeHandler constructs the handler.
func NewNoticeHandler(svc noticeService) *NoticeHandler {
	return &NoticeHandler{service: svc}
}

// List godoc
// @Summary List notices visible to the caller
// @Tags Notices
// @Produce json
// @Param category query string false "Category name"
// @Param today query bool false "Only notices published today"
// @Param q query string false "Search title and summary"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /notices [get]
func (h *NoticeHandler) List(c *gin.Context) {
	today, _ := strconv.ParseBool(c.Query("today"))
	query := service.NoticeListQuery{
		Category: c.Query("category"),
		Today:    today,
		Search:   c.Query("q"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
	}
	notices, pagination, err := h.service.List(c.Request.Context(), viewerFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notices, pagination)
}

// Categories godoc
// @Summary List notice categories
// @Tags Notices
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /notices/categories [get]
func (h *NoticeHandler) Categories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, categories, nil)
}

// Get godoc
// @Summary Get notice with attachments
// @Tags Notices
// @Produce json
// @Param id path string true "Notice ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /notices/{id} [get]
func (h *NoticeHandler) Get(c *gin.Context) {
	notice, err := h.service.Get(c.Request.Context(), viewerFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notice, nil)
}

// Create godoc
// @Summary Create draft notice
// @Tags Notices
// @Accept json
// @Produce json
// @Param payload body dto.NoticeRequest true "Notice payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /notices [post]
func (h *NoticeHandler) Create(c *gin.Context) {
	var req dto.NoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid notice payload"))
		return
	}
	notice, err := h.service.Create(c.Request.Context(), viewerFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, notice)
}

// Update godoc
// @Summary Update notice
// @Tags Notices
// @Accept json
// @Produce json
// @Param id path string true "Notice ID"
// @Param payload body dto.NoticeRequest true "Notice payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /notices/{id} [put]
func (h *NoticeHandler) Update(c *gin.Context) {
	var req dto.NoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid notice payload"))
		return
	}
	notice, err := h.service.Update(c.Request.Context(), viewerFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notice, nil)
}

// UploadFile godoc
// @Summary Attach a file to a notice
// @Tags Notices
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Notice ID"
// @Param file formData file true "PDF, PNG or JPEG"
// @Success 201 {object} response.Envelope
// @Failure 415 {object} response.Envelope
// @Security BearerAuth
// @Router /notices/{id}/files [post]
func (h *NoticeHandler) UploadFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open file"))
		return
	}
	defer src.Close()

	file, err := h.service.AttachFile(c.Request.Context(), viewerFromContext(c), c.Param("id"), fileHeader.Filename, src)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, file)
}

// DeleteFile godoc
// @Summary Remove a notice attachment
// @Tags Notices
// @Param id path string true "Notice ID"
// @Param fileId path string true "File ID"
// @Success 204
// @Security BearerAuth
// @Router /notices/{id}/files/{fileId} [delete]
func (h *NoticeHandler) DeleteFile(c *gin.Context) {
	if err := h.service.DeleteFile(c.Request.Context(), viewerFromContext(c), c.Param("id"), c.Param("fileId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Publish godoc
// @Summary Publish notice
// @Description Publishes the notice, ingests its text and optionally emails matching students
// @Tags Notices
// @Accept json
// @Produce json
// @Param id path string true "Notice ID"
// @Param payload body dto.PublishNoticeRequest false "Publish options"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /notices/{id}/publish [post]
func (h *NoticeHandler) Publish(c *gin.Context) {
	var req dto.PublishNoticeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid publish payload"))
			return
		}
	}
	if raw := c.Query("send_email"); raw != "" {
		sendEmail, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "send_email must be true or false"))
			return
		}
		req.SendEmail = sendEmail
	}
	res, err := h.service.Publish(c.Request.Context(), viewerFromContext(c), c.Param("id"), req.SendEmail)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Delete godoc
// @Summary Delete notice
// @Tags Notices
// @Param id path string true "Notice ID"
// @Success 204
// @Security BearerAuth
// @Router /notices/{id} [delete]
func (h *NoticeHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), viewerFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
