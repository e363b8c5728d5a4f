package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-assistant-api/internal/dto"
	"github.com/noah-isme/campus-assistant-api/internal/models"
	appErrors "github.com/noah-isme/campus-assistant-api/pkg/errors"
	"github.com/noah-isme/campus-assistant-api/pkg/response"
)

type faqService interface {
	Submit(ctx context.Context, viewer models.Viewer, req dto.SubmitFAQRequest) (*models.FAQ, error)
	Create(ctx context.Context, viewer models.Viewer, req dto.CreateFAQRequest) (*models.FAQ, error)
	Answer(ctx context.Context, viewer models.Viewer, id string, req dto.AnswerFAQRequest) (*models.FAQ, error)
	Delete(ctx context.Context, id string) error
	ListAnswered(ctx context.Context, category, q string) ([]models.FAQ, error)
	ListMine(ctx context.Context, viewer models.Viewer) ([]models.FAQ, error)
	ListForModeration(ctx context.Context, viewer models.Viewer) ([]models.FAQ, error)
}

// FAQHandler covers the public, student and moderation FAQ endpoints.
type FAQHandler struct {
	service faqService
}

// NewFAQHandler constructs the handler.
func NewFAQHandler(svc faqService) *FAQHandler {
	return &FAQHandler{service: svc}
}

// ListAnswered godoc
// @Summary List answered FAQs
// @Tags FAQs
// @Produce json
// @Param category query string false "Category"
// @Param q query string false "Search question and answer"
// @Success 200 {object} response.Envelope
// @Router /faqs [get]
func (h *FAQHandler) ListAnswered(c *gin.Context) {
	faqs, err := h.service.ListAnswered(c.Request.Context(), c.Query("category"), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, faqs, nil)
}

// ListMine godoc
// @Summary List the caller's questions
// @Tags FAQs
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /student/faqs [get]
func (h *FAQHandler) ListMine(c *gin.Context) {
	faqs, err := h.service.ListMine(c.Request.Context(), viewerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, faqs, nil)
}

// Submit godoc
// @Summary Ask a question
// @Tags FAQs
// @Accept json
// @Produce json
// @Param payload body dto.SubmitFAQRequest true "Question"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /student/faqs [post]
func (h *FAQHandler) Submit(c *gin.Context) {
	var req dto.SubmitFAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid question payload"))
		return
	}
	faq, err := h.service.Submit(c.Request.Context(), viewerFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, faq)
}

// ListForModeration godoc
// @Summary FAQ moderation queue
// @Tags FAQs
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /moderation/faqs [get]
func (h *FAQHandler) ListForModeration(c *gin.Context) {
	faqs, err := h.service.ListForModeration(c.Request.Context(), viewerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, faqs, nil)
}

// Create godoc
// @Summary Create FAQ
// @Tags FAQs
// @Accept json
// @Produce json
// @Param payload body dto.CreateFAQRequest true "FAQ"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /faqs [post]
func (h *FAQHandler) Create(c *gin.Context) {
	var req dto.CreateFAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid faq payload"))
		return
	}
	faq, err := h.service.Create(c.Request.Context(), viewerFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, faq)
}

// Answer godoc
// @Summary Answer FAQ
// @Description A question can be answered once; the pair is added to the chatbot corpus
// @Tags FAQs
// @Accept json
// @Produce json
// @Param id path string true "FAQ ID"
// @Param payload body dto.AnswerFAQRequest true "Answer"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /faqs/{id}/answer [post]
func (h *FAQHandler) Answer(c *gin.Context) {
	var req dto.AnswerFAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid answer payload"))
		return
	}
	faq, err := h.service.Answer(c.Request.Context(), viewerFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, faq, nil)
}

// Delete godoc
// @Summary Delete FAQ
// @Tags FAQs
// @Param id path string true "FAQ ID"
// @Success 204
// @Security BearerAuth
// @Router /faqs/{id} [delete]
func (h *FAQHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
