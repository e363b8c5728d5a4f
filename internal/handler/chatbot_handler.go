package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-assistant-api/internal/dto"
	"github.com/noah-isme/campus-assistant-api/internal/models"
	appErrors "github.com/noah-isme/campus-assistant-api/pkg/errors"
	"github.com/noah-isme/campus-assistant-api/pkg/response"
)

const emptyQuestionMessage = "Please provide a question."

type chatbotService interface {
	Answer(ctx context.Context, query string, role models.UserRole) dto.ChatbotAnswer
	Health() dto.ChatbotHealth
}

// ChatbotHandler answers free-text questions.
type ChatbotHandler struct {
	service chatbotService
}

// NewChatbotHandler constructs the handler.
func NewChatbotHandler(svc chatbotService) *ChatbotHandler {
	return &ChatbotHandler{service: svc}
}

// Query godoc
// @Summary Ask the campus assistant
// @Description Unmatched questions answer 400 with the fallback text
// @Tags Chatbot
// @Accept json
// @Produce json
// @Param payload body dto.ChatbotQueryRequest true "Question"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /chatbot/query [post]
func (h *ChatbotHandler) Query(c *gin.Context) {
	var req dto.ChatbotQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, emptyQuestionMessage))
		return
	}

	answer := h.service.Answer(c.Request.Context(), req.Query, viewerFromContext(c).Role)
	status := http.StatusOK
	if !answer.OK {
		status = http.StatusBadRequest
	}
	response.JSON(c, status, answer, nil)
}

// Health godoc
// @Summary Chatbot readiness
// @Tags Chatbot
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /chatbot/health [get]
func (h *ChatbotHandler) Health(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Health(), nil)
}
