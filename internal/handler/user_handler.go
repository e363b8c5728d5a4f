package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-assistant-api/internal/models"
	appErrors "github.com/noah-isme/campus-assistant-api/pkg/errors"
	"github.com/noah-isme/campus-assistant-api/pkg/response"
)

type userService interface {
	List(ctx context.Context, role models.UserRole, search string) ([]models.User, error)
	CreateModerator(ctx context.Context, req models.CreateModeratorRequest) (*models.UserInfo, error)
	SetActive(ctx context.Context, id string, active bool) (*models.User, error)
	Delete(ctx context.Context, id string) error
	PurgeNonAdmins(ctx context.Context) (*models.PurgeResult, error)
}

// UserHandler exposes admin user management.
type UserHandler struct {
	service userService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc userService) *UserHandler {
	return &UserHandler{service: svc}
}

// List godoc
// @Summary List users
// @Description Students are searched by enrollment number, moderators by login id
// @Tags Admin
// @Produce json
// @Param role query string false "STUDENT or MODERATOR" default(STUDENT)
// @Param q query string false "Search term"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	role := models.UserRole(strings.ToUpper(c.DefaultQuery("role", string(models.RoleStudent))))
	users, err := h.service.List(c.Request.Context(), role, c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, nil)
}

// CreateModerator godoc
// @Summary Create moderator
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body models.CreateModeratorRequest true "Moderator payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/moderators [post]
func (h *UserHandler) CreateModerator(c *gin.Context) {
	var req models.CreateModeratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid moderator payload"))
		return
	}
	user, err := h.service.CreateModerator(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, user)
}

// Activate godoc
// @Summary Activate user
// @Tags Admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/users/{id}/activate [post]
func (h *UserHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

// Deactivate godoc
// @Summary Deactivate user
// @Description Deactivated users are logged out on their next request
// @Tags Admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/users/{id}/deactivate [post]
func (h *UserHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *UserHandler) setActive(c *gin.Context, active bool) {
	user, err := h.service.SetActive(c.Request.Context(), c.Param("id"), active)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// Delete godoc
// @Summary Delete user
// @Description Reassigns authored notices and email logs to the admin before deleting
// @Tags Admin
// @Param id path string true "User ID"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// PurgeNonAdmins godoc
// @Summary Delete every non-admin account
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/users/purge-non-admins [post]
func (h *UserHandler) PurgeNonAdmins(c *gin.Context) {
	result, err := h.service.PurgeNonAdmins(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
