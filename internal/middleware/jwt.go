package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-assistant-api/internal/models"
	appErrors "github.com/noah-isme/campus-assistant-api/pkg/errors"
	"github.com/noah-isme/campus-assistant-api/pkg/logger"
	"github.com/noah-isme/campus-assistant-api/pkg/response"
)

// ContextUserKey is the gin context key storing the request viewer.
const ContextUserKey = "currentUser"

// ViewerResolver turns a bearer token into the current viewer.
type ViewerResolver interface {
	ResolveViewer(ctx context.Context, token string) (models.Viewer, error)
}

// JWT protects routes by requiring a valid access token for an active user.
func JWT(resolver ViewerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing or invalid authorization header"))
			c.Abort()
			return
		}

		viewer, err := resolver.ResolveViewer(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		setViewer(c, viewer)
		c.Next()
	}
}

// OptionalJWT attaches the viewer when a usable token is present and falls
// back to a guest otherwise.
func OptionalJWT(resolver ViewerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer := models.GuestViewer()
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if resolved, err := resolver.ResolveViewer(c.Request.Context(), token); err == nil {
				viewer = resolved
			}
		}
		setViewer(c, viewer)
		c.Next()
	}
}

// ViewerFrom returns the viewer stored by JWT or OptionalJWT, or a guest.
func ViewerFrom(c *gin.Context) models.Viewer {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return models.GuestViewer()
	}
	viewer, ok := value.(models.Viewer)
	if !ok {
		return models.GuestViewer()
	}
	return viewer
}

func setViewer(c *gin.Context, viewer models.Viewer) {
	c.Set(ContextUserKey, viewer)
	if !viewer.IsGuest() {
		c.Set(logger.ContextLoginKey, viewer.LoginID)
	}
}

func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
