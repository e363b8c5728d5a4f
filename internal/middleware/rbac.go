package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-assistant-api/internal/models"
	appErrors "github.com/noah-isme/campus-assistant-api/pkg/errors"
	"github.com/noah-isme/campus-assistant-api/pkg/response"
)

// EventRecorder persists security-relevant events.
type EventRecorder interface {
	Record(ctx context.Context, module, message string)
}

// RequireRoles admits viewers holding one of roles. Denials are recorded
// under the auth module.
func RequireRoles(recorder EventRecorder, roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	names := make([]string, len(roles))
	for i, r := range roles {
		allowed[r] = struct{}{}
		names[i] = strings.ToLower(string(r))
	}
	needed := strings.Join(names, "|")

	return func(c *gin.Context) {
		viewer := ViewerFrom(c)
		if viewer.IsGuest() {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "Please log in to continue."))
			c.Abort()
			return
		}

		if _, ok := allowed[viewer.Role]; ok {
			c.Next()
			return
		}

		if recorder != nil {
			recorder.Record(c.Request.Context(), models.LogModuleAuth,
				fmt.Sprintf("role violation: needed %s user=%s role=%s path=%s", needed, viewer.LoginID, strings.ToLower(string(viewer.Role)), c.FullPath()))
		}
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "You are not authorized to access this page."))
		c.Abort()
	}
}
