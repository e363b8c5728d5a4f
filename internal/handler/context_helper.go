package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-assistant-api/internal/middleware"
	"github.com/noah-isme/campus-assistant-api/internal/models"
)

func viewerFromContext(c *gin.Context) models.Viewer {
	return middleware.ViewerFrom(c)
}

// queryInt parses a positive integer query value, falling back to def.
func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
