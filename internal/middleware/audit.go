package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Audit records a line under module for every successful request, naming the
// acting viewer and the route it hit.
func Audit(recorder EventRecorder, module, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if recorder == nil || c.Writer.Status() >= 400 {
			return
		}
		viewer := ViewerFrom(c)
		target := c.Param("id")
		parts := []string{action}
		if target != "" {
			parts = append(parts, "id="+target)
		}
		parts = append(parts,
			"user="+viewer.LoginID,
			fmt.Sprintf("status=%d", c.Writer.Status()),
			fmt.Sprintf("latency_ms=%d", time.Since(start).Milliseconds()),
		)
		recorder.Record(c.Request.Context(), module, strings.Join(parts, " "))
	}
}
