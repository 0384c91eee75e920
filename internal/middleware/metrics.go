package middleware

import (
	"github.com/gin-gonic/gin"
)

// RequestRecorder counts served requests. metrics.Metrics implements it.
type RequestRecorder interface {
	ObserveRequest(route string, status int)
}

// Metrics records every request by its route template and final status.
func Metrics(rec RequestRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if rec != nil {
			rec.ObserveRequest(c.FullPath(), c.Writer.Status())
		}
	}
}
