package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/stockrelay/internal/domain/apperr"
	"github.com/guttosm/stockrelay/internal/domain/dto"
	"github.com/guttosm/stockrelay/internal/logger"
)

// RecoveryMiddleware returns a Gin middleware that recovers from panics,
// logs the value and stack trace, and answers with the generic internal error body.
//
// Example:
//
//	router := gin.New()
//	router.Use(middleware.RecoveryMiddleware())
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				rid, _ := c.Get(RequestIDKey)
				logger.L().Error().
					Str("request_id", toString(rid)).
					Str("panic", fmt.Sprintf("%v", r)).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(apperr.MsgInternal))
			}
		}()

		c.Next()
	}
}
