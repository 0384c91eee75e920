package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/stockrelay/internal/domain/apperr"
	"github.com/guttosm/stockrelay/internal/domain/dto"
	"github.com/guttosm/stockrelay/internal/logger"
)

// ErrorHandler renders the last error a handler attached with c.Error.
//
// Behavior:
//   - Does nothing when no error was attached or a body was already written.
//   - Classifies the error with apperr; unknown errors become Internal.
//   - Writes {"error": <client message>} with the status of the kind.
//   - Logs the internal cause, which never reaches the client.
func ErrorHandler(c *gin.Context) {
	c.Next()

	last := c.Errors.Last()
	if last == nil || c.Writer.Written() {
		return
	}

	e := apperr.Wrap(last.Err)
	rid, _ := c.Get(RequestIDKey)
	ev := logger.L().Debug()
	if e.Kind == apperr.Internal {
		ev = logger.L().Error()
	}
	ev.Str("request_id", toString(rid)).
		Str("kind", e.Kind.String()).
		Err(e.Err).
		Msg("request failed")

	c.AbortWithStatusJSON(e.Kind.Status(), dto.NewErrorResponse(e.Message))
}

// AbortWithError stops the chain and writes message with an explicit status.
// It is for failures that have no apperr kind, such as unknown routes.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message))
}
