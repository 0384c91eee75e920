package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LivenessMessage is the plain-text body served on GET /.
const LivenessMessage = "Stock relay is running."

// HealthHandler provides liveness and readiness endpoints for the service.
//
// Responsibilities:
//   - /: plain-text liveness string (always 200).
//   - /healthz: JSON liveness probe (always 200).
//   - /readyz: readiness probe, 503 while the relay cannot serve data.
type HealthHandler struct {
	ready func() error // nil error means the relay can serve data
}

// NewHealthHandler constructs a HealthHandler. ready may be nil, in which
// case the service always reports ready.
func NewHealthHandler(ready func() error) *HealthHandler {
	return &HealthHandler{ready: ready}
}

// Register mounts the health endpoints into the provided Gin router.
func (h *HealthHandler) Register(r *gin.Engine) {
	// Root liveness
	// @Summary      Liveness string
	// @Description  Plain text confirming the service is running
	// @Tags         health
	// @Produce      plain
	// @Success      200  {string}  string
	// @Router       / [get]
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, LivenessMessage)
	})

	// Liveness probe (just checks if the service is up)
	// @Summary      Liveness probe
	// @Description  Always returns OK if the service is running
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  map[string]string
	// @Router       /healthz [get]
	r.GET("/healthz", func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness probe (checks configuration)
	// @Summary      Readiness probe
	// @Description  Returns ready when an upstream API key is configured
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  map[string]string
	// @Failure      503  {object}  map[string]string
	// @Router       /readyz [get]
	r.GET("/readyz", func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		if h.ready != nil && h.ready() != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
}
