package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/stockrelay/internal/metrics"
	"github.com/guttosm/stockrelay/internal/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouterOptions carries the cross-cutting settings of the router.
type RouterOptions struct {
	CORS           middleware.CORSConfig
	RequestTimeout time.Duration
	Metrics        *metrics.Metrics
}

// NewRouter creates a Gin engine with routes configured.
// It receives a Handler instance with all business logic already injected.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, CORS, Metrics, Recovery, ErrorHandler, Timeout).
//   - Mounts Swagger docs (/swagger/*any) and Prometheus metrics (/metrics).
//   - Configures the relay route (/get_stock_data).
//   - Answers unknown routes with the JSON error shape.
//
// Note:
//   - Liveness and readiness endpoints (/, /healthz, /readyz) are registered in app.InitializeApp().
func NewRouter(handler *Handler, opts RouterOptions) *gin.Engine {
	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	// CORS sits before recovery so panic responses still carry its headers.
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.CORS(opts.CORS),
		middleware.Metrics(opts.Metrics),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.Timeout(opts.RequestTimeout),
	)

	router.NoRoute(func(c *gin.Context) {
		middleware.AbortWithError(c, http.StatusNotFound, "Not found.", nil)
	})

	// ─── Swagger ──────────────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ─── Metrics ──────────────────────────────────
	router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))

	// ─── Relay ────────────────────────────────────
	router.GET("/get_stock_data", handler.GetStockData)

	return router
}
