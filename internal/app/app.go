package app

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/stockrelay/config"
	"github.com/guttosm/stockrelay/internal/api"
	"github.com/guttosm/stockrelay/internal/logger"
	"github.com/guttosm/stockrelay/internal/metrics"
	"github.com/guttosm/stockrelay/internal/middleware"
)

// ErrAPIKeyMissing is reported by the readiness probe while no key is configured.
var ErrAPIKeyMissing = errors.New("alpha vantage api key is not configured")

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Validates the structural configuration.
//   - Builds the metrics registry, the provider client and the relay service.
//   - Creates the HTTP handler and the router with all middlewares.
//   - Registers liveness and readiness probes.
//   - Provides a cleanup function that releases idle upstream connections.
//
// A missing API key does not fail initialization: the relay starts,
// /readyz reports degraded and data requests get a configuration error.
func InitializeApp(cfg config.Config) (*gin.Engine, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if !cfg.Provider.HasAPIKey() {
		logger.L().Warn().Msg("ALPHA_VANTAGE_API_KEY is not set; data requests will fail until it is configured")
	}

	m := metrics.New()

	// Initialize service layer (provider client + trimming)
	svc, httpClient := NewStockService(cfg, m)

	// Initialize HTTP handler layer (business logic to HTTP mapping)
	handler := api.NewHandler(svc)

	// Setup Gin router with routes
	router := api.NewRouter(handler, api.RouterOptions{
		CORS: middleware.CORSConfig{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			MaxAge:         cfg.CORS.MaxAge,
		},
		RequestTimeout: cfg.Server.RequestTimeout,
		Metrics:        m,
	})

	// Register health and readiness probes
	healthHandler := api.NewHealthHandler(func() error {
		if !cfg.Provider.HasAPIKey() {
			return ErrAPIKeyMissing
		}
		return nil
	})
	healthHandler.Register(router)

	cleanup := func() {
		httpClient.CloseIdleConnections()
	}

	return router, cleanup, nil
}
