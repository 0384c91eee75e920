package main

//
//  @title           stockrelay API
//  @version         1.0
//  @description     Relay for Alpha Vantage daily stock prices.
//  @termsOfService  https://github.com/guttosm/stockrelay
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/stockrelay
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        stocks
//  @tag.description Daily stock price relay
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guttosm/stockrelay/config"
	_ "github.com/guttosm/stockrelay/docs" // swagger docs
	"github.com/guttosm/stockrelay/internal/app"
	"github.com/guttosm/stockrelay/internal/logger"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown terminates the HTTP server and releases resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): Parent context for the shutdown deadline.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Releases upstream connections.
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// main is the entry point of the stockrelay application.
//
// Modes (selected via --mode flag):
//   - api:   Starts the HTTP relay.
//   - fetch: Fetches --tickers once and prints one JSON line per ticker.
//
// Flags:
//   - --mode:     Execution mode ("api" or "fetch"). Default: "api".
//   - --port:     Port for the API server. Defaults to SERVER_PORT.
//   - --tickers:  Comma separated tickers for fetch mode.
//   - --parallel: Concurrent upstream requests in fetch mode (0=CPU count).
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	mode := flag.String("mode", "api", "Mode: api or fetch")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	tickers := flag.String("tickers", "", "Comma separated tickers for fetch mode")
	parallel := flag.Int("parallel", 0, "How many tickers to fetch concurrently (0=auto)")
	flag.Parse()

	switch *mode {
	case "api":
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp(config.AppConfig)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	case "fetch":
		sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, httpClient := app.NewStockService(config.AppConfig, nil)
		defer httpClient.CloseIdleConnections()

		if err := runFetch(sigCtx, svc, parseTickers(*tickers), *parallel, os.Stdout); err != nil {
			stop()
			httpClient.CloseIdleConnections()
			logger.L().Fatal().Err(err).Msg("fetch failed")
		}

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
