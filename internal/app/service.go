package app

import (
	"net/http"

	"github.com/guttosm/stockrelay/config"
	"github.com/guttosm/stockrelay/internal/metrics"
	"github.com/guttosm/stockrelay/internal/provider/alphavantage"
	"github.com/guttosm/stockrelay/internal/service"
)

// NewStockService builds the provider client and the relay service from cfg.
// It is shared by the API server and the fetch CLI so both behave the same.
//
// Returns:
//   - service.StockService: ready to serve requests.
//   - *http.Client: the upstream client, so callers can release idle connections.
func NewStockService(cfg config.Config, m *metrics.Metrics) (service.StockService, *http.Client) {
	httpClient := alphavantage.NewHTTPClient(cfg.Provider.Timeout)
	client := alphavantage.NewClient(cfg.Provider.APIKey,
		alphavantage.WithBaseURL(cfg.Provider.BaseURL),
		alphavantage.WithHTTPClient(httpClient),
	)

	svc := service.NewStockService(client, service.Options{
		APIKeyConfigured: cfg.Provider.HasAPIKey(),
		MaxEntries:       cfg.Provider.MaxEntries,
		Metrics:          m,
	})
	return svc, httpClient
}
