package service

import (
	"context"
	"strings"
	"time"

	"github.com/guttosm/stockrelay/internal/domain/apperr"
	"github.com/guttosm/stockrelay/internal/domain/dto"
	"github.com/guttosm/stockrelay/internal/domain/models"
	"github.com/guttosm/stockrelay/internal/logger"
	"github.com/guttosm/stockrelay/internal/metrics"
)

// DailyFetcher retrieves the raw daily series for a ticker.
// alphavantage.Client implements it.
type DailyFetcher interface {
	FetchDaily(ctx context.Context, symbol string) (*models.DailySeries, error)
}

// StockService defines the relay's business logic.
type StockService interface {
	GetDailySeries(ctx context.Context, ticker string) (*dto.StockDataResponse, error)
}

// Options configures a StockService.
type Options struct {
	// APIKeyConfigured is false when the server has no upstream key.
	APIKeyConfigured bool
	// MaxEntries is the trim size; DefaultMaxEntries when <= 0.
	MaxEntries int
	// Metrics may be nil.
	Metrics *metrics.Metrics
}

type stockService struct {
	fetcher    DailyFetcher
	hasKey     bool
	maxEntries int
	metrics    *metrics.Metrics
	now        func() time.Time
}

// NewStockService wires a StockService around fetcher.
func NewStockService(fetcher DailyFetcher, opts Options) StockService {
	n := opts.MaxEntries
	if n <= 0 {
		n = DefaultMaxEntries
	}
	return &stockService{
		fetcher:    fetcher,
		hasKey:     opts.APIKeyConfigured,
		maxEntries: n,
		metrics:    opts.Metrics,
		now:        time.Now,
	}
}

// GetDailySeries validates the ticker, checks configuration, fetches the
// daily series and trims it. Every returned error is an *apperr.Error.
func (s *stockService) GetDailySeries(ctx context.Context, ticker string) (*dto.StockDataResponse, error) {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return nil, apperr.MissingTicker()
	}

	log := logger.L().With().Str("ticker", ticker).Logger()
	log.Info().Msg("received request for ticker")

	if !s.hasKey {
		log.Error().Msg("server is not configured with an api key")
		return nil, apperr.MissingAPIKey()
	}

	start := s.now()
	series, err := s.fetcher.FetchDaily(ctx, ticker)
	took := s.now().Sub(start)
	if err != nil {
		classified := apperr.Wrap(err)
		s.metrics.ObserveUpstream(classified.Kind.String(), took)

		ev := log.Warn()
		if classified.Kind == apperr.Internal || classified.Kind == apperr.UpstreamTransport {
			ev = log.Error()
		}
		ev.Err(err).Str("kind", classified.Kind.String()).Dur("took", took).Msg("upstream error")
		return nil, classified
	}
	s.metrics.ObserveUpstream(metrics.OutcomeSuccess, took)

	trimmed := TrimSeries(series.Days, s.maxEntries)
	log.Info().
		Int("received", series.Len()).
		Int("returned", trimmed.Len()).
		Dur("took", took).
		Msg("successfully fetched data")

	return &dto.StockDataResponse{
		MetaData:   series.MetaData,
		TimeSeries: trimmed,
	}, nil
}
