package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/guttosm/stockrelay/internal/domain/apperr"
	"github.com/guttosm/stockrelay/internal/domain/dto"
	"github.com/guttosm/stockrelay/internal/logger"
	"github.com/guttosm/stockrelay/internal/service"
	"golang.org/x/sync/errgroup"
)

// fetchLine is one line of fetch-mode output.
type fetchLine struct {
	Ticker string                 `json:"ticker"`
	Data   *dto.StockDataResponse `json:"data,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

// parseTickers splits a comma separated list, dropping blanks.
func parseTickers(raw string) []string {
	var out []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// runFetch fetches every ticker through svc with at most parallel requests
// in flight, then writes one JSON line per ticker to out in input order.
//
// A failing ticker does not stop the others; its line carries the same
// client-facing message the HTTP API would return. The returned error joins
// all per-ticker failures.
func runFetch(ctx context.Context, svc service.StockService, tickers []string, parallel int, out io.Writer) error {
	if len(tickers) == 0 {
		return errors.New("no tickers given")
	}
	if parallel <= 0 {
		parallel = runtime.NumCPU()
	}

	results := make([]fetchLine, len(tickers))
	errs := make([]error, len(tickers))

	g := new(errgroup.Group)
	g.SetLimit(parallel)
	for i, ticker := range tickers {
		i, ticker := i, ticker
		g.Go(func() error {
			results[i].Ticker = ticker
			data, err := svc.GetDailySeries(ctx, ticker)
			if err != nil {
				results[i].Error = apperr.Wrap(err).Message
				errs[i] = fmt.Errorf("%s: %w", ticker, err)
				return nil
			}
			results[i].Data = data
			return nil
		})
	}
	_ = g.Wait()

	enc := json.NewEncoder(out)
	for _, line := range results {
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("write result for %s: %w", line.Ticker, err)
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		logger.L().Error().Err(err).Msg("some tickers failed")
	}
	return err
}
