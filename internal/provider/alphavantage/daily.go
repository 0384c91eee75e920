package alphavantage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/guttosm/stockrelay/internal/domain/apperr"
	"github.com/guttosm/stockrelay/internal/domain/models"
	"github.com/guttosm/stockrelay/internal/logger"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrEmptySymbol is returned when FetchDaily is called without a symbol.
var ErrEmptySymbol = errors.New("alphavantage: empty symbol")

// dailyResponse is the subset of a TIME_SERIES_DAILY body the relay inspects.
// Raw fields are used for presence checks: a key that is absent stays nil.
type dailyResponse struct {
	ErrorMessage json.RawMessage                                 `json:"Error Message"`
	Note         string                                          `json:"Note"`
	Information  string                                          `json:"Information"`
	MetaData     json.RawMessage                                 `json:"Meta Data"`
	TimeSeries   *orderedmap.OrderedMap[string, json.RawMessage] `json:"Time Series (Daily)"`
}

// FetchDaily requests the daily series for symbol and classifies the answer.
//
// Errors:
//   - apperr.UpstreamTransport: request failed, timed out or returned non-2xx.
//   - apperr.UpstreamData: body carried "Error Message" or no daily series.
//   - anything else (e.g. an undecodable body) is left unclassified.
func (c *Client) FetchDaily(ctx context.Context, symbol string) (*models.DailySeries, error) {
	if symbol == "" {
		return nil, ErrEmptySymbol
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.DailyURL(symbol), nil)
	if err != nil {
		return nil, fmt.Errorf("build daily request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	logger.L().Debug().Str("url", c.redactedDailyURL(symbol)).Msg("requesting daily series")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Transport(scrub(err, c.apiKey))
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4<<10))
		if err := res.Body.Close(); err != nil {
			logger.L().Warn().Err(err).Msg("failed to close response body")
		}
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, apperr.Transport(fmt.Errorf("alphavantage http %d", res.StatusCode))
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, c.maxBodyBytes))
	if err != nil {
		return nil, apperr.Transport(fmt.Errorf("read daily response: %w", err))
	}

	var body dailyResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decode daily response: %w", err)
	}

	if body.ErrorMessage != nil {
		return nil, apperr.ProviderMessage(providerMessage(body.ErrorMessage))
	}

	if body.TimeSeries == nil {
		notice := body.Note
		if notice == "" {
			notice = body.Information
		}
		if notice != "" {
			logger.L().Warn().Str("ticker", symbol).Str("notice", notice).Msg("provider returned a notice instead of data")
			return nil, apperr.NoTimeSeries(fmt.Errorf("provider notice: %s", notice))
		}
		return nil, apperr.NoTimeSeries(nil)
	}

	return &models.DailySeries{
		Symbol:   symbol,
		MetaData: body.MetaData,
		Days:     body.TimeSeries,
	}, nil
}

// providerMessage returns the "Error Message" value as text: the string
// itself when it is a JSON string, the raw JSON otherwise.
func providerMessage(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

// scrub removes the API key from errors that embed the request URL,
// such as *url.Error, so it cannot leak into logs.
func scrub(err error, key string) error {
	if key == "" {
		return err
	}
	msg := err.Error()
	for _, k := range []string{key, url.QueryEscape(key)} {
		msg = strings.ReplaceAll(msg, k, redacted)
	}
	if msg == err.Error() {
		return err
	}
	return &scrubbedError{msg: msg, err: err}
}

type scrubbedError struct {
	msg string
	err error
}

func (e *scrubbedError) Error() string { return e.msg }
func (e *scrubbedError) Unwrap() error { return e.err }
