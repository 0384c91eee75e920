package alphavantage_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/guttosm/stockrelay/internal/domain/apperr"
	"github.com/guttosm/stockrelay/internal/provider/alphavantage"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const dailyBody = `{
	"Meta Data": {"1. Information": "Daily Prices", "2. Symbol": "IBM"},
	"Time Series (Daily)": {
		"2024-03-05": {"1. open": "3", "4. close": "3.5"},
		"2024-03-01": {"1. open": "1", "4. close": "1.5"},
		"2024-03-04": {"1. open": "2", "4. close": "2.5"}
	}
}`

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchDaily_Success(t *testing.T) {
	t.Parallel()

	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"function": q.Get("function"),
			"symbol":   q.Get("symbol"),
			"apikey":   q.Get("apikey"),
		}
		_, _ = w.Write([]byte(dailyBody))
	}))
	defer srv.Close()

	client := alphavantage.NewClient("test-key", alphavantage.WithBaseURL(srv.URL), alphavantage.WithHTTPClient(srv.Client()))

	series, err := client.FetchDaily(context.Background(), "IBM")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"function": "TIME_SERIES_DAILY", "symbol": "IBM", "apikey": "test-key"}, gotQuery)

	require.Equal(t, "IBM", series.Symbol)
	require.JSONEq(t, `{"1. Information": "Daily Prices", "2. Symbol": "IBM"}`, string(series.MetaData))
	require.Equal(t, 3, series.Len())

	var keys []string
	for p := series.Days.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	require.Equal(t, []string{"2024-03-05", "2024-03-01", "2024-03-04"}, keys)
}

func TestFetchDaily_Classification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		status  int
		body    string
		kind    apperr.Kind
		message string
	}{
		{
			name:    "provider error message",
			status:  http.StatusOK,
			body:    `{"Error Message": "Invalid API call"}`,
			kind:    apperr.UpstreamData,
			message: "Invalid API call",
		},
		{
			name:    "error message wins over series",
			status:  http.StatusOK,
			body:    `{"Error Message": "Invalid API call", "Time Series (Daily)": {}}`,
			kind:    apperr.UpstreamData,
			message: "Invalid API call",
		},
		{
			name:    "non string error message",
			status:  http.StatusOK,
			body:    `{"Error Message": 42}`,
			kind:    apperr.UpstreamData,
			message: "42",
		},
		{
			name:    "no series",
			status:  http.StatusOK,
			body:    `{"Meta Data": {}}`,
			kind:    apperr.UpstreamData,
			message: apperr.MsgNoTimeSeries,
		},
		{
			name:    "null series",
			status:  http.StatusOK,
			body:    `{"Meta Data": {}, "Time Series (Daily)": null}`,
			kind:    apperr.UpstreamData,
			message: apperr.MsgNoTimeSeries,
		},
		{
			name:    "throttle note",
			status:  http.StatusOK,
			body:    `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`,
			kind:    apperr.UpstreamData,
			message: apperr.MsgNoTimeSeries,
		},
		{
			name:    "information notice",
			status:  http.StatusOK,
			body:    `{"Information": "The **demo** API key is for demo purposes only."}`,
			kind:    apperr.UpstreamData,
			message: apperr.MsgNoTimeSeries,
		},
		{
			name:    "server error status",
			status:  http.StatusServiceUnavailable,
			body:    `{}`,
			kind:    apperr.UpstreamTransport,
			message: apperr.MsgUpstreamFailure,
		},
		{
			name:    "not found status",
			status:  http.StatusNotFound,
			body:    `not found`,
			kind:    apperr.UpstreamTransport,
			message: apperr.MsgUpstreamFailure,
		},
		{
			name:    "invalid json",
			status:  http.StatusOK,
			body:    `<html>oops</html>`,
			kind:    apperr.Internal,
			message: apperr.MsgInternal,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv := newServer(t, tc.status, tc.body)
			client := alphavantage.NewClient("k", alphavantage.WithBaseURL(srv.URL), alphavantage.WithHTTPClient(srv.Client()))

			series, err := client.FetchDaily(context.Background(), "IBM")
			require.Error(t, err)
			require.Nil(t, series)

			classified := apperr.Wrap(err)
			require.Equal(t, tc.kind, classified.Kind)
			require.Equal(t, tc.message, classified.Message)
		})
	}
}

func TestFetchDaily_ConnectionRefused(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	client := alphavantage.NewClient("k", alphavantage.WithBaseURL(base), alphavantage.WithHTTPClient(alphavantage.NewHTTPClient(time.Second)))

	_, err := client.FetchDaily(context.Background(), "IBM")
	require.Error(t, err)
	require.Equal(t, apperr.UpstreamTransport, apperr.KindOf(err))
}

func TestFetchDaily_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := alphavantage.NewClient("k", alphavantage.WithBaseURL(srv.URL), alphavantage.WithHTTPClient(alphavantage.NewHTTPClient(50*time.Millisecond)))

	_, err := client.FetchDaily(context.Background(), "IBM")
	require.Error(t, err)
	require.Equal(t, apperr.UpstreamTransport, apperr.KindOf(err))
}

func TestFetchDaily_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			return nil, req.Context().Err()
		}).
		Times(1)

	client := alphavantage.NewClient("k", alphavantage.WithHTTPClient(httpClient))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchDaily(ctx, "IBM")
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, apperr.UpstreamTransport, apperr.KindOf(err))
}

func TestFetchDaily_TransportErrorDoesNotLeakKey(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("Get \"" + req.URL.String() + "\": dial tcp: connection refused")
		}).
		Times(1)

	client := alphavantage.NewClient("super/secret key", alphavantage.WithHTTPClient(httpClient))

	_, err := client.FetchDaily(context.Background(), "IBM")
	require.Error(t, err)
	require.NotContains(t, err.Error(), "super/secret key")
	require.NotContains(t, err.Error(), "super%2Fsecret+key")
	require.Contains(t, err.Error(), "REDACTED")
}

func TestFetchDaily_SetsHeaders(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, http.MethodGet, req.Method)
			require.Equal(t, "application/json", req.Header.Get("Accept"))
			require.True(t, strings.HasPrefix(req.Header.Get("User-Agent"), "stockrelay/"))
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewBufferString(dailyBody)),
			}, nil
		}).
		Times(1)

	client := alphavantage.NewClient("k", alphavantage.WithHTTPClient(httpClient))

	series, err := client.FetchDaily(context.Background(), "IBM")
	require.NoError(t, err)
	require.Equal(t, 3, series.Len())
}

func TestFetchDaily_BodyLimit(t *testing.T) {
	t.Parallel()

	srv := newServer(t, http.StatusOK, dailyBody)
	client := alphavantage.NewClient("k",
		alphavantage.WithBaseURL(srv.URL),
		alphavantage.WithHTTPClient(srv.Client()),
		alphavantage.WithMaxBodyBytes(16),
	)

	_, err := client.FetchDaily(context.Background(), "IBM")
	require.Error(t, err)
	require.Equal(t, apperr.Internal, apperr.KindOf(err))
}

func TestFetchDaily_EmptySymbol(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	client := alphavantage.NewClient("k", alphavantage.WithHTTPClient(httpClient))

	_, err := client.FetchDaily(context.Background(), "")
	require.ErrorIs(t, err, alphavantage.ErrEmptySymbol)
}
