// Package apperr classifies failures of the relay into a small set of kinds,
// each with a fixed HTTP status and a client-facing message.
package apperr

import (
	"errors"
	"net/http"
)

// Kind identifies the category of a failure.
type Kind int

const (
	// Internal is the fallback for anything not otherwise classified.
	Internal Kind = iota
	// Validation means the caller sent bad input.
	Validation
	// Configuration means the server is missing required settings.
	Configuration
	// UpstreamTransport means the provider could not be reached or answered non-2xx.
	UpstreamTransport
	// UpstreamData means the provider answered but with an error or without data.
	UpstreamData
)

// Client-facing messages.
const (
	MsgMissingTicker   = "Please provide a 'ticker' parameter."
	MsgMissingAPIKey   = "Server is not configured with an API key."
	MsgUpstreamFailure = "Error communicating with the financial data provider."
	MsgNoTimeSeries    = "No time series data found."
	MsgInternal        = "An internal server error occurred."
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Configuration:
		return "configuration"
	case UpstreamTransport:
		return "upstream_transport"
	case UpstreamData:
		return "upstream_data"
	default:
		return "internal"
	}
}

// Status maps a kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case Validation:
		return http.StatusBadRequest
	case UpstreamData:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure. Message is safe to show to clients;
// Err carries the internal cause and only ever reaches the logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a classified error.
func New(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

// MissingTicker is returned when the ticker query parameter is absent or blank.
func MissingTicker() *Error {
	return New(Validation, MsgMissingTicker, nil)
}

// MissingAPIKey is returned when no upstream key is configured.
func MissingAPIKey() *Error {
	return New(Configuration, MsgMissingAPIKey, nil)
}

// Transport wraps a network, timeout or non-2xx failure talking to the provider.
func Transport(cause error) *Error {
	return New(UpstreamTransport, MsgUpstreamFailure, cause)
}

// ProviderMessage carries an "Error Message" returned by the provider verbatim.
func ProviderMessage(msg string) *Error {
	return New(UpstreamData, msg, nil)
}

// NoTimeSeries is returned when the provider body has no daily series.
func NoTimeSeries(cause error) *Error {
	return New(UpstreamData, MsgNoTimeSeries, cause)
}

// Wrap classifies err as Internal unless it already carries a kind.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return New(Internal, MsgInternal, err)
}

// KindOf returns the kind of err, Internal when unclassified.
func KindOf(err error) Kind {
	return Wrap(err).Kind
}
