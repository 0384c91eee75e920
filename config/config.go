package config

import (
	"log"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"
)

// DefaultBaseURL is the public Alpha Vantage query endpoint.
const DefaultBaseURL = "https://www.alphavantage.co/query"

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system:
// the HTTP server, the upstream market data provider and cross-origin access.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	REQUEST_TIMEOUT=15s
//	ALPHA_VANTAGE_API_KEY=demo
//	ALPHA_VANTAGE_BASE_URL=https://www.alphavantage.co/query
//	ALPHA_VANTAGE_TIMEOUT=10s
//	ALPHA_VANTAGE_MAX_ENTRIES=30
//	CORS_ALLOWED_ORIGINS=*
//	CORS_MAX_AGE=600
type Config struct {
	Server   ServerConfig   // HTTP server configuration
	Provider ProviderConfig // Upstream market data provider settings
	CORS     CORSConfig     // Cross-origin settings applied to every response
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string        // The TCP port the HTTP server will listen on (e.g., "8080")
	RequestTimeout time.Duration // Deadline attached to every inbound request context
}

// ProviderConfig defines how the relay talks to Alpha Vantage.
//
// Fields:
//   - APIKey: secret sent as the apikey query parameter. Never logged.
//   - BaseURL: query endpoint, overridable for tests and proxies.
//   - Timeout: upper bound for a single upstream call.
//   - MaxEntries: how many daily entries survive trimming.
type ProviderConfig struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	MaxEntries int
}

// HasAPIKey reports whether an upstream key has been configured.
func (p ProviderConfig) HasAPIKey() bool {
	return strings.TrimSpace(p.APIKey) != ""
}

// CORSConfig lists the origins allowed to call the API from a browser.
// An empty list or a leading "*" allows every origin.
type CORSConfig struct {
	AllowedOrigins []string
	MaxAge         int
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and then passed by value into
// app.InitializeApp; packages below app never read it directly.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// A missing ALPHA_VANTAGE_API_KEY is not fatal: the server still starts,
// reports itself as not ready and answers data requests with a
// configuration error. Structural fields are checked by validateConfig().
func LoadConfig() {
	v := viper.New()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("REQUEST_TIMEOUT", "15s")

	v.SetDefault("ALPHA_VANTAGE_BASE_URL", DefaultBaseURL)
	v.SetDefault("ALPHA_VANTAGE_TIMEOUT", "10s")
	v.SetDefault("ALPHA_VANTAGE_MAX_ENTRIES", 30)

	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("CORS_MAX_AGE", 600)

	// Optionally read from .env if present (common in local dev)
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore error if no .env

	v.AutomaticEnv()

	// PaaS hosts (Render, Heroku) inject PORT rather than SERVER_PORT.
	_ = v.BindEnv("SERVER_PORT", "SERVER_PORT", "PORT")

	AppConfig = Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
		},
		Provider: ProviderConfig{
			APIKey:     strings.TrimSpace(v.GetString("ALPHA_VANTAGE_API_KEY")),
			BaseURL:    v.GetString("ALPHA_VANTAGE_BASE_URL"),
			Timeout:    v.GetDuration("ALPHA_VANTAGE_TIMEOUT"),
			MaxEntries: v.GetInt("ALPHA_VANTAGE_MAX_ENTRIES"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(v.GetString("CORS_ALLOWED_ORIGINS")),
			MaxAge:         v.GetInt("CORS_MAX_AGE"),
		},
	}

	validateConfig()
}

// Validate checks the structural fields of the configuration.
// The API key is deliberately absent from the rules.
func (c Config) Validate() error {
	return validation.Errors{
		"server": validation.ValidateStruct(&c.Server,
			validation.Field(&c.Server.Port, validation.Required, is.Port),
			validation.Field(&c.Server.RequestTimeout, validation.Required, validation.Min(time.Millisecond)),
		),
		"provider": validation.ValidateStruct(&c.Provider,
			validation.Field(&c.Provider.BaseURL, validation.Required, is.URL),
			validation.Field(&c.Provider.Timeout, validation.Required, validation.Min(time.Millisecond)),
			validation.Field(&c.Provider.MaxEntries, validation.Required, validation.Min(1)),
		),
		"cors": validation.ValidateStruct(&c.CORS,
			validation.Field(&c.CORS.MaxAge, validation.Min(0)),
		),
	}.Filter()
}

// validateConfig terminates the application when structural configuration
// is invalid. This avoids unexpected runtime failures due to incomplete configuration.
func validateConfig() {
	if err := AppConfig.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v\n", err)
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
