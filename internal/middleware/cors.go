package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// CORSConfig represents the configuration for CORS.
type CORSConfig struct {
	AllowedOrigins []string
	MaxAge         int
}

func (c CORSConfig) allowsAll() bool {
	return len(c.AllowedOrigins) == 0 || c.AllowedOrigins[0] == "*"
}

// CORSOptions translates CORSConfig into rs/cors options.
func CORSOptions(config CORSConfig) cors.Options {
	opts := cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{RequestIDHeader},
		MaxAge:           config.MaxAge,
		AllowCredentials: false,
	}
	if config.allowsAll() {
		opts.AllowedOrigins = []string{"*"}
	} else {
		opts.AllowOriginFunc = AllowedOrigin(config.AllowedOrigins)
	}
	return opts
}

// AllowedOrigin matches an origin against the list, ignoring the scheme.
func AllowedOrigin(allowedOrigins []string) func(origin string) bool {
	trimScheme := func(origin string) string {
		return strings.TrimPrefix(strings.TrimPrefix(origin, "https://"), "http://")
	}
	return func(origin string) bool {
		if len(allowedOrigins) == 0 || allowedOrigins[0] == "*" {
			return true
		}
		for _, allowedOrigin := range allowedOrigins {
			if allowedOrigin == origin || trimScheme(allowedOrigin) == trimScheme(origin) {
				return true
			}
		}
		return false
	}
}

// CORS adapts rs/cors to gin.
//
// Behavior:
//   - Actual requests get the allow/expose headers and continue.
//   - Preflight requests (OPTIONS with Access-Control-Request-Method) are
//     answered with 204 and stop here.
//   - With a wildcard configuration, Access-Control-Allow-Origin: * is set
//     even when the request has no Origin header, so every response carries it.
func CORS(config CORSConfig) gin.HandlerFunc {
	c := cors.New(CORSOptions(config))
	wildcard := config.allowsAll()

	return func(ctx *gin.Context) {
		r := ctx.Request
		preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""

		c.HandlerFunc(ctx.Writer, r)

		if wildcard && ctx.Writer.Header().Get("Access-Control-Allow-Origin") == "" {
			ctx.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if preflight {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}
		ctx.Next()
	}
}
