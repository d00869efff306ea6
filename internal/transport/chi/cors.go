package chi

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORSConfig is the browser origin policy.
type CORSConfig struct {
	AllowedOrigins []string
	MaxAgeSec      int
}

// CORSMiddleware allows credentialed requests from the listed origins with any header.
// Requests from other origins get no Access-Control-Allow-* headers.
func CORSMiddleware(cfg CORSConfig) func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
			http.MethodDelete, http.MethodOptions, http.MethodHead,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           cfg.MaxAgeSec,
	})
}
