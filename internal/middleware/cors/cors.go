package cors

import (
	"net/http"
	"strconv"
	"strings"
)

// Config holds the cross-origin policy. The default is restrictive: with no
// allowed origins, cross-origin requests get no CORS headers at all and the
// browser blocks them. A wildcard must be configured explicitly.
type Config struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAgeSeconds  int
}

// DefaultConfig returns the method/header sets for this API with no
// origins allowed.
func DefaultConfig() Config {
	return Config{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAgeSeconds:  600,
	}
}

// Middleware applies the cross-origin policy and answers preflight requests.
type Middleware struct {
	config    Config
	wildcard  bool
	originSet map[string]struct{}
}

// NewMiddleware creates a CORS middleware for the given config.
func NewMiddleware(config Config) *Middleware {
	if len(config.AllowedMethods) == 0 {
		config.AllowedMethods = DefaultConfig().AllowedMethods
	}
	if len(config.AllowedHeaders) == 0 {
		config.AllowedHeaders = DefaultConfig().AllowedHeaders
	}
	if config.MaxAgeSeconds <= 0 {
		config.MaxAgeSeconds = DefaultConfig().MaxAgeSeconds
	}

	m := &Middleware{
		config:    config,
		originSet: make(map[string]struct{}, len(config.AllowedOrigins)),
	}
	for _, origin := range config.AllowedOrigins {
		if origin == "*" {
			m.wildcard = true
			continue
		}
		m.originSet[origin] = struct{}{}
	}
	return m
}

// Middleware returns the HTTP middleware function.
func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && m.allowed(origin) {
			headers := w.Header()
			if m.wildcard {
				headers.Set("Access-Control-Allow-Origin", "*")
			} else {
				headers.Set("Access-Control-Allow-Origin", origin)
				headers.Add("Vary", "Origin")
			}
			headers.Set("Access-Control-Allow-Methods", strings.Join(m.config.AllowedMethods, ", "))
			headers.Set("Access-Control-Allow-Headers", strings.Join(m.config.AllowedHeaders, ", "))
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			if origin != "" && m.allowed(origin) {
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(m.config.MaxAgeSeconds))
				w.WriteHeader(http.StatusNoContent)
			} else {
				w.WriteHeader(http.StatusForbidden)
			}
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) allowed(origin string) bool {
	if m.wildcard {
		return true
	}
	_, ok := m.originSet[origin]
	return ok
}
