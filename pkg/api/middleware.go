package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"
)

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument logs every request and records admin API metrics.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", elapsed).
			Msg("Admin API request")

		if s.metrics != nil {
			s.metrics.RecordHTTPRequest(r.Method, routePattern(r.URL.Path), http.StatusText(rec.status), elapsed)
		}
	})
}

// routePattern collapses paths with identifiers so metric cardinality stays
// bounded.
func routePattern(path string) string {
	if strings.HasPrefix(path, "/v1/vhosts/") {
		return "/v1/vhosts/{name}"
	}
	return path
}

// defaultHeaders sets the headers every response carries.
func (s *Server) defaultHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", serverHeader)
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// cors handles cross-origin headers and preflight requests for the
// configured origins.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, allowed := range s.cfg.CrossDomains {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// auth enforces the bearer access token. A server without a configured
// token refuses every request rather than running open.
func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.AccessToken == "" {
			s.writeError(w, "Access token is not configured", "", http.StatusForbidden)
			return
		}

		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			s.writeError(w, "Authorization required", "", http.StatusUnauthorized)
			return
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.AccessToken)) != 1 {
			s.writeError(w, "Invalid access token", "", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
