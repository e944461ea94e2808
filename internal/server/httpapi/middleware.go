package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dishubaceh/damprah/internal/server/auth"
)

type contextKey string

const sessionContextKey contextKey = "session"

// SessionFromContext returns the authenticated session, or nil when the
// request was not authenticated.
func SessionFromContext(ctx context.Context) *auth.Session {
	sess, _ := ctx.Value(sessionContextKey).(*auth.Session)
	return sess
}

// authenticate validates the bearer token and stores the decoded session in
// the request context. Requests without a valid token never reach a handler.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeErrorMessage(w, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			writeErrorMessage(w, http.StatusUnauthorized, "expected Bearer token")
			return
		}

		sess, err := auth.SessionFromToken(parts[1], s.jwtSecret)
		if err != nil {
			writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// statusWriter captures the response code for the request log.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		sw.Header().Set("X-Request-Id", requestID)

		next.ServeHTTP(sw, r)

		args := []any{
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(start).String(),
		}
		switch {
		case sw.status >= 500:
			s.logger.Error(r.Context(), "http request", args...)
		case sw.status >= 400:
			s.logger.Warn(r.Context(), "http request", args...)
		default:
			s.logger.Info(r.Context(), "http request", args...)
		}
	})
}
