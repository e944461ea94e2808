// Package httpapi exposes the dashboard over HTTP: session login, the port
// registry, reconciled document tables, file upload/delete and preview
// dispatch. Authentication is a bearer session token; authorization is
// enforced here for reads and again in the lifecycle controller for writes.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dishubaceh/damprah/internal/logging"
	"github.com/dishubaceh/damprah/internal/server/documents"
	"github.com/dishubaceh/damprah/internal/server/users"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	address   string
	logger    logging.Logger
	users     *users.Service
	documents *documents.Service
	jwtSecret []byte
}

func NewServer(address string, logger logging.Logger, us *users.Service, ds *documents.Service, secretKey string) *Server {
	return &Server{
		address:   address,
		logger:    logger.With("module", "http_server"),
		users:     us,
		documents: ds,
		jwtSecret: []byte(secretKey),
	}
}

// Handler builds the route tree. Split out of Run so tests can drive it
// with httptest.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Get("/ports", s.handlePorts)
			r.Get("/ports/{portID}/documents", s.handlePortDocuments)
			r.Route("/ports/{portID}/templates/{templateID}/files", func(r chi.Router) {
				r.Get("/", s.handleListFiles)
				r.Post("/", s.handleUpload)
			})
			r.Delete("/documents/{documentID}", s.handleDelete)
			r.Get("/documents/{documentID}/preview", s.handlePreview)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.address,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
