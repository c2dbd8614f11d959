// Package server provides the HTTP entry point for the menu feed.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/nypl-labs/menufeed/internal/pagination"
)

// ContentType is sent with every feed response.
const ContentType = "text/xml; charset=utf-8"

// Renderer produces a serialized feed page.
type Renderer interface {
	Render(ctx context.Context, page int) ([]byte, error)
}

// Pinger reports whether the archive is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the main HTTP server.
type Server struct {
	feed    Renderer
	db      Pinger
	logger  zerolog.Logger
	router  chi.Router
	httpSrv *http.Server
}

// New creates a new server.
func New(feed Renderer, db Pinger, logger zerolog.Logger) *Server {
	s := &Server{
		feed:   feed,
		db:     db,
		logger: logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/", s.handleFeed)
	r.Get("/feed", s.handleFeed)
	r.Get("/healthz", s.handleHealth)

	s.router = r
}

// ServeHTTP lets the server be mounted or tested directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info().Str("addr", addr).Msg("server starting")
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	page := pagination.ParsePage(r.URL.Query().Get(pagination.QueryParam))

	body, err := s.feed.Render(r.Context(), page)
	if err != nil {
		s.logger.Error().Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Int("page", page).
			Msg("feed build failed")
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := s.db.Ping(r.Context()); err != nil {
		s.logger.Warn().Err(err).Msg("health check failed")
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	_, _ = w.Write([]byte("ok"))
}

// requestLogger replaces middleware.Logger with structured request logs.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info().
					Str("request_id", middleware.GetReqID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.RequestURI()).
					Int("status", ww.Status()).
					Int("bytes", ww.BytesWritten()).
					Dur("duration", time.Since(start)).
					Msg("request")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
