// Package api exposes the document builder over HTTP. Clients POST a
// dataset and get back a DGML document, which is also persisted so it can
// be fetched again by ID.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/dgmlkit/pkg/cache"
	"github.com/matzehuels/dgmlkit/pkg/store"
)

// Config carries the server's collaborators. Nil Cache and Store default
// to a null cache and an in-memory store.
type Config struct {
	Addr   string
	Cache  cache.Cache
	Store  store.Store
	Logger *log.Logger
}

// Server handles graph build and retrieval requests.
type Server struct {
	addr   string
	cache  cache.Cache
	store  store.Store
	logger *log.Logger
}

// New creates a server from cfg, filling in defaults for missing
// collaborators.
func New(cfg Config) *Server {
	s := &Server{
		addr:   cfg.Addr,
		cache:  cfg.Cache,
		store:  cfg.Store,
		logger: cfg.Logger,
	}
	if s.addr == "" {
		s.addr = ":8080"
	}
	if s.cache == nil {
		s.cache = cache.NewNullCache()
	}
	if s.store == nil {
		s.store = store.NewMemoryStore()
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s
}

// Handler builds the HTTP routing tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/graphs", func(r chi.Router) {
		r.Post("/", s.handleBuildGraph)
		r.Get("/", s.handleListGraphs)
		r.Get("/{id}", s.handleGetGraph)
	})
	return r
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
