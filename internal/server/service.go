// Package server exposes the session protocol and match endpoints over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/quantive/appmatch/internal/config"
	"github.com/quantive/appmatch/internal/matching"
	"github.com/quantive/appmatch/internal/session"
)

// MaxRequestBody caps incoming request bodies. Session states round-trip
// through the client, so bodies are bigger than the prompts alone.
const MaxRequestBody = 1 << 20 // 1 MiB

// Service is the HTTP service orchestrator.
type Service struct {
	version string
	config  *config.Config

	machine  *session.Machine
	matchSvc *matching.Service

	router *chi.Mux
	server *http.Server
}

// NewService wires the session machine and matching service into a router.
func NewService(version string, cfg *config.Config, machine *session.Machine, matchSvc *matching.Service) *Service {
	svc := &Service{
		version:  version,
		config:   cfg,
		machine:  machine,
		matchSvc: matchSvc,
		router:   chi.NewRouter(),
	}
	svc.setupMiddleware()
	svc.setupRoutes()
	return svc
}

// setupMiddleware configures HTTP middleware.
func (s *Service) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.config.HTTPTimeout))
	s.router.Use(middleware.RealIP)
	s.router.Use(maxBodySize(MaxRequestBody))
}

// setupRoutes configures HTTP routes.
func (s *Service) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/api/health", s.handleHealth)
	s.router.Get("/api/labels", s.handleLabels)

	s.router.Post("/api/interactive/start", s.handleStart)
	s.router.Post("/api/interactive/continue", s.handleContinue)
	s.router.Post("/api/interactive/finalize", s.handleFinalize)

	s.router.Post("/api/match", s.handleMatch)
}

// Start begins serving HTTP requests. Non-blocking.
func (s *Service) Start() error {
	addr := fmt.Sprintf(":%d", s.config.ListenPort)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server error")
		}
	}()
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Service) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router exposes the router, mainly for tests.
func (s *Service) Router() http.Handler {
	return s.router
}

// maxBodySize limits the size of incoming request bodies.
func maxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
