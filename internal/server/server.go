// Package server provides the HTTP REST API for story matching.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jeffbeard/storylift/internal/server/ratelimit"
	"github.com/jeffbeard/storylift/internal/types"
)

// Matcher is the matching service behind the API
type Matcher interface {
	MatchJob(ctx context.Context, jobID, userID uuid.UUID) ([]types.RequirementMatch, error)
	Suggestions(ctx context.Context, jobID, userID uuid.UUID) (*types.SuggestionsResponse, error)
	RequirementsForJob(ctx context.Context, jobID uuid.UUID) ([]types.Requirement, error)
	StoriesForRequirement(ctx context.Context, requirementID uuid.UUID) ([]types.MappedStory, error)
	MapStory(ctx context.Context, storyID, requirementID uuid.UUID) bool
	UnmapStory(ctx context.Context, storyID, requirementID uuid.UUID) bool
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	matcher     Matcher
	rateLimiter *ratelimit.Limiter
	logger      *zap.Logger
}

// Config holds server configuration
type Config struct {
	Port      int
	RateLimit *ratelimit.Config
	Logger    *zap.Logger
}

// New creates a new server instance
func New(cfg Config, matcher Matcher) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		matcher:     matcher,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		logger:      logger,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // matching a large job embeds every story
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.withLogging)
	r.Use(middleware.Recoverer)
	r.Use(s.withCORS)
	r.Use(s.withRateLimit)

	r.Get("/api/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/matching", func(r chi.Router) {
		r.Post("/job/{jobId}", s.handleMatchJob)
		r.Get("/suggestions/{jobId}", s.handleSuggestions)
		r.Post("/map", s.handleMapStory)
		r.Delete("/map", s.handleUnmapStory)
		r.Get("/requirement/{requirementId}/stories", s.handleRequirementStories)
	})
	r.Get("/api/requirements/job/{jobId}", s.handleListRequirements)

	return r
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves requests until ctx is cancelled or the process receives SIGINT/SIGTERM
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.rateLimiter.Stop()
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.rateLimiter.Stop()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Close stops background work without serving
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("error encoding JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to a status code and writes it
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var validation *ErrValidation
	if errors.As(err, &validation) {
		s.errorResponse(w, http.StatusBadRequest, validation.Message)
		return
	}
	s.logger.Error("request failed", zap.Error(err))
	s.errorResponse(w, HTTPStatus(err), "Internal server error")
}
