// Package server provides the HTTP REST API for the OJT matching engine.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/ojt-matcher/internal/catalog"
	"github.com/jonathan/ojt-matcher/internal/config"
	"github.com/jonathan/ojt-matcher/internal/db"
	"github.com/jonathan/ojt-matcher/internal/lifecycle"
	"github.com/jonathan/ojt-matcher/internal/matching"
	"github.com/jonathan/ojt-matcher/internal/notify"
	"github.com/jonathan/ojt-matcher/internal/registry"
	"github.com/jonathan/ojt-matcher/internal/server/middleware"
	"github.com/jonathan/ojt-matcher/internal/server/ratelimit"
	"github.com/jonathan/ojt-matcher/internal/timesheet"
	"github.com/jonathan/ojt-matcher/internal/types"
	"github.com/rs/zerolog"
)

// Store is everything the API reads and writes. *db.DB implements it.
type Store interface {
	lifecycle.Store
	timesheet.Store
	timesheet.AdviserDirectory
	registry.Store
	ListApplications(ctx context.Context, f db.ApplicationFilter) ([]*types.Application, error)
	ListStudentDocuments(ctx context.Context, studentID uuid.UUID) ([]types.StudentDocument, error)
	Statistics(ctx context.Context) (*db.Statistics, error)
	Ping(ctx context.Context) error
	Close()
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       Store
	lifecycle   *lifecycle.Service
	timesheet   *timesheet.Service
	registry    *registry.Service
	notifier    *notify.Dispatcher
	jwtService  *JWTService
	rateLimiter *ratelimit.Limiter
	logger      zerolog.Logger
	pageSize    int
}

// Config holds server configuration
type Config struct {
	Port      int
	PageSize  int
	JWT       *config.JWTConfig
	RateLimit *ratelimit.Config
	Notifier  *notify.Dispatcher
	// Catalog is loaded from the store on first use when nil.
	Catalog *catalog.Catalog
	Logger    zerolog.Logger
}

// New creates a new server instance over store.
func New(cfg Config, store Store) *Server {
	if cfg.PageSize <= 0 {
		cfg.PageSize = matching.DefaultPageSize
	}
	if cfg.RateLimit == nil {
		cfg.RateLimit = ratelimit.LoadConfig()
	}

	s := &Server{
		store:       store,
		lifecycle:   lifecycle.NewService(store, cfg.Notifier, cfg.Logger),
		timesheet:   timesheet.NewService(store, store, cfg.Notifier, cfg.Logger),
		registry:    registry.NewService(store, cfg.Catalog, cfg.Logger),
		notifier:    cfg.Notifier,
		jwtService:  NewJWTService(cfg.JWT),
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		logger:      cfg.Logger,
		pageSize:    cfg.PageSize,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the full middleware chain and routes.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()

	// Matching
	api.HandleFunc("GET /students/{id}/matches", s.handleMatches)
	api.HandleFunc("GET /students/{id}/internships/{internship_id}/score", s.handleScore)
	api.HandleFunc("GET /students/{id}/internships/{internship_id}/eligibility", s.handleEligibility)
	api.HandleFunc("GET /students/{id}/progress", s.handleProgress)

	// Applications
	api.HandleFunc("POST /internships/{id}/applications", s.handleApply)
	api.HandleFunc("GET /applications", s.handleListApplications)
	api.HandleFunc("PATCH /applications/{id}/status", s.handleUpdateApplicationStatus)

	// Listings and catalog
	api.HandleFunc("POST /internships", s.handleCreateInternship)
	api.HandleFunc("PATCH /internships/{id}/active", s.handleSetInternshipActive)
	api.HandleFunc("GET /courses/{id}/skills", s.handleCourseSkills)

	// Document checklist
	api.HandleFunc("POST /documents", s.handleSaveRequiredDocument)
	api.HandleFunc("PUT /students/{id}/documents/{document_id}", s.handleUploadDocument)

	// Weekly time records
	api.HandleFunc("POST /dtrs", s.handleSubmitDTR)
	api.HandleFunc("POST /dtrs/{id}/review", s.handleReviewDTR)
	api.HandleFunc("GET /advisers/me/dtrs", s.handleAdviserInbox)
	api.HandleFunc("GET /students/{id}/dtrs", s.handleStudentDTRs)

	// Adviser overrides
	api.HandleFunc("PUT /students/{id}/hours", s.handleSetHours)
	api.HandleFunc("PUT /students/{id}/status", s.handleSetStatus)

	api.HandleFunc("GET /statistics", s.handleStatistics)

	root := http.NewServeMux()
	root.HandleFunc("GET /health", s.handleHealth)
	root.Handle("/", middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(s.withRateLimit(api)))

	return s.withLogging(s.withCORS(root))
}

// Start listens until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	s.logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Stop rate limiter cleanup goroutine
	s.rateLimiter.Stop()
	// Let in-flight notifications finish
	s.notifier.Wait()
	s.store.Close()
	s.logger.Info().Msg("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit charges authenticated requests to the acting user
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.rateLimitClient(r), r.Method, r.URL.Path)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// rateLimitClient keys the request on the authenticated user, falling back to
// the remote IP.
func (s *Server) rateLimitClient(r *http.Request) ratelimit.Client {
	if actor, err := middleware.GetActor(r); err == nil && actor.UserID != uuid.Nil {
		return ratelimit.Client{Key: actor.UserID.String(), Role: string(actor.Role)}
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return ratelimit.Client{Key: r.RemoteAddr}
	}
	return ratelimit.Client{Key: ip}
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}
	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	s.logger.Warn().
		Int("limit", info.Limit).
		Time("reset", info.ResetTime).
		Msg("rate limit exceeded")

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
