// Package server provides the HTTP REST API for datagraph project assignment.
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
	"go.uber.org/zap"

	"github.com/jonathan/datagraph/internal/assignment"
	"github.com/jonathan/datagraph/internal/db"
	"github.com/jonathan/datagraph/internal/logger"
	"github.com/jonathan/datagraph/internal/matching"
	"github.com/jonathan/datagraph/internal/server/ratelimit"
	"github.com/jonathan/datagraph/internal/types"
)

// Store is everything the HTTP layer reads and writes. *db.DB satisfies it.
type Store interface {
	assignment.Store

	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, name, email string) (*db.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	UpdateUserProfile(ctx context.Context, id uuid.UUID, profile db.UserProfile) (*db.User, error)

	CreateProject(ctx context.Context, in db.ProjectInput) (*db.Project, error)
	ListProjects(ctx context.Context, filters db.ProjectFilters) ([]db.Project, error)
	UpdateProject(ctx context.Context, id uuid.UUID, upd db.ProjectUpdate) (*db.Project, error)

	GetAssignment(ctx context.Context, id uuid.UUID) (*db.Assignment, error)
	ListAssignmentsByProject(ctx context.Context, projectID uuid.UUID) ([]db.Assignment, error)
	ListAssignmentsByUser(ctx context.Context, userID uuid.UUID) ([]db.Assignment, error)
	UpdateAssignmentStatus(ctx context.Context, id uuid.UUID, next types.AssignmentStatus) (*db.Assignment, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       Store
	closeStore  func()
	assigner    *assignment.Service
	rateLimiter *ratelimit.Limiter
	logger      *zap.Logger
}

// Config holds server configuration
type Config struct {
	Port          int
	DatabaseURL   string
	Logger        *zap.Logger
	Matcher       *matching.Matcher
	Concurrency   int
	CommitRetries int
	RateLimit     *ratelimit.Config // nil uses ratelimit.DefaultConfig
}

// New connects to the database and creates a new server instance
func New(cfg Config) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := NewWithStore(cfg, database)
	s.closeStore = database.Close
	return s, nil
}

// NewWithStore creates a server backed by store.
func NewWithStore(cfg Config, store Store) *Server {
	log := logger.WithFields(cfg.Logger)

	rlConfig := cfg.RateLimit
	if rlConfig == nil {
		rlConfig = ratelimit.DefaultConfig()
	}

	s := &Server{
		store: store,
		assigner: assignment.NewService(store, assignment.Options{
			Matcher:       cfg.Matcher,
			Logger:        log,
			Concurrency:   cfg.Concurrency,
			CommitRetries: cfg.CommitRetries,
		}),
		rateLimiter: ratelimit.NewLimiter(rlConfig),
		logger:      log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Assignment
	mux.HandleFunc("POST /projects/{id}/assign", s.handleAssignProject)
	mux.HandleFunc("POST /projects/auto-assign", s.handleAutoAssign)
	mux.HandleFunc("GET /projects/{id}/matches", s.handleProjectMatches)

	// Projects
	mux.HandleFunc("POST /projects", s.handleCreateProject)
	mux.HandleFunc("GET /projects", s.handleListProjects)
	mux.HandleFunc("GET /projects/{id}", s.handleGetProject)
	mux.HandleFunc("PATCH /projects/{id}", s.handleUpdateProject)
	mux.HandleFunc("GET /projects/{id}/assignments", s.handleListProjectAssignments)

	// Users
	mux.HandleFunc("POST /users", s.handleCreateUser)
	mux.HandleFunc("GET /users/{id}", s.handleGetUser)
	mux.HandleFunc("PUT /users/{id}/profile", s.handleUpdateProfile)
	mux.HandleFunc("GET /users/{id}/assignments", s.handleListUserAssignments)

	// Assignments
	mux.HandleFunc("GET /assignments/{id}", s.handleGetAssignment)
	mux.HandleFunc("PATCH /assignments/{id}", s.handleUpdateAssignment)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // auto-assign sweeps every open project
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		s.Close()
		return fmt.Errorf("server error: %w", err)
	}
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.Close()
	s.logger.Info("server stopped")
	return nil
}

// Close releases the rate limiter and, when New opened it, the database pool.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.closeStore != nil {
		s.closeStore()
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for request logging.
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
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
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
		s.logger.Error("encoding JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// errorFromErr maps err to a status and message. Unexpected errors are logged and
// reported as a generic internal error.
func (s *Server) errorFromErr(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		s.errorResponse(w, status, "internal error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid request body"}
	}
	return nil
}

// pathID parses the {id} path value.
func pathID(r *http.Request, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "invalid " + what + " ID"}
	}
	return id, nil
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For is not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
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
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	s.logger.Warn("rate limit exceeded",
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit),
		zap.Time("reset", info.ResetTime))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
