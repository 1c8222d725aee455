package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/upskill-roadmap/internal/config"
	"github.com/jonathan/upskill-roadmap/internal/logging"
	"github.com/jonathan/upskill-roadmap/internal/pipeline"
	"github.com/jonathan/upskill-roadmap/internal/server/middleware"
	"github.com/jonathan/upskill-roadmap/internal/server/ratelimit"
	"github.com/jonathan/upskill-roadmap/internal/types"
)

// Version is reported by the probe endpoints.
const Version = "1.0.0"

// DefaultMaxUploadBytes bounds the multipart body of /analyze-jd.
const DefaultMaxUploadBytes = 10 << 20

// Pipeline is the set of operations the API exposes.
type Pipeline interface {
	Analyze(ctx context.Context, req pipeline.AnalyzeRequest) (*types.JdAnalysis, error)
	GenerateRoadmap(ctx context.Context, jdID string, owner uuid.UUID) (*types.Roadmap, error)
	ListRoadmaps(ctx context.Context, owner uuid.UUID) ([]types.Roadmap, error)
	ListAnalyses(ctx context.Context, owner uuid.UUID) ([]types.JdAnalysis, error)
	GetAnalysis(ctx context.Context, jdID string, owner uuid.UUID) (*types.JdAnalysis, error)
	GetRoadmap(ctx context.Context, roadmapID string, owner uuid.UUID) (*types.Roadmap, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	pipeline       Pipeline
	rateLimiter    *ratelimit.Limiter
	jwtService     *JWTService
	authHandler    *AuthHandler
	validator      *validator.Validate
	allowedOrigins map[string]bool
	maxUploadBytes int64
	logger         *zap.Logger
}

// Config holds server configuration
type Config struct {
	Port           int
	AllowedOrigins []string
	MaxUploadBytes int64
	RateLimit      *ratelimit.Config // nil uses ratelimit.LoadConfig()
}

// Deps are the collaborators a Server is built from.
type Deps struct {
	Pipeline Pipeline
	Users    UserDirectory
	JWT      *config.JWTConfig
	Password *config.PasswordConfig
	Logger   *zap.Logger
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Pipeline == nil || deps.Users == nil {
		return nil, fmt.Errorf("server requires a pipeline and a user directory")
	}
	if deps.JWT == nil || deps.Password == nil {
		return nil, fmt.Errorf("server requires JWT and password configuration")
	}

	logger := logging.Component(deps.Logger, "server")

	s := &Server{
		pipeline:       deps.Pipeline,
		validator:      newValidator(),
		allowedOrigins: make(map[string]bool, len(cfg.AllowedOrigins)),
		maxUploadBytes: cfg.MaxUploadBytes,
		logger:         logger,
	}
	for _, origin := range cfg.AllowedOrigins {
		s.allowedOrigins[origin] = true
	}
	if s.maxUploadBytes <= 0 {
		s.maxUploadBytes = DefaultMaxUploadBytes
	}

	rateConfig := cfg.RateLimit
	if rateConfig == nil {
		rateConfig = ratelimit.LoadConfig()
	}
	s.rateLimiter = ratelimit.NewLimiter(rateConfig)

	s.jwtService = NewJWTService(deps.JWT)
	s.authHandler = NewAuthHandler(NewUserService(deps.Users, deps.Password), s.jwtService, deps.Logger)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // analysis waits on external capabilities
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleRoot)

	mux.HandleFunc("POST /auth/signup", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	mux.Handle("GET /auth/me", auth(http.HandlerFunc(s.authHandler.Me)))

	mux.Handle("POST /analyze-jd", auth(http.HandlerFunc(s.handleAnalyzeJD)))
	mux.Handle("POST /generate-roadmap", auth(http.HandlerFunc(s.handleGenerateRoadmap)))
	mux.Handle("GET /user/roadmaps", auth(http.HandlerFunc(s.handleListRoadmaps)))
	mux.Handle("GET /user/analyses", auth(http.HandlerFunc(s.handleListAnalyses)))
	mux.Handle("GET /roadmaps/{id}", auth(http.HandlerFunc(s.handleGetRoadmap)))
	mux.Handle("GET /analyses/{id}", auth(http.HandlerFunc(s.handleGetAnalysis)))

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start listens until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
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
	case err, ok := <-errCh:
		s.rateLimiter.Stop()
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.rateLimiter.Stop()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// withCORS allows the configured browser origins
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" && s.allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients over their per-endpoint budget with 429
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for access logs
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging writes one access log entry per request
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
			zap.String("remote", clientID(r)))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "healthy", "version": Version})
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"message": "Job Upskilling API", "version": Version})
}

// clientID identifies the caller by the IP in RemoteAddr.
// X-Forwarded-For is ignored: there is no trusted proxy configuration.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate limit exceeded, please try again later",
		"kind":      "rate_limited",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second).Seconds())
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Warn("rate limit exceeded", zap.Int("limit", info.Limit))
	writeJSON(w, s.logger, http.StatusTooManyRequests, response)
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.OrNop(logger).Warn("failed to encode JSON response", zap.Error(err))
	}
}

// writeError maps err to a status and writes the error body. Server errors are logged.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logging.OrNop(logger).Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, logger, status, errorBody(err))
}
