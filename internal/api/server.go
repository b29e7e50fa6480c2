// Package api exposes the assessment engine over HTTP. The server doubles as
// the "save to account" persistence service the CLI submits results to.
package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/cybercaution/cybercaution/internal/api/middleware"
	"github.com/cybercaution/cybercaution/internal/catalog"
	"github.com/cybercaution/cybercaution/internal/results"
	sharedErrors "github.com/cybercaution/cybercaution/internal/shared/errors"
)

// CatalogInfo is the list-view shape of a catalog.
type CatalogInfo struct {
	Type          string `json:"type"`
	Name          string `json:"name"`
	Framework     string `json:"framework"`
	SectionCount  int    `json:"section_count"`
	QuestionCount int    `json:"question_count"`
}

// SessionView is the API representation of an in-progress session.
type SessionView struct {
	ID             string    `json:"id"`
	AssessmentType string    `json:"assessment_type"`
	Section        int       `json:"section"`
	Answered       int       `json:"answered"`
	QuestionCount  int       `json:"question_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SessionCreateRequest starts a session for one assessment type. Resume asks
// the server to restore a persisted snapshot when one matches the active
// catalog.
type SessionCreateRequest struct {
	AssessmentType string `json:"assessment_type"`
	Resume         bool   `json:"resume"`
}

// AnswerRequest records one answer; Section optionally moves the pointer.
type AnswerRequest struct {
	QuestionID string `json:"question_id"`
	Value      string `json:"value"`
	Section    *int   `json:"section,omitempty"`
}

// ResultSaveRequest is the save-to-account payload.
type ResultSaveRequest struct {
	UserID  string          `json:"user_id"`
	Summary results.Summary `json:"summary"`
}

// SavedResult is a durably stored result record.
type SavedResult struct {
	ID      string          `json:"id"`
	UserID  string          `json:"user_id"`
	Summary results.Summary `json:"summary"`
	SavedAt time.Time       `json:"saved_at"`
}

type CatalogService interface {
	ListCatalogs(ctx context.Context) ([]CatalogInfo, error)
	GetCatalog(ctx context.Context, assessmentType string) (*catalog.Catalog, error)
}

type SessionService interface {
	ListSessions(ctx context.Context) ([]SessionView, error)
	CreateSession(ctx context.Context, req SessionCreateRequest) (*SessionView, error)
	GetSession(ctx context.Context, id string) (*SessionView, error)
	RecordAnswer(ctx context.Context, id string, req AnswerRequest) (*SessionView, error)
	GetScore(ctx context.Context, id string) (*results.Summary, error)
	CompleteSession(ctx context.Context, id string) (*results.Summary, error)
}

type ResultService interface {
	SaveResult(ctx context.Context, req ResultSaveRequest) (*SavedResult, error)
	ListResults(ctx context.Context, userID string) ([]SavedResult, error)
}

type HealthService interface {
	Check(ctx context.Context) error
	Ready(ctx context.Context) error
}

type Config struct {
	Catalogs    CatalogService
	Sessions    SessionService
	Results     ResultService
	Health      HealthService
	AuthToken   string
	Logger      *zap.Logger
	CORSOrigins []string // Allowed CORS origins (empty = allow all)
	RateLimit   int      // Requests per second per IP (0 = disabled)
	RateBurst   int      // Burst size for rate limiter
}

type Server struct {
	cfg      Config
	mux      *http.ServeMux
	limiters *rateLimiterMap
}

func NewServer(cfg Config) *Server {
	srv := &Server{
		cfg:      cfg,
		mux:      http.NewServeMux(),
		limiters: newRateLimiterMap(),
	}
	srv.routes()
	return srv
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Middleware chain: RequestID -> Logging -> RateLimit -> CORS -> Handler
	handler := middleware.RequestID(s.withLogging(s.withRateLimit(s.withCORS(s.mux))))
	handler.ServeHTTP(w, r)
}

func (s *Server) routes() {
	for _, prefix := range []string{"/api/v1", "/api"} {
		s.mux.Handle(prefix+"/health", s.withAuth(http.HandlerFunc(s.handleHealth)))
		s.mux.Handle(prefix+"/ready", s.withAuth(http.HandlerFunc(s.handleReady)))
		s.mux.Handle(prefix+"/catalogs", s.withAuth(http.HandlerFunc(s.handleCatalogs)))
		s.mux.Handle(prefix+"/catalogs/", s.withAuth(http.HandlerFunc(s.handleCatalogByType)))
		s.mux.Handle(prefix+"/sessions", s.withAuth(http.HandlerFunc(s.handleSessions)))
		s.mux.Handle(prefix+"/sessions/", s.withAuth(http.HandlerFunc(s.handleSessionByID)))
		s.mux.Handle(prefix+"/results", s.withAuth(http.HandlerFunc(s.handleResults)))
		s.mux.Handle(prefix+"/results/", s.withAuth(http.HandlerFunc(s.handleResultsByUser)))
	}
}

// pathSuffix strips the route prefix (versioned or not) from the URL path.
func pathSuffix(path, route string) string {
	for _, prefix := range []string{"/api/v1/", "/api/"} {
		if strings.HasPrefix(path, prefix+route) {
			return strings.TrimPrefix(path, prefix+route)
		}
	}
	return ""
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	if s.cfg.Health != nil {
		if err := s.cfg.Health.Check(r.Context()); err != nil {
			s.writeError(w, r, http.StatusInternalServerError, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	if s.cfg.Health != nil {
		if err := s.cfg.Health.Ready(r.Context()); err != nil {
			s.writeError(w, r, http.StatusServiceUnavailable, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleCatalogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	items, err := s.cfg.Catalogs.ListCatalogs(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCatalogByType(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	assessmentType := pathSuffix(r.URL.Path, "catalogs/")
	if assessmentType == "" {
		s.writeError(w, r, http.StatusNotFound, errors.New("assessment type required"))
		return
	}
	cat, err := s.cfg.Catalogs.GetCatalog(r.Context(), assessmentType)
	if err != nil {
		s.writeError(w, r, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		items, err := s.cfg.Sessions.ListSessions(r.Context())
		if err != nil {
			s.writeError(w, r, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	case http.MethodPost:
		r.Body = http.MaxBytesReader(w, r.Body, 1048576) // 1MB limit
		var req SessionCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, r, http.StatusBadRequest, err)
			return
		}
		created, err := s.cfg.Sessions.CreateSession(r.Context(), req)
		if err != nil {
			s.writeError(w, r, statusForError(err, http.StatusBadRequest), err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		s.methodNotAllowed(w, r)
	}
}

func (s *Server) handleSessionByID(w http.ResponseWriter, r *http.Request) {
	rest := pathSuffix(r.URL.Path, "sessions/")
	if rest == "" {
		s.writeError(w, r, http.StatusNotFound, errors.New("session ID required"))
		return
	}

	id, action := rest, ""
	if idx := strings.Index(rest, "/"); idx >= 0 {
		id, action = rest[:idx], rest[idx+1:]
	}

	switch action {
	case "":
		if r.Method != http.MethodGet {
			s.methodNotAllowed(w, r)
			return
		}
		view, err := s.cfg.Sessions.GetSession(r.Context(), id)
		if err != nil {
			s.writeError(w, r, statusForError(err, http.StatusNotFound), err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	case "answers":
		if r.Method != http.MethodPost {
			s.methodNotAllowed(w, r)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, 1048576) // 1MB limit
		var req AnswerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, r, http.StatusBadRequest, err)
			return
		}
		view, err := s.cfg.Sessions.RecordAnswer(r.Context(), id, req)
		if err != nil {
			s.writeError(w, r, statusForError(err, http.StatusBadRequest), err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	case "score":
		if r.Method != http.MethodGet {
			s.methodNotAllowed(w, r)
			return
		}
		summary, err := s.cfg.Sessions.GetScore(r.Context(), id)
		if err != nil {
			s.writeError(w, r, statusForError(err, http.StatusNotFound), err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	case "complete":
		if r.Method != http.MethodPost {
			s.methodNotAllowed(w, r)
			return
		}
		summary, err := s.cfg.Sessions.CompleteSession(r.Context(), id)
		if err != nil {
			s.writeError(w, r, statusForError(err, http.StatusConflict), err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	default:
		s.writeError(w, r, http.StatusNotFound, errors.New("unknown session action"))
	}
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, r)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1048576) // 1MB limit
	var req ResultSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	saved, err := s.cfg.Results.SaveResult(r.Context(), req)
	if err != nil {
		s.writeError(w, r, statusForError(err, http.StatusBadRequest), err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleResultsByUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	userID := pathSuffix(r.URL.Path, "results/")
	if userID == "" {
		s.writeError(w, r, http.StatusNotFound, errors.New("user ID required"))
		return
	}
	items, err := s.cfg.Results.ListResults(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, statusForError(err, http.StatusInternalServerError), err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// statusForError maps sentinel domain errors onto HTTP statuses, falling
// back to the handler's default.
func statusForError(err error, fallback int) int {
	switch {
	case errors.Is(err, sharedErrors.ErrSessionNotFound),
		errors.Is(err, sharedErrors.ErrCatalogNotFound),
		errors.Is(err, sharedErrors.ErrResultNotFound):
		return http.StatusNotFound
	case errors.Is(err, sharedErrors.ErrInvalidAnswer),
		errors.Is(err, sharedErrors.ErrEmptyQuestionID),
		errors.Is(err, sharedErrors.ErrEmptyUserID),
		errors.Is(err, sharedErrors.ErrEmptyCatalogType):
		return http.StatusBadRequest
	case errors.Is(err, sharedErrors.ErrResultsNotReady):
		return http.StatusConflict
	}
	return fallback
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.RateLimit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		// Extract client IP (handle X-Forwarded-For for proxied requests)
		clientIP := r.RemoteAddr
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			if idx := strings.Index(forwarded, ","); idx > 0 {
				clientIP = strings.TrimSpace(forwarded[:idx])
			} else {
				clientIP = strings.TrimSpace(forwarded)
			}
		}
		if idx := strings.LastIndex(clientIP, ":"); idx > 0 {
			clientIP = clientIP[:idx]
		}

		limiter := s.limiters.getLimiter(clientIP, s.cfg.RateLimit, s.cfg.RateBurst)
		if !limiter.Allow() {
			if s.cfg.Logger != nil {
				s.requestLogger(r).Warn("rate_limit_exceeded",
					zap.String("client_ip", clientIP),
				)
			}
			s.writeError(w, r, http.StatusTooManyRequests, errors.New("rate limit exceeded"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		allowOrigin := "*"
		if len(s.cfg.CORSOrigins) > 0 {
			allowed := false
			for _, allowedOrigin := range s.cfg.CORSOrigins {
				if allowedOrigin == origin {
					allowed = true
					allowOrigin = origin
					break
				}
			}
			if !allowed {
				allowOrigin = ""
			}
		}

		if allowOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Auth-Token")
			w.Header().Set("Access-Control-Max-Age", "3600")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(lrw, r)

		if s.cfg.Logger != nil {
			requestID := middleware.GetRequestID(r.Context())
			s.cfg.Logger.Info("http_request",
				zap.String("request_id", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Int("status", lrw.statusCode),
				zap.Duration("duration", time.Since(start)),
				zap.Int64("bytes", lrw.bytesWritten),
			)
		}
	})
}

func (s *Server) withAuth(next http.Handler) http.Handler {
	if s.cfg.AuthToken == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-Auth-Token")
		// Constant-time comparison to prevent timing attacks.
		if subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.AuthToken)) != 1 {
			s.writeError(w, r, http.StatusUnauthorized, errors.New("unauthorized"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// loggingResponseWriter wraps http.ResponseWriter to capture status code and bytes written
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	n, err := lrw.ResponseWriter.Write(b)
	lrw.bytesWritten += int64(n)
	return n, err
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	msg := err.Error()

	// For 5xx errors, return a generic message and log details server-side.
	if status >= 500 {
		if s.cfg.Logger != nil {
			s.requestLogger(r).Error("internal_server_error",
				zap.Error(err),
				zap.Int("status", status),
			)
		}
		msg = "internal server error"
	}

	writeJSON(w, status, map[string]string{"error": msg})
}

// requestLogger creates a logger with request context (request ID, method, path)
func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	if s.cfg.Logger == nil {
		return zap.NewNop()
	}

	requestID := middleware.GetRequestID(r.Context())
	return s.cfg.Logger.With(
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

// rateLimiterMap manages per-IP rate limiters with automatic cleanup
type rateLimiterMap struct {
	mu       sync.RWMutex
	limiters map[string]*ipLimiter
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newRateLimiterMap() *rateLimiterMap {
	m := &rateLimiterMap{
		limiters: make(map[string]*ipLimiter),
	}
	go m.cleanupLoop()
	return m
}

func (m *rateLimiterMap) getLimiter(ip string, rps, burst int) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	limiter, exists := m.limiters[ip]
	if !exists {
		limiter = &ipLimiter{
			limiter:  rate.NewLimiter(rate.Limit(rps), burst),
			lastSeen: time.Now(),
		}
		m.limiters[ip] = limiter
	} else {
		limiter.lastSeen = time.Now()
	}

	return limiter.limiter
}

// cleanupLoop removes limiters that haven't been used in 5 minutes
func (m *rateLimiterMap) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		m.mu.Lock()
		for ip, limiter := range m.limiters {
			if time.Since(limiter.lastSeen) > 5*time.Minute {
				delete(m.limiters, ip)
			}
		}
		m.mu.Unlock()
	}
}
