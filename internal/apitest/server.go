// Package apitest provides an in-memory career-guidance backend. It serves the same REST
// surface as the real service under /api, keeps its data in memory, and lets tests inject
// failures or hold requests on any route.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jonathan/career-guide/internal/types"
)

// BasePath is the prefix every route is mounted under.
const BasePath = "/api"

// Options configures the fake backend.
type Options struct {
	// Secret signs session cookies. A random secret is generated when empty.
	Secret string
	// SessionTTL bounds how long a session cookie stays valid (default 24h).
	SessionTTL time.Duration
	// BcryptCost is the password hashing cost (default bcrypt.DefaultCost).
	BcryptCost int
	// Questions seeds the quiz. nil seeds DefaultQuestions; an empty slice seeds nothing.
	Questions []types.Question
	// RateLimit is the per-client request rate in requests per second. 0 disables limiting.
	RateLimit float64
	// RateBurst is the token bucket size used with RateLimit (default 1).
	RateBurst int
	Logger    *zap.Logger
	Now       func() time.Time
}

// Server is the fake backend.
type Server struct {
	store    *store
	sessions *sessionManager
	logger   *zap.Logger
	router   chi.Router
	metrics  *metrics
	limiter  *rateLimiter

	mu     sync.Mutex
	faults map[string]fault
	holds  map[string]*gate
	calls  map[string]int
}

// New creates a fake backend seeded with the configured questions.
func New(opts Options) *Server {
	if opts.Secret == "" {
		opts.Secret = uuid.NewString()
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Questions == nil {
		opts.Questions = DefaultQuestions()
	}

	s := &Server{
		store:    newStore(opts.BcryptCost, opts.Now),
		sessions: newSessionManager(opts.Secret, opts.SessionTTL, opts.Now),
		logger:   opts.Logger.Named("apitest"),
		faults:   make(map[string]fault),
		holds:    make(map[string]*gate),
		calls:    make(map[string]int),
		metrics:  newMetrics(),
	}
	if opts.RateLimit > 0 {
		s.limiter = newRateLimiter(opts.RateLimit, max(opts.RateBurst, 1), opts.Now)
	}
	s.store.replaceQuestions(opts.Questions)
	s.router = s.routes()
	return s
}

// NewTestServer starts a fake backend on a loopback listener that is shut down when the
// test ends. It uses the minimum bcrypt cost to keep tests fast. The returned URL already
// includes BasePath.
func NewTestServer(t testing.TB, opts ...func(*Options)) (*Server, string) {
	t.Helper()
	o := Options{BcryptCost: bcrypt.MinCost}
	for _, fn := range opts {
		fn(&o)
	}
	s := New(o)
	ts := httptest.NewServer(s)
	t.Cleanup(func() {
		s.ReleaseAll()
		ts.Close()
	})
	return s, ts.URL + BasePath
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type access int

const (
	public access = iota
	authenticated
	adminOnly
)

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.withLogging, s.metrics.middleware)
	r.Method(http.MethodGet, MetricsPath, s.metrics.handler())
	r.Route(BasePath, func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.withRateLimit)
		}
		s.handle(r, http.MethodPost, "/auth/register", public, s.handleRegister)
		s.handle(r, http.MethodPost, "/auth/login", public, s.handleLogin)
		s.handle(r, http.MethodPost, "/auth/logout", authenticated, s.handleLogout)
		s.handle(r, http.MethodGet, "/auth/me", authenticated, s.handleMe)

		s.handle(r, http.MethodGet, "/quiz/questions", public, s.handleListQuestions)
		s.handle(r, http.MethodPost, "/quiz/questions", adminOnly, s.handleCreateQuestion)
		s.handle(r, http.MethodDelete, "/quiz/questions/{id}", adminOnly, s.handleDeleteQuestion)
		s.handle(r, http.MethodPost, "/quiz/responses", authenticated, s.handleSubmitResponse)
		s.handle(r, http.MethodGet, "/quiz/responses", authenticated, s.handleListResponses)
		s.handle(r, http.MethodGet, "/quiz/responses/all", adminOnly, s.handleListAllResponses)

		s.handle(r, http.MethodGet, "/recommendations", authenticated, s.handleListRecommendations)
		s.handle(r, http.MethodPost, "/recommendations/generate", authenticated, s.handleGenerateRecommendations)
		s.handle(r, http.MethodGet, "/recommendations/all", adminOnly, s.handleListAllRecommendations)

		s.handle(r, http.MethodPost, "/feedback", authenticated, s.handleSubmitFeedback)
		s.handle(r, http.MethodGet, "/feedback", authenticated, s.handleListFeedback)
		s.handle(r, http.MethodGet, "/feedback/all", adminOnly, s.handleListAllFeedback)
		s.handle(r, http.MethodDelete, "/feedback/{id}", adminOnly, s.handleDeleteFeedback)

		s.handle(r, http.MethodGet, "/users", adminOnly, s.handleListUsers)
		s.handle(r, http.MethodGet, "/health", public, s.handleHealth)
	})
	return r
}

// handle registers h under pattern. Requests are counted and checked against injected
// faults and holds before the access check runs.
func (s *Server) handle(r chi.Router, method, pattern string, level access, h http.HandlerFunc) {
	var next http.Handler = h
	switch level {
	case authenticated:
		next = s.requireAuth(next)
	case adminOnly:
		next = s.requireAuth(s.requireAdmin(next))
	}
	r.Method(method, pattern, s.instrument(routeKey(method, pattern), next))
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request served",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// decodeBody decodes a JSON request body, answering 400 when it is missing or malformed.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		s.errorResponse(w, http.StatusBadRequest, "No data provided")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "No data provided")
		return false
	}
	return true
}

// validationFailed answers 400 with per-field details.
func (s *Server) validationFailed(w http.ResponseWriter, err error) {
	s.jsonResponse(w, http.StatusBadRequest, map[string]any{
		"error":   "Validation failed",
		"details": validationDetails(err),
	})
}
