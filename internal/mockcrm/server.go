// ABOUTME: Mock Salesforce REST server.
// ABOUTME: Wires the chi router, middleware stack, and SObject handlers over the SQLite store.

package mockcrm

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/dusch/testdata-salesforce/internal/auth"
	"github.com/dusch/testdata-salesforce/internal/logging"
	"github.com/dusch/testdata-salesforce/internal/metrics"
	"github.com/dusch/testdata-salesforce/internal/store"
)

// TokenTTL is how long issued session tokens stay valid.
const TokenTTL = 2 * time.Hour

// Server serves a subset of the Salesforce REST API.
type Server struct {
	store       *store.Store
	logger      *zap.Logger
	instanceURL string
	quiet       bool
	now         func() time.Time
}

type Option func(*Server)

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithInstanceURL fixes the instance_url returned at login. By default it is
// derived from the token request's Host.
func WithInstanceURL(u string) Option {
	return func(s *Server) { s.instanceURL = u }
}

// WithoutAccessLog drops chi's per-request stdout logging.
func WithoutAccessLog() Option {
	return func(s *Server) { s.quiet = true }
}

func NewServer(st *store.Store, opts ...Option) *Server {
	s := &Server{
		store:  st,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	if !s.quiet {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(metrics.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	requestLog := logging.Middleware(s.store, s.logger)

	r.With(requestLog).Post("/services/oauth2/token", s.handleToken)
	r.With(requestLog).Post("/services/oauth2/revoke", s.handleRevoke)

	r.Route("/services/data/{version}", func(r chi.Router) {
		// Auth runs first so the request log sees the session's user.
		r.Use(auth.Middleware(s.store))
		r.Use(requestLog)

		r.Get("/sobjects", s.handleDescribeGlobal)
		r.Get("/sobjects/{sobject}", s.handleList)
		r.Post("/sobjects/{sobject}", s.handleCreate)
		r.Post("/sobjects/{sobject}/", s.handleCreate)
		r.Get("/sobjects/{sobject}/describe", s.handleDescribe)
		r.Get("/sobjects/{sobject}/{id}", s.handleGet)
	})

	return r
}
