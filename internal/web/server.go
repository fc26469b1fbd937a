// Package web serves the upload-and-review surface around the journal
// engine: a minimal form, a JSON API and export downloads.
package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tillbook-dev/tillbook/internal/config"
	"github.com/tillbook-dev/tillbook/internal/run"
)

// Server is the HTTP server for the till import application.
type Server struct {
	cfg     *config.Config
	workDir string
	logger  *zap.Logger
	router  *chi.Mux
	clock   func() time.Time

	mu      sync.Mutex
	results map[string]*storedRun
}

// storedRun keeps a finished run in memory until its export is fetched.
type storedRun struct {
	result  *run.Result
	user    string
	created time.Time
}

// NewServer creates a Server rooted at a tillbook work directory.
func NewServer(cfg *config.Config, workDir string, logger *zap.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		workDir: workDir,
		logger:  logger,
		router:  chi.NewRouter(),
		clock:   time.Now,
		results: make(map[string]*storedRun),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/generate", s.handleGenerate)
		r.Get("/runs/{runID}/export", s.handleExport)
		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handleSaveSettings)
		r.Get("/runlog", s.handleRunLog)
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestLogger logs each request with its chi request ID.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
