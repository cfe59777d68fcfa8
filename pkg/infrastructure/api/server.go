// Package api exposes the task assistant over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/taskdesk/pkg/domain/assist"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

// Assistant is the set of operations the API delegates to.
type Assistant interface {
	Available() bool
	GenerateDescription(ctx context.Context, title, taskContext string) (string, error)
	SuggestPriority(ctx context.Context, title, description string) (assist.PriorityLabel, error)
	GenerateTaskSuggestions(ctx context.Context, projectContext, employeeRole string) ([]assist.TaskSuggestion, error)
	AnalyzeTaskPerformance(ctx context.Context, tasks []assist.TaskSummary) (assist.Analysis, error)
}

// Server is the assistant HTTP server.
type Server struct {
	addr         string
	assistant    Assistant
	auth         Authenticator
	logger       *slog.Logger
	readTimeout  time.Duration
	writeTimeout time.Duration
	handler      http.Handler
	server       *http.Server
}

// Option configures a Server.
type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAuthenticator sets the authenticator guarding /api routes.
func WithAuthenticator(auth Authenticator) Option {
	return func(s *Server) {
		s.auth = auth
	}
}

// WithTimeouts sets the HTTP server read and write timeouts.
func WithTimeouts(read, write time.Duration) Option {
	return func(s *Server) {
		if read > 0 {
			s.readTimeout = read
		}
		if write > 0 {
			s.writeTimeout = write
		}
	}
}

// NewServer creates a new API server. Without an authenticator every /api
// request is rejected.
func NewServer(addr string, assistant Assistant, opts ...Option) *Server {
	s := &Server{
		addr:         addr,
		assistant:    assistant,
		auth:         denyAll{},
		logger:       slog.Default(),
		readTimeout:  15 * time.Second,
		writeTimeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("POST /api/ai/generate-description", s.guard(msgDescribeFailed, s.handleGenerateDescription))
	api.HandleFunc("POST /api/ai/suggest-priority", s.guard(msgPriorityFailed, s.handleSuggestPriority))
	api.HandleFunc("POST /api/ai/task-suggestions", s.guard(msgSuggestionsFailed, s.handleTaskSuggestions))
	api.HandleFunc("POST /api/ai/analyze-performance", s.guard(msgAnalyzeFailed, s.handleAnalyzePerformance))
	api.HandleFunc("POST /api/dashboard/task-stats", s.guard(msgInternal, s.handleTaskStats))
	api.HandleFunc("POST /api/dashboard/project-stats", s.guard(msgInternal, s.handleProjectStats))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("/api/", s.authenticate(api))

	return s.requestID(s.recoverPanics(s.accessLog(mux)))
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start starts the API server and blocks until it stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.handler,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}

	s.logger.Info("api server starting", "addr", s.addr, "oracle", s.assistant.Available())
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
