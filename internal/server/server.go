// Package server exposes the ITF parser and stored stacks over HTTP.
//
// # Routes
//
//	GET  /healthz
//	POST /v1/validate                 ITF text in, summary or problems out
//	POST /v1/stacks                   parse and store, returns the new ID
//	GET  /v1/stacks/{id}              full JSON document
//	GET  /v1/stacks/{id}/summary
//	GET  /v1/stacks/{id}/layers
//	GET  /v1/stacks/{id}/layers/{name}
//	GET  /v1/stacks/{id}/vias
//	GET  /v1/stacks/{id}/path?from=&to=
//	GET  /v1/stacks/{id}/graph?format=svg|png|dot&detailed=true
//
// Every failure is answered with {"errors": [...]}, one entry per problem
// with kind, message and, for source problems, line and column.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/itfstack/pkg/observability"
	"github.com/matzehuels/itfstack/pkg/pipeline"
	"github.com/matzehuels/itfstack/pkg/store"
)

// DefaultMaxBodyBytes limits the size of uploaded ITF documents.
const DefaultMaxBodyBytes = 8 << 20

// Server serves the HTTP API.
type Server struct {
	runner  *pipeline.Runner
	store   store.Store
	logger  *log.Logger
	maxBody int64
	router  chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithMaxBodyBytes overrides DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) { s.maxBody = n }
}

// New creates a server. A nil logger means log.Default.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner:  runner,
		store:   st,
		logger:  logger,
		maxBody: DefaultMaxBodyBytes,
	}
	for _, o := range opts {
		o(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/validate", s.handleValidate)
		r.Post("/stacks", s.handleCreate)
		r.Route("/stacks/{id}", func(r chi.Router) {
			r.Get("/", s.handleDocument)
			r.Get("/summary", s.handleSummary)
			r.Get("/layers", s.handleLayers)
			r.Get("/layers/{name}", s.handleLayer)
			r.Get("/vias", s.handleVias)
			r.Get("/path", s.handlePath)
			r.Get("/graph", s.handleGraph)
		})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, http.StatusNotFound, "NotFound", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, http.StatusMethodNotAllowed, "InvalidInput", r.Method+" not allowed on "+r.URL.Path)
	})
	return r
}

// instrument logs every request and reports it to the server hooks.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.Server()

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		hooks.OnRequest(r.Context(), r.Method, route)
		hooks.OnResponse(r.Context(), r.Method, route, ww.Status(), time.Since(start))
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
