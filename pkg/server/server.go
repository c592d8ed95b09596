package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/markup/internal/dev"
	"github.com/vango-dev/markup/pkg/markup"
	"github.com/vango-dev/markup/pkg/middleware"
	"github.com/vango-dev/markup/pkg/site"
)

// Server serves the pages of a site over HTTP.
type Server struct {
	site    *site.Site
	config  *ServerConfig
	render  middleware.RenderFunc
	data    func() markup.Context
	logger  *slog.Logger
	router  chi.Router
	httpSrv *http.Server
}

// New creates a server for s. A nil config uses DefaultServerConfig.
func New(s *site.Site, config *ServerConfig) *Server {
	if config == nil {
		config = DefaultServerConfig()
	}
	srv := &Server{
		site:   s,
		config: config,
		render: config.Render,
		data:   config.Data,
		logger: config.Logger,
	}
	if srv.render == nil {
		srv.render = s.Render
	}
	if srv.data == nil {
		srv.data = func() markup.Context { return nil }
	}
	if srv.logger == nil {
		srv.logger = slog.Default()
	}
	srv.router = srv.routes()
	return srv
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	metrics := s.config.Metrics
	if metrics == nil {
		metrics = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metrics)

	if s.config.Preview != nil {
		r.Get(dev.PreviewPath, s.config.Preview.HandleWebSocket)
	}

	r.Get("/", s.handleIndex)
	r.Get("/_blocks/{page}", s.handleBlocks)
	r.Get("/{page}", s.handlePage)
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the server's router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address and serves until ctx is done, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:              s.config.Address,
		Handler:           s,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Address)
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server and closes preview clients.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.config.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()
	}

	if s.config.Preview != nil {
		s.config.Preview.Close()
	}
	if s.httpSrv != nil {
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// pageName maps a URL segment to a page name; "about.html" serves "about".
func pageName(segment string) string {
	return strings.TrimSuffix(segment, ".html")
}
