package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/vango-dev/markup/internal/dev"
	"github.com/vango-dev/markup/pkg/markup"
	"github.com/vango-dev/markup/pkg/middleware"
)

// ServerConfig configures a Server.
type ServerConfig struct {
	// Address is the TCP address to listen on (e.g. "localhost:3000").
	Address string

	// Render renders a page. Default: the site's Render method.
	// Wrap it with middleware.Chain to add logging, metrics or tracing.
	Render middleware.RenderFunc

	// Data returns the render context for each request.
	// Default: an empty context.
	Data func() markup.Context

	// Preview enables the live preview hub. When set, served pages get the
	// preview script and the hub is mounted at dev.PreviewPath.
	Preview *dev.ReloadServer

	// Metrics serves /metrics. Default: promhttp.Handler().
	Metrics http.Handler

	// Logger is used for request errors. Default: slog.Default().
	Logger *slog.Logger

	// ReadHeaderTimeout bounds reading request headers.
	ReadHeaderTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:           "localhost:3000",
		ReadHeaderTimeout: 10 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}
}
