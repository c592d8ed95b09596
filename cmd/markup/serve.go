package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/markup/internal/dev"
	"github.com/vango-dev/markup/pkg/middleware"
	"github.com/vango-dev/markup/pkg/server"
	"github.com/vango-dev/markup/pkg/site"
)

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the preview server",
		Long: `Start an HTTP server that renders pages on request.

Routes:
  /                 page index
  /{page}           rendered page
  /_blocks/{page}   block counts as JSON
  /metrics          Prometheus metrics

With --watch and a data file, the server reloads the data when the
file changes and tells open pages to refresh.

Examples:
  markup serve
  markup serve --port=8080 --data site.yaml
  markup serve --host=0.0.0.0 --watch=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd, map[string]string{
				"server.host":  "host",
				"server.port":  "port",
				"server.watch": "watch",
				"data.file":    "data",
			})
			if err != nil {
				return err
			}
			s, err := a.newSite(cfg)
			if err != nil {
				return err
			}
			store, err := site.NewDataStore(cfg.Data.File)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			metrics := middleware.NewMetrics(
				middleware.WithNamespace(cfg.Metrics.Namespace),
				middleware.WithRegistry(reg),
			)

			srvCfg := server.DefaultServerConfig()
			srvCfg.Address = cfg.Address()
			srvCfg.Logger = a.logger
			srvCfg.Data = store.Context
			srvCfg.Metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
			srvCfg.Render = middleware.Chain(s.Render,
				middleware.Logging(a.logger),
				middleware.OpenTelemetry(middleware.WithTracerName(cfg.Tracing.Tracer)),
				metrics.Middleware(),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if cfg.Server.Watch && store.Path() != "" {
				hub := dev.NewReloadServer(a.logger)
				hub.OnClientCount(metrics.SetPreviewClients)
				hub.OnBroadcast(func(dev.ReloadMessage) { metrics.RecordReload() })

				w, err := dev.NewWatcher(store.Path(), dev.WatcherOptions{Logger: a.logger})
				if err != nil {
					return err
				}
				w.OnChange(reloadData(store, hub, a.logger))
				go w.Run(ctx)

				srvCfg.Preview = hub
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Serving %d pages on http://%s\n", len(s.Pages()), cfg.Address())
			return server.New(s, srvCfg).Run(ctx)
		},
	}

	cmd.Flags().StringP("host", "H", "", "Host to bind to (default from markup.yaml)")
	cmd.Flags().IntP("port", "p", 0, "Port to listen on (default from markup.yaml)")
	cmd.Flags().Bool("watch", false, "Reload the data file on change (default true)")
	cmd.Flags().StringP("data", "d", "", "Context data file (default from markup.yaml)")

	return cmd
}

// previewNotifier is the part of the preview hub driven by data reloads.
type previewNotifier interface {
	NotifyReload()
	NotifyError(msg string)
	ClearError()
}

// reloadData returns the watcher callback: it reloads the store and tells
// preview clients to refresh, or shows the error. The first successful
// reload after a failure clears the error overlay.
func reloadData(store *site.DataStore, hub previewNotifier, logger *slog.Logger) func() {
	var (
		mu     sync.Mutex
		failed bool
	)
	return func() {
		mu.Lock()
		defer mu.Unlock()

		if err := store.Reload(); err != nil {
			logger.Warn("data reload failed", "path", store.Path(), "err", err)
			hub.NotifyError(err.Error())
			failed = true
			return
		}
		logger.Info("data reloaded", "path", store.Path())
		if failed {
			hub.ClearError()
			failed = false
		}
		hub.NotifyReload()
	}
}
