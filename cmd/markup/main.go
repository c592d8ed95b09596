package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vango-dev/markup/internal/config"
	"github.com/vango-dev/markup/internal/errors"
	"github.com/vango-dev/markup/pkg/markup"
	"github.com/vango-dev/markup/pkg/site"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries the state shared by all commands.
type app struct {
	configDir string
	logLevel  string
	logFormat string
	logger    *slog.Logger

	// newSite builds the site to operate on.
	newSite func(cfg *config.Config) (*site.Site, error)
}

func newRootCmd() *cobra.Command {
	a := &app{newSite: sampleSite}

	rootCmd := &cobra.Command{
		Use:   "markup",
		Short: "Build HTML documents from Go values",
		Long: `markup renders pages built from composable HTML nodes.

Pages are assembled from layouts with named blocks and rendered with
a context of data values. Features include:

  • Rendering single pages to stdout or a file
  • Block introspection
  • A preview server with live reload on data changes
  • Publishing every page to a directory or an S3 bucket`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), a.logLevel, a.logFormat)
			if err != nil {
				return err
			}
			a.logger = logger
			slog.SetDefault(logger)
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configDir, "config", "c", ".", "Directory containing markup.yaml")
	flags.StringVar(&a.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(
		initCmd(),
		renderCmd(a),
		blocksCmd(a),
		serveCmd(a),
		publishCmd(a),
		versionCmd(),
	)
	return rootCmd
}

// newLogger builds the CLI logger writing to w.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, errors.New("C101").
			WithDetailf("unknown log level %q", level).
			WithSuggestion("Use one of debug, info, warn, error")
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, errors.New("C101").
			WithDetailf("unknown log format %q", format).
			WithSuggestion("Use text or json")
	}
}

// loadConfig reads the project configuration. Bindings map configuration
// keys to the command's flag names.
func (a *app) loadConfig(cmd *cobra.Command, bindings map[string]string) (*config.Config, error) {
	flags := make(map[string]*pflag.Flag, len(bindings))
	for key, name := range bindings {
		flags[key] = cmd.Flags().Lookup(name)
	}
	cfg, err := config.Load(a.configDir, flags)
	if err != nil {
		return nil, err
	}
	if file := cfg.File(); file != "" {
		a.logger.Debug("config loaded", "path", file)
	}
	return cfg, nil
}

// loadData reads the context data file, if any, and applies key=value
// overrides.
func loadData(path string, sets []string) (markup.Context, error) {
	data := markup.Context{}
	if path != "" {
		var err error
		if data, err = site.LoadData(path); err != nil {
			return nil, err
		}
	}
	return site.MergeSet(data, sets)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
