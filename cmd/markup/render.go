package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/markup/internal/errors"
	"github.com/vango-dev/markup/pkg/middleware"
)

func renderCmd(a *app) *cobra.Command {
	var (
		sets []string
		out  string
	)

	cmd := &cobra.Command{
		Use:   "render <page>",
		Short: "Render a page",
		Long: `Render a page to stdout or a file.

The render context is read from the data file (YAML or JSON) and
can be extended with --set key=value.

Examples:
  markup render index
  markup render about --set author=Ada
  markup render guide --data site.yaml --out guide.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd, map[string]string{
				"data.file":     "data",
				"render.indent": "indent",
			})
			if err != nil {
				return err
			}
			s, err := a.newSite(cfg)
			if err != nil {
				return err
			}
			data, err := loadData(cfg.Data.File, sets)
			if err != nil {
				return err
			}

			render := middleware.Chain(s.Render, middleware.Logging(a.logger))
			html, err := render(cmd.Context(), args[0], data)
			if err != nil {
				return err
			}

			if out == "" {
				fmt.Fprintln(cmd.OutOrStdout(), html)
				return nil
			}
			if err := os.WriteFile(out, []byte(html+"\n"), 0644); err != nil {
				return errors.New("P001").WithDetailf("cannot write %s", out).Wrap(err)
			}
			success(cmd.OutOrStdout(), "Wrote %s", out)
			return nil
		},
	}

	cmd.Flags().StringP("data", "d", "", "Context data file (default from markup.yaml)")
	cmd.Flags().Int("indent", 0, "Spaces per nesting level (default from markup.yaml)")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Set a context value (key=value, repeatable)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to file instead of stdout")

	return cmd
}
