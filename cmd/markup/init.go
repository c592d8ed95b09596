package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/markup/internal/templates"
)

func initCmd() *cobra.Command {
	var (
		name string
		cfg  templates.Config
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create markup.yaml and a data file",
		Long: `Create a markup.yaml and a data.yaml in dir (default: the current
directory). Existing files are never overwritten.

Templates:
  basic   publish to ./dist
  s3      publish to an S3 bucket

Examples:
  markup init
  markup init docs --site-name "Team Docs"
  markup init --template s3 --bucket my-site --region eu-west-1`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			tmpl, err := templates.Get(name)
			if err != nil {
				return err
			}
			if err := tmpl.Create(dir, cfg); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range tmpl.Paths() {
				success(out, "Created %s", filepath.Join(dir, p))
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  Next: markup --config %s serve\n", dir)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&name, "template", "t", "basic", "Template to use (basic, s3)")
	flags.StringVar(&cfg.SiteName, "site-name", "", "Site name for data.yaml")
	flags.StringVar(&cfg.Author, "author", "", "Author for data.yaml")
	flags.StringVar(&cfg.Bucket, "bucket", "", "S3 bucket (s3 template)")
	flags.StringVar(&cfg.Region, "region", "", "S3 region (s3 template)")

	return cmd
}
