package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/markup/internal/config"
	"github.com/vango-dev/markup/pkg/middleware"
	"github.com/vango-dev/markup/pkg/publish"
)

func publishCmd(a *app) *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Render every page and write it out",
		Long: `Render every page and write it as <page>.html to a directory or an
S3 bucket.

S3 credentials are read from AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY
and AWS_SESSION_TOKEN.

Examples:
  markup publish
  markup publish --dir public
  markup publish --target s3 --bucket my-site --prefix docs/ --region us-east-1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd, map[string]string{
				"publish.target":   "target",
				"publish.dir":      "dir",
				"publish.bucket":   "bucket",
				"publish.prefix":   "prefix",
				"publish.region":   "region",
				"publish.endpoint": "endpoint",
				"data.file":        "data",
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
			store, dest, err := newStore(cfg.Publish)
			if err != nil {
				return err
			}

			p := publish.New(s, store, publish.Options{
				Render: middleware.Chain(s.Render, middleware.Logging(a.logger)),
				Logger: a.logger,
			})
			res, err := p.Publish(cmd.Context(), data)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Published %d pages to %s", len(res.Keys), dest)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.String("target", "", "Publish target: disk or s3 (default from markup.yaml)")
	flags.String("dir", "", "Output directory for the disk target")
	flags.String("bucket", "", "S3 bucket")
	flags.String("prefix", "", "S3 key prefix")
	flags.String("region", "", "S3 region")
	flags.String("endpoint", "", "S3-compatible endpoint URL")
	flags.StringP("data", "d", "", "Context data file (default from markup.yaml)")
	flags.StringArrayVar(&sets, "set", nil, "Set a context value (key=value, repeatable)")

	return cmd
}

// newStore builds the configured publish store and a description of where
// pages go.
func newStore(cfg config.PublishConfig) (publish.Store, string, error) {
	if cfg.Target == config.TargetS3 {
		client := publish.NewS3Client(publish.S3Options{
			Region:   cfg.Region,
			Endpoint: cfg.Endpoint,
		})
		return publish.NewS3Store(client, cfg.Bucket, cfg.Prefix), "s3://" + cfg.Bucket + "/" + cfg.Prefix, nil
	}
	store, err := publish.NewDiskStore(cfg.Dir)
	if err != nil {
		return nil, "", err
	}
	return store, cfg.Dir, nil
}
