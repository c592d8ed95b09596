// Package publish renders every page of a site and writes the results to a
// Store: a local directory or an S3 bucket.
//
//	store, err := publish.NewDiskStore("dist")
//	if err != nil {
//	    return err
//	}
//	res, err := publish.New(s, store, publish.Options{}).Publish(ctx, data)
//
// Each page is written as "<page>.html" with content type text/html.
package publish

import (
	"context"
	"log/slog"
	"strings"

	"github.com/vango-dev/markup/internal/errors"
	"github.com/vango-dev/markup/pkg/markup"
	"github.com/vango-dev/markup/pkg/middleware"
	"github.com/vango-dev/markup/pkg/site"
)

// ContentType is the content type of published pages.
const ContentType = "text/html; charset=utf-8"

// Options configures a Publisher.
type Options struct {
	// Render renders a page. Default: the site's Render method.
	Render middleware.RenderFunc

	// Metrics counts written pages when set.
	Metrics *middleware.Metrics

	// Logger is used for progress. Default: slog.Default().
	Logger *slog.Logger
}

// Publisher writes rendered pages to a Store.
type Publisher struct {
	site    *site.Site
	store   Store
	render  middleware.RenderFunc
	metrics *middleware.Metrics
	logger  *slog.Logger
}

// Result lists the keys written by Publish.
type Result struct {
	Target string
	Keys   []string
}

// New creates a Publisher.
func New(s *site.Site, store Store, opts Options) *Publisher {
	p := &Publisher{
		site:    s,
		store:   store,
		render:  opts.Render,
		metrics: opts.Metrics,
		logger:  opts.Logger,
	}
	if p.render == nil {
		p.render = s.Render
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Key returns the object key a page is published under.
func Key(page string) string {
	return page + ".html"
}

// Publish renders every page with data and writes it to the store. It stops
// at the first failure; pages written before it stay written.
func (p *Publisher) Publish(ctx context.Context, data markup.Context) (*Result, error) {
	res := &Result{Target: p.store.Target()}

	for _, page := range p.site.Pages() {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		html, err := p.render(ctx, page, data)
		if err != nil {
			return res, err
		}

		key := Key(page)
		if err := p.store.Put(ctx, key, ContentType, strings.NewReader(html)); err != nil {
			var merr *errors.Error
			if errors.As(err, &merr) && merr.Path == nil {
				merr.WithPath([]string{page})
			}
			return res, err
		}

		res.Keys = append(res.Keys, key)
		if p.metrics != nil {
			p.metrics.RecordPublished(res.Target)
		}
		p.logger.Debug("published", "page", page, "key", key, "bytes", len(html))
	}

	p.logger.Info("publish complete", "target", res.Target, "pages", len(res.Keys))
	return res, nil
}
