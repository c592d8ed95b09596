package main

import (
	"fmt"

	"github.com/vango-dev/markup/internal/config"
	m "github.com/vango-dev/markup/pkg/markup"
	"github.com/vango-dev/markup/pkg/site"
)

// sampleSite is the bundled documentation site rendered by the CLI.
//
// Data keys: site_name, author, notice (HTML, sanitized before rendering).
func sampleSite(cfg *config.Config) (*site.Site, error) {
	s := site.New(m.NewRenderer(cfg.RendererConfig()))

	base := m.Html(m.Lang("en")).With(
		m.Head(
			m.Meta(m.Charset("utf-8")),
			m.Meta(m.Name("viewport"), m.Content("width=device-width, initial-scale=1")),
			m.Title(m.Block("title"), " | ", m.VarDefault("site_name", "markup")),
		),
		m.Body(
			m.Header(
				m.Nav(
					m.A(m.Href("/index")).With("Home"),
					m.A(m.Href("/guide")).With("Guide"),
					m.A(m.Href("/about")).With("About"),
				),
			),
			notice,
			m.Main(m.Block("main")),
			m.Footer(m.Block("footer")),
		),
	)
	if err := s.Layout("base", base); err != nil {
		return nil, err
	}

	if err := s.Extend("docs", "base",
		site.Fill("main",
			m.Aside(m.Class("toc")).With(m.Block("toc")),
			m.Article(m.Block("main")),
		),
	); err != nil {
		return nil, err
	}

	pages := []struct {
		name   string
		layout string
		fills  []site.BlockFill
	}{
		{"index", "base", []site.BlockFill{
			site.Fill("title", "Home"),
			site.Fill("main",
				m.H1(m.VarDefault("site_name", "markup")),
				m.P("Pages are Go values. Layouts expose blocks that pages fill."),
			),
			site.Fill("footer", m.P("Generated by markup")),
		}},
		{"guide", "docs", []site.BlockFill{
			site.Fill("title", "Guide"),
			site.Fill("toc", m.Ul(m.Li("Nodes"), m.Li("Blocks"))),
			site.Fill("main",
				m.H2("Blocks"),
				m.P("A block is a named placeholder filled later:"),
				m.Pre(`Div(Block("main")).SetBlock("main", "yes")`),
			),
			site.Fill("footer", m.P("Generated by markup")),
		}},
		{"about", "base", []site.BlockFill{
			site.Fill("title", "About"),
			site.Fill("main", m.P("Written by ", m.VarDefault("author", "the markup authors"), ".")),
		}},
	}
	for _, p := range pages {
		if err := s.Page(p.name, p.layout, p.fills...); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// notice renders the optional "notice" value as sanitized HTML.
func notice(ctx m.Context) any {
	v, ok := ctx.Lookup("notice")
	if !ok || v == nil {
		return []any{}
	}
	return m.Div(m.Class("notice")).With(m.Sanitize(fmt.Sprint(v)))
}
