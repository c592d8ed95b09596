package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/markup/internal/dev"
	m "github.com/vango-dev/markup/pkg/markup"
	"github.com/vango-dev/markup/pkg/site"
)

// BlocksResponse is the body of GET /_blocks/{page}.
type BlocksResponse struct {
	Page   string         `json:"page"`
	Blocks map[string]int `json:"blocks"`
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	page := pageName(chi.URLParam(r, "page"))

	html, err := s.render(r.Context(), page, s.data())
	if err != nil {
		s.fail(w, r, page, err)
		return
	}
	if s.config.Preview != nil {
		html = dev.InjectScript(html)
	}
	writeHTML(w, html)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	html, err := indexPage(s.site.Pages()).Render(nil)
	if err != nil {
		s.fail(w, r, "", err)
		return
	}
	writeHTML(w, html)
}

func (s *Server) handleBlocks(w http.ResponseWriter, r *http.Request) {
	page := pageName(chi.URLParam(r, "page"))

	counts, err := s.site.Blocks(page)
	if err != nil {
		s.fail(w, r, page, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(BlocksResponse{Page: page, Blocks: counts}); err != nil {
		s.logger.Debug("write failed", "page", page, "err", err)
	}
}

// fail maps a render error to a response: unknown pages are 404, anything
// else is logged and reported as 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, page string, err error) {
	switch {
	case errors.Is(err, site.ErrUnknownPage):
		http.Error(w, "page not found", http.StatusNotFound)
	case errors.Is(err, context.Canceled):
		s.logger.Debug("request canceled", "page", page, "path", r.URL.Path)
	default:
		s.logger.Error("render failed", "page", page, "path", r.URL.Path, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func writeHTML(w http.ResponseWriter, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// indexPage lists the site's pages.
func indexPage(pages []string) *m.Node {
	return m.Html(
		m.Head(m.Title("Pages")),
		m.Body(
			m.H1("Pages"),
			m.Ul(m.Range(pages, func(p string, _ int) any {
				return m.Li(m.A(m.Href("/" + p)).With(p))
			})...),
		),
	)
}
