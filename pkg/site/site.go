// Package site assembles pages from shared layouts.
//
// A layout is a markup tree with blocks. Layouts can extend other layouts by
// filling some of their blocks, and pages fill the rest:
//
//	s := site.New(nil)
//	s.Layout("base", markup.Html(
//	    markup.Head(markup.Title(markup.Block("title"))),
//	    markup.Body(markup.Block("main")),
//	))
//	s.Page("home", "base",
//	    site.Fill("title", "Home"),
//	    site.Fill("main", markup.H1("Welcome")),
//	)
//	html, err := s.Render(ctx, "home", nil)
//
// Every Build works on a fresh copy of the layout, so pages never affect each
// other and a Site can render concurrently.
package site

import (
	"context"
	"sort"
	"sync"

	"github.com/vango-dev/markup/internal/errors"
	"github.com/vango-dev/markup/pkg/markup"
)

// ErrUnknownPage matches errors for pages that are not registered.
var ErrUnknownPage = errors.New("C100")

// BlockFill is content destined for every block of one name.
type BlockFill struct {
	Block   string
	content *markup.Node
}

// Fill creates a BlockFill. Content is copied each time it is applied.
func Fill(block string, content ...any) BlockFill {
	return BlockFill{Block: block, content: markup.Fragment(content...)}
}

// apply fills tree in place with a private copy of the content.
func (f BlockFill) apply(tree *markup.Node) {
	tree.SetBlock(f.Block, f.content.Copy())
}

type page struct {
	layout string
	fills  []BlockFill
}

// Site is a registry of layouts and pages.
type Site struct {
	mu       sync.RWMutex
	layouts  map[string]*markup.Node
	pages    map[string]page
	renderer *markup.Renderer
}

// New creates an empty Site. A nil renderer uses the default configuration.
func New(renderer *markup.Renderer) *Site {
	if renderer == nil {
		renderer = markup.NewRenderer(markup.RendererConfig{})
	}
	return &Site{
		layouts:  make(map[string]*markup.Node),
		pages:    make(map[string]page),
		renderer: renderer,
	}
}

// Layout registers a base layout. The tree is copied; later changes to base
// do not affect the site.
func (s *Site) Layout(name string, base *markup.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.layouts[name]; exists {
		return errors.New("C101").WithDetailf("layout %q is already registered", name)
	}
	s.layouts[name] = base.Copy()
	return nil
}

// Extend registers a layout derived from parent with some blocks filled.
// Fills may contain blocks of the same name to be filled by pages.
func (s *Site) Extend(name, parent string, fills ...BlockFill) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.layouts[name]; exists {
		return errors.New("C101").WithDetailf("layout %q is already registered", name)
	}
	base, ok := s.layouts[parent]
	if !ok {
		return errors.New("C101").WithDetailf("parent layout %q is not registered", parent)
	}
	tree := base.Copy()
	for _, f := range fills {
		f.apply(tree)
	}
	s.layouts[name] = tree
	return nil
}

// Page registers a page built from layout with the given fills.
func (s *Site) Page(name, layout string, fills ...BlockFill) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.pages[name]; exists {
		return errors.New("C101").WithDetailf("page %q is already registered", name)
	}
	if _, ok := s.layouts[layout]; !ok {
		return errors.New("C101").WithDetailf("layout %q is not registered", layout)
	}
	s.pages[name] = page{layout: layout, fills: fills}
	return nil
}

// Pages returns the registered page names in sorted order.
func (s *Site) Pages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.pages))
	for name := range s.pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build returns a fresh tree for the named page.
func (s *Site) Build(name string) (*markup.Node, error) {
	s.mu.RLock()
	p, ok := s.pages[name]
	var base *markup.Node
	if ok {
		base = s.layouts[p.layout]
	}
	s.mu.RUnlock()

	if !ok {
		return nil, errors.New("C100").
			WithDetailf("no page named %q", name).
			WithSuggestion("Run 'markup blocks' without arguments to list pages")
	}

	tree := base.Copy()
	for _, f := range p.fills {
		f.apply(tree)
	}
	return tree, nil
}

// Blocks reports how many live block instances of each name the page still
// exposes, after its fills were applied.
func (s *Site) Blocks(name string) (map[string]int, error) {
	tree, err := s.Build(name)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for block, nodes := range tree.Blocks() {
		counts[block] = len(nodes)
	}
	return counts, nil
}

// Render builds and renders the named page with data as the render context.
func (s *Site) Render(ctx context.Context, name string, data markup.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	tree, err := s.Build(name)
	if err != nil {
		return "", err
	}
	return s.renderer.RenderToString(tree, data)
}
