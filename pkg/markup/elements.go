package markup

import (
	"maps"
	"sort"
	"sync"

	merrors "github.com/vango-dev/markup/internal/errors"
)

// Preset describes how a tag name behaves: one Preset per registered tag
// replaces a type per element.
type Preset struct {
	// Name is the tag name written to the output.
	Name string

	// SelfClosing tags never carry children and render as <name/>.
	SelfClosing bool

	// WhitespaceSensitive tags emit their content verbatim.
	WhitespaceSensitive bool

	// ExplicitClose tags built with attributes only still render an explicit
	// closing tag (<script src="x"></script>), since browsers do not accept
	// the self-closed form for them.
	ExplicitClose bool

	// Doctype is written on its own line before the opening tag.
	Doctype string

	// Defaults are copied into every new instance; supplied attributes
	// override them.
	Defaults Attrs
}

// New builds a node of this preset. Attribute arguments (Attr, []Attr,
// Attrs) and child arguments are mutually exclusive:
//
//   - children only: the children are set
//   - attributes only: no content, rendered self-closed
//   - neither: explicit empty content, rendered <name></name>
//
// Passing both fails with ErrAssertionViolation; children on a self-closing
// preset fail with ErrInvalidOperation.
func (p Preset) New(args ...any) (*Node, error) {
	attrs, children := splitArgs(args)

	if len(attrs) > 0 && len(children) > 0 {
		return nil, merrors.New("M002").
			WithPath([]string{p.Name}).
			WithDetailf("<%s> got %d attribute(s) and %d child(ren)", p.Name, len(attrs), len(children)).
			WithSuggestion("Build with attributes, then attach content with With()")
	}
	if p.SelfClosing && len(children) > 0 {
		return nil, merrors.New("M001").
			WithPath([]string{p.Name}).
			WithDetailf("<%s> is self-closing and cannot hold %d child(ren)", p.Name, len(children))
	}

	node := &Node{
		Kind:                KindElement,
		Tag:                 p.Name,
		SelfClosing:         p.SelfClosing,
		WhitespaceSensitive: p.WhitespaceSensitive,
		Doctype:             p.Doctype,
	}
	if len(p.Defaults) > 0 {
		node.Attrs = maps.Clone(p.Defaults)
	}
	for _, a := range attrs {
		node.setAttr(a.Key, a.Value)
	}

	switch {
	case p.SelfClosing:
	case len(children) > 0:
		node.Children = children
	case len(attrs) == 0 || p.ExplicitClose:
		node.Children = []any{}
	}
	return node, nil
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Preset)
)

// Register adds or replaces a preset, making Build(p.Name, ...) available.
func Register(p Preset) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[p.Name] = p
}

// Lookup returns the preset registered for a tag name.
func Lookup(tag string) (Preset, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	p, ok := registry[tag]
	return p, ok
}

// Tags returns all registered tag names in sorted order.
func Tags() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build creates a node for a registered tag name.
func Build(tag string, args ...any) (*Node, error) {
	p, ok := Lookup(tag)
	if !ok {
		return nil, merrors.New("M004").WithPath([]string{tag})
	}
	return p.New(args...)
}

// CustomElement builds a node with any tag name; unregistered names behave
// like a plain container tag.
func CustomElement(tag string, args ...any) *Node {
	p, ok := Lookup(tag)
	if !ok {
		p = Preset{Name: tag}
	}
	return must(p.New(args...))
}

func must(n *Node, err error) *Node {
	if err != nil {
		panic(err)
	}
	return n
}

func build(tag string, args []any) *Node {
	return must(Build(tag, args...))
}

// containerTags render their children between an opening and closing tag.
var containerTags = []string{
	"head", "body", "title", "div", "p",
	"h1", "h2", "h3", "h4", "h5", "h6",
	"u", "b", "i", "s", "a", "em", "strong", "span", "font", "small", "mark",
	"del", "ins",
	"ul", "ol", "li", "dd", "dt", "dl",
	"article", "section", "nav", "aside", "header", "footer", "main",
	"figure", "figcaption", "details", "summary",
	"audio", "video", "object", "canvas",
	"fieldset", "legend", "button", "label", "select", "option", "optgroup",
	"table", "thead", "tbody", "tfoot", "tr", "th", "td", "caption",
	"blockquote", "cite", "q", "abbr", "acronym", "address",
	"noscript", "iframe",
}

// voidElements are elements that cannot have children and have no closing tag.
var voidElements = []string{
	"area", "base", "br", "col", "embed", "hr", "img", "input",
	"link", "meta", "param", "source", "track", "wbr",
}

// verbatimElements keep their content exactly as given.
var verbatimElements = []string{
	"code", "samp", "pre", "var", "kbd", "dfn",
}

func init() {
	for _, name := range containerTags {
		Register(Preset{Name: name})
	}
	for _, name := range voidElements {
		Register(Preset{Name: name, SelfClosing: true})
	}
	for _, name := range verbatimElements {
		Register(Preset{Name: name, WhitespaceSensitive: true})
	}
	Register(Preset{Name: "html", Doctype: "<!DOCTYPE html>", ExplicitClose: true})
	Register(Preset{Name: "script", ExplicitClose: true, Defaults: Attrs{"type": "text/javascript"}})
	Register(Preset{Name: "style", ExplicitClose: true, Defaults: Attrs{"type": "text/css"}})
	Register(Preset{Name: "textarea", ExplicitClose: true})
	Register(Preset{Name: "form", Defaults: Attrs{"method": "POST"}})
}

// IsVoidElement returns true if the tag is registered as self-closing.
func IsVoidElement(tag string) bool {
	p, ok := Lookup(tag)
	return ok && p.SelfClosing
}

// Document structure elements

func Html(args ...any) *Node  { return build("html", args) }
func Head(args ...any) *Node  { return build("head", args) }
func Body(args ...any) *Node  { return build("body", args) }
func Title(args ...any) *Node { return build("title", args) }
func Meta(args ...any) *Node  { return build("meta", args) }
func Link(args ...any) *Node  { return build("link", args) }
func Base(args ...any) *Node  { return build("base", args) }

// Content sectioning elements

func Header(args ...any) *Node  { return build("header", args) }
func Footer(args ...any) *Node  { return build("footer", args) }
func Main(args ...any) *Node    { return build("main", args) }
func Nav(args ...any) *Node     { return build("nav", args) }
func Section(args ...any) *Node { return build("section", args) }
func Article(args ...any) *Node { return build("article", args) }
func Aside(args ...any) *Node   { return build("aside", args) }
func Address(args ...any) *Node { return build("address", args) }
func H1(args ...any) *Node      { return build("h1", args) }
func H2(args ...any) *Node      { return build("h2", args) }
func H3(args ...any) *Node      { return build("h3", args) }
func H4(args ...any) *Node      { return build("h4", args) }
func H5(args ...any) *Node      { return build("h5", args) }
func H6(args ...any) *Node      { return build("h6", args) }

// Text content elements

func Div(args ...any) *Node        { return build("div", args) }
func P(args ...any) *Node          { return build("p", args) }
func Span(args ...any) *Node       { return build("span", args) }
func Pre(args ...any) *Node        { return build("pre", args) }
func Blockquote(args ...any) *Node { return build("blockquote", args) }
func Ul(args ...any) *Node         { return build("ul", args) }
func Ol(args ...any) *Node         { return build("ol", args) }
func Li(args ...any) *Node         { return build("li", args) }
func Dl(args ...any) *Node         { return build("dl", args) }
func Dt(args ...any) *Node         { return build("dt", args) }
func Dd(args ...any) *Node         { return build("dd", args) }
func Hr(args ...any) *Node         { return build("hr", args) }
func Figure(args ...any) *Node     { return build("figure", args) }
func Figcaption(args ...any) *Node { return build("figcaption", args) }

// Inline text semantics

func A(args ...any) *Node       { return build("a", args) }
func Strong(args ...any) *Node  { return build("strong", args) }
func Em(args ...any) *Node      { return build("em", args) }
func B(args ...any) *Node       { return build("b", args) }
func I(args ...any) *Node       { return build("i", args) }
func U(args ...any) *Node       { return build("u", args) }
func S(args ...any) *Node       { return build("s", args) }
func Small(args ...any) *Node   { return build("small", args) }
func Mark(args ...any) *Node    { return build("mark", args) }
func Font(args ...any) *Node    { return build("font", args) }
func Del(args ...any) *Node     { return build("del", args) }
func Ins(args ...any) *Node     { return build("ins", args) }
func Code(args ...any) *Node    { return build("code", args) }
func Kbd(args ...any) *Node     { return build("kbd", args) }
func Samp(args ...any) *Node    { return build("samp", args) }
func Abbr(args ...any) *Node    { return build("abbr", args) }
func Acronym(args ...any) *Node { return build("acronym", args) }
func Cite(args ...any) *Node    { return build("cite", args) }
func Q(args ...any) *Node       { return build("q", args) }
func Dfn(args ...any) *Node     { return build("dfn", args) }
func Br(args ...any) *Node      { return build("br", args) }
func Wbr(args ...any) *Node     { return build("wbr", args) }

// VarTag creates a <var> element. Var is the context accessor.
func VarTag(args ...any) *Node { return build("var", args) }

// Form elements

func Form(args ...any) *Node     { return build("form", args) }
func Input(args ...any) *Node    { return build("input", args) }
func Textarea(args ...any) *Node { return build("textarea", args) }
func Select(args ...any) *Node   { return build("select", args) }
func Option(args ...any) *Node   { return build("option", args) }
func Optgroup(args ...any) *Node { return build("optgroup", args) }
func Button(args ...any) *Node   { return build("button", args) }
func Label(args ...any) *Node    { return build("label", args) }
func Fieldset(args ...any) *Node { return build("fieldset", args) }
func Legend(args ...any) *Node   { return build("legend", args) }

// Table elements

func Table(args ...any) *Node   { return build("table", args) }
func Thead(args ...any) *Node   { return build("thead", args) }
func Tbody(args ...any) *Node   { return build("tbody", args) }
func Tfoot(args ...any) *Node   { return build("tfoot", args) }
func Tr(args ...any) *Node      { return build("tr", args) }
func Th(args ...any) *Node      { return build("th", args) }
func Td(args ...any) *Node      { return build("td", args) }
func Caption(args ...any) *Node { return build("caption", args) }
func Col(args ...any) *Node     { return build("col", args) }

// Media elements

func Img(args ...any) *Node    { return build("img", args) }
func Source(args ...any) *Node { return build("source", args) }
func Video(args ...any) *Node  { return build("video", args) }
func Audio(args ...any) *Node  { return build("audio", args) }
func Track(args ...any) *Node  { return build("track", args) }
func Iframe(args ...any) *Node { return build("iframe", args) }
func Embed(args ...any) *Node  { return build("embed", args) }
func Object(args ...any) *Node { return build("object", args) }
func Param(args ...any) *Node  { return build("param", args) }
func Canvas(args ...any) *Node { return build("canvas", args) }
func Area(args ...any) *Node   { return build("area", args) }

// Interactive and scripting elements

func Details(args ...any) *Node  { return build("details", args) }
func Summary(args ...any) *Node  { return build("summary", args) }
func Script(args ...any) *Node   { return build("script", args) }
func Noscript(args ...any) *Node { return build("noscript", args) }
func Style(args ...any) *Node    { return build("style", args) }
