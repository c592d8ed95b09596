package markup

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	"reflect"
	"sort"
	"strings"

	merrors "github.com/vango-dev/markup/internal/errors"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Indent is the string used for each indentation level.
	// Defaults to two spaces if not specified.
	Indent string

	// DropNil removes nil content items entirely. By default a nil item
	// renders as empty text and still takes its place among its siblings.
	DropNil bool
}

// Renderer serializes node trees to HTML. It holds no per-render state and
// is safe for concurrent use.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

var defaultRenderer = NewRenderer(RendererConfig{})

// RenderToString renders a tree to an HTML string.
func (r *Renderer) RenderToString(node *Node, ctx Context) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node, ctx); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter renders a tree and writes the complete output to w. Nothing
// is written if the render fails.
func (r *Renderer) RenderToWriter(w io.Writer, node *Node, ctx Context) error {
	wk := &walker{
		config: r.config,
		ctx:    ctx.clone(),
	}
	if node != nil {
		first := true
		if err := wk.node(node, state{}, &first); err != nil {
			return err
		}
	}
	_, err := w.Write(wk.buf.Bytes())
	return err
}

// state is inherited down the traversal.
type state struct {
	depth int

	// verbatim is set inside whitespace-sensitive elements: no indentation
	// or separators are written.
	verbatim bool

	// safe disables text escaping for the current element's content.
	safe bool

	// trusted is set inside a Safe wrapper and covers the whole subtree.
	trusted bool
}

// walker performs one render.
type walker struct {
	config RendererConfig
	ctx    Context
	buf    bytes.Buffer
	path   []string
}

func (w *walker) indent(depth int) {
	for i := 0; i < depth; i++ {
		w.buf.WriteString(w.config.Indent)
	}
}

// sep starts a new sibling slot. first is shared by all items that render
// as siblings of one another.
func (w *walker) sep(st state, first *bool) {
	if !*first && !st.verbatim {
		w.buf.WriteByte('\n')
	}
	*first = false
}

func (w *walker) node(n *Node, st state, first *bool) error {
	w.path = append(w.path, n.label())
	defer func() { w.path = w.path[:len(w.path)-1] }()

	switch n.Kind {
	case KindBlock, KindFragment, KindSafe:
		w.sep(st, first)
		inner := st
		if n.Kind == KindSafe {
			inner.trusted = true
			inner.safe = true
		}
		if n.Safe {
			inner.safe = true
		}
		innerFirst := true
		return w.items(n.Children, inner, &innerFirst)
	default:
		return w.element(n, st, first)
	}
}

func (w *walker) element(n *Node, st state, first *bool) error {
	w.sep(st, first)

	if n.Doctype != "" {
		if !st.verbatim {
			w.indent(st.depth)
		}
		w.buf.WriteString(n.Doctype)
		w.buf.WriteByte('\n')
	}

	if !st.verbatim {
		w.indent(st.depth)
	}
	w.buf.WriteByte('<')
	w.buf.WriteString(n.Tag)
	if err := w.attributes(n); err != nil {
		return err
	}

	if n.SelfClosing || n.Children == nil {
		w.buf.WriteString("/>")
		return nil
	}
	w.buf.WriteByte('>')

	if len(n.Children) > 0 {
		inner := state{
			depth:    st.depth + 1,
			verbatim: st.verbatim || n.WhitespaceSensitive,
			safe:     st.trusted || n.Safe,
			trusted:  st.trusted,
		}
		if !inner.verbatim {
			w.buf.WriteByte('\n')
		}
		innerFirst := true
		if err := w.items(n.Children, inner, &innerFirst); err != nil {
			return err
		}
		if !inner.verbatim {
			w.buf.WriteByte('\n')
			w.indent(st.depth)
		}
	}

	w.buf.WriteString("</")
	w.buf.WriteString(n.Tag)
	w.buf.WriteByte('>')
	return nil
}

func (w *walker) items(items []any, st state, first *bool) error {
	for _, item := range items {
		if err := w.item(item, st, first); err != nil {
			return err
		}
	}
	return nil
}

// item resolves one content item until it reaches text or a node.
func (w *walker) item(item any, st state, first *bool) error {
	switch v := item.(type) {
	case nil:
		if !w.config.DropNil {
			w.sep(st, first)
		}
		return nil
	case *Node:
		if v == nil {
			return nil
		}
		return w.node(v, st, first)
	case string:
		w.text(v, st, first)
		return nil
	case []any:
		return w.items(v, st, first)
	case []*Node:
		for _, child := range v {
			if err := w.item(child, st, first); err != nil {
				return err
			}
		}
		return nil
	case []string:
		for _, s := range v {
			w.text(s, st, first)
		}
		return nil
	case []byte:
		w.text(string(v), st, first)
		return nil
	case iter.Seq[any]:
		return w.seq(v, st, first)
	case func(func(any) bool):
		return w.seq(v, st, first)
	case func(...any) *Node:
		return w.node(v(), st, first)
	case fmt.Stringer:
		w.text(v.String(), st, first)
		return nil
	}

	if isSeq(item) {
		return w.reflectSeq(reflect.ValueOf(item), st, first)
	}
	if isFunc(item) {
		v, err := w.call(item)
		if err != nil {
			return err
		}
		return w.item(v, st, first)
	}

	rv := reflect.ValueOf(item)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		for i := 0; i < rv.Len(); i++ {
			if err := w.item(rv.Index(i).Interface(), st, first); err != nil {
				return err
			}
		}
		return nil
	}

	w.text(fmt.Sprint(item), st, first)
	return nil
}

// seq flattens a lazy sequence. It is ranged afresh on every render.
func (w *walker) seq(seq iter.Seq[any], st state, first *bool) error {
	var err error
	for v := range seq {
		if err = w.item(v, st, first); err != nil {
			break
		}
	}
	return err
}

// reflectSeq flattens an iter.Seq of any element type.
func (w *walker) reflectSeq(seq reflect.Value, st state, first *bool) error {
	var err error
	yield := reflect.MakeFunc(seq.Type().In(0), func(args []reflect.Value) []reflect.Value {
		err = w.item(args[0].Interface(), st, first)
		return []reflect.Value{reflect.ValueOf(err == nil)}
	})
	seq.Call([]reflect.Value{yield})
	return err
}

// call invokes a lazy content or attribute function with the render context.
func (w *walker) call(fn any) (any, error) {
	var (
		v   any
		err error
	)
	switch f := fn.(type) {
	case Lazy:
		v, err = f(w.ctx)
	case func(Context) (any, error):
		v, err = f(w.ctx)
	case func(Context) any:
		v = f(w.ctx)
	case func() any:
		v = f()
	case func(Context) string:
		v = f(w.ctx)
	case func(Context) iter.Seq[any]:
		v = f(w.ctx)
	default:
		var ok bool
		if v, ok, err = w.callReflect(fn); !ok {
			return nil, merrors.New("M006").
				WithPath(w.path).
				WithDetailf("functions of type %T cannot be used as content", fn).
				WithSuggestion("Use func(markup.Context) any, or markup.Lazy to return an error")
		}
	}
	if err != nil {
		var me *merrors.Error
		if merrors.As(err, &me) && me.Code == "M005" {
			return nil, err
		}
		return nil, merrors.New("M005").WithPath(w.path).Wrap(err)
	}
	return v, nil
}

var (
	lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")
	contextType = reflect.TypeOf(Context(nil))
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// callReflect calls a function taking nothing or a Context-compatible value
// and returning a value, optionally followed by an error. ok is false when
// the signature does not fit.
func (w *walker) callReflect(fn any) (v any, ok bool, err error) {
	rv := reflect.ValueOf(fn)
	t := rv.Type()
	if t.IsVariadic() || t.NumIn() > 1 {
		return nil, false, nil
	}
	switch {
	case t.NumOut() == 1:
	case t.NumOut() == 2 && t.Out(1) == errorType:
	default:
		return nil, false, nil
	}

	var args []reflect.Value
	if t.NumIn() == 1 {
		arg := reflect.ValueOf(w.ctx)
		switch in := t.In(0); {
		case contextType.AssignableTo(in):
		case contextType.ConvertibleTo(in):
			arg = arg.Convert(in)
		default:
			return nil, false, nil
		}
		args = []reflect.Value{arg}
	}

	out := rv.Call(args)
	if len(out) == 2 && !out[1].IsNil() {
		err = out[1].Interface().(error)
	}
	return out[0].Interface(), true, err
}

// text writes a literal. Outside verbatim regions every line is indented to
// the current depth.
func (w *walker) text(s string, st state, first *bool) {
	w.sep(st, first)
	if !st.safe {
		s = EscapeText(s)
	}
	if st.verbatim {
		w.buf.WriteString(s)
		return
	}
	s = lineEndings.Replace(s)
	for _, line := range strings.SplitAfter(s, "\n") {
		if line == "" {
			continue
		}
		w.indent(st.depth)
		w.buf.WriteString(line)
	}
}

// attributes writes the node's attributes sorted by rendered name.
func (w *walker) attributes(n *Node) error {
	if len(n.Attrs) == 0 {
		return nil
	}

	type entry struct {
		key  string
		name string
	}
	entries := make([]entry, 0, len(n.Attrs))
	for key := range n.Attrs {
		if isInternalAttr(key) {
			continue
		}
		entries = append(entries, entry{key: key, name: AttrName(key)})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].name != entries[j].name {
			return entries[i].name < entries[j].name
		}
		return entries[i].key < entries[j].key
	})

	for _, e := range entries {
		value, err := w.resolveAttr(n.Attrs[e.key])
		if err != nil {
			return err
		}

		if b, ok := value.(bool); ok && isBooleanAttr(e.name) {
			if b {
				w.buf.WriteByte(' ')
				w.buf.WriteString(e.name)
			}
			continue
		}

		w.buf.WriteByte(' ')
		w.buf.WriteString(e.name)
		w.buf.WriteString(`="`)
		w.buf.WriteString(EscapeAttr(attrToString(value)))
		w.buf.WriteByte('"')
	}
	return nil
}

// resolveAttr invokes lazy attribute values until a plain value remains.
func (w *walker) resolveAttr(value any) (any, error) {
	for isFunc(value) {
		v, err := w.call(value)
		if err != nil {
			return nil, err
		}
		value = v
	}
	return value, nil
}
