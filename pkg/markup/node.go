package markup

import (
	"fmt"
	"maps"
	"sort"
	"strings"

	merrors "github.com/vango-dev/markup/internal/errors"
)

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement  Kind = iota // <div>, <p>, etc.
	KindBlock                // Named placeholder, renders children only
	KindFragment             // Grouping without wrapper
	KindSafe                 // Grouping whose text is not escaped
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindBlock:
		return "Block"
	case KindFragment:
		return "Fragment"
	case KindSafe:
		return "Safe"
	default:
		return "Unknown"
	}
}

// Node is the tree unit: an element with a tag, or a tagless container
// (block, fragment, safe wrapper).
//
// Children has three states. nil means "no content" and renders the
// self-closed form <div/>. An empty non-nil slice is explicit empty content
// and renders <div></div>. Anything else renders the children.
type Node struct {
	Kind     Kind   // Node type
	Tag      string // Element tag name (empty for containers)
	Name     string // Block name (KindBlock only)
	Attrs    Attrs  // Attribute values or lazy functions of the Context
	Children []any  // Literals, nodes, lazy functions, sequences

	SelfClosing         bool   // Never carries children
	WhitespaceSensitive bool   // Content emitted verbatim
	Safe                bool   // Text content not escaped
	Doctype             string // Emitted before the opening tag
}

// splitArgs splits constructor arguments into attributes and children. Attr,
// []Attr and Attrs values are attributes; everything else is a child. Empty
// Attr values are dropped and count as neither.
func splitArgs(args []any) (attrs []Attr, children []any) {
	for _, arg := range args {
		switch v := arg.(type) {
		case Attr:
			if !v.IsEmpty() {
				attrs = append(attrs, v)
			}
		case []Attr:
			for _, a := range v {
				if !a.IsEmpty() {
					attrs = append(attrs, a)
				}
			}
		case Attrs:
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				attrs = append(attrs, Attr{Key: k, Value: v[k]})
			}
		default:
			children = append(children, arg)
		}
	}
	return attrs, children
}

// setAttr stores a single attribute. Empty keys are ignored so callers can
// pass Attr{} for conditional attributes.
func (n *Node) setAttr(key string, value any) {
	if key == "" {
		return
	}
	if key == safeAttr {
		n.Safe = truthy(value)
	}
	if n.Attrs == nil {
		n.Attrs = make(Attrs)
	}
	n.Attrs[key] = value
}

// SetChildren replaces the node's children. With no arguments the node gets
// explicit empty content. Self-closing nodes reject any child with
// ErrInvalidOperation.
func (n *Node) SetChildren(children ...any) error {
	if n.SelfClosing {
		if len(children) > 0 {
			return merrors.New("M001").
				WithPath([]string{n.label()}).
				WithDetailf("<%s> is self-closing and cannot hold %d child(ren)", n.Tag, len(children))
		}
		return nil
	}
	n.Children = append(make([]any, 0, len(children)), children...)
	return nil
}

// With replaces the node's children and returns the node, so content can be
// attached after attribute-only construction:
//
//	Div(Lang("tr")).With("content")
//
// It panics with ErrInvalidOperation on a self-closing node.
func (n *Node) With(children ...any) *Node {
	if err := n.SetChildren(children...); err != nil {
		panic(err)
	}
	return n
}

// Copy returns a deep copy of the subtree. Nodes, attribute maps and
// literal slices are duplicated; functions and other values are shared.
func (n *Node) Copy() *Node {
	if n == nil {
		return nil
	}
	c := *n
	if n.Attrs != nil {
		c.Attrs = maps.Clone(n.Attrs)
	}
	if n.Children != nil {
		c.Children = copyItems(n.Children)
	}
	return &c
}

func copyItems(items []any) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = copyItem(item)
	}
	return out
}

func copyItem(item any) any {
	switch v := item.(type) {
	case *Node:
		return v.Copy()
	case []any:
		return copyItems(v)
	case []*Node:
		out := make([]*Node, len(v))
		for i, child := range v {
			out[i] = child.Copy()
		}
		return out
	default:
		return item
	}
}

// Render renders the node with the given context using the default
// renderer configuration.
func (n *Node) Render(ctx Context) (string, error) {
	return defaultRenderer.RenderToString(n, ctx)
}

// RenderKV renders with a context built from alternating key/value pairs.
// A trailing key without a value is ignored.
func (n *Node) RenderKV(kv ...any) (string, error) {
	ctx := make(Context, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		ctx[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return n.Render(ctx)
}

// String renders the node with an empty context. Render errors yield an
// empty string; use Render to observe them.
func (n *Node) String() string {
	s, err := n.Render(nil)
	if err != nil {
		return ""
	}
	return s
}

// label is the node's name in error paths.
func (n *Node) label() string {
	switch n.Kind {
	case KindBlock:
		return fmt.Sprintf("Block(%q)", n.Name)
	case KindFragment:
		return "Fragment"
	case KindSafe:
		return "Safe"
	default:
		return n.Tag
	}
}

// GoString returns a constructor-like representation for debugging:
//
//	div()  div(lang="tr")  div(lang="tr")("x")  Block("b")("a", 1)
func (n *Node) GoString() string {
	if n == nil {
		return "nil"
	}
	var b strings.Builder
	switch n.Kind {
	case KindBlock:
		fmt.Fprintf(&b, "Block(%q)", n.Name)
		if len(n.Children) > 0 {
			b.WriteString("(")
			writeItemsRepr(&b, n.Children)
			b.WriteString(")")
		}
		return b.String()
	case KindFragment, KindSafe:
		b.WriteString(n.Kind.String())
		b.WriteString("(")
		writeItemsRepr(&b, n.Children)
		b.WriteString(")")
		return b.String()
	}

	b.WriteString(n.Tag)
	b.WriteString("(")
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%s", k, itemRepr(n.Attrs[k]))
	}
	if len(keys) == 0 {
		writeItemsRepr(&b, n.Children)
		b.WriteString(")")
		return b.String()
	}
	b.WriteString(")")
	if len(n.Children) > 0 {
		b.WriteString("(")
		writeItemsRepr(&b, n.Children)
		b.WriteString(")")
	}
	return b.String()
}

func writeItemsRepr(b *strings.Builder, items []any) {
	for i, item := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(itemRepr(item))
	}
}

func itemRepr(item any) string {
	switch v := item.(type) {
	case nil:
		return "nil"
	case *Node:
		return v.GoString()
	case string:
		return fmt.Sprintf("%q", v)
	case []any:
		var b strings.Builder
		b.WriteString("[")
		writeItemsRepr(&b, v)
		b.WriteString("]")
		return b.String()
	}
	if isFunc(item) {
		return "<func>"
	}
	return fmt.Sprintf("%v", item)
}
