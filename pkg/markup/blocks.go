package markup

import merrors "github.com/vango-dev/markup/internal/errors"

// Block creates a named placeholder. A block has no tag and renders only its
// children; SetBlock rebinds every block of a given name in a tree.
//
//	page := Html(Body(Block("main")))
//	page.SetBlock("main", P("hello"))
func Block(name string) *Node {
	return &Node{Kind: KindBlock, Name: name}
}

// SetBlock replaces the children of every block named name in the subtree
// rooted at n and returns n. No match is a silent no-op.
//
// A block whose content holds another block of the same name is shadowed by
// it, so substitutions can be layered:
//
//	t.SetBlock("main", Div("foo", Block("main")))
//	t.SetBlock("main", "bar") // fills the inner block
//
// SetBlock mutates the tree in place. Copy a shared base first, and never
// call it concurrently with Render on the same tree.
func (n *Node) SetBlock(name string, children ...any) *Node {
	for _, b := range n.Blocks()[name] {
		b.Children = append(make([]any, 0, len(children)), children...)
	}
	return n
}

// Blocks returns the live rebind targets in the subtree, keyed by name, in
// document order. Only the innermost of nested same-named blocks appear.
func (n *Node) Blocks() map[string][]*Node {
	found := make(map[string][]*Node)
	if n != nil {
		indexItem(n, found)
	}
	return found
}

// LookupBlock returns the rebind targets for name, or ErrLookupMiss.
func (n *Node) LookupBlock(name string) ([]*Node, error) {
	blocks := n.Blocks()[name]
	if len(blocks) == 0 {
		return nil, merrors.New("M003").
			WithDetailf("no block named %q in the tree", name)
	}
	return blocks, nil
}

// indexItem records blocks reachable from item into found and reports the
// block names present in item's subtree.
func indexItem(item any, found map[string][]*Node) map[string]bool {
	switch v := item.(type) {
	case *Node:
		if v == nil {
			return nil
		}
		inner := indexItems(v.Children, found)
		if v.Kind != KindBlock {
			return inner
		}
		if !inner[v.Name] {
			found[v.Name] = append(found[v.Name], v)
		}
		if inner == nil {
			inner = make(map[string]bool)
		}
		inner[v.Name] = true
		return inner
	case []*Node:
		var names map[string]bool
		for _, child := range v {
			names = mergeNames(names, indexItem(child, found))
		}
		return names
	case []any:
		return indexItems(v, found)
	default:
		return nil
	}
}

func indexItems(items []any, found map[string][]*Node) map[string]bool {
	var names map[string]bool
	for _, item := range items {
		names = mergeNames(names, indexItem(item, found))
	}
	return names
}

func mergeNames(dst, src map[string]bool) map[string]bool {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]bool, len(src))
	}
	for name := range src {
		dst[name] = true
	}
	return dst
}
