package markup

import (
	"maps"
	"reflect"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Context is the read-only data passed to every lazy content and attribute
// function during a render.
//
// A lazy child or attribute value is any function taking no argument or one
// argument that a Context can be assigned or converted to, and returning a
// single value, optionally followed by an error:
//
//	func() string
//	func(Context) *Node
//	func(map[string]any) []any
//	func(Context) (any, error)
//	Lazy
//
// The result is resolved again like any other item. Children may also be
// sequences of any element type (iter.Seq[T]). Other function types are
// rejected at render time with ErrUnsupportedContent, except bare
// constructors (func(...any) *Node), which render their default instance.
type Context map[string]any

// Get returns the value stored under key, or nil.
func (c Context) Get(key string) any {
	return c[key]
}

// Lookup returns the value stored under key and whether it was present.
func (c Context) Lookup(key string) (any, bool) {
	v, ok := c[key]
	return v, ok
}

// clone gives each render its own view of the caller's map.
func (c Context) clone() Context {
	if c == nil {
		return Context{}
	}
	return maps.Clone(c)
}

// Lazy is content or an attribute value computed from the Context at render
// time. A returned error aborts the render.
type Lazy func(Context) (any, error)

// Var returns a lazy accessor for a context value. Missing keys render as nil.
//
//	P("Hello ", Var("name")).RenderKV("name", "Ada")
func Var(name string) Lazy {
	return VarDefault(name, nil)
}

// VarDefault is like Var but yields def when the key is missing.
func VarDefault(name string, def any) Lazy {
	return func(ctx Context) (any, error) {
		if v, ok := ctx[name]; ok {
			return v, nil
		}
		return def, nil
	}
}

// Safe wraps content whose text is already escaped. Everything rendered
// inside it, including nested elements, is written without text escaping.
// Attribute values are still escaped.
func Safe(children ...any) *Node {
	return &Node{
		Kind:     KindSafe,
		Children: append(make([]any, 0, len(children)), children...),
	}
}

// Raw emits an HTML string without escaping.
// Use with caution - can lead to XSS if content is user-provided.
func Raw(html string) *Node {
	return Safe(html)
}

// Fragment groups children without a wrapper element. They render as
// siblings of the fragment's neighbours.
func Fragment(children ...any) *Node {
	return &Node{
		Kind:     KindFragment,
		Children: append(make([]any, 0, len(children)), children...),
	}
}

// Group is an alias for Fragment.
func Group(children ...any) *Node {
	return Fragment(children...)
}

// If returns the item if condition is true, nil otherwise.
func If(condition bool, item any) any {
	if condition {
		return item
	}
	return nil
}

// IfElse returns the first item if condition is true, the second otherwise.
func IfElse(condition bool, ifTrue, ifFalse any) any {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// When is like If but with lazy evaluation.
// The function is only called if condition is true.
func When(condition bool, fn func() any) any {
	if condition {
		return fn()
	}
	return nil
}

// Unless is the inverse of If.
func Unless(condition bool, item any) any {
	if !condition {
		return item
	}
	return nil
}

// Range maps a slice to content items. Nil results are skipped.
func Range[T any](items []T, fn func(item T, index int) any) []any {
	result := make([]any, 0, len(items))
	for i, item := range items {
		if v := fn(item, i); v != nil {
			result = append(result, v)
		}
	}
	return result
}

// Repeat creates n content items using the given function.
func Repeat(n int, fn func(i int) any) []any {
	if n <= 0 {
		return nil
	}
	result := make([]any, 0, n)
	for i := 0; i < n; i++ {
		if v := fn(i); v != nil {
			result = append(result, v)
		}
	}
	return result
}

var ugcPolicy = sync.OnceValue(bluemonday.UGCPolicy)

// Sanitize cleans untrusted HTML with a user-generated-content policy and
// returns it as Safe content.
func Sanitize(html string) *Node {
	return SanitizeWith(ugcPolicy(), html)
}

// SanitizeWith cleans untrusted HTML with the given policy and returns it as
// Safe content.
func SanitizeWith(policy *bluemonday.Policy, html string) *Node {
	return Safe(policy.Sanitize(html))
}

// isFunc reports whether v holds a function value of any signature.
func isFunc(v any) bool {
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Func
}

// isSeq reports whether v has the shape of iter.Seq[T]: func(yield func(T) bool).
func isSeq(v any) bool {
	if !isFunc(v) {
		return false
	}
	t := reflect.TypeOf(v)
	if t.NumIn() != 1 || t.NumOut() != 0 {
		return false
	}
	y := t.In(0)
	return y.Kind() == reflect.Func && y.NumIn() == 1 && y.NumOut() == 1 &&
		y.Out(0).Kind() == reflect.Bool && !y.IsVariadic()
}
