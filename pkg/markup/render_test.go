package markup

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		ctx  Context
		want string
	}{
		{
			name: "text child",
			node: Div("content"),
			want: "<div>\n  content\n</div>",
		},
		{
			name: "attributes only self-close",
			node: Div(Attrs{"lang": "tr"}),
			want: `<div lang="tr"/>`,
		},
		{
			name: "content attached after attributes",
			node: Div(Attrs{"lang": "tr"}).With("x"),
			want: "<div lang=\"tr\">\n  x\n</div>",
		},
		{
			name: "explicit empty content",
			node: Div(),
			want: "<div></div>",
		},
		{
			name: "empty call after attributes",
			node: Div(Attrs{"lang": "tr"}).With(),
			want: `<div lang="tr"></div>`,
		},
		{
			name: "void element",
			node: Hr(),
			want: "<hr/>",
		},
		{
			name: "nested elements",
			node: Div(P("a"), "b"),
			want: "<div>\n  <p>\n    a\n  </p>\n  b\n</div>",
		},
		{
			name: "multi-line text is re-indented",
			node: Div("a\nb"),
			want: "<div>\n  a\n  b\n</div>",
		},
		{
			name: "carriage returns end lines",
			node: Div("a\r\nb\rc"),
			want: "<div>\n  a\n  b\n  c\n</div>",
		},
		{
			name: "whitespace sensitive",
			node: Div(Pre("a\n  b")),
			want: "<div>\n  <pre>a\n  b</pre>\n</div>",
		},
		{
			name: "verbatim region covers descendants",
			node: Div(Code(B("x"), "y")),
			want: "<div>\n  <code><b>x</b>y</code>\n</div>",
		},
		{
			name: "doctype",
			node: Html(Body("x")),
			want: "<!DOCTYPE html>\n<html>\n  <body>\n    x\n  </body>\n</html>",
		},
		{
			name: "nested doctype is indented",
			node: Div(Html()),
			want: "<div>\n  <!DOCTYPE html>\n  <html></html>\n</div>",
		},
		{
			name: "script defaults with explicit close",
			node: Script(Src("app.js")),
			want: `<script src="app.js" type="text/javascript"></script>`,
		},
		{
			name: "form default method",
			node: Form(),
			want: `<form method="POST"></form>`,
		},
		{
			name: "empty block keeps its slot",
			node: Div(Block("main")),
			want: "<div>\n\n</div>",
		},
		{
			name: "nil renders as empty text",
			node: Div("a", nil, "b"),
			want: "<div>\n  a\n\n  b\n</div>",
		},
		{
			name: "typed nil node is dropped",
			node: Div("a", (*Node)(nil), "b"),
			want: "<div>\n  a\n  b\n</div>",
		},
		{
			name: "slice is flattened",
			node: Div([]any{"a", []any{"b", "c"}}),
			want: "<div>\n  a\n  b\n  c\n</div>",
		},
		{
			name: "typed slices",
			node: Div([]string{"a"}, []*Node{Br()}, []int{1, 2}),
			want: "<div>\n  a\n  <br/>\n  1\n  2\n</div>",
		},
		{
			name: "lazy sequence",
			node: Ul(slices.Values([]any{Li("x"), Li("y")})),
			want: "<ul>\n  <li>\n    x\n  </li>\n  <li>\n    y\n  </li>\n</ul>",
		},
		{
			name: "range helper",
			node: Ul(Range([]string{"x", "y"}, func(s string, _ int) any { return Li(s) })),
			want: "<ul>\n  <li>\n    x\n  </li>\n  <li>\n    y\n  </li>\n</ul>",
		},
		{
			name: "empty sequence takes no slot",
			node: Div("a", []any{}, "b"),
			want: "<div>\n  a\n  b\n</div>",
		},
		{
			name: "bare constructors",
			node: Div(Hr, Span),
			want: "<div>\n  <hr/>\n  <span></span>\n</div>",
		},
		{
			name: "fragment",
			node: Div("a", Fragment("b", "c")),
			want: "<div>\n  a\n  b\n  c\n</div>",
		},
		{
			name: "numbers and stringers",
			node: P(42, 1.5, true, stringer("s")),
			want: "<p>\n  42\n  1.5\n  true\n  s\n</p>",
		},
		{
			name: "context function",
			node: Div(func(ctx Context) any { return "Hello " + fmt.Sprint(ctx.Get("name")) }),
			ctx:  Context{"name": "Cenk"},
			want: "<div>\n  Hello Cenk\n</div>",
		},
		{
			name: "var with default",
			node: Div(VarDefault("name", "user")),
			want: "<div>\n  user\n</div>",
		},
		{
			name: "lazy returns node",
			node: Div(func() any { return P("x") }),
			want: "<div>\n  <p>\n    x\n  </p>\n</div>",
		},
		{
			name: "lazy returns sequence",
			node: Div(func(ctx Context) any { return []any{"a", "b"} }),
			want: "<div>\n  a\n  b\n</div>",
		},
		{
			name: "conditional helpers",
			node: Div(If(true, "yes"), Unless(true, "no"), When(true, func() any { return "w" })),
			want: "<div>\n  yes\n\n  w\n</div>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.node.Render(tt.ctx)
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Render() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

type stringer string

func (s stringer) String() string { return string(s) }

func TestRenderEscaping(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want string
	}{
		{
			name: "text escaped",
			node: Div("<script>"),
			want: "<div>\n  &lt;script&gt;\n</div>",
		},
		{
			name: "escaped inside block",
			node: Div(Block("b").With("<script>")),
			want: "<div>\n  &lt;script&gt;\n</div>",
		},
		{
			name: "quotes untouched in text",
			node: P(`"a" & 'b'`),
			want: "<p>\n  \"a\" &amp; 'b'\n</p>",
		},
		{
			name: "safe wrapper",
			node: Div(Safe("<script></script>")),
			want: "<div>\n  <script></script>\n</div>",
		},
		{
			name: "safe wrapper covers nested elements",
			node: Div(Safe(P("<i>"))),
			want: "<div>\n  <p>\n    <i>\n  </p>\n</div>",
		},
		{
			name: "safe attribute",
			node: Div(SafeContent()).With("<b>"),
			want: "<div>\n  <b>\n</div>",
		},
		{
			name: "safe attribute via attrs",
			node: Div(Attrs{"_safe": true}).With("<b>"),
			want: "<div>\n  <b>\n</div>",
		},
		{
			name: "safe attribute does not cover child elements",
			node: Div(SafeContent()).With(P("<i>")),
			want: "<div>\n  <p>\n    &lt;i&gt;\n  </p>\n</div>",
		},
		{
			name: "safe flag reaches text through blocks",
			node: Div(SafeContent()).With(Block("b").With("<i>")),
			want: "<div>\n  <i>\n</div>",
		},
		{
			name: "attribute values always escaped",
			node: Div(Attrs{"title": `a"b'<&`}),
			want: `<div title="a&quot;b&#x27;&lt;&amp;"/>`,
		},
		{
			name: "attribute escaped inside safe wrapper",
			node: Safe(Div(Attrs{"title": `"`})),
			want: `<div title="&quot;"/>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.node.Render(nil)
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Render() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderAttributes(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		ctx  Context
		want string
	}{
		{
			name: "reserved word suffix",
			node: Div(Attrs{"class_": "container"}),
			want: `<div class="container"/>`,
		},
		{
			name: "data prefix",
			node: Div(Attrs{"data_value": "bar"}),
			want: `<div data-value="bar"/>`,
		},
		{
			name: "long data name",
			node: Div(Attrs{"data_some_attribute_forever": "bar"}),
			want: `<div data-some-attribute-forever="bar"/>`,
		},
		{
			name: "aria prefix",
			node: Div(Attrs{"aria_foo": "bar"}),
			want: `<div aria-foo="bar"/>`,
		},
		{
			name: "react aliases",
			node: Label(Attrs{"className": "x", "htmlFor": "y"}),
			want: `<label class="x" for="y"/>`,
		},
		{
			name: "sorted by rendered name",
			node: Div(Attrs{"z": 1, "class_": "c", "a": 2}),
			want: `<div a="2" class="c" z="1"/>`,
		},
		{
			name: "helpers",
			node: A(ID("home"), Class("nav", "active"), Href("/"), Data("id", 7)),
			want: `<a class="nav active" data-id="7" href="/" id="home"/>`,
		},
		{
			name: "boolean attribute true",
			node: Input(Type("checkbox"), Checked()),
			want: `<input checked type="checkbox"/>`,
		},
		{
			name: "boolean attribute false",
			node: Input(Attrs{"disabled": false}),
			want: `<input/>`,
		},
		{
			name: "non-boolean bool value",
			node: Div(Attrs{"draggable": true}),
			want: `<div draggable="true"/>`,
		},
		{
			name: "nil value keeps key",
			node: Div(Attrs{"x": nil}),
			want: `<div x=""/>`,
		},
		{
			name: "lazy value",
			node: Div(Attrs{"href": Var("url")}),
			ctx:  Context{"url": "/a?b&c"},
			want: `<div href="/a?b&amp;c"/>`,
		},
		{
			name: "lazy context function value",
			node: Meta(Content(func(ctx Context) any { return ctx["desc"] })),
			ctx:  Context{"desc": "hi"},
			want: `<meta content="hi"/>`,
		},
		{
			name: "empty attr ignored",
			node: Div(Attr{}, ID("x")),
			want: `<div id="x"/>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.node.Render(tt.ctx)
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Render() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderDropNil(t *testing.T) {
	r := NewRenderer(RendererConfig{DropNil: true})
	got, err := r.RenderToString(Div("a", nil, Var("missing"), "b"), nil)
	if err != nil {
		t.Fatalf("RenderToString() error: %v", err)
	}
	want := "<div>\n  a\n  b\n</div>"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderIndent(t *testing.T) {
	r := NewRenderer(RendererConfig{Indent: "\t"})
	got, err := r.RenderToString(Div(P("a")), nil)
	if err != nil {
		t.Fatalf("RenderToString() error: %v", err)
	}
	want := "<div>\n\t<p>\n\t\ta\n\t</p>\n</div>"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderContainerRoots(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want string
	}{
		{"empty block", Block("b"), ""},
		{"filled block", Block("b").With("asdf"), "asdf"},
		{"block with element", Block("b").With(Div()), "<div></div>"},
		{"fragment", Fragment("a", "b"), "a\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderKV(t *testing.T) {
	node := Div(func(ctx Context) string {
		name, ok := ctx["name"].(string)
		if !ok {
			name = "user"
		}
		return "Hello " + name
	})

	if got := node.String(); got != "<div>\n  Hello user\n</div>" {
		t.Errorf("String() = %q", got)
	}
	got, err := node.RenderKV("name", "Cenk")
	if err != nil {
		t.Fatalf("RenderKV() error: %v", err)
	}
	if got != "<div>\n  Hello Cenk\n</div>" {
		t.Errorf("RenderKV() = %q", got)
	}
}

func TestRenderContextNotMutated(t *testing.T) {
	ctx := Context{"a": 1}
	node := Div(func(c Context) any {
		c["a"] = 2
		c["b"] = 3
		return "x"
	})
	if _, err := node.Render(ctx); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if diff := cmp.Diff(Context{"a": 1}, ctx); diff != "" {
		t.Errorf("caller context changed (-want +got):\n%s", diff)
	}
}

func TestRenderLazyReevaluated(t *testing.T) {
	calls := 0
	node := Div(func() any {
		calls++
		return calls
	})
	first := node.String()
	second := node.String()
	if first == second {
		t.Errorf("lazy content should be evaluated per render, got %q twice", first)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestRenderLazyError(t *testing.T) {
	boom := errors.New("boom")
	node := Div(P(Lazy(func(Context) (any, error) { return nil, boom })))

	_, err := node.Render(nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, boom) {
		t.Errorf("error should wrap cause: %v", err)
	}
	if !errors.Is(err, ErrLazyFailed) {
		t.Errorf("error should match ErrLazyFailed: %v", err)
	}
	var merr *Error
	if !errors.As(err, &merr) {
		t.Fatalf("error should be *Error, got %T", err)
	}
	if diff := cmp.Diff([]string{"div", "p"}, merr.Path); diff != "" {
		t.Errorf("Path mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderLazyErrorPassThrough(t *testing.T) {
	boom := errors.New("boom")
	inner := Span(Lazy(func(Context) (any, error) { return nil, boom }))
	outer := Div(Lazy(func(ctx Context) (any, error) {
		s, err := inner.Render(ctx)
		return s, err
	}))

	_, err := outer.Render(nil)
	var merr *Error
	if !errors.As(err, &merr) {
		t.Fatalf("error should be *Error, got %T", err)
	}
	if diff := cmp.Diff([]string{"span"}, merr.Path); diff != "" {
		t.Errorf("inner path should be kept (-want +got):\n%s", diff)
	}
	if merr.Unwrap() != boom {
		t.Errorf("Unwrap() = %v, want boom", merr.Unwrap())
	}
}

func TestRenderAttributeError(t *testing.T) {
	boom := errors.New("bad url")
	node := A(Href(Lazy(func(Context) (any, error) { return nil, boom })))
	if _, err := node.Render(nil); !errors.Is(err, boom) {
		t.Errorf("Render() error = %v, want wrapped %v", err, boom)
	}
}

func TestRenderFunctionSignatures(t *testing.T) {
	type greeting string

	tests := []struct {
		name string
		node *Node
		want string
	}{
		{
			name: "node result",
			node: Div(func(ctx Context) *Node { return P(ctx["name"]) }),
			want: "<div>\n  <p>\n    Ada\n  </p>\n</div>",
		},
		{
			name: "no argument string",
			node: Div(func() string { return "hi" }),
			want: "<div>\n  hi\n</div>",
		},
		{
			name: "slice result",
			node: Div(func(Context) []any { return []any{"a", B("b")} }),
			want: "<div>\n  a\n  <b>\n    b\n  </b>\n</div>",
		},
		{
			name: "plain map argument",
			node: Div(func(m map[string]any) any { return m["name"] }),
			want: "<div>\n  Ada\n</div>",
		},
		{
			name: "interface argument",
			node: Div(func(v any) any { return len(v.(Context)) }),
			want: "<div>\n  1\n</div>",
		},
		{
			name: "value and nil error",
			node: Div(func(ctx Context) (greeting, error) { return greeting("hello"), nil }),
			want: "<div>\n  hello\n</div>",
		},
		{
			name: "typed sequence",
			node: Ul(slices.Values([]*Node{Li("x"), Li("y")})),
			want: "<ul>\n  <li>\n    x\n  </li>\n  <li>\n    y\n  </li>\n</ul>",
		},
		{
			name: "string sequence",
			node: P(slices.Values([]string{"a", "<b>"})),
			want: "<p>\n  a\n  &lt;b&gt;\n</p>",
		},
		{
			name: "attribute function",
			node: A(Href(func(ctx Context) string { return "/u/" + ctx["name"].(string) })),
			want: `<a href="/u/Ada"/>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.node.Render(Context{"name": "Ada"})
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Render() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderFunctionError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Div(func() (int, error) { return 0, boom }).Render(nil)
	if !errors.Is(err, boom) || !errors.Is(err, ErrLazyFailed) {
		t.Errorf("Render() error = %v, want ErrLazyFailed wrapping boom", err)
	}
}

func TestRenderSequenceStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	yielded := 0
	seq := func(yield func(Lazy) bool) {
		for i := 0; i < 3; i++ {
			yielded++
			if !yield(func(Context) (any, error) { return nil, boom }) {
				return
			}
		}
	}
	if _, err := Div(seq).Render(nil); !errors.Is(err, boom) {
		t.Fatalf("Render() error = %v, want boom", err)
	}
	if yielded != 1 {
		t.Errorf("sequence yielded %d items after failure, want 1", yielded)
	}
}

func TestRenderUnsupportedContent(t *testing.T) {
	tests := []struct {
		name string
		node *Node
	}{
		{"int argument", Div(func(n int) string { return "" })},
		{"two arguments", Div(func(ctx Context, n int) any { return n })},
		{"no result", Div(func(Context) {})},
		{"second result not error", Div(func() (string, bool) { return "", true })},
		{"variadic", Div(func(args ...string) string { return "" })},
		{"attribute", Div(Attrs{"x": func(a, b string) {}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.node.Render(nil)
			if !errors.Is(err, ErrUnsupportedContent) {
				t.Errorf("Render() error = %v, want ErrUnsupportedContent", err)
			}
		})
	}
}

func TestRenderToWriter(t *testing.T) {
	r := NewRenderer(RendererConfig{})

	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, Div("x"), nil); err != nil {
		t.Fatalf("RenderToWriter() error: %v", err)
	}
	if buf.String() != "<div>\n  x\n</div>" {
		t.Errorf("got %q", buf.String())
	}

	buf.Reset()
	failing := Div("before", Lazy(func(Context) (any, error) { return nil, errors.New("x") }))
	if err := r.RenderToWriter(&buf, failing, nil); err == nil {
		t.Fatal("expected error")
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should be written on failure, got %q", buf.String())
	}
}

func TestRenderNilNode(t *testing.T) {
	var n *Node
	got, err := defaultRenderer.RenderToString(n, nil)
	if err != nil || got != "" {
		t.Errorf("RenderToString(nil) = %q, %v", got, err)
	}
}

func TestRenderIdempotent(t *testing.T) {
	node := Html(
		Head(Title(Var("title"))),
		Body(
			Ul(slices.Values([]any{Li("a"), Li("b")})),
			Pre("x\n y"),
		),
	)
	ctx := Context{"title": "T"}
	first, err := node.Render(ctx)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	second, err := node.Render(ctx)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("renders differ (-first +second):\n%s", diff)
	}
}

func TestRenderConcurrent(t *testing.T) {
	node := Div(P(Var("n")), Ul(Li("a"), Li("b")))

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := node.RenderKV("n", i)
			if err != nil {
				errs <- err
				return
			}
			if !strings.Contains(got, fmt.Sprintf("    %d\n", i)) {
				errs <- fmt.Errorf("render %d: got %q", i, got)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestSanitize(t *testing.T) {
	got := Div(Sanitize(`<b>ok</b><script>bad()</script>`)).String()
	if !strings.Contains(got, "<b>ok</b>") {
		t.Errorf("allowed markup should be kept unescaped, got %q", got)
	}
	if strings.Contains(got, "<script") || strings.Contains(got, "bad()") {
		t.Errorf("script should be removed, got %q", got)
	}
}
