// Package markup builds HTML programmatically as trees of nodes and renders
// them with context-dependent substitution.
//
// There is no template language. Pages are composed from Go calls:
//
//	page := markup.Html(
//	    markup.Head(markup.Title(markup.Block("title"))),
//	    markup.Body(markup.Block("main")),
//	)
//
// # Construction
//
// Every element constructor takes either attributes (Attr, []Attr, Attrs)
// or children, never both at once. Content is attached to an
// attribute-only element with With:
//
//	markup.Div(markup.Attrs{"class_": "card"}).With("content")
//
// Element constructors panic with a structured *Error on misuse; Build and
// Preset.New return the error instead.
//
// # Content
//
// Children may be literals, nodes, slices, iter.Seq[any] sequences, or
// functions of the render Context. Functions and sequences are evaluated on
// every render, so one tree renders differently for different contexts:
//
//	greet := markup.P("Hello ", markup.Var("name"))
//	html, err := greet.RenderKV("name", "Ada")
//
// # Rendering
//
// Output is indented two spaces per level. Whitespace-sensitive elements
// (pre, code, ...) are written verbatim. Text is escaped unless the element
// is marked safe (SafeContent) or wrapped in Safe; attribute values are
// always escaped.
//
// # Blocks
//
// Block creates a named placeholder. SetBlock fills every block of that name
// in place, so a shared layout must be copied before it is filled:
//
//	home := base.Copy().SetBlock("main", markup.H1("Home"))
//
// Trees are not safe for concurrent SetBlock and Render; concurrent renders
// of an unmodified tree are fine.
package markup
