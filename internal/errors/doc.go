// Package errors provides structured, coded errors for markup.
//
// Every error carries a code (e.g. "M001") that maps to a registered
// template with a category, a short message and a longer explanation.
// Render errors additionally record the path of the node that failed,
// from the root down:
//
//	err := errors.New("M001").
//	    WithPath([]string{"html", "body", "hr"}).
//	    WithSuggestion("Self-closing tags cannot hold content")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR M001: Invalid operation
//	//
//	//   at html > body > hr
//	//
//	//   Hint: Self-closing tags cannot hold content
//
// # Categories
//
//   - construction: violations while building a node tree
//   - render: failures while serializing a tree (lazy content errors)
//   - block: block lookup results
//   - config: configuration loading and validation
//   - cli: command-line usage errors
package errors
