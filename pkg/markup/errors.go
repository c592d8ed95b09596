package markup

import merrors "github.com/vango-dev/markup/internal/errors"

// Error is the structured error returned by construction and render
// operations. Use errors.Is against the sentinels below to classify it.
type Error = merrors.Error

// Sentinel errors. Errors returned by this package match them with
// errors.Is by code, whatever path or cause they carry.
var (
	// ErrInvalidOperation reports children given to a self-closing node.
	ErrInvalidOperation error = merrors.New("M001")

	// ErrAssertionViolation reports children and attributes given together
	// at construction.
	ErrAssertionViolation error = merrors.New("M002")

	// ErrLookupMiss reports a block name with no targets. SetBlock never
	// returns it; LookupBlock does.
	ErrLookupMiss error = merrors.New("M003")

	// ErrUnknownTag reports Build with an unregistered tag name.
	ErrUnknownTag error = merrors.New("M004")

	// ErrLazyFailed wraps an error returned by a content or attribute
	// function during render.
	ErrLazyFailed error = merrors.New("M005")

	// ErrUnsupportedContent reports a child value the renderer cannot
	// resolve, such as a function with an unrecognized signature.
	ErrUnsupportedContent error = merrors.New("M006")
)
