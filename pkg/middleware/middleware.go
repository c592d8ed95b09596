package middleware

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/vango-dev/markup/internal/errors"
	"github.com/vango-dev/markup/pkg/markup"
)

// RenderFunc renders a named page with the given render context.
type RenderFunc func(ctx context.Context, page string, data markup.Context) (string, error)

// Middleware wraps a RenderFunc.
type Middleware func(next RenderFunc) RenderFunc

// Chain wraps fn with the middleware. The first middleware is the outermost.
func Chain(fn RenderFunc, mws ...Middleware) RenderFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		fn = mws[i](fn)
	}
	return fn
}

// Logging logs every render: failures at error level, successes at debug.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next RenderFunc) RenderFunc {
		return func(ctx context.Context, page string, data markup.Context) (string, error) {
			start := time.Now()
			out, err := next(ctx, page, data)
			if err != nil {
				logger.ErrorContext(ctx, "render failed",
					"page", page,
					"type", errorType(err),
					"err", err,
				)
				return out, err
			}
			logger.DebugContext(ctx, "rendered",
				"page", page,
				"bytes", len(out),
				"duration", time.Since(start),
			)
			return out, nil
		}
	}
}

// errorType categorizes a render error for labels and log fields.
func errorType(err error) string {
	switch {
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}

	var merr *errors.Error
	if !stderrors.As(err, &merr) {
		return "other"
	}
	switch merr.Code {
	case "C100":
		return "unknown_page"
	case "M005":
		return "lazy"
	case "M006":
		return "unsupported"
	case "":
		return "other"
	default:
		return string(merr.Category)
	}
}
