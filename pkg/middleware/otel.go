package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/markup/pkg/markup"
)

// Default tracer name.
const defaultTracerName = "markup"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "markup").
	TracerName string

	// TracerProvider supplies the tracer.
	// Default: the global provider from otel.GetTracerProvider().
	TracerProvider trace.TracerProvider

	// IncludeDataKeys records the render context keys (not values) as a
	// span attribute.
	IncludeDataKeys bool

	// Filter determines which pages to trace.
	// If nil, all renders are traced.
	Filter func(page string) bool
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithIncludeDataKeys enables recording context keys on spans.
func WithIncludeDataKeys(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeDataKeys = include
	}
}

// WithPageFilter sets a filter function for pages.
func WithPageFilter(filter func(page string) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// OpenTelemetry creates middleware that traces every render.
//
// Each render gets a "markup.render" span carrying the page name and output
// size. Errors are recorded and set the span status.
//
// The tracer uses the global OpenTelemetry tracer provider unless one is
// given. Configure it in main() before serving:
//
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) Middleware {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.TracerProvider == nil {
		config.TracerProvider = otel.GetTracerProvider()
	}
	tracer := config.TracerProvider.Tracer(config.TracerName)

	return func(next RenderFunc) RenderFunc {
		return func(ctx context.Context, page string, data markup.Context) (string, error) {
			if config.Filter != nil && !config.Filter(page) {
				return next(ctx, page, data)
			}

			attrs := []attribute.KeyValue{
				attribute.String("markup.page", page),
			}
			if config.IncludeDataKeys {
				keys := make([]string, 0, len(data))
				for k := range data {
					keys = append(keys, k)
				}
				attrs = append(attrs, attribute.StringSlice("markup.data_keys", keys))
			}

			spanCtx, span := tracer.Start(ctx, "markup.render",
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(attrs...),
			)
			defer span.End()

			out, err := next(spanCtx, page, data)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				span.SetAttributes(attribute.String("markup.error_type", errorType(err)))
				return out, err
			}
			span.SetAttributes(attribute.Int("markup.output_bytes", len(out)))
			span.SetStatus(codes.Ok, "")
			return out, nil
		}
	}
}
