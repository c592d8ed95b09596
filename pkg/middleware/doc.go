// Package middleware instruments page rendering.
//
// A RenderFunc renders a named page; middleware wraps it:
//
//	metrics := middleware.NewMetrics(middleware.WithNamespace("docs"))
//	render := middleware.Chain(site.Render,
//	    middleware.Logging(logger),
//	    middleware.OpenTelemetry(middleware.WithTracerName("docs")),
//	    metrics.Middleware(),
//	)
//
// # OpenTelemetry Middleware
//
// OpenTelemetry starts a "markup.render" span per render with the page name,
// output size, and error status.
//
// # Prometheus Metrics
//
// Metrics counts renders, observes duration and output size, and exposes
// gauges and counters for the preview server and publisher. Serve them with
// promhttp.Handler() (the server does this at /metrics).
package middleware
