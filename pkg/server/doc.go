// Package server serves a site's pages over HTTP.
//
// Routes:
//
//	GET /                 index of registered pages
//	GET /{page}           rendered page ("about" or "about.html")
//	GET /_blocks/{page}   JSON block counts for a page
//	GET /metrics          Prometheus metrics
//	GET /_preview/ws      live preview WebSocket (when enabled)
//
// Unknown pages answer 404. Other render failures are logged and answer 500
// without leaking the error to the client.
//
// The router is a chi.Router, so the server can be mounted inside a larger
// application:
//
//	r := chi.NewRouter()
//	r.Mount("/docs", server.New(s, nil).Handler())
package server
