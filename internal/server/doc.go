// Package server exposes the listing page and the query codec over HTTP.
//
// Routes:
//
//	GET  /             listing page (HTML, or JSON with Accept: application/json)
//	GET  /api/state    decoded state and rejected tokens of the request query
//	POST /api/query    canonical query for form-encoded control values
//	GET  /api/streams  HLS playlists for ?url=... (requires a data store)
//	GET  /healthz      health check
//	GET  /metrics      Prometheus metrics
//	GET  /runtime/...  stylesheet and page script
package server
