// Package server provides the HTTP server for the dashboard and its API.
//
// This package handles all HTTP concerns:
//
//   - Dashboard serving: the embedded HTML/CSS/JS dashboard at "/"
//   - REST API: the latest snapshot at "/api/state"
//   - Server-Sent Events: snapshot stream at "/api/sse"
//   - Controls: page, limit, enabled and refetch via POST, rate limited
//
// The server supports graceful shutdown via context cancellation, with a
// 5-second timeout for in-flight requests.
package server
