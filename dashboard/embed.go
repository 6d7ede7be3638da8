// Package dashboard provides the embedded web UI for moistureboard.
//
// The page subscribes to /api/sse, renders the current readings and their
// statistics, and drives the poller through the /api control routes. It is
// served by the server package at "/" with {{.Title}} replaced by the
// configured board title.
package dashboard

import "embed"

// Assets holds assets/index.html.
//
//go:embed assets/*
var Assets embed.FS
