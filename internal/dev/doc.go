// Package dev provides the development server and live reload.
//
// This package implements:
//   - Static serving of the app directory with SPA fallback
//   - Polling file watcher for view, CSS, and asset changes
//   - WebSocket-based browser refresh with injected client script
//
// # Architecture
//
//   - Server: chi router serving the app directory; unknown paths fall
//     back to index.html so deep links resolve client-side
//   - Watcher: polls watched directories for timestamp changes
//   - ReloadServer: notifies browsers of changes via WebSocket
//
// # Usage
//
//	srv, err := dev.NewServer(dev.ServerOptions{
//	    Dir:    "public",
//	    Addr:   ":4400",
//	    Reload: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Live Reload Protocol
//
// The browser connects to /_skiff/reload via WebSocket.
// Messages are JSON-encoded:
//
//	{"type": "reload"}               // Triggers full page reload
//	{"type": "css", "file": "..."}   // Triggers CSS-only reload
package dev
