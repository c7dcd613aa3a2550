// Package errors provides structured, actionable error messages for Skiff.
//
// Every failure the router surfaces — a path with no matching route, a view
// fragment that could not be fetched, a controller lifecycle hook that
// raised — carries a stable code, a category, and enough detail to render a
// useful message both into the application root and onto a terminal.
//
// # Error Categories
//
//   - routing: navigation-time errors (no matching route, bad nav path)
//   - fetch: view source retrieval errors (transport failure, bad status)
//   - lifecycle: controller init/uninit hook failures
//   - config: malformed configuration or manifest
//   - cli: command-line tooling errors (deploy, serve)
//
// # Error Codes
//
// Each error has a unique code (e.g., "R100") that maps to a short message,
// a detailed explanation, and a documentation URL.
//
// # Usage
//
//	err := errors.New("R100").
//	    WithDetail("path: /missing").
//	    WithSuggestion("Register a catch-all route at / to absorb unknown paths")
//
//	fmt.Println(err.FormatCompact())
//	// Output: R100: Route not found
package errors
