// Package skiff provides the public API for the Skiff navigation router.
//
// This is the recommended import for most applications:
//
//	import "github.com/skiff-dev/skiff"
//
// Usage:
//
//	r, err := skiff.New(skiff.Config{
//	    Document: doc,
//	    History:  hist,
//	    Root:     "#app",
//	    Fetch:    skiff.FetchConfig{BaseURL: "https://app.example.com"},
//	    Routes: []skiff.Route{
//	        {Path: "/"},
//	        {Path: "/about", View: "/pages/about.html"},
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r.Initialize(ctx)
package skiff

import (
	"github.com/skiff-dev/skiff/pkg/router"
)

// Route associates a path with a view source and an optional controller
// factory.
type Route = router.Route

// Router is the navigation engine.
type Router = router.Router

// ActiveRoute is the currently mounted route and its live controller.
type ActiveRoute = router.ActiveRoute

// RouteChange is the notification emitted once per committed transition.
type RouteChange = router.RouteChange

// Injectables is the shared services bag passed to controller constructors.
type Injectables = router.Injectables

// Factory constructs a fresh controller for a route mount.
type Factory = router.Factory

// Initializer is the optional controller mount hook.
type Initializer = router.Initializer

// Uninitializer is the optional controller teardown hook.
type Uninitializer = router.Uninitializer

// Cleanup unsubscribes a listener.
type Cleanup = router.Cleanup

// Middleware wraps a route transition.
type Middleware = router.Middleware

// MiddlewareFunc is a function adapter for Middleware.
type MiddlewareFunc = router.MiddlewareFunc

// Nav carries per-transition state through the middleware chain.
type Nav = router.Nav

// Middleware combinators (re-export from pkg/router)

// ChainMiddleware combines multiple middleware into one, in order.
var ChainMiddleware = router.Chain

// SkipMiddleware runs a middleware unless the condition holds.
var SkipMiddleware = router.Skip

// OnlyMiddleware runs a middleware only when the condition holds.
var OnlyMiddleware = router.Only

// ErrRouteNotFound reports that no registered route matches a path.
var ErrRouteNotFound = router.ErrRouteNotFound

// New creates a Router from the configuration. It fails when a required
// backend is missing. An empty route table is accepted: every navigation
// then fails with a rendered R100 error.
func New(cfg Config) (*Router, error) {
	return router.New(buildOptions(cfg))
}
