package router

import "context"

// Injectables is the shared services bag passed to every controller
// constructor. It is read-only after router construction and shared by
// reference across all controller instances; the router never mutates it.
type Injectables map[string]any

// Factory constructs a fresh controller for a route mount. The returned
// value may implement Initializer and Uninitializer; both are optional and
// detected by interface presence.
type Factory func(injectables Injectables) any

// Initializer is the optional mount hook. Init is awaited before the
// transition commits; an error abandons the transition.
type Initializer interface {
	Init(ctx context.Context) error
}

// Uninitializer is the optional teardown hook. Uninit is awaited before the
// next route's controller is constructed.
type Uninitializer interface {
	Uninit(ctx context.Context) error
}

// Route associates a path with a view source and an optional controller
// factory. Routes are immutable once registered; the table sanitizes Path
// at registration time.
type Route struct {
	// Path is the route's absolute path, the key within the table.
	Path string

	// View is the view source fetched on mount. When empty, it defaults
	// to Path + ".html".
	View string

	// Component constructs the route's controller. Optional; routes
	// without a controller just swap content.
	Component Factory
}

// ViewSource returns the view source for the route, applying the default.
func (r Route) ViewSource() string {
	if r.View != "" {
		return r.View
	}
	return r.Path + ".html"
}

// ActiveRoute is the currently mounted route and its live controller, if
// any. Exactly one exists at a time (or none before the first committed
// transition). It is owned by the engine and replaced wholesale at the end
// of a successful transition, never partially updated.
type ActiveRoute struct {
	Route      Route
	Controller any
}

// RouteChange is the notification emitted once per committed transition.
// Previous is nil for the first committed transition.
type RouteChange struct {
	Previous *Route
	Current  *Route
}

// Cleanup unsubscribes a listener.
type Cleanup func()
