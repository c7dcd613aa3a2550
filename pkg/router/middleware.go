package router

import "context"

// Nav carries per-transition state through the navigation middleware chain.
type Nav struct {
	// ID uniquely identifies this transition attempt. It appears in logs,
	// error renders, and trace spans.
	ID string

	// Path is the sanitized target path.
	Path string

	ctx context.Context
}

// Context returns the context for the transition. Middleware may replace
// it with SetContext to propagate values (e.g., trace spans) downstream.
func (n *Nav) Context() context.Context {
	if n.ctx == nil {
		return context.Background()
	}
	return n.ctx
}

// SetContext replaces the transition context.
func (n *Nav) SetContext(ctx context.Context) {
	n.ctx = ctx
}

// Middleware wraps a transition. Returning an error without calling next
// aborts the transition; the engine converts the error into an error
// render exactly as it does for transition failures.
type Middleware interface {
	Handle(nav *Nav, next func() error) error
}

// MiddlewareFunc is a function adapter for Middleware.
type MiddlewareFunc func(nav *Nav, next func() error) error

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(nav *Nav, next func() error) error {
	return f(nav, next)
}

// ComposeMiddleware builds a handler chain from middleware and a final
// handler. Middleware executes in order (first to last), with the handler
// at the end.
func ComposeMiddleware(nav *Nav, mw []Middleware, handler func() error) error {
	if len(mw) == 0 {
		return handler()
	}

	// Build chain from end to start
	chain := handler
	for i := len(mw) - 1; i >= 0; i-- {
		m := mw[i]
		next := chain
		chain = func() error {
			return m.Handle(nav, next)
		}
	}

	return chain()
}

// Chain creates a middleware that combines multiple middleware in order.
func Chain(middleware ...Middleware) Middleware {
	return MiddlewareFunc(func(nav *Nav, next func() error) error {
		return ComposeMiddleware(nav, middleware, next)
	})
}

// Skip runs mw unless the condition holds, in which case it is skipped.
func Skip(condition func(nav *Nav) bool, mw Middleware) Middleware {
	return MiddlewareFunc(func(nav *Nav, next func() error) error {
		if condition(nav) {
			return next()
		}
		return mw.Handle(nav, next)
	})
}

// Only runs mw only when the condition holds.
func Only(condition func(nav *Nav) bool, mw Middleware) Middleware {
	return MiddlewareFunc(func(nav *Nav, next func() error) error {
		if !condition(nav) {
			return next()
		}
		return mw.Handle(nav, next)
	})
}
