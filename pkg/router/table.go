package router

import (
	"errors"

	skifferrors "github.com/skiff-dev/skiff/internal/errors"
	"github.com/skiff-dev/skiff/pkg/routepath"
)

// ErrRouteNotFound reports that no registered route matches a path. Match
// errors wrap it, so callers can test with errors.Is.
var ErrRouteNotFound = errors.New("no route matches path")

// Table is the ordered route table. Registration order is significant: it
// breaks ties between equal-specificity prefix candidates.
type Table struct {
	routes []Route
}

// NewTable creates a table from the given routes. Route paths are
// sanitized at registration.
func NewTable(routes []Route) *Table {
	t := &Table{routes: make([]Route, 0, len(routes))}
	for _, r := range routes {
		t.Add(r)
	}
	return t
}

// Add registers a route, sanitizing its path. Duplicate paths are not
// rejected; the matcher's exact-first rule makes the first one win.
func (t *Table) Add(r Route) {
	r.Path = routepath.Sanitize(r.Path)
	t.routes = append(t.routes, r)
}

// Len returns the number of registered routes.
func (t *Table) Len() int {
	return len(t.routes)
}

// Routes returns a copy of the registered routes in registration order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Match selects the single best route for a pre-sanitized path.
//
// Selection order:
//  1. An exact path match wins immediately.
//  2. Otherwise, every route whose path is a string prefix of the target
//     is a candidate, scored by the specificity of the route's own path.
//  3. The highest score wins; ties go to the earliest registered route.
//
// With no candidates, Match returns an R100 error wrapping
// ErrRouteNotFound.
func (t *Table) Match(path string) (Route, error) {
	for _, r := range t.routes {
		if r.Path == path {
			return r, nil
		}
	}

	best := -1
	bestScore := -1
	for i, r := range t.routes {
		if !routepath.HasPathPrefix(path, r.Path) {
			continue
		}
		score := routepath.Specificity(r.Path)
		if score > bestScore {
			best = i
			bestScore = score
		}
	}

	if best < 0 {
		return Route{}, skifferrors.New("R100").
			WithDetailf("path: %s", path).
			Wrap(ErrRouteNotFound)
	}
	return t.routes[best], nil
}
