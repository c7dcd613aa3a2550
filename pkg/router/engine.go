package router

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	skifferrors "github.com/skiff-dev/skiff/internal/errors"
	"github.com/skiff-dev/skiff/pkg/dom"
	"github.com/skiff-dev/skiff/pkg/history"
	"github.com/skiff-dev/skiff/pkg/routepath"
	"github.com/skiff-dev/skiff/pkg/view"
)

// Options configures a Router. Document, Fetcher, and History are required;
// everything else has a usable default.
type Options struct {
	// Document is the document backend the router mounts into.
	Document dom.Document

	// Fetcher retrieves view fragments.
	Fetcher view.Fetcher

	// History records committed paths and reports back/forward movement.
	History history.History

	// RootSelector locates the element whose content is replaced per
	// navigation. When empty or unresolvable the router falls back to the
	// document body with a logged diagnostic.
	RootSelector string

	// Routes populates the route table. An empty table makes every
	// navigation fail with R100.
	Routes []Route

	// Injectables is passed to every controller constructor.
	Injectables Injectables

	// Middleware wraps every transition, in order.
	Middleware []Middleware

	// Logger is the structured logger. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Router is the navigation engine: it matches paths against the route
// table, runs transitions, and owns the active route slot.
//
// Transitions are serialized behind a single mutex: a navigation triggered
// while another transition is in flight waits for it to complete. Within a
// transition, steps execute strictly in order.
type Router struct {
	table   *Table
	doc     dom.Document
	fetcher view.Fetcher
	hist    history.History
	bag     Injectables
	mw      []Middleware
	log     *slog.Logger

	rootSelector string

	// mu serializes transitions and guards the fields below.
	mu          sync.Mutex
	root        dom.Element
	active      *ActiveRoute
	initialized bool
	stopListen  history.Cleanup

	// subMu guards the RouteChange subscriber list.
	subMu  sync.Mutex
	subs   []subscriber
	nextID int
}

type subscriber struct {
	id int
	fn func(RouteChange)
}

// New creates a Router. It fails when a required backend is missing. An
// empty route table is accepted: matching is disabled and every navigation
// fails with a rendered R100 error.
func New(opts Options) (*Router, error) {
	if opts.Document == nil {
		return nil, skifferrors.Newf(skifferrors.CategoryConfig, "router: Document is required")
	}
	if opts.Fetcher == nil {
		return nil, skifferrors.Newf(skifferrors.CategoryConfig, "router: Fetcher is required")
	}
	if opts.History == nil {
		return nil, skifferrors.Newf(skifferrors.CategoryConfig, "router: History is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Router{
		table:        NewTable(opts.Routes),
		doc:          opts.Document,
		fetcher:      opts.Fetcher,
		hist:         opts.History,
		bag:          opts.Injectables,
		mw:           opts.Middleware,
		log:          logger,
		rootSelector: opts.RootSelector,
	}, nil
}

// Table returns the router's route table.
func (r *Router) Table() *Table {
	return r.table
}

// Active returns a snapshot of the currently mounted route, or nil before
// the first committed transition.
func (r *Router) Active() *ActiveRoute {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == nil {
		return nil
	}
	snapshot := *r.active
	return &snapshot
}

// Initialize resolves the root element, subscribes to history movement
// (back/forward), and performs one transition for the current location.
// Calling Initialize twice is a no-op.
func (r *Router) Initialize(ctx context.Context) {
	r.mu.Lock()
	if r.initialized {
		r.mu.Unlock()
		return
	}
	r.initialized = true
	r.root = r.resolveRoot()
	r.mu.Unlock()

	stop := r.hist.Listen(func(path string) {
		r.transition(context.Background(), path)
	})
	r.mu.Lock()
	r.stopListen = stop
	r.mu.Unlock()

	initial, _ := routepath.SplitPathAndQuery(r.hist.Location())
	r.transition(ctx, routepath.Sanitize(initial))
}

// resolveRoot locates the mount point, falling back to the document body
// with a logged diagnostic when the selector does not resolve. Caller
// holds mu.
func (r *Router) resolveRoot() dom.Element {
	if r.rootSelector != "" {
		if el, ok := r.doc.Query(r.rootSelector); ok {
			return el
		}
		diag := skifferrors.New("C121").WithDetailf("selector: %s", r.rootSelector)
		r.log.Warn("root selector did not resolve, falling back to body",
			"selector", r.rootSelector,
			"code", diag.Code)
	}
	return r.doc.Body()
}

// NavigateTo is the sanctioned way to change routes programmatically. It
// sanitizes the path, pushes it onto the history, and runs a transition.
//
// Failures never propagate: they are rendered into the root element and
// logged. Absolute URLs and protocol-relative targets are rejected before
// touching the history, preventing open redirects through intercepted
// links.
func (r *Router) NavigateTo(ctx context.Context, path string) {
	if routepath.IsExternal(path) {
		err := skifferrors.New("R103").WithDetailf("target: %s", path)
		r.log.Error("navigation rejected", "path", path, "error", err)
		r.mu.Lock()
		r.renderError(&Nav{ID: uuid.NewString(), Path: path}, err)
		r.mu.Unlock()
		return
	}

	target := routepath.Sanitize(path)
	r.hist.Push(target)
	r.transition(ctx, target)
}

// Shutdown unsubscribes from history movement and tears down the active
// controller, awaiting its Uninit hook if present.
func (r *Router) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopListen != nil {
		r.stopListen()
		r.stopListen = nil
	}

	if r.active == nil || r.active.Controller == nil {
		return nil
	}
	err := r.uninitLocked(ctx)
	r.active = nil
	return err
}

// transition runs one navigation attempt end to end. It holds the
// single-flight mutex for the whole attempt, including awaited lifecycle
// hooks, so overlapping navigations execute strictly one after another.
func (r *Router) transition(ctx context.Context, path string) {
	r.mu.Lock()

	if r.root == nil {
		// Initialize was skipped; degrade the same way it would have.
		r.root = r.resolveRoot()
	}

	nav := &Nav{ID: uuid.NewString(), Path: path, ctx: ctx}

	var committed *RouteChange
	err := ComposeMiddleware(nav, r.mw, func() error {
		ev, err := r.doTransition(nav)
		committed = ev
		return err
	})
	if err != nil {
		r.log.Error("transition failed",
			"path", path,
			"transition", nav.ID,
			"error", err)
		r.renderError(nav, err)
		r.mu.Unlock()
		return
	}

	r.log.Debug("transition committed", "path", path, "transition", nav.ID)
	r.mu.Unlock()

	// Notify outside the single-flight lock so a listener can itself
	// navigate without deadlocking.
	if committed != nil {
		r.emit(*committed)
	}
}

// doTransition executes the ordered transition steps and returns the
// notification to emit on commit. Caller holds mu.
func (r *Router) doTransition(nav *Nav) (*RouteChange, error) {
	ctx := nav.Context()

	// 1. Match.
	route, err := r.table.Match(nav.Path)
	if err != nil {
		return nil, err
	}

	// 2-3. Resolve and fetch the view source.
	markup, err := r.fetcher.Fetch(ctx, route.ViewSource())
	if err != nil {
		return nil, skifferrors.FromError(err, "R101").
			WithDetailf("view: %s", route.ViewSource())
	}

	// 4. Teardown the previous controller. Its completed uninit is
	// observable even if a later step fails: the instance is gone.
	if err := r.uninitLocked(ctx); err != nil {
		return nil, err
	}

	// 5. Mount: swap content, construct, init, rebind links.
	r.root.SetHTML(markup)

	var controller any
	if route.Component != nil {
		controller = route.Component(r.bag)
		if ini, ok := controller.(Initializer); ok {
			if err := ini.Init(ctx); err != nil {
				return nil, skifferrors.FromError(err, "R102").
					WithDetailf("init hook for %s", route.Path)
			}
		}
	}

	r.bindLinks()

	// Commit: replace the active slot wholesale.
	var previous *Route
	if r.active != nil {
		prev := r.active.Route
		previous = &prev
	}
	r.active = &ActiveRoute{Route: route, Controller: controller}

	current := route
	return &RouteChange{Previous: previous, Current: &current}, nil
}

// uninitLocked awaits the active controller's Uninit hook (if present) and
// discards the instance. Caller holds mu.
func (r *Router) uninitLocked(ctx context.Context) error {
	if r.active == nil || r.active.Controller == nil {
		return nil
	}
	controller := r.active.Controller
	r.active.Controller = nil

	if unini, ok := controller.(Uninitializer); ok {
		if err := unini.Uninit(ctx); err != nil {
			return skifferrors.FromError(err, "R102").
				WithDetailf("uninit hook for %s", r.active.Route.Path)
		}
	}
	return nil
}

// bindLinks scans the root's anchors and intercepts clicks on same-origin
// links (href starting with "/"), routing them through NavigateTo instead
// of a full page load. Caller holds mu.
func (r *Router) bindLinks() {
	for _, a := range r.root.Anchors() {
		href := a.Href()
		if !strings.HasPrefix(href, "/") || strings.HasPrefix(href, "//") {
			continue
		}
		target := href
		a.OnClick(func() {
			r.NavigateTo(context.Background(), target)
		})
	}
}

// renderError replaces the root content with a visible error message. The
// failed transition does not commit: no notification fires and the active
// slot keeps its pre-attempt value.
func (r *Router) renderError(nav *Nav, err error) {
	root := r.root
	if root == nil {
		root = r.doc.Body()
	}
	root.SetHTML(errorMarkup(nav, err))
}

// errorMarkup builds the error render. Both the path and the error detail
// are escaped: fetch errors can echo attacker-influenced URLs.
func errorMarkup(nav *Nav, err error) string {
	detail := err.Error()
	if se, ok := err.(*skifferrors.SkiffError); ok {
		detail = se.FormatCompact()
	}
	return fmt.Sprintf(
		`<div class="skiff-error" data-transition=%q>`+
			`<h2>Navigation failed</h2>`+
			`<p>Could not navigate to <code>%s</code></p>`+
			`<pre>%s</pre>`+
			`</div>`,
		nav.ID,
		html.EscapeString(nav.Path),
		html.EscapeString(detail),
	)
}
