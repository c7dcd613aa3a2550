package router

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/skiff-dev/skiff/pkg/dom"
	"github.com/skiff-dev/skiff/pkg/history"
)

// stubFetcher serves canned fragments keyed by view source.
type stubFetcher struct {
	pages map[string]string
	errs  map[string]error
	calls []string
}

func (f *stubFetcher) Fetch(_ context.Context, source string) (string, error) {
	f.calls = append(f.calls, source)
	if err, ok := f.errs[source]; ok {
		return "", err
	}
	if page, ok := f.pages[source]; ok {
		return page, nil
	}
	return "", fmt.Errorf("view %s: unexpected status 404", source)
}

// recorder is a controller that appends lifecycle events to a shared log.
type recorder struct {
	name      string
	log       *[]string
	initErr   error
	uninitErr error
}

func (c *recorder) Init(context.Context) error {
	*c.log = append(*c.log, c.name+":init")
	return c.initErr
}

func (c *recorder) Uninit(context.Context) error {
	*c.log = append(*c.log, c.name+":uninit")
	return c.uninitErr
}

type fixture struct {
	doc     *dom.MemoryDocument
	root    *dom.MemoryElement
	hist    *history.Memory
	fetcher *stubFetcher
	router  *Router
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()

	f := &fixture{
		doc:     dom.NewMemoryDocument(),
		hist:    history.NewMemory("/"),
		fetcher: &stubFetcher{pages: map[string]string{}, errs: map[string]error{}},
	}
	f.root = f.doc.AddElement("#app")

	if opts.Document == nil {
		opts.Document = f.doc
	}
	if opts.Fetcher == nil {
		opts.Fetcher = f.fetcher
	}
	if opts.History == nil {
		opts.History = f.hist
	}
	if opts.RootSelector == "" {
		opts.RootSelector = "#app"
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f.router = r
	return f
}

func TestNewValidation(t *testing.T) {
	doc := dom.NewMemoryDocument()
	fetcher := &stubFetcher{}
	hist := history.NewMemory("/")
	routes := []Route{{Path: "/"}}

	if _, err := New(Options{Fetcher: fetcher, History: hist, Routes: routes}); err == nil {
		t.Error("expected error for missing Document")
	}
	if _, err := New(Options{Document: doc, History: hist, Routes: routes}); err == nil {
		t.Error("expected error for missing Fetcher")
	}
	if _, err := New(Options{Document: doc, Fetcher: fetcher, Routes: routes}); err == nil {
		t.Error("expected error for missing History")
	}
}

func TestEmptyRouteTableDisablesMatching(t *testing.T) {
	// No routes is valid configuration: construction succeeds and every
	// navigation fails with a rendered R100 error.
	f := newFixture(t, Options{})

	var events int
	defer f.router.OnRouteChange(func(RouteChange) { events++ })()

	f.router.Initialize(context.Background())
	if !strings.Contains(f.root.HTML(), "R100") {
		t.Errorf("initial transition should render R100, got %q", f.root.HTML())
	}

	f.router.NavigateTo(context.Background(), "/anything")
	if !strings.Contains(f.root.HTML(), "R100") {
		t.Errorf("navigation should render R100, got %q", f.root.HTML())
	}

	if active := f.router.Active(); active != nil {
		t.Errorf("active = %+v, want nil", active)
	}
	if events != 0 {
		t.Errorf("events = %d, want 0", events)
	}
}

func TestShutdownConcurrentWithInitialize(t *testing.T) {
	f := newFixture(t, Options{
		Routes: []Route{{Path: "/"}},
	})
	f.fetcher.pages["/.html"] = "<p>home</p>"

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		f.router.Initialize(context.Background())
	}()
	go func() {
		defer wg.Done()
		if err := f.router.Shutdown(context.Background()); err != nil {
			t.Errorf("Shutdown: %v", err)
		}
	}()
	wg.Wait()

	if err := f.router.Shutdown(context.Background()); err != nil {
		t.Errorf("second Shutdown: %v", err)
	}
}

func TestInitializeRunsInitialTransition(t *testing.T) {
	f := newFixture(t, Options{
		Routes: []Route{{Path: "/"}},
	})
	f.fetcher.pages["/.html"] = "<h1>Home</h1>"

	f.router.Initialize(context.Background())

	if got := f.root.HTML(); got != "<h1>Home</h1>" {
		t.Errorf("root content = %q", got)
	}
	active := f.router.Active()
	if active == nil || active.Route.Path != "/" {
		t.Errorf("active = %+v, want /", active)
	}
}

func TestEndToEndPrefixNavigation(t *testing.T) {
	// Config {root: #app, routes: [/, /about→/pages/about.html]};
	// /about/team has no exact route and resolves to /about by prefix.
	f := newFixture(t, Options{
		Routes: []Route{
			{Path: "/"},
			{Path: "/about", View: "/pages/about.html"},
		},
	})
	f.fetcher.pages["/.html"] = "<p>home</p>"
	f.fetcher.pages["/pages/about.html"] = "<h1>About</h1>"

	var changes []RouteChange
	defer f.router.OnRouteChange(func(ev RouteChange) {
		changes = append(changes, ev)
	})()

	f.router.Initialize(context.Background())
	f.router.NavigateTo(context.Background(), "/about/team")

	if got := f.root.HTML(); got != "<h1>About</h1>" {
		t.Errorf("root content = %q, want <h1>About</h1>", got)
	}
	if len(changes) != 2 {
		t.Fatalf("got %d RouteChange events, want 2", len(changes))
	}
	last := changes[1]
	if last.Current.Path != "/about" {
		t.Errorf("Current.Path = %q, want /about", last.Current.Path)
	}
	if last.Previous == nil || last.Previous.Path != "/" {
		t.Errorf("Previous = %+v, want /", last.Previous)
	}
	if f.hist.Location() != "/about/team" {
		t.Errorf("history location = %q, want /about/team", f.hist.Location())
	}
}

func TestRouteNotFoundRendersErrorAndKeepsActive(t *testing.T) {
	f := newFixture(t, Options{
		Routes: []Route{{Path: "/a"}},
	})
	f.fetcher.pages["/a.html"] = "<p>a</p>"
	f.hist.Replace("/a")

	events := 0
	defer f.router.OnRouteChange(func(RouteChange) { events++ })()

	f.router.Initialize(context.Background())
	f.router.NavigateTo(context.Background(), "/b")

	if !strings.Contains(f.root.HTML(), "/b") {
		t.Errorf("error render should name the failed path: %q", f.root.HTML())
	}
	if !strings.Contains(f.root.HTML(), "R100") {
		t.Errorf("error render should carry the error detail: %q", f.root.HTML())
	}
	if active := f.router.Active(); active == nil || active.Route.Path != "/a" {
		t.Errorf("active route should remain /a, got %+v", active)
	}
	if events != 1 {
		t.Errorf("failed transition must not emit RouteChange, got %d events", events)
	}
}

func TestFetchFailureRendersErrorAndSuppressesEvent(t *testing.T) {
	f := newFixture(t, Options{
		Routes: []Route{{Path: "/"}, {Path: "/broken"}},
	})
	f.fetcher.pages["/.html"] = "<p>home</p>"
	f.fetcher.errs["/broken.html"] = errors.New("connection refused")

	events := 0
	defer f.router.OnRouteChange(func(RouteChange) { events++ })()

	f.router.Initialize(context.Background())
	f.router.NavigateTo(context.Background(), "/broken")

	html := f.root.HTML()
	if !strings.Contains(html, "Navigation failed") {
		t.Errorf("expected error render, got %q", html)
	}
	if strings.Contains(html, "home") {
		t.Errorf("partial content must be replaced, got %q", html)
	}
	if events != 1 {
		t.Errorf("fetch failure must suppress RouteChange, got %d events", events)
	}
	if active := f.router.Active(); active == nil || active.Route.Path != "/" {
		t.Errorf("active should remain /, got %+v", active)
	}
}

func TestLifecycleOrdering(t *testing.T) {
	var log []string

	f := newFixture(t, Options{
		Routes: []Route{
			{
				Path: "/old",
				Component: func(Injectables) any {
					log = append(log, "old:new")
					return &recorder{name: "old", log: &log}
				},
			},
			{
				Path: "/new",
				Component: func(Injectables) any {
					log = append(log, "new:new")
					return &recorder{name: "new", log: &log}
				},
			},
		},
	})
	f.fetcher.pages["/old.html"] = "<p>old</p>"
	f.fetcher.pages["/new.html"] = "<p>new</p>"
	f.hist.Replace("/old")

	f.router.Initialize(context.Background())
	f.router.NavigateTo(context.Background(), "/new")

	want := []string{"old:new", "old:init", "old:uninit", "new:new", "new:init"}
	if len(log) != len(want) {
		t.Fatalf("lifecycle log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("lifecycle log = %v, want %v", log, want)
		}
	}
}

func TestInitHookFailure(t *testing.T) {
	var log []string

	f := newFixture(t, Options{
		Routes: []Route{
			{Path: "/"},
			{
				Path: "/bad",
				Component: func(Injectables) any {
					return &recorder{name: "bad", log: &log, initErr: errors.New("boom")}
				},
			},
		},
	})
	f.fetcher.pages["/.html"] = "<p>home</p>"
	f.fetcher.pages["/bad.html"] = "<p>bad</p>"

	events := 0
	defer f.router.OnRouteChange(func(RouteChange) { events++ })()

	f.router.Initialize(context.Background())
	f.router.NavigateTo(context.Background(), "/bad")

	if !strings.Contains(f.root.HTML(), "R102") {
		t.Errorf("expected lifecycle error render, got %q", f.root.HTML())
	}
	if events != 1 {
		t.Errorf("init failure must suppress RouteChange, got %d", events)
	}
	if active := f.router.Active(); active == nil || active.Route.Path != "/" {
		t.Errorf("active should remain /, got %+v", active)
	}
}

func TestInjectablesPassedToFactory(t *testing.T) {
	var got Injectables

	f := newFixture(t, Options{
		Injectables: Injectables{"api": "service"},
		Routes: []Route{
			{
				Path: "/",
				Component: func(in Injectables) any {
					got = in
					return struct{}{}
				},
			},
		},
	})
	f.fetcher.pages["/.html"] = "<p>home</p>"

	f.router.Initialize(context.Background())

	if got == nil || got["api"] != "service" {
		t.Errorf("injectables = %v", got)
	}
}

func TestLinkInterception(t *testing.T) {
	f := newFixture(t, Options{
		Routes: []Route{{Path: "/"}, {Path: "/about"}},
	})
	f.fetcher.pages["/.html"] = `<a href="/about">About</a> <a href="https://ext.example">ext</a>`
	f.fetcher.pages["/about.html"] = "<h1>About</h1>"

	f.router.Initialize(context.Background())

	anchors := f.root.Anchors()
	if len(anchors) != 2 {
		t.Fatalf("got %d anchors", len(anchors))
	}

	internal := anchors[0].(*dom.MemoryAnchor)
	external := anchors[1].(*dom.MemoryAnchor)

	if external.Click() {
		t.Error("external link must not be intercepted")
	}
	if !internal.Click() {
		t.Fatal("internal link should be intercepted")
	}
	if got := f.root.HTML(); got != "<h1>About</h1>" {
		t.Errorf("root content = %q after link click", got)
	}
	if f.hist.Location() != "/about" {
		t.Errorf("history location = %q, want /about", f.hist.Location())
	}
}

func TestBackForwardRetransitions(t *testing.T) {
	f := newFixture(t, Options{
		Routes: []Route{{Path: "/"}, {Path: "/a"}},
	})
	f.fetcher.pages["/.html"] = "<p>home</p>"
	f.fetcher.pages["/a.html"] = "<p>a</p>"

	f.router.Initialize(context.Background())
	f.router.NavigateTo(context.Background(), "/a")

	f.hist.Back()
	if got := f.root.HTML(); got != "<p>home</p>" {
		t.Errorf("after back, root = %q", got)
	}

	f.hist.Forward()
	if got := f.root.HTML(); got != "<p>a</p>" {
		t.Errorf("after forward, root = %q", got)
	}
}

func TestNavigateToRejectsAbsoluteURLs(t *testing.T) {
	f := newFixture(t, Options{
		Routes: []Route{{Path: "/"}},
	})
	f.fetcher.pages["/.html"] = "<p>home</p>"

	f.router.Initialize(context.Background())
	before := f.hist.Len()

	f.router.NavigateTo(context.Background(), "https://evil.example/phish")

	if f.hist.Len() != before {
		t.Error("rejected navigation must not touch history")
	}
	if !strings.Contains(f.root.HTML(), "R103") {
		t.Errorf("expected R103 error render, got %q", f.root.HTML())
	}
}

func TestRootSelectorFallsBackToBody(t *testing.T) {
	doc := dom.NewMemoryDocument()
	hist := history.NewMemory("/")
	fetcher := &stubFetcher{pages: map[string]string{"/.html": "<p>home</p>"}}

	r, err := New(Options{
		Document:     doc,
		Fetcher:      fetcher,
		History:      hist,
		RootSelector: "#missing",
		Routes:       []Route{{Path: "/"}},
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	r.Initialize(context.Background())

	if got := doc.Body().HTML(); got != "<p>home</p>" {
		t.Errorf("body content = %q, want fallback mount", got)
	}
}

func TestMiddlewareWrapsTransition(t *testing.T) {
	var order []string
	mw := MiddlewareFunc(func(nav *Nav, next func() error) error {
		order = append(order, "before:"+nav.Path)
		err := next()
		order = append(order, "after:"+nav.Path)
		return err
	})

	f := newFixture(t, Options{
		Routes:     []Route{{Path: "/"}},
		Middleware: []Middleware{mw},
	})
	f.fetcher.pages["/.html"] = "<p>home</p>"

	f.router.Initialize(context.Background())

	if len(order) != 2 || order[0] != "before:/" || order[1] != "after:/" {
		t.Errorf("middleware order = %v", order)
	}
}

func TestMiddlewareAbortRendersError(t *testing.T) {
	mw := MiddlewareFunc(func(nav *Nav, next func() error) error {
		return errors.New("blocked by policy")
	})

	f := newFixture(t, Options{
		Routes:     []Route{{Path: "/"}},
		Middleware: []Middleware{mw},
	})
	f.fetcher.pages["/.html"] = "<p>home</p>"

	events := 0
	defer f.router.OnRouteChange(func(RouteChange) { events++ })()

	f.router.Initialize(context.Background())

	if !strings.Contains(f.root.HTML(), "blocked by policy") {
		t.Errorf("expected middleware error render, got %q", f.root.HTML())
	}
	if events != 0 {
		t.Errorf("aborted transition must not emit, got %d", events)
	}
}

func TestShutdownUninitsController(t *testing.T) {
	var log []string

	f := newFixture(t, Options{
		Routes: []Route{
			{
				Path: "/",
				Component: func(Injectables) any {
					return &recorder{name: "home", log: &log}
				},
			},
		},
	})
	f.fetcher.pages["/.html"] = "<p>home</p>"

	f.router.Initialize(context.Background())
	if err := f.router.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	found := false
	for _, entry := range log {
		if entry == "home:uninit" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected uninit on shutdown, log = %v", log)
	}
	if f.router.Active() != nil {
		t.Error("active should be nil after shutdown")
	}
}

func TestListenerCanNavigate(t *testing.T) {
	f := newFixture(t, Options{
		Routes: []Route{{Path: "/"}, {Path: "/next"}},
	})
	f.fetcher.pages["/.html"] = "<p>home</p>"
	f.fetcher.pages["/next.html"] = "<p>next</p>"

	redirected := false
	defer f.router.OnRouteChange(func(ev RouteChange) {
		if ev.Current.Path == "/" && !redirected {
			redirected = true
			f.router.NavigateTo(context.Background(), "/next")
		}
	})()

	f.router.Initialize(context.Background())

	if got := f.root.HTML(); got != "<p>next</p>" {
		t.Errorf("root = %q, listener navigation should complete", got)
	}
}
