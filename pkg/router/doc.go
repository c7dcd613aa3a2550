// Package router implements client-side navigation for Skiff.
//
// The router provides:
//   - An ordered route table with exact-first, prefix-fallback matching
//   - A sequential transition engine that fetches view fragments, swaps
//     mounted content, and drives controller lifecycles
//   - Link interception for same-origin anchors in mounted markup
//   - RouteChange notifications and a navigation middleware chain
//
// # Matching
//
// An exact path match always wins. Otherwise every route whose path is a
// string prefix of the target is a candidate, and the candidate with the
// most path segments wins. This lets a single route act as a catch-all
// fallback for an unmodeled hierarchy:
//
//	/           → matches everything (0 segments)
//	/about      → matches /about/team, /about/jobs (1 segment)
//	/about/team → exact match for /about/team
//
// Ties between equal-specificity candidates go to the first registered
// route. Registering overlapping same-specificity prefixes is allowed but
// discouraged.
//
// # Transitions
//
// A transition runs its steps strictly in order, each awaited before the
// next: match, fetch view, uninit previous controller, swap root content,
// construct and init new controller, rebind links, commit, notify. Any
// failure replaces the root content with an error render, suppresses the
// notification, and leaves the committed route untouched. Transitions are
// serialized: a new one does not begin before the previous completes.
//
// # Usage
//
//	r, err := router.New(router.Options{
//	    Document:     doc,
//	    Fetcher:      view.NewHTTPFetcher(view.WithBaseURL(origin)),
//	    History:      history.NewMemory("/"),
//	    RootSelector: "#app",
//	    Routes: []router.Route{
//	        {Path: "/"},
//	        {Path: "/about", View: "/pages/about.html"},
//	    },
//	})
//	if err != nil {
//	    return err
//	}
//
//	cancel := r.OnRouteChange(func(ev router.RouteChange) {
//	    log.Printf("now at %s", ev.Current.Path)
//	})
//	defer cancel()
//
//	r.Initialize(ctx)
//	r.NavigateTo(ctx, "/about")
package router
