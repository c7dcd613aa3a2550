// Package middleware provides observability middleware for Skiff routers.
//
// This package includes:
//   - OpenTelemetry distributed tracing middleware
//   - Prometheus metrics middleware
//
// # OpenTelemetry Middleware
//
// The OpenTelemetry middleware traces every route transition, including the
// sanitized target path and the transition ID.
//
//	r, err := router.New(router.Options{
//	    Middleware: []router.Middleware{
//	        middleware.OpenTelemetry(),
//	    },
//	    ...
//	})
//
// Configure with options:
//
//	middleware.OpenTelemetry(
//	    middleware.WithTracerName("my-app"),
//	    middleware.WithNavFilter(func(nav *router.Nav) bool {
//	        return nav.Path != "/healthz"
//	    }),
//	)
//
// # Prometheus Metrics
//
// The Prometheus middleware collects metrics about navigations:
//   - skiff_navigations_total: Counter of transitions by path and status
//   - skiff_navigation_duration_seconds: Transition duration histogram
//   - skiff_navigation_errors_total: Counter of failures by path and error type
//
//	r, err := router.New(router.Options{
//	    Middleware: []router.Middleware{
//	        middleware.Prometheus(),
//	    },
//	    ...
//	})
//
// Then expose metrics on a separate port:
//
//	http.Handle("/metrics", promhttp.Handler())
//	go http.ListenAndServe(":9090", nil)
//
// # Context Propagation
//
// The tracing middleware replaces the transition context via nav.SetContext,
// so the view fetch and controller lifecycle hooks inherit the trace span.
package middleware
