package middleware

import (
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	skifferrors "github.com/skiff-dev/skiff/internal/errors"
	"github.com/skiff-dev/skiff/pkg/router"
)

// Default tracer name for Skiff applications.
const defaultTracerName = "skiff"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "skiff").
	TracerName string

	// Filter determines which transitions to trace.
	// Return true to trace the transition, false to skip.
	// If nil, all transitions are traced.
	Filter func(nav *router.Nav) bool

	// AttributeExtractor extracts custom attributes per transition.
	AttributeExtractor func(nav *router.Nav) []attribute.KeyValue

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithNavFilter sets a filter function for transitions.
func WithNavFilter(filter func(nav *router.Nav) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(nav *router.Nav) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// defaultOTelConfig returns the default OpenTelemetry configuration.
func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
	}
}

// OpenTelemetry creates middleware that traces every route transition.
//
// The middleware:
//   - Creates a span per transition carrying the path and transition ID
//   - Replaces the transition context via nav.SetContext so the view fetch
//     and lifecycle hooks inherit the span
//   - Records errors, the stable error code, and span status
//
// Example:
//
//	r, err := router.New(router.Options{
//	    Middleware: []router.Middleware{
//	        middleware.OpenTelemetry(
//	            middleware.WithTracerName("my-app"),
//	        ),
//	    },
//	    ...
//	})
//
// The tracer uses the global OpenTelemetry tracer provider. Configure it
// in your main() before initializing the router:
//
//	tp := sdktrace.NewTracerProvider(
//	    sdktrace.WithBatcher(exporter),
//	    sdktrace.WithResource(resource.NewWithAttributes(
//	        semconv.SchemaURL,
//	        semconv.ServiceName("my-app"),
//	    )),
//	)
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) router.Middleware {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	// Resolve tracer from global provider
	config.tracer = otel.Tracer(config.TracerName)

	return router.MiddlewareFunc(func(nav *router.Nav, next func() error) error {
		if config.Filter != nil && !config.Filter(nav) {
			return next()
		}

		attrs := []attribute.KeyValue{
			attribute.String("skiff.path", nav.Path),
			attribute.String("skiff.transition_id", nav.ID),
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(nav)...)
		}

		spanCtx, span := config.tracer.Start(
			nav.Context(),
			formatSpanName(nav),
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(attrs...),
			trace.WithTimestamp(time.Now()),
		)
		defer span.End()

		// Downstream steps (fetch, lifecycle hooks) see the span context.
		nav.SetContext(spanCtx)

		err := next()

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			if code := skifferrors.CodeOf(err); code != "" {
				span.SetAttributes(attribute.String("skiff.error_code", code))
			}
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return err
	})
}

// formatSpanName creates a span name from the transition.
func formatSpanName(nav *router.Nav) string {
	path := nav.Path
	if path == "" {
		path = "/"
	}
	return fmt.Sprintf("skiff.navigate %s", path)
}
