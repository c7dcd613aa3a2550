package skiff

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/skiff-dev/skiff/pkg/dom"
	"github.com/skiff-dev/skiff/pkg/history"
	"github.com/skiff-dev/skiff/pkg/router"
	"github.com/skiff-dev/skiff/pkg/view"
)

// Config is the main router configuration.
// This is the user-friendly entry point for configuring a Skiff router.
type Config struct {
	// Document is the document backend the router mounts into. Required.
	Document dom.Document

	// History records committed paths and reports back/forward movement.
	// Required.
	History history.History

	// Fetcher retrieves view fragments. If nil, an HTTP fetcher is built
	// from the Fetch section.
	Fetcher view.Fetcher

	// Root is the selector for the element whose content is replaced per
	// navigation. When empty or unresolvable the router falls back to the
	// document body with a logged diagnostic.
	Root string

	// Routes populates the route table. An empty table disables matching:
	// every navigation fails with a rendered R100 error.
	Routes []Route

	// Injectables is the read-only bag passed to every controller
	// constructor.
	Injectables Injectables

	// Middleware wraps every transition, in order. See pkg/middleware for
	// metrics and tracing implementations.
	Middleware []Middleware

	// Fetch configures the default HTTP fetcher. Ignored when Fetcher is
	// set.
	Fetch FetchConfig

	// Logger is the structured logger for the router.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

// FetchConfig configures the default HTTP view fetcher.
type FetchConfig struct {
	// BaseURL is the origin view sources are resolved against
	// (e.g., "https://app.example.com"). Required for relative view
	// sources when no custom Fetcher is set.
	BaseURL string

	// Timeout bounds each view fetch.
	// Default: 10 seconds.
	Timeout time.Duration

	// Client overrides the pooled HTTP client.
	Client *http.Client
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Root:  "#app",
		Fetch: DefaultFetchConfig(),
	}
}

// DefaultFetchConfig returns a FetchConfig with sensible defaults.
func DefaultFetchConfig() FetchConfig {
	return FetchConfig{
		Timeout: 10 * time.Second,
	}
}

// buildOptions converts the user-friendly Config to router.Options.
func buildOptions(cfg Config) router.Options {
	fetcher := cfg.Fetcher
	if fetcher == nil {
		var opts []view.HTTPFetcherOption
		if cfg.Fetch.BaseURL != "" {
			opts = append(opts, view.WithBaseURL(cfg.Fetch.BaseURL))
		}
		if cfg.Fetch.Timeout > 0 {
			opts = append(opts, view.WithTimeout(cfg.Fetch.Timeout))
		}
		if cfg.Fetch.Client != nil {
			opts = append(opts, view.WithClient(cfg.Fetch.Client))
		}
		fetcher = view.NewHTTPFetcher(opts...)
	}

	return router.Options{
		Document:     cfg.Document,
		Fetcher:      fetcher,
		History:      cfg.History,
		RootSelector: cfg.Root,
		Routes:       cfg.Routes,
		Injectables:  cfg.Injectables,
		Middleware:   cfg.Middleware,
		Logger:       cfg.Logger,
	}
}
