package dev

import (
	"context"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/skiff-dev/skiff/internal/errors"
)

// ServerOptions configures the development server.
type ServerOptions struct {
	// Dir is the app directory to serve.
	Dir string

	// Addr is the listen address (e.g., ":4400").
	Addr string

	// Reload enables the live-reload websocket and script injection.
	Reload bool

	// Watch lists directories polled for changes. Defaults to Dir.
	Watch []string

	// Logger is the structured logger. If nil, slog.Default() is used.
	Logger *slog.Logger

	// OnReload is called after browsers are told to reload.
	OnReload func(clients int)
}

// Server is the development server: a static file server for the app
// directory with SPA fallback to index.html, plus live reload.
type Server struct {
	options      ServerOptions
	log          *slog.Logger
	reloadServer *ReloadServer
	watcher      *Watcher
	httpServer   *http.Server
	mu           sync.Mutex
	running      bool
}

// NewServer creates a development server for the app directory.
func NewServer(options ServerOptions) (*Server, error) {
	info, err := os.Stat(options.Dir)
	if err != nil || !info.IsDir() {
		return nil, errors.New("L141").
			WithDetailf("dir: %s", options.Dir).
			WithSuggestion("Check the 'dir' setting in skiff.yaml")
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	watch := options.Watch
	if len(watch) == 0 {
		watch = []string{options.Dir}
	}

	s := &Server{
		options: options,
		log:     logger,
		watcher: NewWatcher(WatcherConfig{Paths: watch}),
	}
	if options.Reload {
		s.reloadServer = NewReloadServer()
	}
	return s, nil
}

// Handler builds the HTTP handler: reload websocket plus static serving
// with SPA fallback.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	if s.reloadServer != nil {
		r.Get(ReloadEndpoint, s.reloadServer.HandleWebSocket)
	}
	r.NotFound(s.serveStatic)

	return r
}

// Start runs the server until the context is canceled or the listener
// fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.httpServer = &http.Server{
		Addr:    s.options.Addr,
		Handler: s.Handler(),
	}
	s.mu.Unlock()

	if s.reloadServer != nil {
		s.watcher.OnChange(s.handleChange)
		go s.watcher.Start(ctx)
	}

	s.log.Info("dev server running",
		"addr", s.options.Addr,
		"dir", s.options.Dir,
		"reload", s.reloadServer != nil)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.Stop()
		return nil
	case err := <-errCh:
		s.Stop()
		if err != nil {
			return errors.New("L142").WithDetailf("addr: %s", s.options.Addr).Wrap(err)
		}
		return nil
	}
}

// Stop shuts the server down.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false

	s.watcher.Stop()
	if s.reloadServer != nil {
		s.reloadServer.Close()
	}
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(ctx)
	}
}

// handleChange translates a file change into a reload notification.
func (s *Server) handleChange(change Change) {
	s.log.Debug("file changed", "path", change.Path)

	switch change.Type {
	case ChangeCSS:
		s.reloadServer.NotifyCSS(change.Path)
		s.log.Info("css reloaded", "file", change.Path)
	default:
		s.reloadServer.NotifyReload()
		clients := s.reloadServer.ClientCount()
		if s.options.OnReload != nil {
			s.options.OnReload(clients)
		}
		s.log.Info("reloaded browsers", "clients", clients)
	}
}

// serveStatic serves a file from the app directory. Unknown paths fall
// back to index.html so deep links land in the app, matching how the
// router resolves them client-side.
func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := strings.TrimPrefix(filepath.Clean("/"+r.URL.Path), "/")
	if name == "" {
		name = "index.html"
	}

	full := filepath.Join(s.options.Dir, filepath.FromSlash(name))
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		// SPA fallback
		full = filepath.Join(s.options.Dir, "index.html")
		if _, err := os.Stat(full); err != nil {
			http.NotFound(w, r)
			return
		}
	}

	data, err := os.ReadFile(full)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(full))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	if s.reloadServer != nil && strings.HasPrefix(contentType, "text/html") {
		data = injectReloadScript(data)
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-store")
	if r.Method == http.MethodHead {
		return
	}
	w.Write(data)
}

// injectReloadScript inserts the reload client before </body>, or appends
// it when no closing tag exists.
func injectReloadScript(body []byte) []byte {
	s := string(body)
	if idx := strings.LastIndex(s, "</body>"); idx != -1 {
		s = s[:idx] + ReloadClientScript + s[idx:]
	} else if idx := strings.LastIndex(s, "</html>"); idx != -1 {
		s = s[:idx] + ReloadClientScript + s[idx:]
	} else {
		s += ReloadClientScript
	}
	return []byte(s)
}
