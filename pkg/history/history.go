// Package history defines the session-history capability consumed by the
// navigation entry point.
//
// The router records committed paths through this boundary and re-runs a
// transition whenever the backend reports a back/forward movement. The only
// state persisted is the path string, matching what a browser's history
// mechanism stores.
package history

import "sync"

// Cleanup unsubscribes a listener installed with Listen.
type Cleanup func()

// History records navigable locations and reports external movement
// (back/forward) to listeners.
type History interface {
	// Push appends a new location and makes it current.
	Push(path string)

	// Replace swaps the current location without creating a new entry.
	Replace(path string)

	// Location returns the current location path.
	Location() string

	// Listen subscribes to external movement through the history (the
	// popstate equivalent). Programmatic Push/Replace calls do not notify.
	Listen(fn func(path string)) Cleanup
}

// Memory is an in-memory History. It behaves like a browser session
// history: Push truncates any forward entries, Back and Forward move the
// cursor and notify listeners.
type Memory struct {
	mu        sync.Mutex
	entries   []string
	index     int
	listeners map[int]func(string)
	nextID    int
}

// NewMemory creates an in-memory history positioned at the initial path.
func NewMemory(initial string) *Memory {
	return &Memory{
		entries:   []string{initial},
		listeners: make(map[int]func(string)),
	}
}

// Push implements History.
func (h *Memory) Push(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.index+1], path)
	h.index = len(h.entries) - 1
}

// Replace implements History.
func (h *Memory) Replace(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.index] = path
}

// Location implements History.
func (h *Memory) Location() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index]
}

// Listen implements History.
func (h *Memory) Listen(fn func(path string)) Cleanup {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}
}

// Back moves one entry backward, notifying listeners. It reports whether a
// movement happened.
func (h *Memory) Back() bool {
	h.mu.Lock()
	if h.index == 0 {
		h.mu.Unlock()
		return false
	}
	h.index--
	path := h.entries[h.index]
	fns := h.snapshotListeners()
	h.mu.Unlock()

	for _, fn := range fns {
		fn(path)
	}
	return true
}

// Forward moves one entry forward, notifying listeners. It reports whether
// a movement happened.
func (h *Memory) Forward() bool {
	h.mu.Lock()
	if h.index >= len(h.entries)-1 {
		h.mu.Unlock()
		return false
	}
	h.index++
	path := h.entries[h.index]
	fns := h.snapshotListeners()
	h.mu.Unlock()

	for _, fn := range fns {
		fn(path)
	}
	return true
}

// Len returns the number of history entries.
func (h *Memory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

func (h *Memory) snapshotListeners() []func(string) {
	fns := make([]func(string), 0, len(h.listeners))
	for _, fn := range h.listeners {
		fns = append(fns, fn)
	}
	return fns
}
