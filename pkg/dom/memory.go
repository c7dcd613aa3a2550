package dom

import (
	"strings"
	"sync"
)

// MemoryDocument is an in-memory Document backed by named elements.
//
// Elements are registered by selector up front, mirroring a static page
// skeleton. The zero value is not usable; construct with NewMemoryDocument.
type MemoryDocument struct {
	mu       sync.Mutex
	elements map[string]*MemoryElement
	body     *MemoryElement
}

// NewMemoryDocument creates an in-memory document with an empty body.
func NewMemoryDocument() *MemoryDocument {
	return &MemoryDocument{
		elements: make(map[string]*MemoryElement),
		body:     &MemoryElement{},
	}
}

// AddElement registers an element under a selector and returns it.
func (d *MemoryDocument) AddElement(selector string) *MemoryElement {
	d.mu.Lock()
	defer d.mu.Unlock()
	el := &MemoryElement{}
	d.elements[selector] = el
	return el
}

// Query implements Document.
func (d *MemoryDocument) Query(selector string) (Element, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, ok := d.elements[selector]
	if !ok {
		return nil, false
	}
	return el, true
}

// Body implements Document.
func (d *MemoryDocument) Body() Element {
	return d.body
}

// MemoryElement is an in-memory Element. Anchors are extracted from markup
// on every SetHTML, the way a browser would materialize new anchor nodes
// when innerHTML is assigned.
type MemoryElement struct {
	mu      sync.Mutex
	markup  string
	anchors []*MemoryAnchor
}

// SetHTML implements Element.
func (e *MemoryElement) SetHTML(markup string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.markup = markup
	e.anchors = extractAnchors(markup)
}

// HTML implements Element.
func (e *MemoryElement) HTML() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.markup
}

// Anchors implements Element.
func (e *MemoryElement) Anchors() []Anchor {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Anchor, len(e.anchors))
	for i, a := range e.anchors {
		out[i] = a
	}
	return out
}

// MemoryAnchor is an in-memory Anchor. Click simulates a user click,
// invoking the installed handler if any.
type MemoryAnchor struct {
	mu      sync.Mutex
	href    string
	onClick func()
}

// Href implements Anchor.
func (a *MemoryAnchor) Href() string {
	return a.href
}

// OnClick implements Anchor.
func (a *MemoryAnchor) OnClick(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onClick = fn
}

// Click invokes the installed click handler. It returns true if a handler
// was installed.
func (a *MemoryAnchor) Click() bool {
	a.mu.Lock()
	fn := a.onClick
	a.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}

// extractAnchors scans markup for <a> tags and returns an anchor per href
// attribute found, in document order. The scan is intentionally shallow:
// it understands well-formed attribute quoting and nothing more, which is
// all the fragment views exercised here need.
func extractAnchors(markup string) []*MemoryAnchor {
	var anchors []*MemoryAnchor
	rest := markup
	for {
		idx := indexAnchorTag(rest)
		if idx < 0 {
			break
		}
		tag := rest[idx:]
		end := strings.IndexByte(tag, '>')
		if end < 0 {
			break
		}
		if href, ok := attrValue(tag[:end], "href"); ok {
			anchors = append(anchors, &MemoryAnchor{href: href})
		}
		rest = tag[end+1:]
	}
	return anchors
}

// indexAnchorTag returns the offset of the next "<a" tag opener, requiring
// a whitespace or ">" after the tag name so "<article>" does not match.
func indexAnchorTag(s string) int {
	lower := strings.ToLower(s)
	from := 0
	for {
		i := strings.Index(lower[from:], "<a")
		if i < 0 {
			return -1
		}
		pos := from + i
		if pos+2 < len(s) {
			c := s[pos+2]
			if c == ' ' || c == '\t' || c == '\n' || c == '>' {
				return pos
			}
		}
		from = pos + 2
	}
}

// attrValue extracts a quoted attribute value from a tag opener.
func attrValue(tag, name string) (string, bool) {
	lower := strings.ToLower(tag)
	i := strings.Index(lower, name+"=")
	if i < 0 {
		return "", false
	}
	rest := tag[i+len(name)+1:]
	if rest == "" {
		return "", false
	}
	quote := rest[0]
	if quote != '"' && quote != '\'' {
		return "", false
	}
	end := strings.IndexByte(rest[1:], quote)
	if end < 0 {
		return "", false
	}
	return rest[1 : 1+end], true
}
