// Package dom defines the document capability boundary consumed by the
// router.
//
// The router never touches a concrete DOM. It asks a Document for an
// element by selector, replaces that element's content, and rebinds the
// anchors found in freshly inserted markup. Any backend that can answer
// those three questions can host the router: a real browser document behind
// a wasm bridge, or the in-memory implementation in this package, which is
// what the tests and headless embeddings use.
package dom

// Document resolves elements by selector.
type Document interface {
	// Query returns the element matching the selector, or false if the
	// selector resolves to nothing.
	Query(selector string) (Element, bool)

	// Body returns the document body, the fallback mount point when a
	// configured root selector does not resolve.
	Body() Element
}

// Element is a mountable region of the document.
type Element interface {
	// SetHTML replaces the element's content with the given markup.
	SetHTML(markup string)

	// HTML returns the element's current content.
	HTML() string

	// Anchors returns the anchor elements currently inside this element,
	// in document order.
	Anchors() []Anchor
}

// Anchor is a link inside an element. The router intercepts clicks on
// anchors whose href is an absolute path.
type Anchor interface {
	// Href returns the anchor's href attribute.
	Href() string

	// OnClick installs the click handler, replacing any previous one.
	// The handler is expected to prevent the default navigation.
	OnClick(fn func())
}
