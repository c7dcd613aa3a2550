package dom

import "testing"

func TestQueryAndBody(t *testing.T) {
	doc := NewMemoryDocument()
	doc.AddElement("#app")

	if _, ok := doc.Query("#app"); !ok {
		t.Fatal("expected #app to resolve")
	}
	if _, ok := doc.Query("#missing"); ok {
		t.Error("#missing should not resolve")
	}
	if doc.Body() == nil {
		t.Error("body should always exist")
	}
}

func TestSetHTMLReplacesContent(t *testing.T) {
	el := &MemoryElement{}
	el.SetHTML("<h1>One</h1>")
	el.SetHTML("<h1>Two</h1>")

	if got := el.HTML(); got != "<h1>Two</h1>" {
		t.Errorf("HTML() = %q, want %q", got, "<h1>Two</h1>")
	}
}

func TestAnchorExtraction(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		hrefs  []string
	}{
		{
			name:   "single anchor",
			markup: `<p><a href="/about">About</a></p>`,
			hrefs:  []string{"/about"},
		},
		{
			name:   "multiple anchors in order",
			markup: `<a href="/">Home</a><a href="/team">Team</a>`,
			hrefs:  []string{"/", "/team"},
		},
		{
			name:   "single quotes",
			markup: `<a href='/x'>x</a>`,
			hrefs:  []string{"/x"},
		},
		{
			name:   "external link kept as-is",
			markup: `<a href="https://example.com">out</a>`,
			hrefs:  []string{"https://example.com"},
		},
		{
			name:   "article is not an anchor",
			markup: `<article>no links</article>`,
			hrefs:  nil,
		},
		{
			name:   "anchor without href skipped",
			markup: `<a name="top">top</a>`,
			hrefs:  nil,
		},
		{
			name:   "extra attributes",
			markup: `<a class="nav" href="/docs" data-x="1">Docs</a>`,
			hrefs:  []string{"/docs"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			el := &MemoryElement{}
			el.SetHTML(tc.markup)

			anchors := el.Anchors()
			if len(anchors) != len(tc.hrefs) {
				t.Fatalf("got %d anchors, want %d", len(anchors), len(tc.hrefs))
			}
			for i, want := range tc.hrefs {
				if got := anchors[i].Href(); got != want {
					t.Errorf("anchor[%d].Href() = %q, want %q", i, got, want)
				}
			}
		})
	}
}

func TestAnchorsResetOnSetHTML(t *testing.T) {
	el := &MemoryElement{}
	el.SetHTML(`<a href="/a">a</a>`)
	el.SetHTML(`<p>none</p>`)

	if n := len(el.Anchors()); n != 0 {
		t.Errorf("expected 0 anchors after replacement, got %d", n)
	}
}

func TestClickHandler(t *testing.T) {
	el := &MemoryElement{}
	el.SetHTML(`<a href="/go">go</a>`)

	a := el.Anchors()[0].(*MemoryAnchor)
	if a.Click() {
		t.Error("click with no handler should report false")
	}

	clicked := false
	a.OnClick(func() { clicked = true })
	if !a.Click() {
		t.Error("click with a handler should report true")
	}
	if !clicked {
		t.Error("handler was not invoked")
	}
}
