// Package routepath provides pure path normalization helpers used by the
// route table and the navigation entry point.
//
// Sanitization is deliberately lenient: it never fails. Inputs are trimmed
// and forced to an absolute form, and everything else is left to the
// matcher. This keeps the registration and navigation surfaces total.
package routepath

import "strings"

// Sanitize normalizes a raw path into a canonical absolute path.
//
// Transformations applied:
//   - Surrounding whitespace is trimmed.
//   - The empty string becomes "/".
//   - A leading "/" is prepended when missing.
//
// Sanitize is pure, total, and idempotent: Sanitize(Sanitize(p)) == Sanitize(p).
func Sanitize(raw string) string {
	path := strings.TrimSpace(raw)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// Specificity returns the number of non-empty "/"-delimited segments in a
// path. It is used to break prefix-match ties: "/" scores 0, "/foo" scores
// 1, "/foo/bar" scores 2.
func Specificity(path string) int {
	n := 0
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			n++
		}
	}
	return n
}

// HasPathPrefix reports whether path begins with prefix as a plain string
// prefix. Prefix matching is intentionally string-based rather than
// segment-based: a single registered route can act as a catch-all for an
// unmodeled hierarchy beneath it.
func HasPathPrefix(path, prefix string) bool {
	return strings.HasPrefix(path, prefix)
}

// SplitPathAndQuery splits a location into path and query components.
// The query is returned without the leading "?".
func SplitPathAndQuery(input string) (path, query string) {
	path, query, _ = strings.Cut(input, "?")
	return path, query
}

// IsExternal reports whether a navigation target leaves the app: absolute
// http(s) URLs and protocol-relative "//" targets. Rejecting these before
// they reach the history prevents open redirects through intercepted links.
func IsExternal(path string) bool {
	return strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "//")
}
