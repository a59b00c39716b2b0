// Package urival decides whether strings are absolute HTTP(S) URIs.
// Robust link attributes only ever carry web-dereferenceable targets, so
// everything else (relative paths, mailto:, javascript:, scheme-relative
// strings) is rejected.
package urival

import (
	"net/url"
	"strings"
)

// IsAbsoluteHTTPURL reports whether candidate parses as a URI with an
// http or https scheme and a non-empty host. It never panics and performs
// no network or DNS resolution.
func IsAbsoluteHTTPURL(candidate string) bool {
	u, err := url.Parse(candidate)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.Host != ""
	}
	return false
}
