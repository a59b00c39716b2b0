package storage

import (
	"net/url"
	"strings"

	"github.com/weppos/publicsuffix-go/publicsuffix"
)

// NormalizeDocumentURL ensures consistent document identity across scans.
func NormalizeDocumentURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if u, err := url.Parse(s); err == nil && u.Host != "" {
		u.Host = strings.ToLower(u.Host)
		u.Fragment = ""
		if strings.HasSuffix(u.Path, "/") && len(u.Path) > 1 {
			u.Path = strings.TrimRight(u.Path, "/")
		}
		return u.String()
	}
	return s
}

// RootDomain extracts the registrable domain of a URL, e.g.
// "http://sub.foo.example.co.uk/path" -> "example.co.uk", true.
func RootDomain(rawURL string) (string, bool) {
	host := rawURL

	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = u.Hostname()
	} else {
		// Fallback for things that are not valid URLs
		host = strings.Split(host, "/")[0]
		host = strings.Split(host, ":")[0]
	}

	if !strings.Contains(host, ".") {
		return "", false
	}

	domain, err := publicsuffix.Domain(host)
	if err != nil {
		return "", false
	}

	return domain, true
}
