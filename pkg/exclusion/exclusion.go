// Package exclusion classifies URIs that already point into a web archive,
// so a rewriter never wraps an archived copy in another archive.
//
// Patterns are prefix-style strings where dots are literal and simple regex
// fragments like [0-9]+ or {4} are intentional, e.g.
// "https?://web.archive.org/web/[0-9]+". The pattern list is injected
// configuration: nothing in this package hardcodes archive hosts.
package exclusion

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/mementoweb/robustlinks/internal/utils"
)

// Matcher holds a compiled, immutable pattern set.
type Matcher struct {
	patterns []*regexp.Regexp
}

// Compile turns pattern strings into anchored, case-insensitive matchers.
// Literal dots are escaped; every other character is passed through so the
// regex fragments the patterns already carry keep working. Blank patterns
// are ignored.
func Compile(patterns []string) (*Matcher, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		re, err := regexp.Compile(`(?i)^` + strings.ReplaceAll(p, ".", `\.`))
		if err != nil {
			return nil, fmt.Errorf("bad exclusion pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return &Matcher{patterns: compiled}, nil
}

// IsKnownArchive reports whether rawURL matches any compiled pattern as a
// prefix. Pattern order is irrelevant. A nil Matcher matches nothing.
func (m *Matcher) IsKnownArchive(rawURL string) bool {
	if m == nil {
		return false
	}
	for _, re := range m.patterns {
		if re.MatchString(rawURL) {
			return true
		}
	}
	return false
}

// Len returns the number of compiled patterns.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.patterns)
}

// AsyncMatcher wraps a Matcher whose pattern source arrives asynchronously,
// e.g. fetched from a remote resource. Queries made before the patterns are
// ready deterministically answer false instead of blocking or failing;
// callers that need a reliable answer wait on Ready first.
type AsyncMatcher struct {
	mu      sync.RWMutex
	matcher *Matcher

	readyOnce sync.Once
	ready     chan struct{}
}

// NewAsyncMatcher returns an AsyncMatcher with no patterns yet.
func NewAsyncMatcher() *AsyncMatcher {
	return &AsyncMatcher{ready: make(chan struct{})}
}

// Set installs the compiled matcher and signals readiness. Later calls
// replace the pattern set; readiness is signaled only once.
func (a *AsyncMatcher) Set(m *Matcher) {
	a.mu.Lock()
	a.matcher = m
	a.mu.Unlock()
	a.readyOnce.Do(func() { close(a.ready) })
}

// Ready is closed once a pattern set has been installed.
func (a *AsyncMatcher) Ready() <-chan struct{} {
	return a.ready
}

// IsKnownArchive answers via the installed matcher, or false with a debug
// diagnostic while none is installed yet.
func (a *AsyncMatcher) IsKnownArchive(rawURL string) bool {
	a.mu.RLock()
	m := a.matcher
	a.mu.RUnlock()

	if m == nil {
		utils.Log.Debug("exclusion patterns not loaded yet, treating as not archived: ", rawURL)
		return false
	}
	return m.IsKnownArchive(rawURL)
}
