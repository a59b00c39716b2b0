// Package archives is the registry of known web archive services: where
// their TimeGates live and how their memento URIs are shaped.
package archives

import (
	"fmt"
	"strings"
)

// Service describes one archive endpoint usable with pkg/memento.
type Service struct {
	Name         string
	TimeGateBase string // prefix for the "latest memento" shortcut form
	Template     string // URI-M template with <datetime> and <urir>
}

// registry lists the supported services. The first entry is the default.
var registry = []Service{
	{
		Name:         "internetarchive",
		TimeGateBase: "https://web.archive.org/web/",
		Template:     "https://web.archive.org/web/<datetime>/<urir>",
	},
	{
		Name:         "archive.today",
		TimeGateBase: "https://archive.today/newest/",
		Template:     "https://archive.today/<datetime>/<urir>",
	},
	{
		Name:         "archive-it",
		TimeGateBase: "https://wayback.archive-it.org/all/",
		Template:     "https://wayback.archive-it.org/all/<datetime>/<urir>",
	},
	{
		Name:         "ukwebarchive",
		TimeGateBase: "https://www.webarchive.org.uk/wayback/archive/",
		Template:     "https://www.webarchive.org.uk/wayback/archive/<datetime>/<urir>",
	},
	{
		Name:         "portugueseweb",
		TimeGateBase: "https://arquivo.pt/wayback/",
		Template:     "https://arquivo.pt/wayback/<datetime>/<urir>",
	},
}

// Default returns the service used when no name is configured.
func Default() Service {
	return registry[0]
}

// Lookup finds a service by name, case-insensitively.
func Lookup(name string) (Service, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Default(), nil
	}
	for _, s := range registry {
		if s.Name == name {
			return s, nil
		}
	}
	return Service{}, fmt.Errorf("unknown archive service: %s (available: %s)", name, strings.Join(Names(), ", "))
}

// Names lists the registered service names in registry order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, s := range registry {
		names = append(names, s.Name)
	}
	return names
}

// DefaultExclusionPatterns is the built-in list of URI prefixes that identify
// already-archived copies. It is handed to exclusion.Compile by callers; the
// classifier itself never sees this list unless it is injected. A remote
// resource, when configured, replaces it entirely.
func DefaultExclusionPatterns() []string {
	return []string{
		"https?://web.archive.org/web/[0-9]+",
		"https?://wayback.archive.org",
		"https?://web.archive.bibalex.org",
		"https?://wayback.archive-it.org/[0-9]+",
		"https?://archive.today",
		"https?://archive.is",
		"https?://archive.ph",
		"https?://archive.li",
		"https?://archive.md",
		"https?://archive.vn",
		"https?://perma.cc/[A-Z0-9]+-[A-Z0-9]+",
		"https?://perma-archives.org",
		"https?://www.webcitation.org/[0-9a-zA-Z]+",
		"https?://www.webarchive.org.uk/wayback/archive/[0-9]+",
		"https?://webarchive.nationalarchives.gov.uk/[0-9]+",
		"https?://webarchive.parliament.uk/[0-9]+",
		"https?://arquivo.pt/wayback/[0-9]+",
		"https?://webarchive.loc.gov/all/[0-9]+",
		"https?://swap.stanford.edu/[0-9]+",
		"https?://webarchive.proni.gov.uk/[0-9]+",
		"https?://wayback.vefsafn.is/wayback/[0-9]+",
		"https?://waext.banq.qc.ca/wayback/[0-9]+",
		"https?://haw.nsk.hr/arhiva",
		"https?://webarchive.nlb.gov.sg",
		"https?://web.archive.org.au/awa/[0-9]+",
		"https?://digital.library.yorku.ca/wayback/[0-9]+",
		"https?://timetravel.mementoweb.org/memento/[0-9]{4}",
	}
}
