// Package memento constructs URIs that resolve to preserved snapshots.
//
// A URI-M template is an ordinary string carrying the <datetime> and <urir>
// placeholders, e.g. "https://web.archive.org/web/<datetime>/<urir>".
// Substitution is literal: the original resource URI goes in verbatim,
// without percent re-encoding, matching what archive endpoints accept.
package memento

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mementoweb/robustlinks/pkg/datetime"
	"github.com/mementoweb/robustlinks/pkg/urival"
)

// Placeholder tokens a URI-M template must contain.
const (
	DatetimePlaceholder = "<datetime>"
	URIRPlaceholder     = "<urir>"
)

var (
	// ErrInvalidOriginalURL is returned when the URI-R is not an absolute
	// HTTP(S) URI.
	ErrInvalidOriginalURL = errors.New("original URL is not an absolute http(s) URI")

	// ErrMalformedTemplate is returned when a template is missing one of its
	// placeholder tokens.
	ErrMalformedTemplate = errors.New("template is missing a placeholder")
)

// ValidateTemplate checks that template carries both placeholder tokens.
func ValidateTemplate(template string) error {
	if !strings.Contains(template, DatetimePlaceholder) {
		return fmt.Errorf("%w: %s", ErrMalformedTemplate, DatetimePlaceholder)
	}
	if !strings.Contains(template, URIRPlaceholder) {
		return fmt.Errorf("%w: %s", ErrMalformedTemplate, URIRPlaceholder)
	}
	return nil
}

// Build constructs a resolvable memento URI for originalURL.
//
// With a datetime, the template's placeholders are substituted (first
// occurrence of each) to produce a URI-M for that instant. Without one, the
// TimeGate shortcut applies instead: timeGateBase + originalURL, no template
// expansion, leaving datetime negotiation to the TimeGate itself.
func Build(originalURL, template, timeGateBase string, at *time.Time) (string, error) {
	if !urival.IsAbsoluteHTTPURL(originalURL) {
		return "", fmt.Errorf("%w: %q", ErrInvalidOriginalURL, originalURL)
	}

	if at == nil {
		return timeGateBase + originalURL, nil
	}

	if err := ValidateTemplate(template); err != nil {
		return "", err
	}

	uriM := strings.Replace(template, DatetimePlaceholder, datetime.FormatArchive(*at), 1)
	uriM = strings.Replace(uriM, URIRPlaceholder, originalURL, 1)
	return uriM, nil
}
