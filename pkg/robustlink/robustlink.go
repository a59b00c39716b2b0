// Package robustlink assembles and serializes robust link records: anchors
// augmented with data-originalurl, data-versiondate and data-versionurl
// attributes so a preserved copy stays reachable after the live target rots.
package robustlink

import (
	"fmt"
	"strings"
	"time"

	"github.com/mementoweb/robustlinks/pkg/datetime"
	"github.com/mementoweb/robustlinks/pkg/snapshot"
	"github.com/mementoweb/robustlinks/pkg/urival"
)

// RawAttrs carries the attribute strings of an anchor before validation.
// Zero values mean the attribute was absent.
type RawAttrs struct {
	Href        string // href
	OriginalURL string // data-originalurl
	VersionDate string // data-versiondate
	VersionURL  string // data-versionurl
}

// Record is a fully validated robust link. It is only ever constructed by
// Assemble: either every field holds its invariant or no record exists.
type Record struct {
	Href        string
	OriginalURL string
	VersionDate time.Time
	Snapshots   []snapshot.Snapshot
	LinkText    string // opaque passthrough, not validated
}

// Assemble validates raw attributes into a Record.
//
// An absent data-originalurl defaults to href. Missing-field checks run
// before format checks, and each failure is atomic: no partially populated
// record is returned. Malformed tokens inside data-versionurl never fail the
// assembly; they come back as snapshot diagnostics alongside the record.
func Assemble(raw RawAttrs, linkText string) (*Record, []snapshot.Diagnostic, error) {
	href := strings.TrimSpace(raw.Href)
	originalURL := strings.TrimSpace(raw.OriginalURL)
	versionDate := strings.TrimSpace(raw.VersionDate)

	if originalURL == "" && href != "" {
		originalURL = href
	}

	if href == "" {
		return nil, nil, ErrMissingHref
	}
	if originalURL == "" {
		return nil, nil, ErrMissingOriginalURL
	}
	if versionDate == "" {
		return nil, nil, ErrMissingVersionDate
	}

	if !urival.IsAbsoluteHTTPURL(href) {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidHref, href)
	}
	if !urival.IsAbsoluteHTTPURL(originalURL) {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidOriginalURL, originalURL)
	}

	parsedDate, err := datetime.Parse(versionDate)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidVersionDate, versionDate)
	}

	snapshots, diags := snapshot.ParseList(raw.VersionURL)

	return &Record{
		Href:        href,
		OriginalURL: originalURL,
		VersionDate: parsedDate,
		Snapshots:   snapshots,
		LinkText:    linkText,
	}, diags, nil
}

// Attrs serializes the record back to attribute form. The version date is
// written in the date-only encoding regardless of which encoding it was read
// from, and VersionURL is empty when there are no snapshots so callers can
// omit the attribute entirely.
func (r *Record) Attrs() RawAttrs {
	return RawAttrs{
		Href:        r.Href,
		OriginalURL: r.OriginalURL,
		VersionDate: datetime.FormatDate(r.VersionDate),
		VersionURL:  snapshot.FormatList(r.Snapshots),
	}
}

// AnchorHTML renders the record as a single <a> tag. Text content falls back
// to href when LinkText is empty. This is direct templating over already-held
// attribute values, not an HTML sanitizer.
func (r *Record) AnchorHTML() string {
	var b strings.Builder

	b.WriteString(`<a href="`)
	b.WriteString(r.Href)
	b.WriteString(`" data-originalurl="`)
	b.WriteString(r.OriginalURL)
	b.WriteString(`" data-versiondate="`)
	b.WriteString(datetime.FormatDate(r.VersionDate))
	b.WriteString(`"`)

	if len(r.Snapshots) > 0 {
		b.WriteString(` data-versionurl="`)
		b.WriteString(snapshot.FormatList(r.Snapshots))
		b.WriteString(`"`)
	}

	text := r.LinkText
	if text == "" {
		text = r.Href
	}

	b.WriteString(">")
	b.WriteString(text)
	b.WriteString("</a>")
	return b.String()
}
