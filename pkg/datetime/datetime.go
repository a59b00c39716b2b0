// Package datetime parses and formats the datetime encodings used by robust
// link attributes and web archive URIs.
//
// Four textual encodings are accepted, tried in a fixed order:
//
//	2023-01-15            date only, resolves to 12:00:00 UTC
//	2023-01-15T10:05:30Z  full UTC instant, trailing Z mandatory
//	20230115              date only, resolves to 12:00:00 UTC
//	20230115100530        full UTC instant, archive style
//
// Date-only encodings deliberately anchor at noon UTC so a later
// timezone-naive re-render cannot shift the calendar day.
package datetime

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

const (
	// ArchiveLayout is the 14-digit timestamp format used in archive URIs.
	ArchiveLayout = "20060102150405"

	dateLayout      = "2006-01-02"
	isoLayout       = "2006-01-02T15:04:05Z"
	basicDateLayout = "20060102"
)

// ErrInvalidDatetime is returned when a string matches none of the four
// accepted encodings, or matches a shape but names an impossible instant.
var ErrInvalidDatetime = errors.New("invalid datetime encoding")

var (
	dateRe      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	isoRe       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`)
	basicDateRe = regexp.MustCompile(`^\d{8}$`)
	stampRe     = regexp.MustCompile(`^\d{14}$`)
)

// Parse resolves s to a UTC instant under the first matching encoding.
// The anchored patterns reject partial matches, so "2023-01-15 extra" or a
// 15-digit stamp never parse. Calendar sanity (month 13, day 32) is left to
// time.Parse, which reports an error rather than panicking.
func Parse(s string) (time.Time, error) {
	switch {
	case dateRe.MatchString(s):
		t, err := time.ParseInLocation(dateLayout, s, time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidDatetime, s, err)
		}
		return t.Add(12 * time.Hour), nil

	case isoRe.MatchString(s):
		t, err := time.ParseInLocation(isoLayout, s, time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidDatetime, s, err)
		}
		return t, nil

	case basicDateRe.MatchString(s):
		t, err := time.ParseInLocation(basicDateLayout, s, time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidDatetime, s, err)
		}
		return t.Add(12 * time.Hour), nil

	case stampRe.MatchString(s):
		t, err := time.ParseInLocation(ArchiveLayout, s, time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidDatetime, s, err)
		}
		return t, nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDatetime, s)
}

// IsDatetime reports whether s parses under one of the accepted encodings.
func IsDatetime(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// FormatArchive renders t as the zero-padded 14-digit UTC timestamp used
// inside archive and TimeGate URIs.
func FormatArchive(t time.Time) string {
	return t.UTC().Format(ArchiveLayout)
}

// FormatDate renders the UTC date component of t as YYYY-MM-DD. This is the
// form written back into data-versiondate attributes: reads accept all four
// encodings, but write-back is always date-only.
func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}
