// Package snapshot parses and serializes the data-versionurl mini-grammar:
// a space-separated sequence of snapshot URIs, each optionally followed by
// the datetime at which that snapshot was taken.
package snapshot

import (
	"strings"

	"github.com/mementoweb/robustlinks/pkg/datetime"
	"github.com/mementoweb/robustlinks/pkg/urival"
)

// Snapshot is one already-known preserved copy of a resource. Datetime, when
// present, keeps the original textual encoding; callers that need an instant
// parse it with pkg/datetime.
type Snapshot struct {
	URI      string
	Datetime string
}

// Diagnostic reports a token that was skipped during parsing. Skips are
// non-fatal: parsing always continues with the next token.
type Diagnostic struct {
	Token    string
	Position int // token index in the attribute value, zero-based
	Reason   string
}

// ParseList parses a raw data-versionurl value. Absent or blank input yields
// an empty list.
//
// Tokens are scanned left to right. A token that is not an absolute HTTP(S)
// URI is skipped with a diagnostic; this covers stray datetime tokens that
// have no preceding URI to attach to. A valid URI token greedily consumes
// the following token as its datetime when that token parses under one of
// the accepted datetime encodings.
func ParseList(raw string) ([]Snapshot, []Diagnostic) {
	tokens := strings.Fields(raw)

	snapshots := make([]Snapshot, 0, len(tokens))
	var diags []Diagnostic

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if !urival.IsAbsoluteHTTPURL(tok) {
			diags = append(diags, Diagnostic{
				Token:    tok,
				Position: i,
				Reason:   "not an absolute http(s) URI",
			})
			continue
		}

		snap := Snapshot{URI: tok}
		if i+1 < len(tokens) && datetime.IsDatetime(tokens[i+1]) {
			snap.Datetime = tokens[i+1]
			i++
		}
		snapshots = append(snapshots, snap)
	}

	return snapshots, diags
}

// FormatList renders snapshots back to attribute form: tokens joined by
// single spaces, datetimes emitted verbatim. Whitespace runs from the
// original input are not preserved, token identity and order are.
func FormatList(snapshots []Snapshot) string {
	parts := make([]string, 0, len(snapshots)*2)
	for _, s := range snapshots {
		parts = append(parts, s.URI)
		if s.Datetime != "" {
			parts = append(parts, s.Datetime)
		}
	}
	return strings.Join(parts, " ")
}
