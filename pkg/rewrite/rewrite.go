// Package rewrite applies the robust links convention to HTML documents.
// It selects anchors, assembles validated records from their attributes,
// writes the canonical data-* attributes back, and optionally points hrefs
// at memento URIs. Anchors that cannot be assembled are left untouched and
// reported, never half-rewritten.
package rewrite

import (
	"errors"

	"github.com/PuerkitoBio/goquery"

	"github.com/mementoweb/robustlinks/pkg/archives"
	"github.com/mementoweb/robustlinks/pkg/memento"
	"github.com/mementoweb/robustlinks/pkg/robustlink"
	"github.com/mementoweb/robustlinks/pkg/snapshot"
)

// ErrInvalidAnchorTarget is returned when a selection handed to Anchor does
// not wrap an <a> element.
var ErrInvalidAnchorTarget = errors.New("element is not an anchor")

// ArchiveMatcher answers whether a URL already points into a web archive.
// Both *exclusion.Matcher and *exclusion.AsyncMatcher satisfy it.
type ArchiveMatcher interface {
	IsKnownArchive(rawURL string) bool
}

// Decision tells the rewriter what to do with one assembled anchor.
type Decision int

const (
	// Annotate writes the data-* attributes but leaves href alone.
	Annotate Decision = iota
	// RewriteHref additionally points href at a memento URI.
	RewriteHref
	// Skip leaves the anchor exactly as found.
	Skip
)

// DecisionFunc lets callers choose per anchor. When nil, every assembled
// anchor gets Annotate, or RewriteHref if Options.RewriteHrefs is set.
type DecisionFunc func(rec *robustlink.Record) Decision

// Options configures a document pass.
type Options struct {
	// Service supplies the template and TimeGate base for href rewriting.
	// The zero value means the default registry service.
	Service archives.Service

	// Matcher, when set, prevents double-archiving: anchors whose href is
	// already a known archive URL are never href-rewritten.
	Matcher ArchiveMatcher

	// DefaultVersionDate fills in data-versiondate for anchors that lack
	// one, in any accepted encoding. Empty means such anchors fail assembly
	// and are reported.
	DefaultVersionDate string

	// RewriteHrefs turns hrefs into memento URIs for the chosen service.
	RewriteHrefs bool

	Decide DecisionFunc
}

// Problem reports an anchor that could not be processed.
type Problem struct {
	Href string
	Err  error
}

// Result summarizes a document pass.
type Result struct {
	Records       []*robustlink.Record
	Annotated     int
	Rewritten     int
	Skipped       int
	Problems      []Problem
	SnapshotDiags []snapshot.Diagnostic
}

// Document processes every a[href] in doc in document order, mutating the
// tree in place.
func Document(doc *goquery.Document, opts Options) *Result {
	if opts.Service.Template == "" {
		opts.Service = archives.Default()
	}

	res := &Result{}
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		processAnchor(sel, opts, res)
	})
	return res
}

// Anchor processes a single anchor selection with the same rules as
// Document, returning the assembled record.
func Anchor(sel *goquery.Selection, opts Options) (*robustlink.Record, error) {
	if goquery.NodeName(sel) != "a" {
		return nil, ErrInvalidAnchorTarget
	}
	if opts.Service.Template == "" {
		opts.Service = archives.Default()
	}

	res := &Result{}
	processAnchor(sel, opts, res)
	if len(res.Problems) > 0 {
		return nil, res.Problems[0].Err
	}
	if len(res.Records) == 0 {
		return nil, nil // skipped
	}
	return res.Records[0], nil
}

func processAnchor(sel *goquery.Selection, opts Options, res *Result) {
	raw := robustlink.RawAttrs{
		Href:        sel.AttrOr("href", ""),
		OriginalURL: sel.AttrOr("data-originalurl", ""),
		VersionDate: sel.AttrOr("data-versiondate", ""),
		VersionURL:  sel.AttrOr("data-versionurl", ""),
	}
	if raw.VersionDate == "" {
		raw.VersionDate = opts.DefaultVersionDate
	}

	rec, diags, err := robustlink.Assemble(raw, sel.Text())
	if err != nil {
		res.Problems = append(res.Problems, Problem{Href: raw.Href, Err: err})
		return
	}
	res.SnapshotDiags = append(res.SnapshotDiags, diags...)

	decision := Annotate
	if opts.RewriteHrefs {
		decision = RewriteHref
	}
	if opts.Decide != nil {
		decision = opts.Decide(rec)
	}

	if decision == Skip {
		res.Skipped++
		return
	}

	// Never wrap an archived copy in another archive.
	alreadyArchived := opts.Matcher != nil && opts.Matcher.IsKnownArchive(rec.Href)

	if decision == RewriteHref && !alreadyArchived {
		at := rec.VersionDate
		uriM, err := memento.Build(rec.OriginalURL, opts.Service.Template, opts.Service.TimeGateBase, &at)
		if err != nil {
			res.Problems = append(res.Problems, Problem{Href: raw.Href, Err: err})
			return
		}
		sel.SetAttr("href", uriM)
		res.Rewritten++
	} else {
		res.Annotated++
	}

	attrs := rec.Attrs()
	sel.SetAttr("data-originalurl", attrs.OriginalURL)
	sel.SetAttr("data-versiondate", attrs.VersionDate)
	if attrs.VersionURL != "" {
		sel.SetAttr("data-versionurl", attrs.VersionURL)
	}

	res.Records = append(res.Records, rec)
}

// ExtractRecords assembles records from doc without mutating it. Anchors
// that fail assembly come back as problems, skipped snapshot tokens as
// diagnostics.
func ExtractRecords(doc *goquery.Document) ([]*robustlink.Record, []snapshot.Diagnostic, []Problem) {
	var records []*robustlink.Record
	var diags []snapshot.Diagnostic
	var problems []Problem

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		raw := robustlink.RawAttrs{
			Href:        sel.AttrOr("href", ""),
			OriginalURL: sel.AttrOr("data-originalurl", ""),
			VersionDate: sel.AttrOr("data-versiondate", ""),
			VersionURL:  sel.AttrOr("data-versionurl", ""),
		}
		rec, recDiags, err := robustlink.Assemble(raw, sel.Text())
		if err != nil {
			problems = append(problems, Problem{Href: raw.Href, Err: err})
			return
		}
		records = append(records, rec)
		diags = append(diags, recDiags...)
	})

	return records, diags, problems
}
