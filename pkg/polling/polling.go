// Package polling re-scans documents already present in the inventory so
// link changes keep flowing in without anyone re-running scans by hand.
package polling

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/mementoweb/robustlinks/pkg/rewrite"
	"github.com/mementoweb/robustlinks/pkg/storage"
	"github.com/mementoweb/robustlinks/pkg/whttp"
)

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// nopLogger silently discards all messages.
type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// Config holds everything RescanAll needs.
type Config struct {
	DB          *storage.DB
	Matcher     rewrite.ArchiveMatcher
	Concurrency int    // defaults to 5 if <= 0
	Log         Logger // optional; nil = no logging

	// Fetch overrides document retrieval, mainly for tests. Nil means
	// fetch over HTTP.
	Fetch func(documentURL string) (*goquery.Document, error)

	// OnDocumentDone is called per-document after upsert (from worker
	// goroutines). Enables callers to stream-print changes as they happen.
	// Nil = no callback.
	OnDocumentDone func(documentURL string, changes []storage.LinkChange)
}

// Result holds the outcome of one full re-scan pass.
type Result struct {
	ScannedDocumentURLs []string
	Changes             []storage.LinkChange
	Errors              []error // non-fatal, one per failed document
}

// ScanDocument extracts every anchor from doc, writes the audit entries for
// documentURL, and returns the resulting changes plus the entry count.
func ScanDocument(ctx context.Context, db *storage.DB, documentURL string, doc *goquery.Document, matcher rewrite.ArchiveMatcher) ([]storage.LinkChange, int, error) {
	records, _, problems := rewrite.ExtractRecords(doc)

	var entries []storage.LinkEntry
	for _, rec := range records {
		archived := false
		if matcher != nil {
			archived = matcher.IsKnownArchive(rec.Href)
		}
		entries = append(entries, storage.LinkEntry{
			DocumentURL:   documentURL,
			Href:          rec.Href,
			OriginalURL:   rec.OriginalURL,
			VersionDate:   rec.Attrs().VersionDate,
			SnapshotCount: len(rec.Snapshots),
			IsArchived:    archived,
			Valid:         true,
		})
	}
	for _, p := range problems {
		if p.Href == "" {
			continue
		}
		entries = append(entries, storage.LinkEntry{
			DocumentURL: documentURL,
			Href:        p.Href,
			Valid:       false,
			Problem:     p.Err.Error(),
		})
	}

	changes, err := db.UpsertDocumentLinks(ctx, documentURL, entries)
	return changes, len(entries), err
}

func fetchDocument(documentURL string) (*goquery.Document, error) {
	page, err := whttp.FetchPage(documentURL, nil)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(page.Body))
}

// RescanAll re-fetches every document in the inventory and refreshes its
// entries, with bounded concurrency. DB is required.
func RescanAll(ctx context.Context, cfg Config) (*Result, error) {
	log := cfg.Log
	if log == nil {
		log = nopLogger{}
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	fetch := cfg.Fetch
	if fetch == nil {
		fetch = fetchDocument
	}

	docs, err := cfg.DB.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)

	for _, documentURL := range docs {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(u string) {
			defer wg.Done()
			defer func() { <-sem }()

			doc, err := fetch(u)
			if err != nil {
				log.Warnf("Could not fetch %s: %v", u, err)
				mu.Lock()
				result.Errors = append(result.Errors, err)
				mu.Unlock()
				return
			}

			changes, n, err := ScanDocument(ctx, cfg.DB, u, doc, cfg.Matcher)
			if err != nil {
				log.Errorf("Could not update %s: %v", u, err)
				mu.Lock()
				result.Errors = append(result.Errors, err)
				mu.Unlock()
				return
			}
			log.Debugf("Re-scanned %s: %d links, %d changes", u, n, len(changes))

			mu.Lock()
			result.ScannedDocumentURLs = append(result.ScannedDocumentURLs, u)
			result.Changes = append(result.Changes, changes...)
			mu.Unlock()

			if cfg.OnDocumentDone != nil {
				cfg.OnDocumentDone(u, changes)
			}
		}(documentURL)
	}
	wg.Wait()

	return result, nil
}

// Run re-scans on a fixed interval until ctx is cancelled. The first pass
// starts immediately.
func Run(ctx context.Context, cfg Config, interval time.Duration) {
	log := cfg.Log
	if log == nil {
		log = nopLogger{}
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		res, err := RescanAll(ctx, cfg)
		if err != nil {
			log.Errorf("Re-scan pass failed: %v", err)
		} else {
			log.Infof("Re-scan pass done: %d documents, %d changes, %d errors",
				len(res.ScannedDocumentURLs), len(res.Changes), len(res.Errors))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
