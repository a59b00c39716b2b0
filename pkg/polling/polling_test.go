package polling

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/mementoweb/robustlinks/pkg/storage"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func openTestDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestScanDocument(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	doc := mustDoc(t, `<html><body>
		<a href="https://example.com/a" data-versiondate="2024-01-15">good</a>
		<a href="https://example.com/b">no versiondate</a>
	</body></html>`)

	changes, n, err := ScanDocument(ctx, db, "https://news.example.org/article", doc, nil)
	if err != nil {
		t.Fatalf("ScanDocument: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 entries (1 valid, 1 failing), got %d", n)
	}
	if len(changes) != 2 {
		t.Fatalf("expected 2 added changes on first scan, got %v", changes)
	}

	entries, err := db.ListEntries(ctx, storage.ListOptions{OnlyProblems: true})
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 1 || entries[0].Href != "https://example.com/b" {
		t.Fatalf("expected the versiondate-less anchor as a problem entry, got %v", entries)
	}
}

func TestRescanAll(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	seed := mustDoc(t, `<a href="https://example.com/a" data-versiondate="2024-01-15">x</a>`)
	if _, _, err := ScanDocument(ctx, db, "https://news.example.org/article", seed, nil); err != nil {
		t.Fatalf("seed scan: %v", err)
	}

	// The document now carries a snapshot it did not have before.
	updated := `<a href="https://example.com/a" data-versiondate="2024-01-15"
		data-versionurl="https://web.archive.org/web/20240115120000/https://example.com/a">x</a>`

	var fetched []string
	res, err := RescanAll(ctx, Config{
		DB: db,
		Fetch: func(documentURL string) (*goquery.Document, error) {
			fetched = append(fetched, documentURL)
			return mustDoc(t, updated), nil
		},
	})
	if err != nil {
		t.Fatalf("RescanAll: %v", err)
	}

	if len(fetched) != 1 || fetched[0] != "https://news.example.org/article" {
		t.Fatalf("expected one fetch of the seeded document, got %v", fetched)
	}
	if len(res.ScannedDocumentURLs) != 1 {
		t.Fatalf("expected 1 scanned document, got %v", res.ScannedDocumentURLs)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if len(res.Changes) != 1 || res.Changes[0].ChangeType != "updated" {
		t.Fatalf("expected one updated change, got %v", res.Changes)
	}
}

func TestRescanAllFetchFailure(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	seed := mustDoc(t, `<a href="https://example.com/a" data-versiondate="2024-01-15">x</a>`)
	if _, _, err := ScanDocument(ctx, db, "https://news.example.org/article", seed, nil); err != nil {
		t.Fatalf("seed scan: %v", err)
	}

	res, err := RescanAll(ctx, Config{
		DB: db,
		Fetch: func(string) (*goquery.Document, error) {
			return nil, context.DeadlineExceeded
		},
	})
	if err != nil {
		t.Fatalf("RescanAll: %v", err)
	}
	if len(res.Errors) != 1 {
		t.Fatalf("expected 1 fetch error, got %v", res.Errors)
	}
	if len(res.ScannedDocumentURLs) != 0 {
		t.Fatalf("expected no scanned documents, got %v", res.ScannedDocumentURLs)
	}

	// The failed fetch must not wipe the previous entries.
	entries, err := db.ListEntries(ctx, storage.ListOptions{})
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected the seeded entry to survive, got %v", entries)
	}
}
