// Package storage persists robust-link audit results in SQLite, with change
// tracking across scans of the same document.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	_ "modernc.org/sqlite"
)

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS link_entries (
  id             INTEGER PRIMARY KEY,
  document_url   TEXT NOT NULL,
  href           TEXT NOT NULL,
  original_url   TEXT NOT NULL,
  version_date   TEXT NOT NULL,
  snapshot_count INTEGER NOT NULL DEFAULT 0,
  is_archived    INTEGER NOT NULL CHECK (is_archived IN (0,1)),
  valid          INTEGER NOT NULL CHECK (valid IN (0,1)),
  problem        TEXT,
  run_id         INTEGER NOT NULL DEFAULT 0,
  first_seen_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  last_seen_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(document_url, href)
);
CREATE INDEX IF NOT EXISTS idx_links_document ON link_entries(document_url);
CREATE TABLE IF NOT EXISTS link_changes (
  id           INTEGER PRIMARY KEY,
  occurred_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  document_url TEXT NOT NULL,
  href         TEXT NOT NULL,
  change_type  TEXT NOT NULL CHECK (change_type IN ('added','updated','removed'))
);
CREATE INDEX IF NOT EXISTS idx_changes_time ON link_changes(occurred_at);
CREATE INDEX IF NOT EXISTS idx_changes_document ON link_changes(document_url, occurred_at);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// UpsertDocumentLinks replaces the audited links of one document. Entries
// already known keep their first_seen_at; entries no longer present are
// swept and logged as removed.
func (d *DB) UpsertDocumentLinks(ctx context.Context, documentURL string, entries []LinkEntry) ([]LinkChange, error) {
	now := time.Now().UTC()
	runID := time.Now().UnixNano()

	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rows, err := tx.QueryContext(ctx, "SELECT href, original_url, version_date, snapshot_count, is_archived, valid, problem FROM link_entries WHERE document_url = ?", documentURL)
	if err != nil {
		return nil, err
	}

	type existing struct {
		OriginalURL, VersionDate, Problem string
		SnapshotCount                     int
		IsArchived, Valid                 bool
	}
	existingMap := make(map[string]existing)
	for rows.Next() {
		var (
			href, originalURL, versionDate string
			snapshotCount                  int
			isArchivedInt, validInt        int
			problemNS                      sql.NullString
		)
		if err = rows.Scan(&href, &originalURL, &versionDate, &snapshotCount, &isArchivedInt, &validInt, &problemNS); err != nil {
			rows.Close()
			return nil, err
		}
		existingMap[href] = existing{
			OriginalURL:   originalURL,
			VersionDate:   versionDate,
			Problem:       problemNS.String,
			SnapshotCount: snapshotCount,
			IsArchived:    isArchivedInt == 1,
			Valid:         validInt == 1,
		}
	}
	if err = rows.Close(); err != nil {
		return nil, err
	}

	var changes []LinkChange
	for _, e := range entries {
		ex, existed := existingMap[e.Href]

		if !existed {
			_, err = tx.ExecContext(ctx, `INSERT INTO link_entries(document_url, href, original_url, version_date, snapshot_count, is_archived, valid, problem, run_id, first_seen_at, last_seen_at) VALUES(?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP,CURRENT_TIMESTAMP)`,
				documentURL, e.Href, e.OriginalURL, e.VersionDate, e.SnapshotCount, boolToInt(e.IsArchived), boolToInt(e.Valid), nullIfEmpty(e.Problem), runID)
			if err != nil {
				return nil, err
			}
			changes = append(changes, LinkChange{OccurredAt: now, DocumentURL: documentURL, Href: e.Href, ChangeType: "added"})
			existingMap[e.Href] = existing{OriginalURL: e.OriginalURL, VersionDate: e.VersionDate, Problem: e.Problem, SnapshotCount: e.SnapshotCount, IsArchived: e.IsArchived, Valid: e.Valid}
			continue
		}

		same := ex.OriginalURL == e.OriginalURL &&
			ex.VersionDate == e.VersionDate &&
			ex.SnapshotCount == e.SnapshotCount &&
			ex.IsArchived == e.IsArchived &&
			ex.Valid == e.Valid &&
			ex.Problem == e.Problem

		if same {
			_, err = tx.ExecContext(ctx, `UPDATE link_entries SET run_id = ?, last_seen_at = CURRENT_TIMESTAMP WHERE document_url = ? AND href = ?`, runID, documentURL, e.Href)
			if err != nil {
				return nil, err
			}
			continue
		}

		_, err = tx.ExecContext(ctx, `UPDATE link_entries SET original_url = ?, version_date = ?, snapshot_count = ?, is_archived = ?, valid = ?, problem = ?, run_id = ?, last_seen_at = CURRENT_TIMESTAMP WHERE document_url = ? AND href = ?`,
			e.OriginalURL, e.VersionDate, e.SnapshotCount, boolToInt(e.IsArchived), boolToInt(e.Valid), nullIfEmpty(e.Problem), runID, documentURL, e.Href)
		if err != nil {
			return nil, err
		}
		changes = append(changes, LinkChange{OccurredAt: now, DocumentURL: documentURL, Href: e.Href, ChangeType: "updated"})
	}

	// Sweep: links gone from the document since the previous scan.
	staleRows, err := tx.QueryContext(ctx, "SELECT href FROM link_entries WHERE document_url = ? AND run_id != ?", documentURL, runID)
	if err != nil {
		return nil, err
	}
	var toRemove []string
	for staleRows.Next() {
		var href string
		if err = staleRows.Scan(&href); err != nil {
			staleRows.Close()
			return nil, err
		}
		toRemove = append(toRemove, href)
	}
	if err = staleRows.Close(); err != nil {
		return nil, err
	}

	if len(toRemove) > 0 {
		_, err = tx.ExecContext(ctx, `DELETE FROM link_entries WHERE document_url = ? AND run_id != ?`, documentURL, runID)
		if err != nil {
			return nil, err
		}
		for _, href := range toRemove {
			_, ierr := tx.ExecContext(ctx, `INSERT INTO link_changes(occurred_at, document_url, href, change_type) VALUES(CURRENT_TIMESTAMP, ?, ?, 'removed')`, documentURL, href)
			if ierr != nil {
				return nil, ierr
			}
			changes = append(changes, LinkChange{OccurredAt: now, DocumentURL: documentURL, Href: href, ChangeType: "removed"})
		}
	}

	for _, c := range changes {
		if c.ChangeType == "removed" {
			continue
		}
		_, ierr := tx.ExecContext(ctx, `INSERT INTO link_changes(occurred_at, document_url, href, change_type) VALUES(CURRENT_TIMESTAMP, ?, ?, ?)`, c.DocumentURL, c.Href, c.ChangeType)
		if ierr != nil {
			return nil, ierr
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return changes, nil
}

// ListOptions controls selection when listing entries.
type ListOptions struct {
	DocumentFilter string
	OnlyProblems   bool
	Since          time.Time
}

// ListEntries returns current entries matching filters.
func (d *DB) ListEntries(ctx context.Context, opts ListOptions) ([]LinkEntry, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	if opts.DocumentFilter != "" {
		where += " AND document_url LIKE ?"
		args = append(args, fmt.Sprintf("%%%s%%", opts.DocumentFilter))
	}
	if opts.OnlyProblems {
		where += " AND valid = 0"
	}
	if !opts.Since.IsZero() {
		where += " AND last_seen_at >= ?"
		args = append(args, opts.Since.UTC())
	}

	q := "SELECT document_url, href, original_url, version_date, snapshot_count, is_archived, valid, problem FROM link_entries " + where + " ORDER BY document_url, href"
	rows, err := d.sql.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LinkEntry
	for rows.Next() {
		var e LinkEntry
		var isArchivedInt, validInt int
		var problemNS sql.NullString
		if err := rows.Scan(&e.DocumentURL, &e.Href, &e.OriginalURL, &e.VersionDate, &e.SnapshotCount, &isArchivedInt, &validInt, &problemNS); err != nil {
			return nil, err
		}
		e.IsArchived = isArchivedInt == 1
		e.Valid = validInt == 1
		e.Problem = problemNS.String
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListDocuments returns the distinct document URLs present in the inventory.
func (d *DB) ListDocuments(ctx context.Context) ([]string, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT DISTINCT document_url FROM link_entries ORDER BY document_url")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListRecentChanges returns the most recent N changes across all documents.
func (d *DB) ListRecentChanges(ctx context.Context, limit int) ([]LinkChange, error) {
	if limit <= 0 {
		limit = 50
	}
	q := "SELECT occurred_at, document_url, href, change_type FROM link_changes ORDER BY occurred_at DESC, id DESC LIMIT ?"
	rows, err := d.sql.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	changes := []LinkChange{}
	for rows.Next() {
		var c LinkChange
		var occurredAtStr string
		if err := rows.Scan(&occurredAtStr, &c.DocumentURL, &c.Href, &c.ChangeType); err != nil {
			return nil, err
		}
		// Parse SQLite CURRENT_TIMESTAMP format, then RFC3339.
		if t, perr := time.Parse("2006-01-02 15:04:05", occurredAtStr); perr == nil {
			c.OccurredAt = t
		} else if t2, perr2 := time.Parse(time.RFC3339, occurredAtStr); perr2 == nil {
			c.OccurredAt = t2
		} else {
			c.OccurredAt = time.Time{}
		}
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return changes, nil
}

// GetStats aggregates the inventory by the root domain of each href.
// Grouping happens in code because root-domain extraction needs the public
// suffix list, not SQL.
func (d *DB) GetStats(ctx context.Context) ([]DomainStats, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT href, is_archived, valid FROM link_entries")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byDomain := make(map[string]*DomainStats)
	for rows.Next() {
		var href string
		var isArchivedInt, validInt int
		if err := rows.Scan(&href, &isArchivedInt, &validInt); err != nil {
			return nil, err
		}

		domain, ok := RootDomain(href)
		if !ok {
			domain = "(unknown)"
		}
		s, exists := byDomain[domain]
		if !exists {
			s = &DomainStats{RootDomain: domain}
			byDomain[domain] = s
		}
		s.LinkCount++
		if validInt == 1 {
			s.ValidCount++
		}
		if isArchivedInt == 1 {
			s.ArchivedCount++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	domains := make([]string, 0, len(byDomain))
	for domain := range byDomain {
		domains = append(domains, domain)
	}
	sort.Strings(domains)

	stats := make([]DomainStats, 0, len(domains))
	for _, domain := range domains {
		stats = append(stats, *byDomain[domain])
	}
	return stats, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
