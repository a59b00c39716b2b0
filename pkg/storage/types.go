package storage

import "time"

// LinkEntry is one audited anchor from a scanned document.
type LinkEntry struct {
	// Document info
	DocumentURL string

	// Link info
	Href          string
	OriginalURL   string
	VersionDate   string // date-only write-back form
	SnapshotCount int
	IsArchived    bool // href already points into a known archive
	Valid         bool
	Problem       string // assembly error text when Valid is false
}

// LinkChange captures a single change event for auditing or printing.
type LinkChange struct {
	OccurredAt time.Time

	DocumentURL string
	Href        string
	ChangeType  string // added | updated | removed
}

// DomainStats aggregates audited links by the root domain of their href.
type DomainStats struct {
	RootDomain    string
	LinkCount     int
	ValidCount    int
	ArchivedCount int
}
