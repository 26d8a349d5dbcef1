package scraper

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jusmonitor/process-tracker/internal/database"
)

// Scraper is a court-specific adapter. One implementation exists per
// supported court; the registry maps acronyms to constructors.
//
// A Scraper owns its HTTP session for the duration of a scrape unit of
// work and must be closed on every exit path.
type Scraper interface {
	// SearchProcess fetches and parses the status page of a case. Fields
	// missing from the markup are left at their zero value, never an error.
	SearchProcess(ctx context.Context, processNumber string) (*ProcessFields, error)

	// GetMovements returns the docketed events of a case in page order.
	GetMovements(ctx context.Context, processNumber string) ([]ExtractedMovement, error)

	// GetDocuments returns the filed documents of a case in page order.
	GetDocuments(ctx context.Context, processNumber string) ([]ExtractedDocument, error)

	// Close releases the adapter's HTTP session.
	Close()
}

// ProcessFields is a partial process record extracted from a status page.
type ProcessFields struct {
	ProcessNumber    string
	Subject          string
	ClassType        string
	Area             string
	DistributionDate *time.Time
	Judge            string
	CurrentLocation  string
	CaseValue        *decimal.Decimal

	Plaintiffs []database.Party
	Defendants []database.Party
	Lawyers    []database.Party

	RawHTML   string
	ScrapedAt time.Time
}

// ExtractedMovement is one docketed event as it appears in source markup.
// (Date, Description) is the dedup key used by reconciliation.
type ExtractedMovement struct {
	Date              time.Time
	MovementType      string
	Description       string
	ComplementaryInfo string
	Responsible       string
}

// ExtractedDocument is one filed document as it appears in source markup.
// The title is the dedup key used by reconciliation.
type ExtractedDocument struct {
	DocumentType string
	Title        string
	FilingDate   *time.Time
	FileURL      string
	FileHash     string
	FileSize     int64
	IsPublic     bool
}
