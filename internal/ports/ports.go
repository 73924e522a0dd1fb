package ports

import (
	"context"
	"errors"
	"time"

	"NewsRadar/internal/domain"
)

// FetchRequest describes one page load: where to navigate, how long to let
// the page settle, and how many scroll-and-wait rounds to run for lazily
// loaded result lists.
type FetchRequest struct {
	URL         string
	SettleDelay time.Duration
	Scrolls     int
	ScrollDelay time.Duration
}

// Fetcher loads a search-results page and returns its rendered markup.
type Fetcher interface {
	Fetch(ctx context.Context, req FetchRequest) (string, error)
}

// Extractor turns raw page markup into ordered NewsRecords. A failure on one
// article must skip that article only; skipped articles come back as
// ExtractionErrors. The error return is reserved for markup that cannot be
// parsed as a document at all. The reference instant is injected so relative
// timestamp resolution stays deterministic.
type Extractor interface {
	Source() string
	Extract(markup string, reference time.Time) ([]domain.NewsRecord, []domain.ExtractionError, error)
}

// ErrWorksheetNotFound is returned by SheetStore.ReadAll when the named
// worksheet does not exist yet.
var ErrWorksheetNotFound = errors.New("worksheet not found")

// RangeUpdate pairs an A1-style range (without the worksheet prefix) with
// the values to write there.
type RangeUpdate struct {
	Range  string
	Values [][]string
}

// SheetStore is the persisted table behind dedup and classification.
// Worksheets are row-oriented, row 1 is the header, and growth is
// append-only from this system's point of view.
type SheetStore interface {
	ReadAll(ctx context.Context, worksheet string) ([][]string, error)
	CreateWorksheet(ctx context.Context, worksheet string, header []string) error
	AppendRows(ctx context.Context, worksheet string, rows [][]string) error
	UpdateRange(ctx context.Context, worksheet, rangeSpec string, values [][]string) error
	BatchGet(ctx context.Context, worksheet string, ranges []string) ([][][]string, error)
	BatchUpdate(ctx context.Context, worksheet string, updates []RangeUpdate) error
}

// Classifier is the generative backend. It returns unstructured text that
// callers must decode defensively.
type Classifier interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Notifier publishes the per-run summary to an outbound channel.
type Notifier interface {
	PublishSummary(ctx context.Context, text string) error
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
