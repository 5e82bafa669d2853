package lawharvest

import "context"

// Scraper harvests one document type.
type Scraper[T any] interface {
	// Scrape collects up to limit records. Items that fail are skipped;
	// the run fails with ENORESULTS only when no record was produced.
	Scrape(ctx context.Context, limit int) ([]*T, error)

	// Save writes records to path and indexes them.
	Save(ctx context.Context, records []*T, path string) error
}

// RecordWriter serializes records to files.
type RecordWriter interface {
	// WriteCases writes case records as CSV.
	WriteCases(path string, cases []*CaseRecord) error

	// WriteJSON writes v as indented JSON.
	WriteJSON(path string, v any) error
}
