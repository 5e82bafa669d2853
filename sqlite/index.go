package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/lawharvest"
)

var _ lawharvest.RecordIndex = (*Index)(nil)

// Index stores records as JSON documents in the records table.
type Index struct {
	db  *DB
	Now func() time.Time
}

// NewIndex returns an Index over db.
func NewIndex(db *DB) *Index {
	return &Index{db: db, Now: time.Now}
}

// EnsureIndex creates the records table if it does not exist.
func (i *Index) EnsureIndex(ctx context.Context) error {
	_, err := i.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS records (
			id TEXT PRIMARY KEY,
			document_type TEXT NOT NULL,
			source_url TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL,
			indexed_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_records_document_type ON records(document_type);
	`)
	if err != nil {
		return fmt.Errorf("create records table: %w", err)
	}
	return nil
}

// IndexRecord upserts rec under its DocumentID.
func (i *Index) IndexRecord(ctx context.Context, docType lawharvest.DocumentType, rec lawharvest.Identifiable) error {
	id, err := lawharvest.DocumentID(rec)
	if err != nil {
		return err
	}
	body, err := lawharvest.IndexBody(docType, rec)
	if err != nil {
		return err
	}

	_, err = i.db.ExecContext(ctx, `
		INSERT INTO records (id, document_type, source_url, body, indexed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_type = excluded.document_type,
			source_url = excluded.source_url,
			body = excluded.body,
			indexed_at = excluded.indexed_at
	`, id, string(docType), sourceURL(rec), string(body), i.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("index record %s: %w", id, err)
	}
	return nil
}

// DeleteIndex drops the records table.
func (i *Index) DeleteIndex(ctx context.Context) error {
	if _, err := i.db.ExecContext(ctx, `DROP TABLE IF EXISTS records`); err != nil {
		return fmt.Errorf("drop records table: %w", err)
	}
	return nil
}

// Count returns the number of indexed records of docType, or of every
// type when docType is empty.
func (i *Index) Count(ctx context.Context, docType lawharvest.DocumentType) (int, error) {
	query := `SELECT COUNT(*) FROM records`
	var args []any
	if docType != "" {
		query += ` WHERE document_type = ?`
		args = append(args, string(docType))
	}

	var n int
	if err := i.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		if isMissingTable(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// Body returns the indexed JSON body stored under id.
func (i *Index) Body(ctx context.Context, id string) (string, error) {
	var body string
	err := i.db.QueryRowContext(ctx, `SELECT body FROM records WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", lawharvest.Errorf(lawharvest.ENOTFOUND, "record %s not found", id)
	}
	if err != nil {
		if isMissingTable(err) {
			return "", lawharvest.Errorf(lawharvest.ENOTFOUND, "record %s not found", id)
		}
		return "", fmt.Errorf("read record: %w", err)
	}
	return body, nil
}

func sourceURL(rec lawharvest.Identifiable) string {
	switch r := rec.(type) {
	case *lawharvest.CaseRecord:
		return r.SourceURL
	case *lawharvest.ActRecord:
		return r.SourceURL
	}
	return ""
}

func isMissingTable(err error) bool {
	return strings.Contains(err.Error(), "no such table")
}
