package lawharvest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// DocumentType tags records in the index.
type DocumentType string

// DocumentType constants.
const (
	DocumentTypeCaseLaw      DocumentType = "case_law"
	DocumentTypeCaseAnalysis DocumentType = "case_analysis"
	DocumentTypeLegislation  DocumentType = "legislation"
)

// Identifiable is a record with identifying fields in priority order.
type Identifiable interface {
	IdentityFields() []string
}

// DocumentID derives a stable index key from a record's identifying fields.
// Records with no identifying field are keyed by a hash of their JSON form.
func DocumentID(rec Identifiable) (string, error) {
	var parts []string
	for _, f := range rec.IdentityFields() {
		if f != "" {
			parts = append(parts, f)
		}
	}
	if len(parts) > 0 {
		sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
		return hex.EncodeToString(sum[:])[:16], nil
	}

	b, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(b)), nil
}

// RecordIndex stores records in a searchable index.
type RecordIndex interface {
	// EnsureIndex creates the index if it does not exist.
	EnsureIndex(ctx context.Context) error

	// IndexRecord stores rec under DocumentID(rec), tagged with docType.
	// Re-indexing the same record replaces it.
	IndexRecord(ctx context.Context, docType DocumentType, rec Identifiable) error

	// DeleteIndex removes the index and everything in it.
	// Deleting a missing index is not an error.
	DeleteIndex(ctx context.Context) error
}

// IndexBody encodes rec as a JSON object with document_type added.
// The record itself is left untouched.
func IndexBody(docType DocumentType, rec Identifiable) ([]byte, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	var body map[string]any
	if err := json.Unmarshal(b, &body); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	body["document_type"] = docType
	return json.Marshal(body)
}
