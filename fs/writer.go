// Package fs writes harvested records to bulk files in the output directory.
package fs

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/lawharvest"
)

// CaseColumns is the header of the cases CSV file.
var CaseColumns = []string{"case_name", "citation", "court", "judgment_date", "judges", "source_url", "scraped_at"}

// JudgesSeparator joins judge names in a CSV cell.
const JudgesSeparator = "; "

var _ lawharvest.RecordWriter = (*Writer)(nil)

// Writer writes bulk files. Each file is written to a temporary name
// and renamed into place, so a failed write never leaves a partial file.
type Writer struct{}

// NewWriter returns a Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteCases writes cases as CSV with CaseColumns.
func (w *Writer) WriteCases(path string, cases []*lawharvest.CaseRecord) error {
	return writeAtomic(path, func(out io.Writer) error {
		cw := csv.NewWriter(out)
		if err := cw.Write(CaseColumns); err != nil {
			return err
		}
		for _, c := range cases {
			if err := cw.Write(CaseRow(c)); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// CaseRow returns the CSV cells of c in CaseColumns order.
func CaseRow(c *lawharvest.CaseRecord) []string {
	var scrapedAt string
	if !c.ScrapedAt.IsZero() {
		scrapedAt = c.ScrapedAt.Format(time.RFC3339)
	}
	return []string{
		c.CaseName,
		c.Citation,
		c.Court,
		c.JudgmentDate.String(),
		strings.Join(c.Judges, JudgesSeparator),
		c.SourceURL,
		scrapedAt,
	}
}

// WriteJSON writes v as indented JSON.
func (w *Writer) WriteJSON(path string, v any) error {
	return writeAtomic(path, func(out io.Writer) error {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	})
}

func writeAtomic(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
