package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// OutputPatterns match the bulk files removed by Cleanup.
var OutputPatterns = []string{"*.csv", "*.json"}

// EnsureDir creates the output directory if it does not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}

// Cleanup removes the bulk files in dir and returns the removed paths.
// A missing directory has nothing to clean.
func Cleanup(dir string) ([]string, error) {
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	var removed []string
	for _, pattern := range OutputPatterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return removed, fmt.Errorf("match %s: %w", pattern, err)
		}
		for _, m := range matches {
			if err := os.Remove(m); err != nil {
				return removed, fmt.Errorf("remove %s: %w", m, err)
			}
			removed = append(removed, m)
		}
	}
	return removed, nil
}
