package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scan lists the CSV statement files directly under dir, sorted by
// name. The sorted order fixes the ledger's insertion order, so
// repeated loads of the same directory assign the same row IDs.
func Scan(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading statement dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		files = append(files, entry.Name())
	}
	return files, nil
}
