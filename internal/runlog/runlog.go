// Package runlog keeps an append-only audit trail of ingest runs, one
// CSV row per file processed, so reloads can be traced after the fact.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry is one row in the ingest log.
type Entry struct {
	Timestamp  time.Time
	RunID      string // shared by every file in one load
	File       string
	AccountID  string
	Parsed     int
	Skipped    int
	Duplicates int
	Status     string
	Detail     string // error text for failed files
}

// Statuses recorded per file.
const (
	StatusLoaded    = "loaded"
	StatusUnchanged = "unchanged" // checksum matched a previous load
	StatusFailed    = "failed"
)

// Header is the CSV header for ingest-log.csv.
const Header = "timestamp,run_id,file,account,parsed,skipped,duplicates,status,detail"

const (
	numFields     = 9
	logDir        = "logs"
	logFile       = "logs/ingest-log.csv"
	colTimestamp  = 0
	colRunID      = 1
	colFile       = 2
	colAccount    = 3
	colParsed     = 4
	colSkipped    = 5
	colDuplicates = 6
	colStatus     = 7
	colDetail     = 8
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colFile] = e.File
	row[colAccount] = e.AccountID
	row[colParsed] = strconv.Itoa(e.Parsed)
	row[colSkipped] = strconv.Itoa(e.Skipped)
	row[colDuplicates] = strconv.Itoa(e.Duplicates)
	row[colStatus] = e.Status
	row[colDetail] = e.Detail
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	parsed, err := strconv.Atoi(record[colParsed])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing parsed count %q: %w", record[colParsed], err)
	}
	skipped, err := strconv.Atoi(record[colSkipped])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing skipped count %q: %w", record[colSkipped], err)
	}
	duplicates, err := strconv.Atoi(record[colDuplicates])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing duplicate count %q: %w", record[colDuplicates], err)
	}

	return Entry{
		Timestamp:  ts,
		RunID:      record[colRunID],
		File:       record[colFile],
		AccountID:  record[colAccount],
		Parsed:     parsed,
		Skipped:    skipped,
		Duplicates: duplicates,
		Status:     record[colStatus],
		Detail:     record[colDetail],
	}, nil
}

// Append writes entries to <dataDir>/logs/ingest-log.csv, creating the
// file and header if needed.
func Append(dataDir string, entries []Entry) error {
	dir := filepath.Join(dataDir, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(dataDir, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening ingest log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <dataDir>/logs/ingest-log.csv.
// Returns an empty slice if the file does not exist.
func Read(dataDir string) ([]Entry, error) {
	path := filepath.Join(dataDir, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening ingest log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ingest log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
