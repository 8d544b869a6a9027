package ingest

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/khata-dev/khata/internal/ledger"
	"github.com/khata-dev/khata/internal/runlog"
)

// Cache remembers what a session already ingested, keyed by file name
// and content checksum. A later load of unchanged bytes inside the
// same session is skipped outright; changed files still go through the
// ledger's dedupe. Lifetime is one Session.
type Cache struct {
	mu   sync.Mutex
	seen map[string]string // file name -> content checksum
}

func NewCache() *Cache {
	return &Cache{seen: make(map[string]string)}
}

// Unchanged records raw's checksum under name and reports whether the
// same bytes were already ingested in this session.
func (c *Cache) Unchanged(name string, raw []byte) bool {
	sum := fmt.Sprintf("%x", sha256.Sum256(raw))

	c.mu.Lock()
	defer c.mu.Unlock()
	prev, ok := c.seen[name]
	c.seen[name] = sum
	return ok && prev == sum
}

// Session ingests statement directories into the ledger store. Files
// parse on a bounded worker pool; all writes happen on the calling
// goroutine in file-name order, which keeps natural-key uniqueness and
// row IDs stable without per-account locks.
type Session struct {
	store   ledger.Store
	log     zerolog.Logger
	cache   *Cache
	workers int
}

// NewSession wires a session to a store. workers bounds how many files
// parse at once; values below one mean one.
func NewSession(store ledger.Store, log zerolog.Logger, workers int) *Session {
	if workers < 1 {
		workers = 1
	}
	return &Session{store: store, log: log, cache: NewCache(), workers: workers}
}

// Summary reports one directory load.
type Summary struct {
	RunID      string
	Files      int
	Loaded     int
	Unchanged  int
	Failed     int
	Inserted   int // rows written to the ledger
	Skipped    int // rows that failed normalization
	Duplicates int // rows suppressed by dedupe
	Entries    []runlog.Entry
}

type fileResult struct {
	name      string
	stmt      Statement
	err       error
	unchanged bool
}

// LoadDir ingests every CSV statement under dir. File failures are
// isolated: each is logged and recorded, and the rest of the batch
// continues. Only store failures abort the load. The per-file outcomes
// are appended to the ingest log under dir.
func (s *Session) LoadDir(dir string) (Summary, error) {
	files, err := Scan(dir)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{RunID: uuid.NewString(), Files: len(files)}
	s.log.Info().Str("run", summary.RunID).Int("files", len(files)).Str("dir", dir).Msg("ingest starting")

	results := make([]fileResult, len(files))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = s.parseFile(dir, files[i])
			}
		}()
	}
	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, res := range results {
		entry, err := s.persist(res, summary.RunID)
		if err != nil {
			return Summary{}, err
		}
		summary.Entries = append(summary.Entries, entry)
		switch entry.Status {
		case runlog.StatusLoaded:
			summary.Loaded++
			summary.Inserted += entry.Parsed - entry.Duplicates
			summary.Skipped += entry.Skipped
			summary.Duplicates += entry.Duplicates
		case runlog.StatusUnchanged:
			summary.Unchanged++
		case runlog.StatusFailed:
			summary.Failed++
		}
	}

	if err := runlog.Append(dir, summary.Entries); err != nil {
		return Summary{}, err
	}
	s.log.Info().Str("run", summary.RunID).
		Int("loaded", summary.Loaded).Int("failed", summary.Failed).
		Int("inserted", summary.Inserted).Int("duplicates", summary.Duplicates).
		Msg("ingest finished")
	return summary, nil
}

func (s *Session) parseFile(dir, name string) fileResult {
	raw, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return fileResult{name: name, err: fmt.Errorf("reading %s: %w", name, err)}
	}
	if s.cache.Unchanged(name, raw) {
		return fileResult{name: name, unchanged: true}
	}

	stmt, err := ParseStatement(name, raw)
	if err != nil {
		return fileResult{name: name, err: err}
	}
	return fileResult{name: name, stmt: stmt}
}

// persist writes one parse result to the store and builds its log
// entry. Store errors propagate; file errors become failed entries.
func (s *Session) persist(res fileResult, runID string) (runlog.Entry, error) {
	entry := runlog.Entry{
		Timestamp: time.Now().UTC(),
		RunID:     runID,
		File:      res.name,
	}
	if account, err := accountForName(res.name); err == nil {
		entry.AccountID = account.ID
	}

	switch {
	case res.unchanged:
		entry.Status = runlog.StatusUnchanged
		s.log.Debug().Str("file", res.name).Msg("unchanged since last load")
		return entry, nil
	case res.err != nil:
		entry.Status = runlog.StatusFailed
		entry.Detail = res.err.Error()
		s.log.Warn().Str("file", res.name).Err(res.err).Msg("statement rejected")
		return entry, nil
	}

	stmt := res.stmt
	for _, warning := range stmt.Warnings {
		s.log.Warn().Str("file", res.name).Msg(warning)
	}

	known, err := s.store.KnownKeys(stmt.Account.ID)
	if err != nil {
		return runlog.Entry{}, fmt.Errorf("reading known keys for %s: %w", stmt.Account.ID, err)
	}
	fresh, suppressed := ledger.Dedupe(stmt.Transactions, known)
	if err := s.store.InsertTransactions(fresh); err != nil {
		return runlog.Entry{}, fmt.Errorf("inserting rows for %s: %w", stmt.Account.ID, err)
	}

	entry.Status = runlog.StatusLoaded
	entry.AccountID = stmt.Account.ID
	entry.Parsed = stmt.Stats.Parsed
	entry.Skipped = stmt.Stats.Skipped
	entry.Duplicates = suppressed
	s.log.Info().Str("file", res.name).Str("account", stmt.Account.ID).
		Str("encoding", stmt.Encoding).
		Int("inserted", len(fresh)).Int("skipped", stmt.Stats.Skipped).Int("duplicates", suppressed).
		Msg("statement loaded")
	return entry, nil
}
