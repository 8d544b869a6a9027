package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khata-dev/khata/internal/ledger"
	"github.com/khata-dev/khata/internal/runlog"
)

const priyaExport = `Date,Narration,Withdrawal Amt.,Deposit Amt.,Closing Balance
15-03-2024,IMPS-P2A-415233-ARUN,5000.00,,"19,550.00"
16-03-2024,UPI-SWIGGY,450.00,,"19,100.00"
`

const arunExport = `Txn Date,Description,Debit,Credit,Balance
15-03-2024,IMPS FROM PRIYA,,5000.00,"5,900.00"
`

func writeStatements(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestSession_LoadDir(t *testing.T) {
	dir := writeStatements(t, map[string]string{
		"Priya_HDFC.csv": priyaExport,
		"Arun_SBI.csv":   arunExport,
		"export.csv":     priyaExport, // name identifies no account
	})
	store := ledger.NewMemoryStore()
	s := NewSession(store, zerolog.Nop(), 2)

	summary, err := s.LoadDir(dir)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Files)
	assert.Equal(t, 2, summary.Loaded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 3, summary.Inserted)
	assert.Zero(t, summary.Duplicates)
	assert.NotEmpty(t, summary.RunID)

	all, err := store.AllTransactions()
	require.NoError(t, err)
	assert.Len(t, all, 3)

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Arun_SBI.csv", entries[0].File, "entries follow file-name order")
	assert.Equal(t, runlog.StatusLoaded, entries[0].Status)
	assert.Equal(t, runlog.StatusLoaded, entries[1].Status)
	assert.Equal(t, runlog.StatusFailed, entries[2].Status)
	assert.Contains(t, entries[2].Detail, "Owner_Bank.csv")
	for _, e := range entries {
		assert.Equal(t, summary.RunID, e.RunID)
	}
}

func TestSession_DeterministicRowIDs(t *testing.T) {
	files := map[string]string{
		"Priya_HDFC.csv": priyaExport,
		"Arun_SBI.csv":   arunExport,
	}

	dirA := writeStatements(t, files)
	storeA := ledger.NewMemoryStore()
	_, err := NewSession(storeA, zerolog.Nop(), 4).LoadDir(dirA)
	require.NoError(t, err)

	dirB := writeStatements(t, files)
	storeB := ledger.NewMemoryStore()
	_, err = NewSession(storeB, zerolog.Nop(), 1).LoadDir(dirB)
	require.NoError(t, err)

	allA, err := storeA.AllTransactions()
	require.NoError(t, err)
	allB, err := storeB.AllTransactions()
	require.NoError(t, err)
	assert.Equal(t, allA, allB, "row IDs must not depend on worker count")

	// Arun_SBI.csv sorts first, so its row gets ID 1.
	assert.Equal(t, "Arun_SBI", allA[0].AccountID)
	assert.Equal(t, int64(1), allA[0].ID)
}

func TestSession_ReloadSuppressesDuplicates(t *testing.T) {
	files := map[string]string{
		"Priya_HDFC.csv": priyaExport,
		"Arun_SBI.csv":   arunExport,
	}
	dir := writeStatements(t, files)
	store := ledger.NewMemoryStore()

	_, err := NewSession(store, zerolog.Nop(), 2).LoadDir(dir)
	require.NoError(t, err)

	// A fresh session (empty cache) re-parses everything; the dedupe
	// keeps the ledger unchanged.
	summary, err := NewSession(store, zerolog.Nop(), 2).LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Loaded)
	assert.Zero(t, summary.Inserted)
	assert.Equal(t, 3, summary.Duplicates)

	all, err := store.AllTransactions()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSession_SecondLoadHitsCache(t *testing.T) {
	dir := writeStatements(t, map[string]string{"Priya_HDFC.csv": priyaExport})
	store := ledger.NewMemoryStore()
	s := NewSession(store, zerolog.Nop(), 2)

	_, err := s.LoadDir(dir)
	require.NoError(t, err)

	summary, err := s.LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Unchanged)
	assert.Zero(t, summary.Loaded)

	// Changing the file busts the cache entry.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Priya_HDFC.csv"),
		[]byte(priyaExport+`17-03-2024,UPI-ZOMATO,250.00,,"18,850.00"`+"\n"), 0o644))
	summary, err = s.LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Loaded)
	assert.Equal(t, 1, summary.Inserted)
	assert.Equal(t, 2, summary.Duplicates)
}

func TestSession_UnparseableFileIsolated(t *testing.T) {
	dir := writeStatements(t, map[string]string{
		"Priya_HDFC.csv": "Date,Narration,Debit,Credit\nsomeday,STUFF,100.00,\n",
		"Arun_SBI.csv":   arunExport,
	})
	store := ledger.NewMemoryStore()

	summary, err := NewSession(store, zerolog.Nop(), 2).LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Loaded)
	assert.Equal(t, 1, summary.Failed)

	all, err := store.AllTransactions()
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, "Arun_SBI", all[0].AccountID)
}

func TestSession_RowFailuresCounted(t *testing.T) {
	dir := writeStatements(t, map[string]string{
		"Priya_HDFC.csv": priyaExport + "someday,BAD DATE,1.00,\n",
	})
	store := ledger.NewMemoryStore()

	summary, err := NewSession(store, zerolog.Nop(), 1).LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Inserted)
	assert.Equal(t, 1, summary.Skipped)
}

func TestSession_EmptyDir(t *testing.T) {
	dir := t.TempDir()
	summary, err := NewSession(ledger.NewMemoryStore(), zerolog.Nop(), 2).LoadDir(dir)
	require.NoError(t, err)
	assert.Zero(t, summary.Files)
}
