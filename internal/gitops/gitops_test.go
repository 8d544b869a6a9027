package gitops

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	dir := t.TempDir()
	err := Init(dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git directory should exist")
}

func TestIsRepo(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, IsRepo(dir), "empty dir should not be a repo")

	require.NoError(t, Init(dir))
	assert.True(t, IsRepo(dir), "initialized dir should be a repo")
}

func TestCommit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Priya_HDFC.csv"), []byte("Date,Narration\n"), 0o644))

	hash, err := Commit(dir, "khata: load 1 statement")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	log := exec.Command("git", "log", "--format=%s", "-1")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "khata: load 1 statement")
}

func TestCommit_CleanWorktree(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "khata.yaml"), []byte("data_dir: statements\n"), 0o644))
	_, err := Commit(dir, "khata: initialize ledger")
	require.NoError(t, err)

	// Nothing changed since the last commit.
	hash, err := Commit(dir, "khata: load 0 statements")
	require.NoError(t, err)
	assert.Empty(t, hash, "clean worktree should not create a commit")
}
