// Package gitops versions the statement archive with plain git commands,
// so every load leaves an auditable history of the source files.
package gitops

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// committerArgs pin the committer identity so commits succeed on
// machines where git has no user configured.
var committerArgs = []string{"-c", "user.name=khata", "-c", "user.email=khata@localhost"}

// Init initializes a git repository at dir. Re-running it on an
// existing repository is harmless.
func Init(dir string) error {
	cmd := gitCommand(dir, "init", "-q")
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git init: %s: %w", strings.TrimSpace(string(out)), err)
	}
	return nil
}

// Commit stages everything under dir and records a commit, returning
// the short hash. A clean worktree is not an error; it returns an
// empty hash and records nothing.
func Commit(dir, message string) (string, error) {
	add := gitCommand(dir, "add", "-A")
	if out, err := add.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git add: %s: %w", strings.TrimSpace(string(out)), err)
	}

	status := gitCommand(dir, "status", "--porcelain")
	out, err := status.Output()
	if err != nil {
		return "", fmt.Errorf("git status: %w", err)
	}
	if len(strings.TrimSpace(string(out))) == 0 {
		return "", nil
	}

	commit := gitCommand(dir, "commit", "-q", "-m", message)
	if out, err := commit.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", strings.TrimSpace(string(out)), err)
	}

	rev := gitCommand(dir, "rev-parse", "--short", "HEAD")
	hash, err := rev.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(hash)), nil
}

// IsRepo reports whether dir has a git repository at its root.
func IsRepo(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}

func gitCommand(dir string, args ...string) *exec.Cmd {
	full := append(append([]string{}, committerArgs...), args...)
	cmd := exec.Command("git", full...)
	cmd.Dir = dir
	return cmd
}
