package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/khata-dev/khata/internal/config"
	"github.com/khata-dev/khata/internal/gitops"
)

func newInitCommand() *cobra.Command {
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a khata ledger directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, noGit)
		},
	}

	cmd.Flags().BoolVar(&noGit, "no-git", false, "skip versioning the statement archive with git")

	return cmd
}

func runInit(dir string, noGit bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists in %s", config.FileName, dir)
	}

	cfg := config.Default()
	if noGit {
		cfg.Git.AutoCommit = false
	}

	// Create the statement archive.
	if err := os.MkdirAll(filepath.Join(dir, cfg.DataDir), 0o755); err != nil {
		return fmt.Errorf("creating statements directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, cfg.DataDir, ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	// Write khata.yaml.
	if err := config.Save(cfgPath, cfg); err != nil {
		return err
	}

	// The database and the ingest log are derived, so keep them out of git.
	gitignore := cfg.Database + "\n" + cfg.DataDir + "/logs/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if noGit {
		fmt.Printf("Initialized khata ledger at %s\n", dir)
	} else {
		if err := gitops.Init(dir); err != nil {
			return fmt.Errorf("git init: %w", err)
		}
		hash, err := gitops.Commit(dir, "khata: initialize ledger")
		if err != nil {
			return fmt.Errorf("initial commit: %w", err)
		}
		color.New(color.FgGreen).Printf("Initialized khata ledger at %s (%s)\n", dir, hash)
	}

	fmt.Printf("Drop bank exports named Owner_Bank.csv into %s and run khata load.\n", filepath.Join(dir, cfg.DataDir))
	return nil
}
