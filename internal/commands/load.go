package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/khata-dev/khata/internal/gitops"
	"github.com/khata-dev/khata/internal/ingest"
	"github.com/khata-dev/khata/internal/logging"
	"github.com/khata-dev/khata/internal/runlog"
)

func newLoadCommand() *cobra.Command {
	var dir string
	var workers int

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load bank statement exports into the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runLoad(absDir, workers)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "ledger directory")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel statement parsers (default from khata.yaml)")

	return cmd
}

func runLoad(dir string, workers int) error {
	cfg, store, err := openLedger(dir)
	if err != nil {
		return err
	}
	defer store.Close()

	if workers <= 0 {
		workers = cfg.Ingest.Workers
	}
	log := logging.New(cfg.Logging.Level)

	session := ingest.NewSession(store, log, workers)
	summary, err := session.LoadDir(filepath.Join(dir, cfg.DataDir))
	if err != nil {
		return err
	}

	printLoadSummary(summary)

	if cfg.Git.AutoCommit && gitops.IsRepo(dir) && summary.Loaded > 0 {
		message := fmt.Sprintf("khata: load %d statements", summary.Loaded)
		if _, err := gitops.Commit(dir, message); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to commit statements: %v\n", err)
		}
	}

	return nil
}

func printLoadSummary(sum ingest.Summary) {
	if sum.Files == 0 {
		fmt.Println("No statements found.")
		return
	}

	for _, e := range sum.Entries {
		switch e.Status {
		case runlog.StatusLoaded:
			color.New(color.FgGreen).Printf("  loaded     %s", e.File)
			fmt.Printf("  %d parsed", e.Parsed)
			if e.Skipped > 0 {
				color.New(color.FgYellow).Printf(", %d skipped", e.Skipped)
			}
			if e.Duplicates > 0 {
				fmt.Printf(", %d duplicate", e.Duplicates)
			}
			fmt.Println()
		case runlog.StatusUnchanged:
			fmt.Printf("  unchanged  %s\n", e.File)
		case runlog.StatusFailed:
			color.New(color.FgRed).Printf("  failed     %s", e.File)
			fmt.Printf("  %s\n", e.Detail)
		}
	}

	fmt.Printf("%d files: %d loaded, %d unchanged, %d failed\n",
		sum.Files, sum.Loaded, sum.Unchanged, sum.Failed)
	fmt.Printf("%d rows inserted, %d duplicates suppressed, %d rows skipped\n",
		sum.Inserted, sum.Duplicates, sum.Skipped)
}
