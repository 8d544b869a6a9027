package commands

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/khata-dev/khata/internal/quality"
)

func newValidateCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check ledger data quality per account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runValidate(absDir)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "ledger directory")

	return cmd
}

func runValidate(dir string) error {
	_, store, err := openLedger(dir)
	if err != nil {
		return err
	}
	defer store.Close()

	txns, err := store.AllTransactions()
	if err != nil {
		return err
	}

	reports := quality.Assess(txns)
	if len(reports) == 0 {
		fmt.Println("Ledger is empty.")
		return nil
	}

	flagged := 0
	for _, r := range reports {
		if r.Clean() {
			color.New(color.FgGreen).Printf("  ok     %s", r.AccountID)
			fmt.Printf("  %d rows\n", r.Rows)
			continue
		}

		flagged++
		color.New(color.FgYellow).Printf("  check  %s", r.AccountID)
		fmt.Printf("  %d rows", r.Rows)
		if r.MissingBalance > 0 {
			fmt.Printf(", %d without balance", r.MissingBalance)
		}
		if r.DuplicateKeys > 0 {
			fmt.Printf(", %d duplicate keys", r.DuplicateKeys)
		}
		if r.SuspiciousJumps > 0 {
			fmt.Printf(", %d balance jumps", r.SuspiciousJumps)
		}
		fmt.Println()
	}

	if flagged > 0 {
		fmt.Printf("%d of %d accounts worth a look.\n", flagged, len(reports))
	}
	return nil
}
