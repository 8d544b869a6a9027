package commands

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/khata-dev/khata/internal/model"
	"github.com/khata-dev/khata/internal/normalize"
	"github.com/khata-dev/khata/internal/transfer"
)

func newTransfersCommand() *cobra.Command {
	var dir string
	var patterns bool

	cmd := &cobra.Command{
		Use:   "transfers",
		Short: "Match transfer legs between accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			if patterns {
				return runTransferPatterns(absDir)
			}
			return runTransfers(absDir)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "ledger directory")
	cmd.Flags().BoolVar(&patterns, "patterns", false, "summarize transfer methods in narrations instead of matching")

	return cmd
}

func runTransfers(dir string) error {
	cfg, store, err := openLedger(dir)
	if err != nil {
		return err
	}
	defer store.Close()

	tol, err := cfg.Matcher.ToleranceAmount()
	if err != nil {
		return err
	}

	txns, err := store.AllTransactions()
	if err != nil {
		return err
	}

	matcher := transfer.NewMatcher(transfer.Config{
		WindowDays: cfg.Matcher.WindowDays,
		Tolerance:  tol,
	})
	links := matcher.Match(txns)
	if err := store.ReplaceTransferLinks(links); err != nil {
		return err
	}

	if len(links) == 0 {
		fmt.Println("No transfers matched.")
		return nil
	}

	// Read back so the listing comes out in date order.
	stored, err := store.TransferLinks()
	if err != nil {
		return err
	}
	exact := 0
	for _, l := range stored {
		fmt.Printf("  %s  %s -> %s  %s  ",
			l.DebitDate.Format("2006-01-02"), l.DebitAccount, l.CreditAccount,
			normalize.FormatIndianCurrency(l.Amount))
		if l.Confidence == model.ConfidenceExact {
			exact++
			color.New(color.FgGreen).Println("exact")
		} else {
			color.New(color.FgYellow).Printf("windowed (%dd apart)\n", l.DateDeltaDays)
		}
	}
	fmt.Printf("%d transfers matched: %d exact, %d windowed\n", len(stored), exact, len(stored)-exact)
	return nil
}

func runTransferPatterns(dir string) error {
	_, store, err := openLedger(dir)
	if err != nil {
		return err
	}
	defer store.Close()

	txns, err := store.AllTransactions()
	if err != nil {
		return err
	}

	summaries := transfer.SummarizeMethods(txns)
	if len(summaries) == 0 {
		fmt.Println("No transfer narrations found.")
		return nil
	}

	for _, s := range summaries {
		fmt.Printf("  %-20s %4d  %s\n", s.Method, s.Count, normalize.FormatIndianCurrency(s.Total))
	}
	return nil
}
