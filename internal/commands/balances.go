package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/khata-dev/khata/internal/ledger"
	"github.com/khata-dev/khata/internal/normalize"
)

func newBalancesCommand() *cobra.Command {
	var dir string
	var asOfStr string

	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Show effective balances per account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			asOf := time.Now()
			if asOfStr != "" {
				asOf, err = parseDay(asOfStr)
				if err != nil {
					return err
				}
			}

			return runBalances(absDir, asOf)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "ledger directory")
	cmd.Flags().StringVar(&asOfStr, "as-of", "", "balance date, YYYY-MM-DD (default today)")

	return cmd
}

func runBalances(dir string, asOf time.Time) error {
	_, store, err := openLedger(dir)
	if err != nil {
		return err
	}
	defer store.Close()

	balances, err := ledger.Balances(store, asOf)
	if err != nil {
		return err
	}
	if len(balances) == 0 {
		fmt.Println("Ledger is empty.")
		return nil
	}

	for _, b := range balances {
		color.New(color.Bold).Printf("%s", b.Account.ID)
		fmt.Printf(" (%s at %s)\n", b.Account.Owner, b.Account.Bank)

		if b.Reported.Valid {
			fmt.Printf("  reported   %s as of %s\n",
				normalize.FormatIndianCurrency(b.Reported.Decimal), b.AsOf.Format("2006-01-02"))
		} else {
			fmt.Println("  reported   none (statements carry no balance)")
		}
		if !b.Adjustment.IsZero() {
			fmt.Printf("  sweep      %s\n", normalize.FormatIndianCurrency(b.Adjustment))
			if b.Effective.Valid {
				fmt.Printf("  effective  %s\n", normalize.FormatIndianCurrency(b.Effective.Decimal))
			}
		}
	}
	return nil
}
