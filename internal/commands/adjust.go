package commands

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/khata-dev/khata/internal/model"
	"github.com/khata-dev/khata/internal/normalize"
	"github.com/khata-dev/khata/internal/sweep"
)

func newAdjustCommand() *cobra.Command {
	adjustCmd := &cobra.Command{
		Use:   "adjust",
		Short: "Record sweep adjustments",
		Long: "Record balance corrections for money a bank swept into linked deposits,\n" +
			"so effective balances reflect what the account actually holds.",
	}
	adjustCmd.AddCommand(newAdjustAddCommand())
	adjustCmd.AddCommand(newAdjustListCommand())
	adjustCmd.AddCommand(newAdjustRemoveCommand())
	return adjustCmd
}

func newAdjustAddCommand() *cobra.Command {
	var dir string
	var dateStr string
	var amountStr string
	var note string

	cmd := &cobra.Command{
		Use:   "add <account>",
		Short: "Add a sweep adjustment for an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runAdjustAdd(absDir, args[0], dateStr, amountStr, note)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "ledger directory")
	cmd.Flags().StringVar(&dateStr, "date", "", "effective date, YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("date")
	cmd.Flags().StringVar(&amountStr, "amount", "", "signed delta, negative for money swept out (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&note, "note", "", "what this adjustment records")

	return cmd
}

func runAdjustAdd(dir, accountID, dateStr, amountStr, note string) error {
	day, err := parseDay(dateStr)
	if err != nil {
		return err
	}
	delta, err := decimal.NewFromString(amountStr)
	if err != nil {
		return fmt.Errorf("parsing amount %q: %w", amountStr, err)
	}

	adj, err := sweep.New(accountID, day, delta, note)
	if err != nil {
		return err
	}

	_, store, err := openLedger(dir)
	if err != nil {
		return err
	}
	defer store.Close()

	adjID, err := store.AddAdjustment(adj)
	if err != nil {
		return err
	}

	color.New(color.FgGreen).Printf("Recorded adjustment %d", adjID)
	fmt.Printf(": %s %s effective %s\n", accountID, normalize.FormatIndianCurrency(delta), day.Format("2006-01-02"))
	return nil
}

func newAdjustListCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "list [account]",
		Short: "List sweep adjustments",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			accountID := ""
			if len(args) > 0 {
				accountID = args[0]
			}
			return runAdjustList(absDir, accountID)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "ledger directory")

	return cmd
}

func runAdjustList(dir, accountID string) error {
	_, store, err := openLedger(dir)
	if err != nil {
		return err
	}
	defer store.Close()

	var adjs []model.SweepAdjustment
	if accountID == "" {
		adjs, err = store.AllAdjustments()
	} else {
		adjs, err = store.AdjustmentsByAccount(accountID)
	}
	if err != nil {
		return err
	}
	if len(adjs) == 0 {
		fmt.Println("No adjustments recorded.")
		return nil
	}

	for _, a := range adjs {
		fmt.Printf("  %4d  %s  %-20s %12s  %s\n",
			a.ID, a.EffectiveDate.Format("2006-01-02"), a.AccountID,
			normalize.FormatIndianCurrency(a.Delta), a.Note)
	}
	return nil
}

func newAdjustRemoveCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a sweep adjustment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			adjID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("parsing adjustment id %q: %w", args[0], err)
			}
			return runAdjustRemove(absDir, adjID)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "ledger directory")

	return cmd
}

func runAdjustRemove(dir string, adjID int64) error {
	_, store, err := openLedger(dir)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.RemoveAdjustment(adjID); err != nil {
		return err
	}
	fmt.Printf("Removed adjustment %d\n", adjID)
	return nil
}
