// Spike 1: probe an unfamiliar bank export before pointing khata at it.
//
// Feed it one CSV and it prints what the ingest pipeline makes of the
// file: decoded encoding, sniffed date layout, parse counts, and the
// first few normalized rows. Every new bank format starts here.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/khata-dev/khata/internal/ingest"
	"github.com/khata-dev/khata/internal/normalize"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: spike1 <Owner_Bank.csv>")
		os.Exit(2)
	}

	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	stmt, err := ingest.ParseStatement(filepath.Base(os.Args[1]), raw)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("account:  %s (%s at %s)\n", stmt.Account.ID, stmt.Account.Owner, stmt.Account.Bank)
	fmt.Printf("encoding: %s\n", stmt.Encoding)
	fmt.Printf("dates:    %s\n", stmt.DateLayout)
	fmt.Printf("rows:     %d data, %d parsed, %d skipped\n",
		stmt.Stats.DataRows, stmt.Stats.Parsed, stmt.Stats.Skipped)
	for _, w := range stmt.Warnings {
		fmt.Printf("warning:  %s\n", w)
	}
	for _, re := range stmt.RowErrors {
		fmt.Printf("row %-4d  %v\n", re.Row, re.Err)
	}

	show := stmt.Transactions
	if len(show) > 5 {
		show = show[:5]
	}
	for _, txn := range show {
		fmt.Printf("  %s  %-40s  debit %-12s credit %-12s\n",
			txn.Date.Format("2006-01-02"), txn.Description,
			normalize.FormatIndianCurrency(txn.Debit), normalize.FormatIndianCurrency(txn.Credit))
	}
}
