// Package quality runs consistency checks over the ledger: duplicate
// natural keys, missing running balances, and balance moves far outside
// an account's usual range.
package quality

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/khata-dev/khata/internal/model"
)

// AccountReport is one account's health summary.
type AccountReport struct {
	AccountID       string
	Rows            int
	MissingBalance  int // rows the bank printed no running balance for
	DuplicateKeys   int // natural-key collisions; zero after dedupe
	SuspiciousJumps int // balance moves above the account's 95th percentile
}

// Clean reports whether the account raised no findings. Missing
// balances stay informational because plenty of exports simply do not
// carry a balance column.
func (r AccountReport) Clean() bool {
	return r.DuplicateKeys == 0 && r.SuspiciousJumps == 0
}

// Assess checks every account's rows and returns one report per
// account, ordered by account ID. Rows may arrive in any order.
func Assess(txns []model.Transaction) []AccountReport {
	byAccount := make(map[string][]model.Transaction)
	for _, txn := range txns {
		byAccount[txn.AccountID] = append(byAccount[txn.AccountID], txn)
	}

	out := make([]AccountReport, 0, len(byAccount))
	for accountID, rows := range byAccount {
		sort.SliceStable(rows, func(i, j int) bool {
			if !rows[i].Date.Equal(rows[j].Date) {
				return rows[i].Date.Before(rows[j].Date)
			}
			return rows[i].ID < rows[j].ID
		})

		report := AccountReport{AccountID: accountID, Rows: len(rows)}
		seen := make(map[string]bool, len(rows))
		for _, row := range rows {
			if !row.Balance.Valid {
				report.MissingBalance++
			}
			if seen[row.Key()] {
				report.DuplicateKeys++
			}
			seen[row.Key()] = true
		}
		report.SuspiciousJumps = suspiciousJumps(rows)
		out = append(out, report)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out
}

// suspiciousJumps counts balance-to-balance moves strictly above the
// 95th percentile of the account's moves. The largest swing in any
// statement tends to trip this, which is the point: it is a prompt to
// look, not a verdict.
func suspiciousJumps(rows []model.Transaction) int {
	var balances []decimal.Decimal
	for _, row := range rows {
		if row.Balance.Valid {
			balances = append(balances, row.Balance.Decimal)
		}
	}
	if len(balances) < 2 {
		return 0
	}

	diffs := make([]decimal.Decimal, 0, len(balances)-1)
	for i := 1; i < len(balances); i++ {
		diffs = append(diffs, balances[i].Sub(balances[i-1]).Abs())
	}
	p95 := quantile(diffs, 0.95)

	count := 0
	for _, d := range diffs {
		if d.GreaterThan(p95) {
			count++
		}
	}
	return count
}

// quantile returns the linearly interpolated q-quantile of values.
func quantile(values []decimal.Decimal, q float64) decimal.Decimal {
	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	pos := q * float64(len(sorted)-1)
	lower := int(pos)
	if lower >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := decimal.NewFromFloat(pos - float64(lower))
	return sorted[lower].Add(sorted[lower+1].Sub(sorted[lower]).Mul(frac))
}
