// Package sweep maintains manual balance adjustments for automatic
// sweep-account movements (FD sweeps, auto-transfers) that bank
// statements never show as rows.
package sweep

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/khata-dev/khata/internal/model"
)

// Source yields one account's adjustments.
type Source interface {
	AdjustmentsByAccount(accountID string) ([]model.SweepAdjustment, error)
}

// New builds an adjustment, rejecting blank accounts and zero deltas.
// Deltas may repeat freely; insertion order is preserved downstream.
func New(accountID string, effectiveDate time.Time, delta decimal.Decimal, note string) (model.SweepAdjustment, error) {
	if accountID == "" {
		return model.SweepAdjustment{}, fmt.Errorf("adjustment needs an account")
	}
	if effectiveDate.IsZero() {
		return model.SweepAdjustment{}, fmt.Errorf("adjustment needs an effective date")
	}
	if delta.IsZero() {
		return model.SweepAdjustment{}, fmt.Errorf("adjustment delta must be non-zero")
	}
	return model.SweepAdjustment{
		AccountID:     accountID,
		EffectiveDate: effectiveDate,
		Delta:         delta,
		Note:          note,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// Total returns the cumulative adjustment in force at asOf: the sum of
// every delta effective on or before it. Later-dated adjustments
// contribute nothing.
func Total(adjs []model.SweepAdjustment, asOf time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, adj := range adjs {
		if adj.EffectiveDate.After(asOf) {
			continue
		}
		total = total.Add(adj.Delta)
	}
	return total
}

// Effective returns the cumulative adjustment for an account as of a date.
func Effective(src Source, accountID string, asOf time.Time) (decimal.Decimal, error) {
	adjs, err := src.AdjustmentsByAccount(accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("reading adjustments for %s: %w", accountID, err)
	}
	return Total(adjs, asOf), nil
}
