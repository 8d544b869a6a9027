package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SweepAdjustment is a manual correction for balance distortions caused
// by automatic sweep-account movements the statements don't show. It
// applies to every balance computed on or after its effective date.
type SweepAdjustment struct {
	ID            int64 // store row ID, also the insertion order
	AccountID     string
	EffectiveDate time.Time
	Delta         decimal.Decimal // signed
	Note          string
	CreatedAt     time.Time
}
