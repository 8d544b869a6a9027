package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/khata-dev/khata/internal/id"
)

// Transaction is one canonical statement row. Exactly one of Debit and
// Credit is positive; Balance is the running balance as reported by the
// bank, when the statement carries one.
type Transaction struct {
	ID          int64  // store row ID, also the insertion order
	AccountID   string // "Owner_Bank"
	Date        time.Time
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Balance     decimal.NullDecimal
	Transfer    bool // set when the matcher links this row to a counterpart
}

// Key returns the transaction's natural key within the ledger.
func (t Transaction) Key() string {
	return id.NaturalKey(t.AccountID, t.Date, t.Debit, t.Credit, t.Description)
}

// Amount returns the moved amount regardless of direction.
func (t Transaction) Amount() decimal.Decimal {
	if t.Debit.IsPositive() {
		return t.Debit
	}
	return t.Credit
}

// IsDebit reports whether money left the account on this row.
func (t Transaction) IsDebit() bool {
	return t.Debit.IsPositive()
}
