package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LinkConfidence grades how a transfer pair was matched.
type LinkConfidence string

const (
	// ConfidenceExact means the legs matched on the same day for the
	// same amount.
	ConfidenceExact LinkConfidence = "exact"
	// ConfidenceWindowed means the legs matched within the day window.
	ConfidenceWindowed LinkConfidence = "windowed"
)

// TransferLink pairs a debit in one account with a credit in another,
// identifying the same money moving between them. Legs are referenced
// by natural key so links stay stable across matcher runs.
type TransferLink struct {
	ID            string // derived from the two leg keys
	DebitKey      string
	CreditKey     string
	DebitAccount  string
	CreditAccount string
	DebitDate     time.Time
	CreditDate    time.Time
	Amount        decimal.Decimal // the debit leg's amount
	DateDeltaDays int             // absolute distance between the leg dates
	Confidence    LinkConfidence
}
