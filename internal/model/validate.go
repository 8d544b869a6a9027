package model

import "fmt"

// ValidationError describes a single transaction invariant violation.
type ValidationError struct {
	Field       string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Description)
}

// ValidateTransaction enforces the row invariants every canonical
// transaction must satisfy before it may enter the ledger.
func ValidateTransaction(t Transaction) []ValidationError {
	var errs []ValidationError

	if t.AccountID == "" {
		errs = append(errs, ValidationError{Field: "account", Description: "missing account ID"})
	}
	if t.Date.IsZero() {
		errs = append(errs, ValidationError{Field: "date", Description: "missing date"})
	}

	if t.Debit.IsNegative() {
		errs = append(errs, ValidationError{Field: "debit", Description: fmt.Sprintf("negative amount %s", t.Debit)})
	}
	if t.Credit.IsNegative() {
		errs = append(errs, ValidationError{Field: "credit", Description: fmt.Sprintf("negative amount %s", t.Credit)})
	}

	// Exactly one of debit/credit per row.
	hasDebit := t.Debit.IsPositive()
	hasCredit := t.Credit.IsPositive()
	if hasDebit == hasCredit {
		errs = append(errs, ValidationError{Field: "amount", Description: "row must have exactly one of debit or credit"})
	}

	return errs
}
