package model

import "github.com/khata-dev/khata/internal/id"

// Account is one person's account at one bank, derived from the
// statement file name ("<Owner>_<Bank>.csv").
type Account struct {
	ID    string // "Owner_Bank"
	Owner string
	Bank  string
}

// NewAccount builds an Account from its owner and bank parts.
func NewAccount(owner, bank string) Account {
	return Account{
		ID:    id.FormatAccountID(owner, bank),
		Owner: owner,
		Bank:  bank,
	}
}

// Display returns the human-readable form, e.g. "Priya - HDFC".
func (a Account) Display() string {
	return a.Owner + " - " + a.Bank
}
