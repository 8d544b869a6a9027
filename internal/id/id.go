package id

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// accountSep joins owner and bank in an account ID. It is the same
// separator statement files use, so neither part may contain it.
const accountSep = "_"

const keyDateFormat = "2006-01-02"

// FormatAccountID returns an account ID like "Priya_HDFC".
func FormatAccountID(owner, bank string) string {
	return owner + accountSep + bank
}

// ParseAccountID splits an account ID into owner and bank.
func ParseAccountID(accountID string) (owner, bank string, err error) {
	parts := strings.Split(accountID, accountSep)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid account ID format: %q", accountID)
	}
	return parts[0], parts[1], nil
}

// NaturalKey returns the identity of a transaction within the ledger:
// account, date, both amounts, and the cleaned description. Two rows
// with the same key are the same transaction.
func NaturalKey(accountID string, date time.Time, debit, credit decimal.Decimal, description string) string {
	return strings.Join([]string{
		accountID,
		date.Format(keyDateFormat),
		debit.String(),
		credit.String(),
		description,
	}, "|")
}

// LinkID derives a stable transfer-link ID from its two leg keys.
// Hashing keeps the ID identical across matcher runs over the same ledger.
func LinkID(debitKey, creditKey string) string {
	sum := sha256.Sum256([]byte(debitKey + "\x00" + creditKey))
	return hex.EncodeToString(sum[:8])
}
