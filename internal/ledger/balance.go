package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/khata-dev/khata/internal/model"
	"github.com/khata-dev/khata/internal/sweep"
)

// AccountBalance is one account's position at a point in time.
type AccountBalance struct {
	Account    model.Account
	AsOf       time.Time           // date of the reported balance row used
	Reported   decimal.NullDecimal // last running balance the bank printed on or before asOf
	Adjustment decimal.Decimal     // cumulative sweep adjustment in force at asOf
	Effective  decimal.NullDecimal // Reported plus Adjustment
}

// BalanceAsOf computes one account's balance at asOf: the latest
// reported running balance on or before that date, with the cumulative
// sweep adjustment applied. Accounts whose statements carry no balance
// column still get the adjustment reported on its own.
func BalanceAsOf(store Store, account model.Account, asOf time.Time) (AccountBalance, error) {
	txns, err := store.TransactionsByAccount(account.ID)
	if err != nil {
		return AccountBalance{}, fmt.Errorf("reading transactions for %s: %w", account.ID, err)
	}
	adjustment, err := sweep.Effective(store, account.ID, asOf)
	if err != nil {
		return AccountBalance{}, err
	}

	bal := AccountBalance{Account: account, Adjustment: adjustment}
	for i := len(txns) - 1; i >= 0; i-- {
		if txns[i].Date.After(asOf) || !txns[i].Balance.Valid {
			continue
		}
		bal.AsOf = txns[i].Date
		bal.Reported = txns[i].Balance
		break
	}
	if bal.Reported.Valid {
		bal.Effective = decimal.NullDecimal{
			Decimal: bal.Reported.Decimal.Add(bal.Adjustment),
			Valid:   true,
		}
	}
	return bal, nil
}

// Balances computes every account's balance at asOf, ordered by account ID.
func Balances(store Store, asOf time.Time) ([]AccountBalance, error) {
	accounts, err := store.Accounts()
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	out := make([]AccountBalance, 0, len(accounts))
	for _, acct := range accounts {
		bal, err := BalanceAsOf(store, acct, asOf)
		if err != nil {
			return nil, err
		}
		out = append(out, bal)
	}
	return out, nil
}
