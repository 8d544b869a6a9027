// Package ledger defines the canonical transaction store and the pure
// operations over it: deduplication by natural key and balance
// computation with sweep adjustments applied.
package ledger

import "github.com/khata-dev/khata/internal/model"

// Store persists canonical transactions, transfer links, and sweep
// adjustments. Implementations must assign row IDs in insertion order;
// the matcher's determinism rests on that.
type Store interface {
	// KnownKeys returns the natural keys already persisted for one account.
	KnownKeys(accountID string) (map[string]struct{}, error)
	// InsertTransactions appends rows, assigning IDs in insertion order.
	InsertTransactions(txns []model.Transaction) error
	// TransactionsByAccount returns one account's rows ordered by date then ID.
	TransactionsByAccount(accountID string) ([]model.Transaction, error)
	// AllTransactions returns every row ordered by account, date, ID.
	AllTransactions() ([]model.Transaction, error)
	// Accounts lists the accounts that have transactions, ordered by ID.
	Accounts() ([]model.Account, error)

	// ReplaceTransferLinks swaps in a freshly matched link set and
	// refreshes each transaction's transfer flag to match.
	ReplaceTransferLinks(links []model.TransferLink) error
	// TransferLinks returns the current link set ordered by leg dates.
	TransferLinks() ([]model.TransferLink, error)

	// AddAdjustment appends a sweep adjustment and returns its ID.
	AddAdjustment(adj model.SweepAdjustment) (int64, error)
	// AdjustmentsByAccount returns one account's adjustments ordered by
	// effective date then insertion.
	AdjustmentsByAccount(accountID string) ([]model.SweepAdjustment, error)
	// AllAdjustments returns every adjustment ordered by effective date
	// then insertion.
	AllAdjustments() ([]model.SweepAdjustment, error)
	// RemoveAdjustment deletes an adjustment by ID.
	RemoveAdjustment(adjID int64) error
}
