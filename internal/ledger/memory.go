package ledger

import (
	"fmt"
	"sort"
	"sync"

	"github.com/khata-dev/khata/internal/id"
	"github.com/khata-dev/khata/internal/model"
)

// MemoryStore keeps the ledger in process memory. It backs tests and
// one-shot runs that don't need a database file.
type MemoryStore struct {
	mu        sync.Mutex
	nextTxnID int64
	nextAdjID int64
	txns      []model.Transaction
	links     []model.TransferLink
	adjs      []model.SweepAdjustment
}

// NewMemoryStore returns an empty in-memory ledger store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) KnownKeys(accountID string) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make(map[string]struct{})
	for _, txn := range s.txns {
		if txn.AccountID == accountID {
			keys[txn.Key()] = struct{}{}
		}
	}
	return keys, nil
}

func (s *MemoryStore) InsertTransactions(txns []model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, txn := range txns {
		s.nextTxnID++
		txn.ID = s.nextTxnID
		s.txns = append(s.txns, txn)
	}
	return nil
}

func (s *MemoryStore) TransactionsByAccount(accountID string) ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Transaction
	for _, txn := range s.txns {
		if txn.AccountID == accountID {
			out = append(out, txn)
		}
	}
	sortTransactions(out)
	return out, nil
}

func (s *MemoryStore) AllTransactions() ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Transaction, len(s.txns))
	copy(out, s.txns)
	sort.Slice(out, func(i, j int) bool {
		if out[i].AccountID != out[j].AccountID {
			return out[i].AccountID < out[j].AccountID
		}
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) Accounts() ([]model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	var out []model.Account
	for _, txn := range s.txns {
		if seen[txn.AccountID] {
			continue
		}
		seen[txn.AccountID] = true
		owner, bank, err := id.ParseAccountID(txn.AccountID)
		if err != nil {
			return nil, err
		}
		out = append(out, model.Account{ID: txn.AccountID, Owner: owner, Bank: bank})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) ReplaceTransferLinks(links []model.TransferLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.links = make([]model.TransferLink, len(links))
	copy(s.links, links)

	linked := make(map[string]bool, 2*len(links))
	for _, link := range links {
		linked[link.DebitKey] = true
		linked[link.CreditKey] = true
	}
	for i := range s.txns {
		s.txns[i].Transfer = linked[s.txns[i].Key()]
	}
	return nil
}

func (s *MemoryStore) TransferLinks() ([]model.TransferLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.TransferLink, len(s.links))
	copy(out, s.links)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DebitDate.Equal(out[j].DebitDate) {
			return out[i].DebitDate.Before(out[j].DebitDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) AddAdjustment(adj model.SweepAdjustment) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextAdjID++
	adj.ID = s.nextAdjID
	s.adjs = append(s.adjs, adj)
	return adj.ID, nil
}

func (s *MemoryStore) AdjustmentsByAccount(accountID string) ([]model.SweepAdjustment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.SweepAdjustment
	for _, adj := range s.adjs {
		if adj.AccountID == accountID {
			out = append(out, adj)
		}
	}
	sortAdjustments(out)
	return out, nil
}

func (s *MemoryStore) AllAdjustments() ([]model.SweepAdjustment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.SweepAdjustment, len(s.adjs))
	copy(out, s.adjs)
	sortAdjustments(out)
	return out, nil
}

func (s *MemoryStore) RemoveAdjustment(adjID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, adj := range s.adjs {
		if adj.ID == adjID {
			s.adjs = append(s.adjs[:i], s.adjs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("adjustment %d not found", adjID)
}

func sortTransactions(txns []model.Transaction) {
	sort.Slice(txns, func(i, j int) bool {
		if !txns[i].Date.Equal(txns[j].Date) {
			return txns[i].Date.Before(txns[j].Date)
		}
		return txns[i].ID < txns[j].ID
	})
}

func sortAdjustments(adjs []model.SweepAdjustment) {
	sort.Slice(adjs, func(i, j int) bool {
		if !adjs[i].EffectiveDate.Equal(adjs[j].EffectiveDate) {
			return adjs[i].EffectiveDate.Before(adjs[j].EffectiveDate)
		}
		return adjs[i].ID < adjs[j].ID
	})
}
