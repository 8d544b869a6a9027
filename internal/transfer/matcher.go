// Package transfer pairs opposite-sign transactions across accounts
// into transfer links, and classifies narrations by payment rail.
package transfer

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/khata-dev/khata/internal/id"
	"github.com/khata-dev/khata/internal/model"
)

// Config tunes the matcher.
type Config struct {
	// WindowDays is how many days apart the two legs may fall,
	// tolerating interbank clearing delay.
	WindowDays int
	// Tolerance is the largest amount difference still treated as the
	// same transfer. Zero demands amounts match to the paisa.
	Tolerance decimal.Decimal
}

// DefaultConfig allows three days of clearing delay and exact amounts.
func DefaultConfig() Config {
	return Config{WindowDays: 3}
}

// Matcher finds debit/credit pairs that describe the same money moving
// between two accounts.
type Matcher struct {
	cfg Config
}

func NewMatcher(cfg Config) *Matcher {
	return &Matcher{cfg: cfg}
}

type candidate struct {
	debit     model.Transaction
	credit    model.Transaction
	debitKey  string
	creditKey string
	deltaDays int
}

// Match scans a ledger snapshot and links each debit to at most one
// credit from another account, same amount bucket, within the day
// window. Candidates are taken smallest date delta first, ties broken
// by the legs' natural keys, so an unchanged ledger always yields the
// identical link set regardless of row order or store IDs.
func (m *Matcher) Match(txns []model.Transaction) []model.TransferLink {
	debits := make(map[string][]model.Transaction)
	credits := make(map[string][]model.Transaction)
	for _, txn := range txns {
		if txn.Amount().IsZero() {
			continue
		}
		key := m.bucket(txn.Amount())
		if txn.IsDebit() {
			debits[key] = append(debits[key], txn)
		} else {
			credits[key] = append(credits[key], txn)
		}
	}

	var pairs []candidate
	for key, ds := range debits {
		for _, debit := range ds {
			for _, credit := range credits[key] {
				if debit.AccountID == credit.AccountID {
					continue
				}
				delta := daysApart(debit.Date, credit.Date)
				if delta > m.cfg.WindowDays {
					continue
				}
				if debit.Debit.Sub(credit.Credit).Abs().GreaterThan(m.cfg.Tolerance) {
					continue
				}
				pairs = append(pairs, candidate{
					debit:     debit,
					credit:    credit,
					debitKey:  debit.Key(),
					creditKey: credit.Key(),
					deltaDays: delta,
				})
			}
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].deltaDays != pairs[j].deltaDays {
			return pairs[i].deltaDays < pairs[j].deltaDays
		}
		if pairs[i].debitKey != pairs[j].debitKey {
			return pairs[i].debitKey < pairs[j].debitKey
		}
		return pairs[i].creditKey < pairs[j].creditKey
	})

	consumed := make(map[string]bool, 2*len(pairs))
	var links []model.TransferLink
	for _, c := range pairs {
		if consumed[c.debitKey] || consumed[c.creditKey] {
			continue
		}
		consumed[c.debitKey] = true
		consumed[c.creditKey] = true
		links = append(links, c.link())
	}
	return links
}

func (m *Matcher) bucket(amount decimal.Decimal) string {
	if m.cfg.Tolerance.IsPositive() {
		return amount.Div(m.cfg.Tolerance).Round(0).String()
	}
	return amount.String()
}

func (c candidate) link() model.TransferLink {
	confidence := model.ConfidenceWindowed
	if c.deltaDays == 0 && c.debit.Debit.Equal(c.credit.Credit) {
		confidence = model.ConfidenceExact
	}
	return model.TransferLink{
		ID:            id.LinkID(c.debitKey, c.creditKey),
		DebitKey:      c.debitKey,
		CreditKey:     c.creditKey,
		DebitAccount:  c.debit.AccountID,
		CreditAccount: c.credit.AccountID,
		DebitDate:     c.debit.Date,
		CreditDate:    c.credit.Date,
		Amount:        c.debit.Debit,
		DateDeltaDays: c.deltaDays,
		Confidence:    confidence,
	}
}

func daysApart(a, b time.Time) int {
	days := int(a.Sub(b).Hours() / 24)
	if days < 0 {
		return -days
	}
	return days
}
