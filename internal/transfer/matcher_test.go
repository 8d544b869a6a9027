package transfer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khata-dev/khata/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func debit(account string, day time.Time, amount, desc string) model.Transaction {
	return model.Transaction{AccountID: account, Date: day, Description: desc, Debit: dec(amount)}
}

func credit(account string, day time.Time, amount, desc string) model.Transaction {
	return model.Transaction{AccountID: account, Date: day, Description: desc, Credit: dec(amount)}
}

func TestMatch_ExactSameDay(t *testing.T) {
	m := NewMatcher(DefaultConfig())
	out := debit("Priya_HDFC", date(2024, 3, 15), "5000.00", "IMPS TO ARUN")
	in := credit("Arun_SBI", date(2024, 3, 15), "5000.00", "IMPS FROM PRIYA")

	links := m.Match([]model.Transaction{out, in})
	require.Len(t, links, 1)
	link := links[0]
	assert.Equal(t, model.ConfidenceExact, link.Confidence)
	assert.Equal(t, "Priya_HDFC", link.DebitAccount)
	assert.Equal(t, "Arun_SBI", link.CreditAccount)
	assert.Equal(t, 0, link.DateDeltaDays)
	assert.True(t, link.Amount.Equal(dec("5000.00")))
	assert.NotEmpty(t, link.ID)
}

func TestMatch_WindowedAcrossDays(t *testing.T) {
	m := NewMatcher(Config{WindowDays: 3})
	links := m.Match([]model.Transaction{
		debit("Priya_HDFC", date(2024, 3, 1), "5000.00", "NEFT TO ARUN"),
		credit("Arun_SBI", date(2024, 3, 2), "5000.00", "NEFT FROM PRIYA"),
	})

	require.Len(t, links, 1)
	assert.Equal(t, model.ConfidenceWindowed, links[0].Confidence)
	assert.Equal(t, 1, links[0].DateDeltaDays)
}

func TestMatch_OutsideWindow(t *testing.T) {
	m := NewMatcher(Config{WindowDays: 3})
	links := m.Match([]model.Transaction{
		debit("Priya_HDFC", date(2024, 3, 1), "5000.00", "NEFT TO ARUN"),
		credit("Arun_SBI", date(2024, 3, 5), "5000.00", "NEFT FROM PRIYA"),
	})
	assert.Empty(t, links)
}

func TestMatch_DifferentAmountsDoNotPair(t *testing.T) {
	m := NewMatcher(DefaultConfig())
	links := m.Match([]model.Transaction{
		debit("Priya_HDFC", date(2024, 3, 15), "5000.00", "IMPS TO ARUN"),
		credit("Arun_SBI", date(2024, 3, 15), "4999.50", "IMPS FROM PRIYA"),
	})
	assert.Empty(t, links)
}

func TestMatch_ToleranceAllowsNearAmounts(t *testing.T) {
	m := NewMatcher(Config{WindowDays: 3, Tolerance: dec("1.00")})
	links := m.Match([]model.Transaction{
		debit("Priya_HDFC", date(2024, 3, 15), "5000.00", "IMPS TO ARUN"),
		credit("Arun_SBI", date(2024, 3, 15), "4999.50", "IMPS FROM PRIYA"),
	})

	require.Len(t, links, 1)
	assert.Equal(t, model.ConfidenceWindowed, links[0].Confidence, "near amounts never grade exact")
	assert.True(t, links[0].Amount.Equal(dec("5000.00")), "the link carries the debit leg's amount")
}

func TestMatch_NeverLinksSameAccount(t *testing.T) {
	m := NewMatcher(DefaultConfig())
	links := m.Match([]model.Transaction{
		debit("Priya_HDFC", date(2024, 3, 15), "5000.00", "REVERSAL OUT"),
		credit("Priya_HDFC", date(2024, 3, 15), "5000.00", "REVERSAL IN"),
	})
	assert.Empty(t, links)
}

func TestMatch_EachLegConsumedOnce(t *testing.T) {
	m := NewMatcher(DefaultConfig())
	links := m.Match([]model.Transaction{
		debit("Priya_HDFC", date(2024, 3, 15), "5000.00", "IMPS TO ARUN"),
		credit("Arun_SBI", date(2024, 3, 15), "5000.00", "IMPS FROM PRIYA"),
		credit("Zara_ICICI", date(2024, 3, 15), "5000.00", "IMPS RECEIVED"),
	})

	require.Len(t, links, 1, "one debit can back only one credit")

	seen := make(map[string]bool)
	for _, link := range links {
		assert.False(t, seen[link.DebitKey])
		assert.False(t, seen[link.CreditKey])
		seen[link.DebitKey] = true
		seen[link.CreditKey] = true
	}
}

func TestMatch_SmallestDateDeltaWins(t *testing.T) {
	m := NewMatcher(Config{WindowDays: 3})
	links := m.Match([]model.Transaction{
		debit("Priya_HDFC", date(2024, 3, 15), "5000.00", "NEFT TO ARUN"),
		credit("Arun_SBI", date(2024, 3, 17), "5000.00", "LATE CREDIT"),
		credit("Arun_SBI", date(2024, 3, 15), "5000.00", "SAME DAY CREDIT"),
	})

	require.Len(t, links, 1)
	assert.Equal(t, 0, links[0].DateDeltaDays)
	assert.Equal(t, model.ConfidenceExact, links[0].Confidence)
}

func TestMatch_TiesBreakOnAccountID(t *testing.T) {
	m := NewMatcher(DefaultConfig())
	links := m.Match([]model.Transaction{
		debit("Priya_HDFC", date(2024, 3, 15), "5000.00", "IMPS OUT"),
		credit("Zara_ICICI", date(2024, 3, 15), "5000.00", "IMPS IN"),
		credit("Arun_SBI", date(2024, 3, 15), "5000.00", "IMPS IN"),
	})

	require.Len(t, links, 1)
	assert.Equal(t, "Arun_SBI", links[0].CreditAccount)
}

func TestMatch_DeterministicAcrossRowOrder(t *testing.T) {
	m := NewMatcher(DefaultConfig())
	rows := []model.Transaction{
		debit("Priya_HDFC", date(2024, 3, 15), "5000.00", "IMPS TO ARUN"),
		credit("Arun_SBI", date(2024, 3, 15), "5000.00", "IMPS FROM PRIYA"),
		debit("Zara_ICICI", date(2024, 3, 16), "1200.00", "UPI OUT"),
		credit("Priya_HDFC", date(2024, 3, 16), "1200.00", "UPI IN"),
	}
	reversed := make([]model.Transaction, len(rows))
	for i, row := range rows {
		reversed[len(rows)-1-i] = row
	}

	first := m.Match(rows)
	second := m.Match(reversed)
	require.Len(t, first, 2)
	assert.Equal(t, first, second, "link set must not depend on row order")
}

func TestMatch_RerunIsIdempotent(t *testing.T) {
	m := NewMatcher(DefaultConfig())
	rows := []model.Transaction{
		debit("Priya_HDFC", date(2024, 3, 15), "5000.00", "IMPS TO ARUN"),
		credit("Arun_SBI", date(2024, 3, 15), "5000.00", "IMPS FROM PRIYA"),
	}

	first := m.Match(rows)
	// The store flags linked rows; a rerun sees those flags set.
	for i := range rows {
		rows[i].Transfer = true
	}
	second := m.Match(rows)
	assert.Equal(t, first, second)
}

func TestMatch_UnmatchedRowsAreNormal(t *testing.T) {
	m := NewMatcher(DefaultConfig())
	links := m.Match([]model.Transaction{
		debit("Priya_HDFC", date(2024, 3, 15), "450.00", "UPI-SWIGGY"),
		credit("Arun_SBI", date(2024, 3, 20), "25000.00", "SALARY MAR"),
	})
	assert.Empty(t, links)
}
