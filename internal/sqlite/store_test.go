package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khata-dev/khata/internal/id"
	"github.com/khata-dev/khata/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func txn(account string, day time.Time, debit, credit, desc string) model.Transaction {
	return model.Transaction{
		AccountID:   account,
		Date:        day,
		Description: desc,
		Debit:       dec(debit),
		Credit:      dec(credit),
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "khata.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_InsertAndQuery(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.InsertTransactions([]model.Transaction{
		txn("Priya_HDFC", date(2024, 3, 16), "450.00", "0", "UPI-SWIGGY"),
		txn("Priya_HDFC", date(2024, 3, 15), "0", "25000.00", "SALARY MAR"),
		txn("Arun_SBI", date(2024, 3, 10), "100.00", "0", "ATM"),
	}))

	priya, err := store.TransactionsByAccount("Priya_HDFC")
	require.NoError(t, err)
	require.Len(t, priya, 2)
	assert.Equal(t, "SALARY MAR", priya[0].Description, "ordered by date")
	assert.True(t, priya[0].Credit.Equal(dec("25000.00")))
	assert.Equal(t, int64(2), priya[0].ID, "IDs follow insertion order")
	assert.Equal(t, int64(1), priya[1].ID)

	all, err := store.AllTransactions()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Arun_SBI", all[0].AccountID, "ordered by account first")
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "khata.db")
	store, err := Open(path)
	require.NoError(t, err)

	row := txn("Priya_HDFC", date(2024, 3, 15), "450.00", "0", "UPI-SWIGGY")
	row.Balance = decimal.NullDecimal{Decimal: dec("-100450.00"), Valid: true}
	require.NoError(t, store.InsertTransactions([]model.Transaction{
		row,
		txn("Priya_HDFC", date(2024, 3, 16), "250.00", "0", "NO BALANCE ROW"),
	}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	rows, err := reopened.TransactionsByAccount("Priya_HDFC")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Debit.Equal(dec("450.00")))
	require.True(t, rows[0].Balance.Valid)
	assert.True(t, rows[0].Balance.Decimal.Equal(dec("-100450.00")))
	assert.False(t, rows[1].Balance.Valid, "null balance stays null")
	assert.Equal(t, date(2024, 3, 15), rows[0].Date)
}

func TestStore_KnownKeys(t *testing.T) {
	store := openTestStore(t)
	rows := []model.Transaction{
		txn("Priya_HDFC", date(2024, 3, 15), "450.00", "0", "UPI-SWIGGY"),
		txn("Priya_HDFC", date(2024, 3, 16), "0", "25000.00", "SALARY MAR"),
		txn("Arun_SBI", date(2024, 3, 10), "100.00", "0", "ATM"),
	}
	require.NoError(t, store.InsertTransactions(rows))

	keys, err := store.KnownKeys("Priya_HDFC")
	require.NoError(t, err)
	assert.Len(t, keys, 2)
	assert.Contains(t, keys, rows[0].Key(), "stored rows keep their natural key")
	assert.Contains(t, keys, rows[1].Key())
	assert.NotContains(t, keys, rows[2].Key(), "keys are per account")
}

func TestStore_Accounts(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.InsertTransactions([]model.Transaction{
		txn("Priya_HDFC", date(2024, 3, 15), "450.00", "0", "UPI"),
		txn("Arun_SBI", date(2024, 3, 10), "100.00", "0", "ATM"),
		txn("Priya_HDFC", date(2024, 3, 16), "50.00", "0", "UPI"),
	}))

	accounts, err := store.Accounts()
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, model.Account{ID: "Arun_SBI", Owner: "Arun", Bank: "SBI"}, accounts[0])
	assert.Equal(t, "Priya_HDFC", accounts[1].ID)
}

func TestStore_ReplaceTransferLinks(t *testing.T) {
	store := openTestStore(t)
	out := txn("Priya_HDFC", date(2024, 3, 15), "5000.00", "0", "IMPS TO ARUN")
	in := txn("Arun_SBI", date(2024, 3, 15), "0", "5000.00", "IMPS FROM PRIYA")
	other := txn("Priya_HDFC", date(2024, 3, 16), "450.00", "0", "UPI-SWIGGY")
	require.NoError(t, store.InsertTransactions([]model.Transaction{out, in, other}))

	link := model.TransferLink{
		ID:            id.LinkID(out.Key(), in.Key()),
		DebitKey:      out.Key(),
		CreditKey:     in.Key(),
		DebitAccount:  out.AccountID,
		CreditAccount: in.AccountID,
		DebitDate:     out.Date,
		CreditDate:    in.Date,
		Amount:        out.Debit,
		Confidence:    model.ConfidenceExact,
	}
	require.NoError(t, store.ReplaceTransferLinks([]model.TransferLink{link}))

	links, err := store.TransferLinks()
	require.NoError(t, err)
	require.Len(t, links, 1)
	got := links[0]
	assert.Equal(t, link.ID, got.ID)
	assert.Equal(t, link.DebitKey, got.DebitKey)
	assert.Equal(t, link.CreditKey, got.CreditKey)
	assert.Equal(t, "Priya_HDFC", got.DebitAccount)
	assert.Equal(t, "Arun_SBI", got.CreditAccount)
	assert.True(t, got.Amount.Equal(dec("5000.00")))
	assert.Equal(t, model.ConfidenceExact, got.Confidence)
	assert.Equal(t, date(2024, 3, 15), got.DebitDate)

	rows, err := store.AllTransactions()
	require.NoError(t, err)
	flagged := 0
	for _, row := range rows {
		if row.Transfer {
			flagged++
		}
	}
	assert.Equal(t, 2, flagged)

	require.NoError(t, store.ReplaceTransferLinks(nil))
	links, err = store.TransferLinks()
	require.NoError(t, err)
	assert.Empty(t, links)
	rows, err = store.AllTransactions()
	require.NoError(t, err)
	for _, row := range rows {
		assert.False(t, row.Transfer)
	}
}

func TestStore_Adjustments(t *testing.T) {
	store := openTestStore(t)
	created := time.Date(2024, 3, 20, 9, 15, 0, 0, time.UTC)

	marID, err := store.AddAdjustment(model.SweepAdjustment{
		AccountID: "Priya_HDFC", EffectiveDate: date(2024, 3, 1),
		Delta: dec("2000.00"), Note: "sweep back", CreatedAt: created,
	})
	require.NoError(t, err)
	_, err = store.AddAdjustment(model.SweepAdjustment{
		AccountID: "Priya_HDFC", EffectiveDate: date(2024, 1, 15),
		Delta: dec("-5000.00"), Note: "FD sweep out", CreatedAt: created,
	})
	require.NoError(t, err)
	_, err = store.AddAdjustment(model.SweepAdjustment{
		AccountID: "Arun_SBI", EffectiveDate: date(2024, 2, 1),
		Delta: dec("-100.00"), CreatedAt: created,
	})
	require.NoError(t, err)

	adjs, err := store.AdjustmentsByAccount("Priya_HDFC")
	require.NoError(t, err)
	require.Len(t, adjs, 2)
	assert.Equal(t, "FD sweep out", adjs[0].Note, "ordered by effective date")
	assert.True(t, adjs[0].Delta.Equal(dec("-5000.00")))
	assert.True(t, adjs[0].CreatedAt.Equal(created))

	all, err := store.AllAdjustments()
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, store.RemoveAdjustment(marID))
	adjs, err = store.AdjustmentsByAccount("Priya_HDFC")
	require.NoError(t, err)
	assert.Len(t, adjs, 1)

	err = store.RemoveAdjustment(marID)
	assert.ErrorContains(t, err, "not found")
}
