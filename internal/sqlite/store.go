// Package sqlite persists the ledger in a SQLite database file. It is
// the durable counterpart of the in-memory store; both satisfy
// ledger.Store.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/khata-dev/khata/internal/id"
	"github.com/khata-dev/khata/internal/model"
)

const dateFormat = "2006-01-02"

var schemaSQL = []string{
	`CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		account TEXT NOT NULL,
		date TEXT NOT NULL,
		description TEXT NOT NULL,
		debit TEXT NOT NULL,
		credit TEXT NOT NULL,
		balance TEXT,
		is_transfer INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_account_date
		ON transactions(account, date)`,
	`CREATE TABLE IF NOT EXISTS transfer_links (
		id TEXT PRIMARY KEY,
		debit_key TEXT NOT NULL,
		credit_key TEXT NOT NULL,
		debit_account TEXT NOT NULL,
		credit_account TEXT NOT NULL,
		debit_date TEXT NOT NULL,
		credit_date TEXT NOT NULL,
		amount TEXT NOT NULL,
		date_delta_days INTEGER NOT NULL,
		confidence TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sweep_adjustments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		account TEXT NOT NULL,
		effective_date TEXT NOT NULL,
		delta TEXT NOT NULL,
		note TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
}

// Store is a SQLite-backed ledger store. Amounts are stored as their
// canonical decimal strings, never floats, so values round-trip exactly.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	for _, stmt := range schemaSQL {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) KnownKeys(accountID string) (map[string]struct{}, error) {
	rows, err := s.db.Query(
		`SELECT date, debit, credit, description FROM transactions WHERE account = ?`, accountID)
	if err != nil {
		return nil, fmt.Errorf("query keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var txn model.Transaction
		var dateStr string
		if err := rows.Scan(&dateStr, &txn.Debit, &txn.Credit, &txn.Description); err != nil {
			return nil, fmt.Errorf("scan key row: %w", err)
		}
		date, err := time.Parse(dateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing stored date %q: %w", dateStr, err)
		}
		keys[id.NaturalKey(accountID, date, txn.Debit, txn.Credit, txn.Description)] = struct{}{}
	}
	return keys, rows.Err()
}

func (s *Store) InsertTransactions(txns []model.Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO transactions
		(account, date, description, debit, credit, balance, is_transfer)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, txn := range txns {
		_, err := stmt.Exec(txn.AccountID, txn.Date.Format(dateFormat), txn.Description,
			txn.Debit, txn.Credit, txn.Balance, txn.Transfer)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert transaction: %w", err)
		}
	}
	return tx.Commit()
}

const txnColumns = `id, account, date, description, debit, credit, balance, is_transfer`

func (s *Store) TransactionsByAccount(accountID string) ([]model.Transaction, error) {
	return s.queryTransactions(
		`SELECT `+txnColumns+` FROM transactions WHERE account = ? ORDER BY date, id`, accountID)
}

func (s *Store) AllTransactions() ([]model.Transaction, error) {
	return s.queryTransactions(
		`SELECT ` + txnColumns + ` FROM transactions ORDER BY account, date, id`)
}

func (s *Store) queryTransactions(query string, args ...any) ([]model.Transaction, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		var dateStr string
		if err := rows.Scan(&txn.ID, &txn.AccountID, &dateStr, &txn.Description,
			&txn.Debit, &txn.Credit, &txn.Balance, &txn.Transfer); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txn.Date, err = time.Parse(dateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing stored date %q: %w", dateStr, err)
		}
		out = append(out, txn)
	}
	return out, rows.Err()
}

func (s *Store) Accounts() ([]model.Account, error) {
	rows, err := s.db.Query(`SELECT DISTINCT account FROM transactions ORDER BY account`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var out []model.Account
	for rows.Next() {
		var accountID string
		if err := rows.Scan(&accountID); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		owner, bank, err := id.ParseAccountID(accountID)
		if err != nil {
			return nil, err
		}
		out = append(out, model.Account{ID: accountID, Owner: owner, Bank: bank})
	}
	return out, rows.Err()
}

// ReplaceTransferLinks swaps the stored link set inside one
// transaction and re-derives every row's transfer flag from it.
func (s *Store) ReplaceTransferLinks(links []model.TransferLink) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin link replace: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM transfer_links`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear links: %w", err)
	}
	if _, err := tx.Exec(`UPDATE transactions SET is_transfer = 0`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear transfer flags: %w", err)
	}

	insert, err := tx.Prepare(`INSERT INTO transfer_links
		(id, debit_key, credit_key, debit_account, credit_account,
		 debit_date, credit_date, amount, date_delta_days, confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare link insert: %w", err)
	}
	defer insert.Close()

	linked := make(map[string]bool, 2*len(links))
	for _, link := range links {
		_, err := insert.Exec(link.ID, link.DebitKey, link.CreditKey,
			link.DebitAccount, link.CreditAccount,
			link.DebitDate.Format(dateFormat), link.CreditDate.Format(dateFormat),
			link.Amount, link.DateDeltaDays, string(link.Confidence))
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert link: %w", err)
		}
		linked[link.DebitKey] = true
		linked[link.CreditKey] = true
	}

	if err := s.flagLinked(tx, linked); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// flagLinked sets is_transfer on every row whose natural key appears in
// linked. Keys are derived in Go so their layout stays out of the SQL.
func (s *Store) flagLinked(tx *sql.Tx, linked map[string]bool) error {
	rows, err := tx.Query(`SELECT id, account, date, debit, credit, description FROM transactions`)
	if err != nil {
		return fmt.Errorf("query rows to flag: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var rowID int64
		var txn model.Transaction
		var dateStr string
		if err := rows.Scan(&rowID, &txn.AccountID, &dateStr, &txn.Debit, &txn.Credit, &txn.Description); err != nil {
			return fmt.Errorf("scan row to flag: %w", err)
		}
		date, err := time.Parse(dateFormat, dateStr)
		if err != nil {
			return fmt.Errorf("parsing stored date %q: %w", dateStr, err)
		}
		if linked[id.NaturalKey(txn.AccountID, date, txn.Debit, txn.Credit, txn.Description)] {
			ids = append(ids, rowID)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	flag, err := tx.Prepare(`UPDATE transactions SET is_transfer = 1 WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("prepare flag update: %w", err)
	}
	defer flag.Close()
	for _, rowID := range ids {
		if _, err := flag.Exec(rowID); err != nil {
			return fmt.Errorf("flag row %d: %w", rowID, err)
		}
	}
	return nil
}

func (s *Store) TransferLinks() ([]model.TransferLink, error) {
	rows, err := s.db.Query(`SELECT id, debit_key, credit_key, debit_account, credit_account,
		debit_date, credit_date, amount, date_delta_days, confidence
		FROM transfer_links ORDER BY debit_date, id`)
	if err != nil {
		return nil, fmt.Errorf("query links: %w", err)
	}
	defer rows.Close()

	var out []model.TransferLink
	for rows.Next() {
		var link model.TransferLink
		var debitDate, creditDate, confidence string
		if err := rows.Scan(&link.ID, &link.DebitKey, &link.CreditKey,
			&link.DebitAccount, &link.CreditAccount,
			&debitDate, &creditDate, &link.Amount, &link.DateDeltaDays, &confidence); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		link.DebitDate, err = time.Parse(dateFormat, debitDate)
		if err != nil {
			return nil, fmt.Errorf("parsing stored date %q: %w", debitDate, err)
		}
		link.CreditDate, err = time.Parse(dateFormat, creditDate)
		if err != nil {
			return nil, fmt.Errorf("parsing stored date %q: %w", creditDate, err)
		}
		link.Confidence = model.LinkConfidence(confidence)
		out = append(out, link)
	}
	return out, rows.Err()
}

func (s *Store) AddAdjustment(adj model.SweepAdjustment) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO sweep_adjustments
		(account, effective_date, delta, note, created_at) VALUES (?, ?, ?, ?, ?)`,
		adj.AccountID, adj.EffectiveDate.Format(dateFormat), adj.Delta, adj.Note,
		adj.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("insert adjustment: %w", err)
	}
	adjID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("adjustment id: %w", err)
	}
	return adjID, nil
}

func (s *Store) AdjustmentsByAccount(accountID string) ([]model.SweepAdjustment, error) {
	return s.queryAdjustments(`SELECT id, account, effective_date, delta, note, created_at
		FROM sweep_adjustments WHERE account = ? ORDER BY effective_date, id`, accountID)
}

func (s *Store) AllAdjustments() ([]model.SweepAdjustment, error) {
	return s.queryAdjustments(`SELECT id, account, effective_date, delta, note, created_at
		FROM sweep_adjustments ORDER BY effective_date, id`)
}

func (s *Store) queryAdjustments(query string, args ...any) ([]model.SweepAdjustment, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query adjustments: %w", err)
	}
	defer rows.Close()

	var out []model.SweepAdjustment
	for rows.Next() {
		var adj model.SweepAdjustment
		var effective, created string
		if err := rows.Scan(&adj.ID, &adj.AccountID, &effective, &adj.Delta, &adj.Note, &created); err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		adj.EffectiveDate, err = time.Parse(dateFormat, effective)
		if err != nil {
			return nil, fmt.Errorf("parsing stored date %q: %w", effective, err)
		}
		adj.CreatedAt, err = time.Parse(time.RFC3339, created)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at %q: %w", created, err)
		}
		out = append(out, adj)
	}
	return out, rows.Err()
}

func (s *Store) RemoveAdjustment(adjID int64) error {
	res, err := s.db.Exec(`DELETE FROM sweep_adjustments WHERE id = ?`, adjID)
	if err != nil {
		return fmt.Errorf("delete adjustment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete adjustment: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("adjustment %d not found", adjID)
	}
	return nil
}
