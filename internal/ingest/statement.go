// Package ingest turns raw bank statement exports into canonical
// transactions: one file in, one account and its rows out. A Session
// runs whole directories through that parse with bounded parallelism
// and writes results to the ledger store.
package ingest

import (
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/khata-dev/khata/internal/id"
	"github.com/khata-dev/khata/internal/model"
	"github.com/khata-dev/khata/internal/normalize"
	"github.com/khata-dev/khata/internal/schema"
)

// Statement is one parsed bank export.
type Statement struct {
	Account      model.Account
	Transactions []model.Transaction
	Encoding     string // code page the bytes decoded under
	DateLayout   string // layout the file's dates voted for
	Stats        RowStats
	RowErrors    []RowError // rows skipped, with why
	Warnings     []string   // header anomalies worth surfacing
}

// RowStats counts one file's parse outcomes.
type RowStats struct {
	DataRows int
	Parsed   int
	Skipped  int
}

// RowError records one skipped row. Row numbers are 1-based file
// lines, the header being row 1.
type RowError struct {
	Row int
	Err error
}

// ParseStatement parses one statement export end to end: account from
// the file name, encoding detection, header mapping, then every data
// row through the normalizer. Rows that fail are skipped and recorded,
// not fatal; a file where every data row fails is an UnparseableError.
func ParseStatement(name string, raw []byte) (Statement, error) {
	account, err := accountForName(name)
	if err != nil {
		return Statement{}, err
	}

	text, encoding, err := normalize.DecodeBytes(raw)
	if err != nil {
		return Statement{}, fmt.Errorf("decoding %s: %w", name, err)
	}

	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return Statement{}, fmt.Errorf("reading %s: %w", name, err)
	}

	var header []string
	var rows [][]string
	if len(records) > 0 {
		header, rows = records[0], records[1:]
	}
	mapping, warnings, err := schema.Map(header)
	if err != nil {
		return Statement{}, fmt.Errorf("%s: %w", name, err)
	}

	stmt := Statement{Account: account, Encoding: encoding, Warnings: warnings}
	dateCol, _ := mapping.Index(schema.FieldDate)
	stmt.DateLayout = sniffLayout(rows, dateCol)

	for i, record := range rows {
		if blankRow(record) {
			continue
		}
		stmt.Stats.DataRows++

		txn, err := parseRow(record, mapping, account.ID, stmt.DateLayout)
		if err != nil {
			stmt.Stats.Skipped++
			stmt.RowErrors = append(stmt.RowErrors, RowError{Row: i + 2, Err: err})
			continue
		}
		stmt.Stats.Parsed++
		stmt.Transactions = append(stmt.Transactions, txn)
	}

	if stmt.Stats.DataRows > 0 && stmt.Stats.Parsed == 0 {
		return Statement{}, &UnparseableError{Name: name, Rows: stmt.Stats.DataRows}
	}
	return stmt, nil
}

func accountForName(name string) (model.Account, error) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	owner, bank, err := id.ParseAccountID(base)
	if err != nil {
		return model.Account{}, &NamingError{Name: name}
	}
	return model.NewAccount(owner, bank), nil
}

func parseRow(record []string, mapping schema.Mapping, accountID, layout string) (model.Transaction, error) {
	if len(record) < mapping.MinRowWidth() {
		return model.Transaction{}, fmt.Errorf("row has %d columns, need %d", len(record), mapping.MinRowWidth())
	}

	txn := model.Transaction{AccountID: accountID}

	dateCol, _ := mapping.Index(schema.FieldDate)
	date, err := normalize.ParseDate(record[dateCol], layout)
	if err != nil {
		return model.Transaction{}, err
	}
	txn.Date = date

	if col, ok := mapping.Index(schema.FieldDescription); ok {
		txn.Description = normalize.CleanDescription(record[col])
	}
	if col, ok := mapping.Index(schema.FieldDebit); ok {
		txn.Debit, err = normalize.ParseAmount(record[col])
		if err != nil {
			return model.Transaction{}, err
		}
	}
	if col, ok := mapping.Index(schema.FieldCredit); ok {
		txn.Credit, err = normalize.ParseAmount(record[col])
		if err != nil {
			return model.Transaction{}, err
		}
	}
	if col, ok := mapping.Index(schema.FieldBalance); ok {
		txn.Balance = parseBalance(record[col])
	}

	if errs := model.ValidateTransaction(txn); len(errs) > 0 {
		return model.Transaction{}, errs[0]
	}
	return txn, nil
}

// parseBalance treats the running balance as best-effort: it is
// informational, so a blank, dashed, or garbled cell becomes null
// rather than sinking the row.
func parseBalance(cell string) decimal.NullDecimal {
	s := strings.TrimSpace(cell)
	if s == "" || s == "-" {
		return decimal.NullDecimal{}
	}
	d, err := normalize.ParseAmount(cell)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func sniffLayout(records [][]string, dateCol int) string {
	var cells []string
	for _, record := range records {
		if blankRow(record) || len(record) <= dateCol {
			continue
		}
		cells = append(cells, record[dateCol])
	}
	return normalize.SniffDateLayout(cells)
}

func blankRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
