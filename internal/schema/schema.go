// Package schema maps raw statement headers to canonical columns.
// Banks name the same column a dozen ways ("Narration", "Particulars",
// "Transaction Details"); the alias table below folds them all onto the
// five canonical fields the rest of the system understands.
package schema

import (
	"fmt"
	"strings"
)

// Field is a canonical statement column.
type Field string

const (
	FieldDate        Field = "date"
	FieldDescription Field = "description"
	FieldDebit       Field = "debit"
	FieldCredit      Field = "credit"
	FieldBalance     Field = "balance"
)

var fieldOrder = []Field{FieldDate, FieldDescription, FieldDebit, FieldCredit, FieldBalance}

// aliases lists accepted header spellings per field, in priority order.
// Matching is case-insensitive with whitespace collapsed.
var aliases = map[Field][]string{
	FieldDate: {
		"date", "txn date", "transaction date", "value date",
		"posting date", "effective date", "trans date",
	},
	FieldDescription: {
		"description", "narration", "remarks", "transaction details",
		"particulars", "transaction description", "details",
	},
	FieldDebit: {
		"debit", "withdrawal amt.", "withdrawal amount", "debit amount",
		"dr amount", "withdrawal", "paid out", "debit amt",
	},
	FieldCredit: {
		"credit", "deposit amt.", "deposit amount", "credit amount",
		"cr amount", "deposit", "paid in", "credit amt",
	},
	FieldBalance: {
		"balance", "balance amt.", "available balance", "closing balance",
		"running balance", "bal amount", "balance amount",
	},
}

// Mapping resolves canonical fields to column indexes in one statement's rows.
type Mapping struct {
	indices map[Field]int
}

// Index returns the column index for a field, if the header mapped it.
func (m Mapping) Index(f Field) (int, bool) {
	i, ok := m.indices[f]
	return i, ok
}

// Has reports whether the header mapped the field.
func (m Mapping) Has(f Field) bool {
	_, ok := m.indices[f]
	return ok
}

// MinRowWidth returns the narrowest row that still covers every mapped column.
func (m Mapping) MinRowWidth() int {
	width := 0
	for _, i := range m.indices {
		if i+1 > width {
			width = i + 1
		}
	}
	return width
}

// MissingFieldError reports mandatory canonical fields absent from a header.
type MissingFieldError struct {
	Missing []string
	Header  []string
}

func (e MissingFieldError) Error() string {
	return fmt.Sprintf("statement header is missing required columns: %s (header: %s)",
		strings.Join(e.Missing, ", "), strings.Join(e.Header, ","))
}

// Map resolves a header row to canonical columns. Alias order decides
// priority: for each field the earliest alias present in the header wins.
// Further columns matching an already-mapped field are reported as
// warnings, never errors. Missing date, or missing both debit and
// credit, is a MissingFieldError.
func Map(header []string) (Mapping, []string, error) {
	norm := make([]string, len(header))
	for i, h := range header {
		norm[i] = normalizeHeader(h)
	}

	indices := make(map[Field]int)
	var warnings []string
	for _, f := range fieldOrder {
		for _, alias := range aliases[f] {
			for i, h := range norm {
				if h != alias {
					continue
				}
				if j, mapped := indices[f]; mapped {
					if i != j {
						warnings = append(warnings, fmt.Sprintf(
							"column %d %q also matches %s; keeping column %d", i+1, header[i], f, j+1))
					}
					continue
				}
				indices[f] = i
			}
		}
	}

	var missing []string
	if _, ok := indices[FieldDate]; !ok {
		missing = append(missing, string(FieldDate))
	}
	_, hasDebit := indices[FieldDebit]
	_, hasCredit := indices[FieldCredit]
	if !hasDebit && !hasCredit {
		missing = append(missing, "debit/credit")
	}
	if len(missing) > 0 {
		return Mapping{}, warnings, MissingFieldError{Missing: missing, Header: header}
	}

	return Mapping{indices: indices}, warnings, nil
}

func normalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(h)), " ")
}
