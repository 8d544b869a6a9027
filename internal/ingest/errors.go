package ingest

import "fmt"

// NamingError reports a statement file whose name does not identify an
// account. Names must be Owner_Bank.csv with exactly one underscore.
type NamingError struct {
	Name string
}

func (e *NamingError) Error() string {
	return fmt.Sprintf("statement name %q must be Owner_Bank.csv", e.Name)
}

// UnparseableError reports a statement none of whose data rows parsed.
type UnparseableError struct {
	Name string
	Rows int
}

func (e *UnparseableError) Error() string {
	return fmt.Sprintf("statement %q: none of its %d data rows parsed", e.Name, e.Rows)
}
