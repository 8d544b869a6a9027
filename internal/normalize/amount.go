package normalize

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountParseError reports a money cell that cannot be normalized.
type AmountParseError struct {
	Value  string
	Reason string
}

func (e AmountParseError) Error() string {
	return fmt.Sprintf("unparseable amount %q: %s", e.Value, e.Reason)
}

// currencyTokens are stripped from either end of an amount cell.
// "RS." must precede "RS" so the dot goes with it.
var currencyTokens = []string{"₹", "RS.", "RS", "INR"}

// ParseAmount converts a statement money cell to a decimal. Empty cells
// (and a bare dash) are zero. Parenthesized amounts are negative.
// Digit-group separators must sit on Indian (1,50,000) or Western
// (150,000) boundaries.
func ParseAmount(cell string) (decimal.Decimal, error) {
	s := strings.TrimSpace(cell)
	s = strings.Trim(s, `"'`)
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return decimal.Zero, nil
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = trimCurrency(s)
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = strings.TrimSpace(s[1:])
	} else if strings.HasPrefix(s, "+") {
		s = strings.TrimSpace(s[1:])
	}
	s = trimCurrency(s)

	if strings.Contains(s, ",") {
		stripped, ok := stripGrouping(s)
		if !ok {
			return decimal.Zero, AmountParseError{Value: cell, Reason: "misplaced digit separators"}
		}
		s = stripped
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, AmountParseError{Value: cell, Reason: "not a number"}
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

func trimCurrency(s string) string {
	for {
		t := strings.TrimSpace(s)
		upper := strings.ToUpper(t)
		trimmed := false
		for _, tok := range currencyTokens {
			if strings.HasPrefix(upper, tok) {
				t = strings.TrimSpace(t[len(tok):])
				trimmed = true
				break
			}
			if strings.HasSuffix(upper, tok) {
				t = strings.TrimSpace(t[:len(t)-len(tok)])
				trimmed = true
				break
			}
		}
		s = t
		if !trimmed {
			return s
		}
	}
}

// stripGrouping removes comma separators after checking they sit on
// valid boundaries under either grouping convention.
func stripGrouping(s string) (string, bool) {
	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	if strings.Contains(fracPart, ",") {
		return "", false
	}
	groups := strings.Split(intPart, ",")
	if !indianGroups(groups) && !westernGroups(groups) {
		return "", false
	}
	out := strings.Join(groups, "")
	if hasFrac {
		out += "." + fracPart
	}
	return out, true
}

// westernGroups matches 3-3-3 grouping: "150,000", "1,234,567".
func westernGroups(groups []string) bool {
	if len(groups) < 2 || len(groups[0]) == 0 || len(groups[0]) > 3 {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return false
		}
	}
	return true
}

// indianGroups matches 2-2-3 grouping: "1,50,000", "12,34,56,789".
func indianGroups(groups []string) bool {
	if len(groups) < 2 || len(groups[0]) == 0 || len(groups[0]) > 2 {
		return false
	}
	if len(groups[len(groups)-1]) != 3 {
		return false
	}
	for _, g := range groups[1 : len(groups)-1] {
		if len(g) != 2 {
			return false
		}
	}
	return true
}
