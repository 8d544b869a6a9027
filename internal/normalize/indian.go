package normalize

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatIndianCurrency renders an amount in rupees with Indian digit
// grouping, dropping zero paise: -150000.5 becomes "-₹1,50,000.50".
func FormatIndianCurrency(d decimal.Decimal) string {
	if d.IsZero() {
		return "₹0"
	}
	intPart, fracPart, _ := strings.Cut(d.Abs().StringFixed(2), ".")
	out := groupIndian(intPart)
	if fracPart != "00" {
		out += "." + fracPart
	}
	out = "₹" + out
	if d.IsNegative() {
		out = "-" + out
	}
	return out
}

// FormatIndianNumber renders a count with Indian digit grouping and no
// currency symbol, truncating any fraction.
func FormatIndianNumber(d decimal.Decimal) string {
	t := d.Truncate(0)
	if t.IsZero() {
		return "0"
	}
	out := groupIndian(t.Abs().String())
	if t.IsNegative() {
		out = "-" + out
	}
	return out
}

// groupIndian inserts commas per the Indian system: the last three
// digits form one group, the rest pair off from the right.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	groups := []string{digits[len(digits)-3:]}
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)
	return strings.Join(groups, ",")
}
