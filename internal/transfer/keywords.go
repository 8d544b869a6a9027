package transfer

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/khata-dev/khata/internal/model"
)

// transferKeywords are the payment rails and wallets that show up in
// Indian bank narrations when money moves between people.
var transferKeywords = []string{
	"transfer", "imps", "neft", "rtgs", "upi", "paytm", "phonepe",
	"gpay", "google pay", "paym", "bharatpe", "mobikwik",
}

// LooksLikeTransfer reports whether a narration mentions a transfer
// rail or wallet. A coarse textual signal, independent of the
// matcher's amount pairing.
func LooksLikeTransfer(description string) bool {
	lower := strings.ToLower(description)
	for _, kw := range transferKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

const (
	MethodOutgoing = "Outgoing Transfer"
	MethodIncoming = "Incoming Transfer"
	MethodUPI      = "UPI Transfer"
	MethodIMPS     = "IMPS Transfer"
	MethodNEFT     = "NEFT Transfer"
	MethodRTGS     = "RTGS Transfer"
	MethodOther    = "Other Transfer"
)

// rails a narration must mention before it counts toward method stats.
var railPatterns = []string{"TRANSFER", "UPI", "IMPS", "NEFT", "RTGS"}

// ClassifyMethod names the rail a narration used. "TO TRANSFER" marks
// the sending side and "BY TRANSFER" the receiving side, the wording
// Indian banks print on branch transfers.
func ClassifyMethod(description string) string {
	upper := strings.ToUpper(description)
	switch {
	case strings.Contains(upper, "TO TRANSFER"):
		return MethodOutgoing
	case strings.Contains(upper, "BY TRANSFER"):
		return MethodIncoming
	case strings.Contains(upper, "UPI"):
		return MethodUPI
	case strings.Contains(upper, "IMPS"):
		return MethodIMPS
	case strings.Contains(upper, "NEFT"):
		return MethodNEFT
	case strings.Contains(upper, "RTGS"):
		return MethodRTGS
	default:
		return MethodOther
	}
}

// MethodSummary aggregates rail usage over a set of transactions.
type MethodSummary struct {
	Method string
	Count  int
	Total  decimal.Decimal
}

// SummarizeMethods tallies transactions whose narration names a rail,
// ordered by count descending then method name.
func SummarizeMethods(txns []model.Transaction) []MethodSummary {
	totals := make(map[string]*MethodSummary)
	for _, txn := range txns {
		if !mentionsRail(strings.ToUpper(txn.Description)) {
			continue
		}
		method := ClassifyMethod(txn.Description)
		s := totals[method]
		if s == nil {
			s = &MethodSummary{Method: method}
			totals[method] = s
		}
		s.Count++
		s.Total = s.Total.Add(txn.Amount())
	}

	out := make([]MethodSummary, 0, len(totals))
	for _, s := range totals {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Method < out[j].Method
	})
	return out
}

func mentionsRail(upper string) bool {
	for _, p := range railPatterns {
		if strings.Contains(upper, p) {
			return true
		}
	}
	return false
}
