package normalize

import (
	"fmt"
	"strings"
	"time"
)

// DateParseError reports a date cell no accepted layout matches.
type DateParseError struct {
	Value string
}

func (e DateParseError) Error() string {
	return fmt.Sprintf("unrecognized date %q", e.Value)
}

// dateLayouts are tried in order. Day-first forms come before
// month-first so ambiguous cells lean day-first, the way Indian bank
// exports are written; SniffDateLayout overrides per file. Unpadded
// layouts accept both "5-4-2024" and "05-04-2024".
var dateLayouts = []string{
	"2-Jan-06",
	"2-Jan-2006",
	"2-1-2006",
	"2/1/2006",
	"2006-1-2",
	"2-1-06",
	"2/1/06",
	"1-2-2006",
	"1/2/2006",
	"1-2-06",
	"1/2/06",
}

// ParseDate parses a statement date cell to a UTC midnight. When the
// cell is valid under several layouts, preferred (usually the result of
// SniffDateLayout) wins if it is among them; otherwise layout order
// decides.
func ParseDate(cell, preferred string) (time.Time, error) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return time.Time{}, DateParseError{Value: cell}
	}

	var first time.Time
	found := false
	for _, layout := range dateLayouts {
		ts, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		ts = midnightUTC(ts)
		if layout == preferred {
			return ts, nil
		}
		if !found {
			first, found = ts, true
		}
	}
	if !found {
		return time.Time{}, DateParseError{Value: cell}
	}
	return first, nil
}

// SniffDateLayout scans a file's date cells and returns the layout
// matching the most of them, favoring earlier layouts on ties. Cells
// that are ambiguous between day-first and month-first vote for both;
// cells with a day above 12 settle the question. Empty result means no
// cell matched anything.
func SniffDateLayout(cells []string) string {
	votes := make(map[string]int)
	for _, cell := range cells {
		s := strings.TrimSpace(cell)
		if s == "" {
			continue
		}
		for _, layout := range dateLayouts {
			if _, err := time.Parse(layout, s); err == nil {
				votes[layout]++
			}
		}
	}

	best := ""
	bestVotes := 0
	for _, layout := range dateLayouts {
		if votes[layout] > bestVotes {
			best, bestVotes = layout, votes[layout]
		}
	}
	return best
}

func midnightUTC(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}
