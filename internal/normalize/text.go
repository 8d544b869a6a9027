package normalize

import "strings"

// CleanDescription normalizes statement narration: whitespace runs
// collapse to single spaces and filler runs of dashes or asterisks are
// removed. A lone dash survives, separators like "NEFT--AXIS---REF" do not.
func CleanDescription(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = dropRuns(s, '-', 2)
	s = dropRuns(s, '*', 1)
	return strings.Join(strings.Fields(s), " ")
}

// dropRuns removes runs of ch at least minRun long.
func dropRuns(s string, ch byte, minRun int) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != ch {
			b.WriteByte(s[i])
			i++
			continue
		}
		j := i
		for j < len(s) && s[j] == ch {
			j++
		}
		if j-i < minRun {
			b.WriteString(s[i:j])
		}
		i = j
	}
	return b.String()
}
