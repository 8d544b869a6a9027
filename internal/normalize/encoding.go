// Package normalize converts the raw cell values found in bank CSV
// exports (dates in half a dozen layouts, amounts with Indian digit
// grouping, narration noise) into canonical Go values.
package normalize

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// legacyEncodings are tried after UTF-8, in order.
var legacyEncodings = []struct {
	name string
	cm   *charmap.Charmap
}{
	{"iso8859-1", charmap.ISO8859_1},
	{"windows-1252", charmap.Windows1252},
}

// DecodeBytes converts raw statement bytes to UTF-8 text. UTF-8 is
// tried first, then the legacy code pages; a candidate is rejected when
// decoding yields too many replacement or control characters.
func DecodeBytes(raw []byte) (text, encoding string, err error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return string(raw), "utf-8", nil
	}
	for _, enc := range legacyEncodings {
		decoded, err := enc.cm.NewDecoder().Bytes(raw)
		if err != nil {
			continue
		}
		s := string(decoded)
		if acceptable(s) {
			return s, enc.name, nil
		}
	}
	return "", "", fmt.Errorf("unable to determine text encoding")
}

// acceptable rejects a decoding once its suspicious runes (U+FFFD
// replacements and C1 controls) exceed 4 or 1% of the text.
func acceptable(s string) bool {
	suspect, total := 0, 0
	for _, r := range s {
		total++
		if r == utf8.RuneError || (r >= 0x80 && r <= 0x9f) {
			suspect++
		}
	}
	if suspect == 0 {
		return true
	}
	return suspect <= 4 && suspect*100 <= total
}
