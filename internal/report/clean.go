package report

import (
	"regexp"
	"strings"
)

// unclearMarker matches the "(unclear)" annotations the text-extraction
// model inserts, together with the whitespace that precedes them.
var unclearMarker = regexp.MustCompile(`(?i)\s*\(unclear\)`)

// Clean strips extraction uncertainty markers and trims the result.
// Idempotent: Clean(Clean(s)) == Clean(s).
func Clean(s string) string {
	return strings.TrimSpace(unclearMarker.ReplaceAllString(s, ""))
}

// IsMeaningful reports whether a field value is worth rendering. Empty
// strings and the usual placeholder literals are not.
func IsMeaningful(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "n/a", "not specified", "none", "undefined":
		return false
	}
	return true
}
