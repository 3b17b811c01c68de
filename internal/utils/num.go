package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var rxKeepNums = regexp.MustCompile(`[^\d\.\-]`)

// ParseFloat parses "1 234,50", "197 ,00", "2 345.6" and the like,
// tolerating NBSP/NNBSP separators and comma decimals.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	repl := strings.NewReplacer("\u00A0", "", "\u2009", "", "\u202F", "", " ", "", "\t", "", ",", ".")
	s = repl.Replace(s)
	s = rxKeepNums.ReplaceAllString(s, "")
	if s == "" || s == "-" || s == "." {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

var curly = strings.NewReplacer("‘", "'", "’", "'", "“", `"`, "”", `"`)

// NormKey is the identity normalization used for every comparison in the
// engine: straighten curly quotes, collapse whitespace runs, trim, lower-case.
// Case/spacing differences must never split one real-world entity into two.
func NormKey(s string) string {
	s = curly.Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToLower(s)
}
