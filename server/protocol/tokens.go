package protocol

import (
	"strconv"
	"strings"
)

// Tokens are the fields of a command line
type Tokens []string

// Tokenize splits line on any of the delimiter characters, dropping empty fields.
// An empty delimiter means a single space.
func Tokenize(line, delim string) Tokens {
	if delim == "" {
		delim = " "
	}
	return strings.FieldsFunc(line, func(r rune) bool {
		return strings.ContainsRune(delim, r)
	})
}

// Count is the number of fields
func (t Tokens) Count() int {
	return len(t)
}

// String returns field i or "" when there is none
func (t Tokens) String(i int) string {
	if i < 0 || i >= len(t) {
		return ""
	}
	return t[i]
}

// Int returns field i as an int. Missing or malformed fields read as 0,
// fractional amounts are truncated.
func (t Tokens) Int(i int) int {
	s := t.String(i)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// IntOK is Int but reports whether field i is a valid integer
func (t Tokens) IntOK(i int) (int, bool) {
	n, err := strconv.Atoi(t.String(i))
	return n, err == nil
}

// Tail returns the raw text of line following the first n space-delimited fields
func Tail(line string, n int) string {
	rest := strings.TrimLeft(line, " ")
	for i := 0; i < n && rest != ""; i++ {
		idx := strings.IndexByte(rest, ' ')
		if idx < 0 {
			return ""
		}
		rest = strings.TrimLeft(rest[idx:], " ")
	}
	return rest
}
