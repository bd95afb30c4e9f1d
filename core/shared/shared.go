package shared

import (
	"unicode"
	"unicode/utf8"
)

// Capitalize uppercases the first rune of s and leaves the rest untouched.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
