package models

import "strings"

// EscapeContent converts editor text to its transport form, in which every
// newline is the two characters `\n`. CRLF line endings are normalised.
func EscapeContent(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", `\n`)
}

// UnescapeContent is the inverse of EscapeContent.
func UnescapeContent(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}
