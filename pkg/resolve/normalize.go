package resolve

import "strings"

// Normalize collapses every whitespace run, line breaks included, into a single
// space and trims the ends.
func Normalize(message string) string {
	return strings.Join(strings.Fields(message), " ")
}
