//nolint:revive,nolintlint // I like this package name, leave me alone
package utils

import (
	"strings"
)

// NormalizeSpaces collapses every whitespace flavour the portal emits into
// single plain spaces. Tooltip attributes in particular mix newlines,
// non-breaking spaces and tabs inside one value.
func NormalizeSpaces(str string) string {
	str = strings.ReplaceAll(str, "&nbsp;", " ") // html non-breaking space
	str = strings.ReplaceAll(str, "\u00A0", " ") // no-break space
	str = strings.ReplaceAll(str, "\u0085", " ") // next line
	str = strings.ReplaceAll(str, "\u2009", " ") // thin space
	str = strings.ReplaceAll(str, "\u200A", " ") // hair space
	str = strings.ReplaceAll(str, "\u200B", " ") // zero-width space
	str = strings.ReplaceAll(str, "\u200C", " ") // zero-width non-joiner
	str = strings.ReplaceAll(str, "\u200D", " ") // zero-width joiner
	str = strings.ReplaceAll(str, "\uFEFF", " ") // zero-width non-breaking space
	str = strings.ReplaceAll(str, "\u202F", " ") // narrow no-break space
	str = strings.ReplaceAll(str, "\t", " ")     // tab
	str = strings.ReplaceAll(str, "\n", " ")     // newline
	str = strings.ReplaceAll(str, "\r", " ")     // carriage return
	str = strings.ReplaceAll(str, "\v", " ")     // vertical tab
	str = strings.ReplaceAll(str, "\f", " ")     // form feed
	str = strings.Join(strings.Fields(str), " ") // replace consecutive spaces with single space
	str = strings.TrimSpace(str)                 // remove leading and trailing spaces

	return str
}
