// internal/intel/query/normalize.go
package query

import (
	"strings"
	"unicode/utf8"

	"intelcorp/internal/models"
)

// MinLength is the shortest query, in runes, that reaches the network.
const MinLength = 2

// Normalize trims text and jurisdiction. ok is false when the trimmed text is
// shorter than MinLength; callers must then skip every external lookup.
// Case is preserved.
func Normalize(text, jurisdiction string) (models.Query, bool) {
	t := strings.TrimSpace(text)
	if utf8.RuneCountInString(t) < MinLength {
		return models.Query{}, false
	}
	return models.Query{
		Text:         t,
		Jurisdiction: strings.TrimSpace(jurisdiction),
	}, true
}
