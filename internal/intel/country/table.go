// internal/intel/country/table.go
package country

import "strings"

// PlaceholderFlag is used for codes without a known flag.
const PlaceholderFlag = "🏳️"

// Table maps lower-case ISO-3166 alpha-2 codes to a flag glyph and a display
// label. A Table is read-only after construction and safe for concurrent use.
type Table struct {
	flags  map[string]string
	labels map[string]string
}

// NewTable copies the given maps into an immutable table.
func NewTable(flags, labels map[string]string) *Table {
	t := &Table{
		flags:  make(map[string]string, len(flags)),
		labels: make(map[string]string, len(labels)),
	}
	for k, v := range flags {
		t.flags[strings.ToLower(k)] = v
	}
	for k, v := range labels {
		t.labels[strings.ToLower(k)] = v
	}
	return t
}

// DefaultTable returns the built-in table. Six flagged codes (vg, pa, gh, ke,
// eg, dz) carry no label and fall back to the raw jurisdiction code.
func DefaultTable() *Table {
	return NewTable(defaultFlags, defaultLabels)
}

// Flag returns the glyph for code, or PlaceholderFlag.
func (t *Table) Flag(code string) string {
	if f, ok := t.flags[strings.ToLower(code)]; ok {
		return f
	}
	return PlaceholderFlag
}

// Label returns the display label for code. Unknown codes yield
// strings.ToUpper(fallback).
func (t *Table) Label(code, fallback string) string {
	if l, ok := t.labels[strings.ToLower(code)]; ok {
		return l
	}
	return strings.ToUpper(fallback)
}

// HasLabel reports whether code has a display label.
func (t *Table) HasLabel(code string) bool {
	_, ok := t.labels[strings.ToLower(code)]
	return ok
}

// CountryCode extracts the country part of a jurisdiction code
// ("us_de" -> "us"). The result is lower-cased.
func CountryCode(jurisdiction string) string {
	j := strings.ToLower(strings.TrimSpace(jurisdiction))
	if i := strings.IndexByte(j, '_'); i >= 0 {
		return j[:i]
	}
	return j
}

// NormalizeCode trims and lower-cases an oracle-provided code. Only exactly two
// ASCII letters are accepted; anything else returns "".
func NormalizeCode(raw string) string {
	c := strings.ToLower(strings.TrimSpace(raw))
	if len(c) != 2 {
		return ""
	}
	for i := 0; i < len(c); i++ {
		if c[i] < 'a' || c[i] > 'z' {
			return ""
		}
	}
	return c
}

var defaultFlags = map[string]string{
	"us": "🇺🇸", "gb": "🇬🇧", "fr": "🇫🇷", "de": "🇩🇪", "ch": "🇨🇭", "nl": "🇳🇱", "sg": "🇸🇬",
	"ae": "🇦🇪", "ru": "🇷🇺", "cn": "🇨🇳", "sn": "🇸🇳", "ma": "🇲🇦", "ci": "🇨🇮", "lu": "🇱🇺",
	"be": "🇧🇪", "au": "🇦🇺", "ca": "🇨🇦", "jp": "🇯🇵", "in": "🇮🇳", "br": "🇧🇷", "za": "🇿🇦",
	"ng": "🇳🇬", "ky": "🇰🇾", "ie": "🇮🇪", "se": "🇸🇪", "no": "🇳🇴", "it": "🇮🇹", "es": "🇪🇸",
	"bm": "🇧🇲", "vg": "🇻🇬", "pa": "🇵🇦", "gh": "🇬🇭", "ke": "🇰🇪", "eg": "🇪🇬", "dz": "🇩🇿",
}

var defaultLabels = map[string]string{
	"us": "United States", "gb": "United Kingdom", "fr": "France", "de": "Germany",
	"ch": "Switzerland", "nl": "Netherlands", "sg": "Singapore", "ae": "United Arab Emirates",
	"ru": "Russia", "cn": "China", "sn": "Senegal", "ma": "Morocco", "ci": "Côte d'Ivoire",
	"lu": "Luxembourg", "be": "Belgium", "au": "Australia", "ca": "Canada", "jp": "Japan",
	"in": "India", "br": "Brazil", "za": "South Africa", "ng": "Nigeria",
	"ky": "Cayman Islands", "ie": "Ireland", "se": "Sweden", "no": "Norway", "it": "Italy",
	"es": "Spain", "bm": "Bermuda",
}
