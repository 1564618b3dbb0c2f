package catalogs

import (
	"strings"
	"unicode"
)

// NormalizeName trims and lowercases a catalog name for storage or lookup.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// FormatName renders a stored name for display: filament types are acronyms
// and go upper case, everything else is title cased ("glow-in-the-dark" ->
// "Glow-In-The-Dark").
func FormatName(kind Kind, name string) string {
	if kind == KindType {
		return strings.ToUpper(name)
	}
	return titleCase(name)
}

func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) && !prevLetter:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}
