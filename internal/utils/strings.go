package utils

import (
	"strings"
	"unicode"
)

// ToSnakeCase converts a string from CamelCase to snake_case.
func ToSnakeCase(s string) string {
	var res strings.Builder
	res.Grow(len(s) + 5)
	for i, r := range s {
		if !unicode.IsUpper(r) {
			res.WriteRune(r)
			continue
		}
		if i > 0 {
			prev := rune(s[i-1])
			var next rune
			if i < len(s)-1 {
				next = rune(s[i+1])
			}
			if (!unicode.IsUpper(prev) && prev != '_') ||
				(unicode.IsUpper(prev) && next != 0 && !unicode.IsUpper(next) && next != '_') {
				res.WriteRune('_')
			}
		}
		res.WriteRune(unicode.ToLower(r))
	}
	return res.String()
}

// IsIdentifierStart reports whether r can start an axis or function name: an ASCII letter or underscore.
func IsIdentifierStart(r byte) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

// IsIdentifierPart reports whether r can continue an axis or function name.
func IsIdentifierPart(r byte) bool {
	return IsIdentifierStart(r) || IsDigit(r)
}

// IsDigit reports whether r is an ASCII decimal digit.
func IsDigit(r byte) bool {
	return r >= '0' && r <= '9'
}

// NormalizeIdentifier converts a name (a plan name used as a module name, or an input name)
// to a valid StableHLO identifier: only letters, digits, and underscores are allowed.
//
// Invalid characters are replaced with underscores.
// If the name starts with a digit, it is prefixed with an underscore.
func NormalizeIdentifier(name string) string {
	if name == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(name) + 1)
	if IsDigit(name[0]) {
		b.WriteByte('_')
	}
	for i := 0; i < len(name); i++ {
		if IsIdentifierPart(name[i]) {
			b.WriteByte(name[i])
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
