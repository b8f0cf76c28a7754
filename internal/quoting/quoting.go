// Package quoting provides shared identifier quoting utilities.
package quoting

import "strings"

// DoubleQuote quotes a SQL identifier using double quotes (PostgreSQL, SQLite, ANSI SQL).
// Internal double quotes are escaped by doubling them.
func DoubleQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Backtick quotes a SQL identifier using backticks (MySQL).
// Internal backticks are escaped by doubling them.
func Backtick(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

// IsIdentStart reports whether c may begin a placeholder name.
func IsIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// IsIdentPart reports whether c may continue a placeholder name.
func IsIdentPart(c byte) bool {
	return IsIdentStart(c) || (c >= '0' && c <= '9')
}

// IsIdentifier reports whether s is a valid placeholder name: a letter or
// underscore followed by letters, digits or underscores.
func IsIdentifier(s string) bool {
	if s == "" || !IsIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !IsIdentPart(s[i]) {
			return false
		}
	}
	return true
}

// SanitizeIdentifier maps s onto a valid placeholder name by replacing
// every other byte with '_' and prefixing '_' when s starts with a digit.
func SanitizeIdentifier(s string) string {
	if s == "" {
		return "_"
	}
	b := []byte(s)
	for i, c := range b {
		if !IsIdentPart(c) {
			b[i] = '_'
		}
	}
	if !IsIdentStart(b[0]) {
		return "_" + string(b)
	}
	return string(b)
}

// KeyStem maps a column onto the leading part of a generated placeholder
// name. The result is a valid identifier that never contains "__" and
// never ends in '_', so a "__" appended after it is unambiguous.
func KeyStem(column string) string {
	s := SanitizeIdentifier(column)
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '_' && i > 0 && s[i-1] == '_' {
			continue
		}
		b.WriteByte(s[i])
	}
	stem := strings.TrimRight(b.String(), "_")
	if stem == "" {
		return "p"
	}
	return stem
}
