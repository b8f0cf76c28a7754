package visitors

import (
	"strings"

	"github.com/osuserver/condsql/internal/quoting"
	"github.com/osuserver/condsql/nodes"
)

// Positional rewrites the named placeholders of f into the visitor's
// positional syntax and returns the arguments in placeholder order. A name
// used twice is emitted, and its value passed, twice.
//
// Quoted strings and identifiers are copied untouched, as are "::" casts
// and ":word" tokens that are not parameters of f.
func (b *baseVisitor) Positional(f nodes.Fragment) (string, []any) {
	if len(f.Params) == 0 {
		return f.SQL, nil
	}
	s := f.SQL
	var sb strings.Builder
	sb.Grow(len(s))
	args := make([]any, 0, len(f.Params))

	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			end := quotedEnd(s, i, b.backslashEscapes && c != '`')
			sb.WriteString(s[i:end])
			i = end
		case c == ':' && i+1 < len(s) && s[i+1] == ':':
			sb.WriteString("::")
			i += 2
		case c == ':' && i+1 < len(s) && quoting.IsIdentStart(s[i+1]):
			j := i + 1
			for j < len(s) && quoting.IsIdentPart(s[j]) {
				j++
			}
			name := s[i+1 : j]
			if val, ok := f.Params[name]; ok {
				args = append(args, val)
				sb.WriteString(b.placeholder(len(args)))
			} else {
				sb.WriteString(s[i:j])
			}
			i = j
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String(), args
}

// quotedEnd returns the index just past the quoted section starting at
// start. A doubled quote character is an escaped quote. With backslash set,
// a backslash escapes whatever character follows it.
func quotedEnd(s string, start int, backslash bool) int {
	q := s[start]
	for i := start + 1; i < len(s); i++ {
		if backslash && s[i] == '\\' {
			i++
			continue
		}
		if s[i] != q {
			continue
		}
		if i+1 < len(s) && s[i+1] == q {
			i++
			continue
		}
		return i + 1
	}
	return len(s)
}
