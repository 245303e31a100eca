package normalize

import (
	"strings"
	"unicode"
)

// SnakeKeys returns a copy of v with every object key rewritten to
// snake_case, recursively. When both spellings of a key are present the
// one already in snake_case wins.
func SnakeKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if sk := ToSnake(k); sk == k {
				out[k] = SnakeKeys(val)
			}
		}
		for k, val := range t {
			sk := ToSnake(k)
			if _, taken := out[sk]; sk != k && !taken {
				out[sk] = SnakeKeys(val)
			}
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = SnakeKeys(val)
		}
		return out
	default:
		return v
	}
}

// ToSnake converts camelCase, PascalCase, kebab-case and spaced keys to
// snake_case. Acronym runs stay together: "codeURL" becomes "code_url".
func ToSnake(s string) string {
	rs := []rune(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(rs) + 4)
	for i, r := range rs {
		switch {
		case r == '-' || r == ' ':
			b.WriteByte('_')
		case unicode.IsUpper(r):
			if i > 0 && rs[i-1] != '_' && rs[i-1] != '-' && rs[i-1] != ' ' {
				prevLower := unicode.IsLower(rs[i-1]) || unicode.IsDigit(rs[i-1])
				nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
				if prevLower || (nextLower && unicode.IsUpper(rs[i-1])) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
