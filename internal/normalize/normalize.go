// Package normalize turns raw model completions into parseable JSON.
//
// Models wrap JSON in Markdown fences, surround it with prose, leave raw
// newlines inside strings, add trailing commas and get cut off mid-document
// when they hit the token limit. Normalize repairs those defects with
// string-aware scanners; it does not try to fix arbitrary syntax errors.
package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Stages reported by MalformedError.
const (
	StageLocate = "locate"
	StageDecode = "decode"
	StageShape  = "shape"
)

// MalformedError reports a completion that could not be turned into a JSON
// object.
type MalformedError struct {
	Stage   string
	Offset  int
	Snippet string
	Err     error
}

func (e *MalformedError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("malformed response (%s): %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("malformed response (%s) at offset %d near %q: %v", e.Stage, e.Offset, e.Snippet, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// Normalize returns repaired JSON text extracted from raw. A bare top-level
// array is wrapped as {"questions": [...]}.
func Normalize(raw string) (string, error) {
	s := stripFences(raw)
	s = strings.TrimSpace(strings.TrimPrefix(s, "\ufeff"))
	if s == "" {
		return "", &MalformedError{Stage: StageLocate, Err: errors.New("empty response")}
	}

	// Leading brace lost: the text opens with a quoted key.
	if s[0] == '"' && looksLikeKey(s) {
		s = "{" + s
	}

	start := jsonStart(s)
	if start < 0 {
		return "", &MalformedError{
			Stage:   StageLocate,
			Snippet: snippet(s, 0),
			Err:     errors.New("no JSON object or array found"),
		}
	}
	s = s[start:]
	if end := matchingEnd(s); end > 0 {
		s = s[:end]
	}

	s = escapeControlChars(s)
	s = removeTrailingCommas(s)
	s = repairTruncation(s)

	if s[0] == '[' {
		s = `{"questions": ` + s + `}`
	}
	return s, nil
}

// Parse normalizes raw and decodes it into a JSON object. Numbers decode as
// json.Number.
func Parse(raw string) (map[string]any, error) {
	s, err := Normalize(raw)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		off := int(dec.InputOffset())
		var synErr *json.SyntaxError
		if errors.As(err, &synErr) {
			off = int(synErr.Offset)
		}
		return nil, &MalformedError{Stage: StageDecode, Offset: off, Snippet: snippet(s, off), Err: err}
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &MalformedError{Stage: StageShape, Err: fmt.Errorf("top-level value is %T, want object", v)}
	}
	return obj, nil
}

const fence = "```"

// stripFences drops the opening fence line when it precedes any JSON and a
// closing fence at the very end. Fences inside string values are kept;
// anything after a complete document is cut later by matchingEnd.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if open := strings.Index(s, fence); open >= 0 && !strings.ContainsAny(s[:open], "{[\"") {
		s = s[open+len(fence):]
		i := 0
		for i < len(s) && isTagByte(s[i]) {
			i++
		}
		s = strings.TrimLeft(s[i:], " \t")
		s = strings.TrimPrefix(strings.TrimPrefix(s, "\r"), "\n")
	}
	s = strings.TrimSpace(s)
	return strings.TrimSuffix(s, fence)
}

func isTagByte(c byte) bool {
	return c == '_' || c == '-' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// looksLikeKey reports whether s opens with a string followed by a colon.
func looksLikeKey(s string) bool {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			rest := strings.TrimLeft(s[i+1:], " \t\r\n")
			return strings.HasPrefix(rest, ":")
		}
	}
	return false
}

// jsonStart picks the first '{', unless an array of objects opens earlier.
func jsonStart(s string) int {
	obj := strings.IndexByte(s, '{')
	arr := strings.IndexByte(s, '[')
	if arr >= 0 && (obj < 0 || arr < obj) {
		rest := strings.TrimLeft(s[arr+1:], " \t\r\n")
		if rest == "" || rest[0] == '{' || rest[0] == ']' {
			return arr
		}
	}
	return obj
}

// matchingEnd returns the offset just past the closer that balances s[0],
// or -1 when s is truncated.
func matchingEnd(s string) int {
	depth := 0
	inStr := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inStr {
			switch c {
			case '\\':
				i++
			case '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

// escapeControlChars escapes raw control characters inside string literals.
func escapeControlChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inStr := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !inStr {
			if c == '"' {
				inStr = true
			}
			b.WriteByte(c)
			continue
		}
		switch {
		case c == '\\':
			b.WriteByte(c)
			if i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			}
		case c == '"':
			inStr = false
			b.WriteByte(c)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case c == '\t':
			b.WriteString(`\t`)
		case c < 0x20:
			fmt.Fprintf(&b, `\u%04x`, c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// removeTrailingCommas drops commas that directly precede '}' or ']'.
func removeTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inStr := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inStr {
			b.WriteByte(c)
			switch c {
			case '\\':
				if i+1 < len(s) {
					i++
					b.WriteByte(s[i])
				}
			case '"':
				inStr = false
			}
			continue
		}
		if c == ',' {
			j := i + 1
			for j < len(s) && isSpace(s[j]) {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue
			}
		}
		if c == '"' {
			inStr = true
		}
		b.WriteByte(c)
	}
	return b.String()
}

type frame struct {
	open      byte
	expectKey bool // inside an object, the next string is a key
}

// repairTruncation closes whatever a cut-off document left open.
func repairTruncation(s string) string {
	var stack []frame
	inStr := false
	pendingKey := false // a key string closed with no colon yet

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inStr {
			switch c {
			case '\\':
				i++
			case '"':
				inStr = false
				if n := len(stack); n > 0 && stack[n-1].open == '{' && stack[n-1].expectKey {
					pendingKey = true
				}
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			stack = append(stack, frame{open: '{', expectKey: true})
		case '[':
			stack = append(stack, frame{open: '['})
		case '}', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case ':':
			pendingKey = false
			if n := len(stack); n > 0 {
				stack[n-1].expectKey = false
			}
		case ',':
			if n := len(stack); n > 0 && stack[n-1].open == '{' {
				stack[n-1].expectKey = true
			}
		}
	}

	if len(stack) == 0 && !inStr {
		return s
	}

	var b bytes.Buffer
	b.WriteString(s)
	if inStr {
		// A dangling escape would swallow the closing quote.
		if trailingBackslashes(s)%2 == 1 {
			b.Truncate(b.Len() - 1)
		}
		b.WriteByte('"')
		if n := len(stack); n > 0 && stack[n-1].open == '{' && stack[n-1].expectKey {
			pendingKey = true
		}
	}

	out := strings.TrimRight(b.String(), " \t\r\n")
	out = completeLiteral(out)
	switch {
	case pendingKey:
		out += ": null"
	case strings.HasSuffix(out, ","):
		out = strings.TrimRight(out[:len(out)-1], " \t\r\n")
	case strings.HasSuffix(out, ":"):
		out += " null"
	}

	b.Reset()
	b.WriteString(out)
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].open == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}
	return b.String()
}

var literals = []string{"true", "false", "null"}

// completeLiteral finishes a literal or number cut off at the end of s.
func completeLiteral(s string) string {
	i := len(s)
	for i > 0 && isLiteralByte(s[i-1]) {
		i--
	}
	tail := s[i:]
	if tail == "" {
		return s
	}
	for _, lit := range literals {
		if strings.HasPrefix(lit, tail) {
			return s[:i] + lit
		}
	}
	switch tail[len(tail)-1] {
	case '.', '-', '+', 'e', 'E':
		return s + "0"
	}
	return s
}

func isLiteralByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '.' || c == '-' || c == '+' || c == 'E'
}

func trailingBackslashes(s string) int {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// snippet returns up to 40 bytes of s around off.
func snippet(s string, off int) string {
	const radius = 20
	lo := max(off-radius, 0)
	hi := min(off+radius, len(s))
	if lo >= hi {
		return ""
	}
	return s[lo:hi]
}
