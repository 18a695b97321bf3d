package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SchemaValidator checks a decoded value; a non-nil error rejects it.
type SchemaValidator[T any] func(T) error

// ExtractJSON decodes the first JSON object in raw model output into T.
// Prose and markdown fences around the object are skipped. Comments and
// bare leading decimals such as ".5" are repaired before decoding.
func ExtractJSON[T any](raw string, validator SchemaValidator[T]) (T, error) {
	var zero T

	obj, ok := firstObject(raw)
	if !ok {
		return zero, fmt.Errorf("%w: no JSON object found in response", ErrInvalidOutput)
	}
	var out T
	if err := json.Unmarshal([]byte(repair(obj)), &out); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if validator != nil {
		if err := validator(out); err != nil {
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}
	return out, nil
}

// lexer tracks string literals while text is walked byte by byte.
type lexer struct {
	inString bool
	escaped  bool
}

// step consumes c and reports whether c is outside any string literal and
// is not itself a quote.
func (l *lexer) step(c byte) bool {
	switch {
	case l.escaped:
		l.escaped = false
	case l.inString && c == '\\':
		l.escaped = true
	case c == '"':
		l.inString = !l.inString
	case !l.inString:
		return true
	}
	return false
}

// firstObject returns the first balanced {...} span in s.
func firstObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	var lx lexer
	depth := 0
	for i := start; i < len(s); i++ {
		if !lx.step(s[i]) {
			continue
		}
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// repair drops // and /* */ comments and zero-pads numbers written as ".5"
// or "-.5". String literals pass through untouched.
func repair(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)

	var lx lexer
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !lx.step(c) {
			b.WriteByte(c)
			continue
		}
		if c == '/' && i+1 < len(s) {
			switch s[i+1] {
			case '/':
				if j := strings.IndexByte(s[i:], '\n'); j >= 0 {
					i += j - 1
				} else {
					i = len(s)
				}
				continue
			case '*':
				if j := strings.Index(s[i+2:], "*/"); j >= 0 {
					i += j + 3
				} else {
					i = len(s)
				}
				continue
			}
		}
		if c == '.' && i+1 < len(s) && isDigit(s[i+1]) && opensNumber(lastSignificant(b.String())) {
			b.WriteByte('0')
		}
		b.WriteByte(c)
	}
	return b.String()
}

func lastSignificant(s string) byte {
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return s[i]
	}
	return 0
}

// opensNumber reports whether a value may start right after c.
func opensNumber(c byte) bool {
	switch c {
	case 0, ':', ',', '[', '{', '-':
		return true
	}
	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
