// Package directive parses the "format" attribute of schema elements.
//
// A directive is a semicolon separated list of validator invocations, for
// example "valid-url; is-in: 1 2 3". Each entry is either a bare validator
// name or a name followed by a colon and a whitespace separated argument
// list. Arguments wrapped in braces are evaluated with package expr:
//
//	"is-in: 1 2 3"
//	"is-in: {1} {2} {3}"
//	"is-in: {1 + 2} {2 + 3} {3 + 4}"
package directive

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/aretw0/rail/pkg/expr"
)

// Token is one "name[: args]" entry of a directive.
type Token struct {
	Name string
	Args []any
}

// Directive is the ordered result of parsing a directive string.
type Directive []Token

// Names returns the validator names in directive order.
func (d Directive) Names() []string {
	names := make([]string, len(d))
	for i, tok := range d {
		names[i] = tok.Name
	}
	return names
}

// Lookup returns the arguments recorded for name.
func (d Directive) Lookup(name string) ([]any, bool) {
	for _, tok := range d {
		if tok.Name == name {
			return tok.Args, true
		}
	}
	return nil, false
}

// ExpressionError reports a brace-delimited argument that failed to evaluate.
type ExpressionError struct {
	Token string // The directive entry containing the expression
	Err   error
}

func (e *ExpressionError) Error() string {
	return fmt.Sprintf("directive %q: %v", e.Token, e.Err)
}

func (e *ExpressionError) Unwrap() error { return e.Err }

// Tokenize splits a directive on semicolons that are not inside a brace
// span. Empty entries are dropped.
func Tokenize(directive string) []string {
	var tokens []string
	start := 0
	for i := 0; i < len(directive); i++ {
		if directive[i] != ';' || insideBraces(directive, i+1) {
			continue
		}
		tokens = appendToken(tokens, directive[start:i])
		start = i + 1
	}
	return appendToken(tokens, directive[start:])
}

func appendToken(tokens []string, tok string) []string {
	if strings.TrimSpace(tok) == "" {
		return tokens
	}
	return append(tokens, tok)
}

// insideBraces reports whether the first brace at or after from closes a
// span, meaning position from-1 sits inside "{...}".
func insideBraces(s string, from int) bool {
	for j := from; j < len(s); j++ {
		switch s[j] {
		case '{':
			return false
		case '}':
			return true
		}
	}
	return false
}

// ParseToken splits a single directive entry into its validator name and
// arguments.
func ParseToken(token string) (Token, error) {
	name, rawArgs, found := strings.Cut(strings.TrimSpace(token), ":")
	if !found {
		return Token{Name: strings.TrimSpace(name)}, nil
	}

	parts := splitArgs(rawArgs)
	args := make([]any, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if len(part) >= 2 && part[0] == '{' && part[len(part)-1] == '}' {
			v, err := expr.Eval(part[1 : len(part)-1])
			if err != nil {
				return Token{}, &ExpressionError{Token: strings.TrimSpace(token), Err: err}
			}
			args = append(args, v)
			continue
		}
		args = append(args, part)
	}

	return Token{Name: strings.TrimSpace(name), Args: args}, nil
}

// splitArgs splits on whitespace, except whitespace inside a brace span and
// whitespace inside a quoted phrase that runs to the final quote of the
// argument string. Whitespace directly after a quote is not protected.
func splitArgs(s string) []string {
	var parts []string
	start := 0
	for i, r := range s {
		if !unicode.IsSpace(r) {
			continue
		}
		if insideBraces(s, i+1) || insideTrailingQuote(s, i) {
			continue
		}
		if i > start {
			parts = append(parts, s[start:i])
		}
		start = i + 1
	}
	if start < len(s) {
		parts = append(parts, s[start:])
	}
	return parts
}

func insideTrailingQuote(s string, i int) bool {
	if i > 0 && s[i-1] == '\'' {
		return false
	}
	rest := s[i+1:]
	if !strings.HasSuffix(rest, "'") {
		return false
	}
	return !strings.Contains(rest[:len(rest)-1], "'")
}

// Parse tokenizes and parses a whole directive. When a validator name
// appears more than once the later arguments replace the earlier ones; the
// entry keeps the position of its first occurrence.
func Parse(directive string) (Directive, error) {
	var out Directive
	index := make(map[string]int)
	for _, raw := range Tokenize(directive) {
		tok, err := ParseToken(raw)
		if err != nil {
			return nil, err
		}
		if i, ok := index[tok.Name]; ok {
			out[i] = tok
			continue
		}
		index[tok.Name] = len(out)
		out = append(out, tok)
	}
	return out, nil
}
