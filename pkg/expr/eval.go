package expr

import (
	"strconv"
	"strings"
)

// Eval evaluates a single expression and returns its value.
func Eval(src string) (any, error) {
	if strings.TrimSpace(src) == "" {
		return nil, &Error{Source: src, Pos: -1, Reason: "empty expression"}
	}

	lex := &lexer{src: src}
	toks, err := lex.tokens()
	if err != nil {
		return nil, err
	}

	p := &parser{src: src, toks: toks}
	v, err := p.expr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.errorf(tok.pos, "unexpected "+describe(tok))
	}
	return v, nil
}

// parser evaluates while it descends; there is no intermediate tree.
type parser struct {
	src  string
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) advance() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) isPunct(s string) bool {
	tok := p.peek()
	return tok.kind == tokPunct && tok.text == s
}

func (p *parser) expect(s string) error {
	if !p.isPunct(s) {
		tok := p.peek()
		return p.errorf(tok.pos, "expected "+s+", found "+describe(tok))
	}
	p.advance()
	return nil
}

func (p *parser) errorf(pos int, reason string) *Error {
	return &Error{Source: p.src, Pos: pos, Reason: reason}
}

// expr := term (('+'|'-') term)*
func (p *parser) expr() (any, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.isPunct("+") || p.isPunct("-") {
		op := p.advance()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		if left, err = binary(op.text, left, right); err != nil {
			return nil, p.errorf(op.pos, err.Error())
		}
	}
	return left, nil
}

// term := unary (('*'|'/') unary)*
func (p *parser) term() (any, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.isPunct("*") || p.isPunct("/") {
		op := p.advance()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		if left, err = binary(op.text, left, right); err != nil {
			return nil, p.errorf(op.pos, err.Error())
		}
	}
	return left, nil
}

func (p *parser) unary() (any, error) {
	if p.isPunct("-") || p.isPunct("+") {
		op := p.advance()
		v, err := p.unary()
		if err != nil {
			return nil, err
		}
		switch n := v.(type) {
		case int64:
			if op.text == "-" {
				return -n, nil
			}
			return n, nil
		case float64:
			if op.text == "-" {
				return -n, nil
			}
			return n, nil
		}
		return nil, p.errorf(op.pos, "bad operand type for unary "+op.text+": "+typeName(v))
	}
	return p.primary()
}

func (p *parser) primary() (any, error) {
	tok := p.advance()
	switch tok.kind {
	case tokInt:
		n, err := strconv.ParseInt(tok.text, 10, 64)
		if err != nil {
			return nil, p.errorf(tok.pos, "integer literal out of range")
		}
		return n, nil
	case tokFloat:
		f, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, p.errorf(tok.pos, "malformed float literal")
		}
		return f, nil
	case tokString:
		return tok.text, nil
	case tokBool:
		return tok.text == "true", nil
	case tokPunct:
		switch tok.text {
		case "(":
			return p.group(tok)
		case "[":
			items, err := p.items("]")
			if err != nil {
				return nil, err
			}
			return items, nil
		case "{":
			if p.isPunct("}") {
				return nil, p.errorf(tok.pos, "empty braces are not a set literal")
			}
			items, err := p.items("}")
			if err != nil {
				return nil, err
			}
			s, err := newSet(items)
			if err != nil {
				return nil, p.errorf(tok.pos, err.Error())
			}
			return s, nil
		}
	}
	return nil, p.errorf(tok.pos, "unexpected "+describe(tok))
}

// group parses either a parenthesized expression or a tuple literal.
func (p *parser) group(open token) (any, error) {
	if p.isPunct(")") {
		p.advance()
		return Tuple{}, nil
	}
	first, err := p.expr()
	if err != nil {
		return nil, err
	}
	if !p.isPunct(",") {
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return first, nil
	}
	p.advance()
	rest := []any{first}
	if !p.isPunct(")") {
		more, err := p.items(")")
		if err != nil {
			return nil, err
		}
		return Tuple(append(rest, more...)), nil
	}
	p.advance()
	return Tuple(rest), nil
}

// items parses a comma separated list up to and including the closing
// delimiter. A trailing comma is accepted.
func (p *parser) items(closing string) ([]any, error) {
	out := []any{}
	for !p.isPunct(closing) {
		v, err := p.expr()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		if !p.isPunct(",") {
			break
		}
		p.advance()
	}
	if err := p.expect(closing); err != nil {
		return nil, err
	}
	return out, nil
}

func describe(tok token) string {
	switch tok.kind {
	case tokEOF:
		return "end of expression"
	case tokString:
		return "string " + strconv.Quote(tok.text)
	}
	return strconv.Quote(tok.text)
}
