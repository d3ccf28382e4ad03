package listing

import (
	"fmt"
	"strconv"

	"github.com/retroenv/branchalign/internal/instruction"
)

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenNumber
	tokenIdent
	tokenOperator
)

type token struct {
	typ   tokenType
	text  string
	value int64
}

// exprParser is a recursive descent parser for operand expressions:
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { "*" unary }
//	unary   = ("-" | "~" | "!") unary | primary
//	primary = number | ident | "(" expr ")" | ":" ident ":" unary
type exprParser struct {
	text   string
	tokens []token
	pos    int
}

func parseExpr(text string) (*instruction.Expr, error) {
	tokens, err := tokenize(text)
	if err != nil {
		return nil, err
	}

	p := &exprParser{text: text, tokens: tokens}
	expr, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.peek().typ != tokenEOF {
		return nil, fmt.Errorf("%w: unexpected '%s' in expression '%s'", ErrSyntax, p.peek().text, text)
	}
	return expr, nil
}

func (p *exprParser) peek() token {
	return p.tokens[p.pos]
}

func (p *exprParser) next() token {
	t := p.tokens[p.pos]
	if t.typ != tokenEOF {
		p.pos++
	}
	return t
}

func (p *exprParser) isOperator(ops ...string) bool {
	t := p.peek()
	if t.typ != tokenOperator {
		return false
	}
	for _, op := range ops {
		if t.text == op {
			return true
		}
	}
	return false
}

func (p *exprParser) expr() (*instruction.Expr, error) {
	lhs, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.isOperator("+", "-") {
		op := p.next().text
		rhs, err := p.term()
		if err != nil {
			return nil, err
		}
		lhs = instruction.Binary(op, lhs, rhs)
	}
	return lhs, nil
}

func (p *exprParser) term() (*instruction.Expr, error) {
	lhs, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.isOperator("*") {
		op := p.next().text
		rhs, err := p.unary()
		if err != nil {
			return nil, err
		}
		lhs = instruction.Binary(op, lhs, rhs)
	}
	return lhs, nil
}

func (p *exprParser) unary() (*instruction.Expr, error) {
	if p.isOperator("-", "~", "!") {
		op := p.next().text
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return instruction.Unary(op, operand), nil
	}
	return p.primary()
}

func (p *exprParser) primary() (*instruction.Expr, error) {
	t := p.next()

	switch {
	case t.typ == tokenNumber:
		return instruction.Const(t.value), nil

	case t.typ == tokenIdent:
		return instruction.Sym(t.text), nil

	case t.typ == tokenOperator && t.text == "(":
		expr, err := p.expr()
		if err != nil {
			return nil, err
		}
		if !p.isOperator(")") {
			return nil, fmt.Errorf("%w: missing ')' in expression '%s'", ErrSyntax, p.text)
		}
		p.next()
		return expr, nil

	case t.typ == tokenOperator && t.text == ":":
		variant := p.next()
		if variant.typ != tokenIdent || !p.isOperator(":") {
			return nil, fmt.Errorf("%w: invalid variant in expression '%s'", ErrSyntax, p.text)
		}
		p.next()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return instruction.Target(variant.text, operand), nil

	case t.typ == tokenEOF:
		return nil, fmt.Errorf("%w: unexpected end of expression '%s'", ErrSyntax, p.text)

	default:
		return nil, fmt.Errorf("%w: unexpected '%s' in expression '%s'", ErrSyntax, t.text, p.text)
	}
}

func tokenize(text string) ([]token, error) {
	var tokens []token

	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == ' ' || c == '\t':
			i++

		case isDigit(c):
			start := i
			for i < len(text) && isIdentChar(text[i]) {
				i++
			}
			value, err := strconv.ParseInt(text[start:i], 0, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid number '%s'", ErrSyntax, text[start:i])
			}
			tokens = append(tokens, token{typ: tokenNumber, text: text[start:i], value: value})

		case isIdentStart(c):
			start := i
			for i < len(text) && isIdentChar(text[i]) {
				i++
			}
			tokens = append(tokens, token{typ: tokenIdent, text: text[start:i]})

		case isOperatorChar(c):
			tokens = append(tokens, token{typ: tokenOperator, text: string(c)})
			i++

		default:
			return nil, fmt.Errorf("%w: unexpected character '%c' in expression '%s'", ErrSyntax, c, text)
		}
	}

	return append(tokens, token{typ: tokenEOF}), nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '.' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isOperatorChar(c byte) bool {
	switch c {
	case '+', '-', '*', '~', '!', '(', ')', ':':
		return true
	}
	return false
}
