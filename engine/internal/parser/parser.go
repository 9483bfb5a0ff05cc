package parser

import (
	"fmt"
	"strconv"

	"github.com/wippyai/sitypes"
	"github.com/wippyai/sitypes/engine/internal/token"
)

// Grammar:
//
//	expr     := term { ('*' | '/' | <implicit>) term }
//	term     := ['+' | '-'] power
//	power    := factor ['^' exponent]
//	exponent := ['+' | '-'] integer | '(' ['+' | '-'] integer ['/' integer] ')'
//	factor   := number | symbol | '(' expr ')'
//
// Juxtaposition is multiplication. A sign is only accepted where a term starts;
// anywhere else it reads as addition or subtraction, which is rejected.
type Parser struct {
	input  string
	tokens []token.Token
	pos    int
}

func New(input string) *Parser {
	return &Parser{
		input:  input,
		tokens: token.Tokenize(input),
	}
}

// Parse tokenizes and parses input in one step.
func Parse(input string) (Node, error) {
	return New(input).Parse()
}

func (p *Parser) Parse() (Node, error) {
	if len(p.tokens) == 0 {
		return nil, fmt.Errorf("empty expression")
	}
	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t != nil {
		return nil, p.unexpected(t)
	}
	return n, nil
}

func (p *Parser) peek() *token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos]
}

func (p *Parser) next() *token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	t := &p.tokens[p.pos]
	p.pos++
	return t
}

func (p *Parser) expect(typ token.Type) (*token.Token, error) {
	t := p.next()
	if t == nil {
		return nil, fmt.Errorf("unexpected end of expression, expected %v", typ)
	}
	if t.Type != typ {
		return nil, fmt.Errorf("position %d: expected %v, got %q", t.Pos, typ, t.Value)
	}
	return t, nil
}

func (p *Parser) unexpected(t *token.Token) error {
	switch t.Type {
	case token.Plus, token.Minus:
		return fmt.Errorf("position %d: addition and subtraction are not allowed in unit expressions", t.Pos)
	case token.Illegal:
		return fmt.Errorf("position %d: unexpected character %q", t.Pos, t.Value)
	}
	return fmt.Errorf("position %d: unexpected %v %q", t.Pos, t.Type, t.Value)
}

func (p *Parser) parseExpr() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for {
		t := p.peek()
		if t == nil {
			return left, nil
		}

		var op token.Type
		switch t.Type {
		case token.Mul, token.Div:
			op = t.Type
			p.next()
		case token.Number, token.Symbol, token.LParen:
			op = token.Mul
		case token.RParen:
			return left, nil
		default:
			return nil, p.unexpected(t)
		}

		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseTerm() (Node, error) {
	neg := false
	if t := p.peek(); t != nil && (t.Type == token.Plus || t.Type == token.Minus) {
		neg = t.Type == token.Minus
		p.next()
	}

	n, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	if !neg {
		return n, nil
	}
	// Fold the sign into a bare literal
	if num, ok := n.(*Number); ok {
		return &Number{Text: "-" + num.Text, Value: -num.Value}, nil
	}
	return &Negate{X: n}, nil
}

func (p *Parser) parsePower() (Node, error) {
	base, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t == nil || t.Type != token.Pow {
		return base, nil
	}
	p.next()

	exp, err := p.parseExponent()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t != nil && t.Type == token.Pow {
		return nil, fmt.Errorf("position %d: chained powers are ambiguous, use parentheses", t.Pos)
	}
	return &Power{Base: base, Exp: exp}, nil
}

func (p *Parser) parseExponent() (sitypes.Rational, error) {
	t := p.peek()
	if t == nil {
		return sitypes.Rational{}, fmt.Errorf("unexpected end of expression, expected exponent")
	}
	if t.Type != token.LParen {
		n, err := p.parseSignedInt()
		if err != nil {
			return sitypes.Rational{}, err
		}
		return sitypes.Int(n), nil
	}
	p.next()

	num, err := p.parseSignedInt()
	if err != nil {
		return sitypes.Rational{}, err
	}
	den := 1
	if t := p.peek(); t != nil && t.Type == token.Div {
		p.next()
		if den, err = p.parseSignedInt(); err != nil {
			return sitypes.Rational{}, err
		}
		if den == 0 {
			return sitypes.Rational{}, fmt.Errorf("position %d: zero denominator in exponent", t.Pos)
		}
	}
	if _, err := p.expect(token.RParen); err != nil {
		return sitypes.Rational{}, err
	}
	return sitypes.NewRational(num, den), nil
}

func (p *Parser) parseSignedInt() (int, error) {
	sign := 1
	if t := p.peek(); t != nil && (t.Type == token.Plus || t.Type == token.Minus) {
		if t.Type == token.Minus {
			sign = -1
		}
		p.next()
	}
	t, err := p.expect(token.Number)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(t.Value)
	if err != nil {
		return 0, fmt.Errorf("position %d: exponent %q is not an integer", t.Pos, t.Value)
	}
	return sign * n, nil
}

func (p *Parser) parseFactor() (Node, error) {
	t := p.next()
	if t == nil {
		return nil, fmt.Errorf("unexpected end of expression")
	}

	switch t.Type {
	case token.Number:
		v, err := strconv.ParseFloat(t.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("position %d: invalid number %q", t.Pos, t.Value)
		}
		return &Number{Text: t.Value, Value: v}, nil
	case token.Symbol:
		return &Symbol{Name: t.Value, Pos: t.Pos}, nil
	case token.LParen:
		n, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		return n, nil
	}
	return nil, p.unexpected(t)
}
