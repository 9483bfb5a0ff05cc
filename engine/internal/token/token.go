package token

import (
	"strings"
	"unicode"
)

type Type int

const (
	Number Type = iota
	Symbol
	Mul
	Div
	Pow
	LParen
	RParen
	Plus
	Minus
	Illegal
)

func (t Type) String() string {
	switch t {
	case Number:
		return "number"
	case Symbol:
		return "symbol"
	case Mul:
		return "'*'"
	case Div:
		return "'/'"
	case Pow:
		return "'^'"
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case Plus:
		return "'+'"
	case Minus:
		return "'-'"
	case Illegal:
		return "illegal character"
	}
	return "unknown"
}

type Token struct {
	Value string
	Type  Type
	Pos   int
}

var replacer = strings.NewReplacer(
	"\u03bc", "\u00b5", // greek small mu -> micro sign
	"\u2126", "\u03a9", // ohm sign -> greek capital omega
	"\u212b", "\u00c5", // angstrom sign -> latin capital A with ring
	"\u0398", "\u03f4", // theta variants -> temperature symbol
	"\u03b8", "\u03f4",
	"\u2022", "*", // bullet
	"\u00b7", "*", // middle dot
	"\u00d7", "*", // multiplication sign
	"\u2219", "*", // bullet operator
	"\u22c5", "*", // dot operator
	"\u00f7", "/",
	"\u2212", "-",
)

var superscripts = map[rune]rune{
	'⁰': '0', '¹': '1', '²': '2', '³': '3', '⁴': '4',
	'⁵': '5', '⁶': '6', '⁷': '7', '⁸': '8', '⁹': '9',
	'⁻': '-',
}

// Normalize maps the accepted spelling variants of operators and symbols onto
// one canonical form. A run of superscript digits becomes an explicit power.
func Normalize(input string) string {
	input = replacer.Replace(input)
	if !strings.ContainsFunc(input, func(r rune) bool { _, ok := superscripts[r]; return ok }) {
		return input
	}

	var b strings.Builder
	inSup := false
	for _, r := range input {
		if d, ok := superscripts[r]; ok {
			if !inSup {
				b.WriteByte('^')
				inSup = true
			}
			b.WriteRune(d)
			continue
		}
		inSup = false
		b.WriteRune(r)
	}
	return b.String()
}

func isSymbolRune(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '%' || r == '°'
}

// Tokenize splits a normalized expression into tokens. Pos is the rune offset
// of the token in the input.
func Tokenize(input string) []Token {
	var tokens []Token
	runes := []rune(Normalize(input))

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if unicode.IsSpace(r) {
			continue
		}

		switch r {
		case '*':
			tokens = append(tokens, Token{"*", Mul, i})
			continue
		case '/':
			tokens = append(tokens, Token{"/", Div, i})
			continue
		case '^':
			tokens = append(tokens, Token{"^", Pow, i})
			continue
		case '(':
			tokens = append(tokens, Token{"(", LParen, i})
			continue
		case ')':
			tokens = append(tokens, Token{")", RParen, i})
			continue
		case '+':
			tokens = append(tokens, Token{"+", Plus, i})
			continue
		case '-':
			tokens = append(tokens, Token{"-", Minus, i})
			continue
		}

		// Number: digits, optional fraction, optional exponent.
		// An 'e' only starts an exponent when a digit follows, so "5eV" is 5 eV.
		if unicode.IsDigit(r) || (r == '.' && i+1 < len(runes) && unicode.IsDigit(runes[i+1])) {
			start := i
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
				i++
			}
			if i < len(runes) && (runes[i] == 'e' || runes[i] == 'E') {
				j := i + 1
				if j < len(runes) && (runes[j] == '+' || runes[j] == '-') {
					j++
				}
				if j < len(runes) && unicode.IsDigit(runes[j]) {
					for j < len(runes) && unicode.IsDigit(runes[j]) {
						j++
					}
					i = j
				}
			}
			tokens = append(tokens, Token{string(runes[start:i]), Number, start})
			i--
			continue
		}

		if isSymbolRune(r) {
			start := i
			for i < len(runes) && isSymbolRune(runes[i]) {
				i++
			}
			tokens = append(tokens, Token{string(runes[start:i]), Symbol, start})
			i--
			continue
		}

		tokens = append(tokens, Token{string(r), Illegal, i})
	}

	return tokens
}
