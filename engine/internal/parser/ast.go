package parser

import (
	"github.com/wippyai/sitypes"
	"github.com/wippyai/sitypes/engine/internal/token"
)

// Node is an expression tree node.
type Node interface {
	node()
}

// Number is a numeric literal. Text keeps the source spelling.
type Number struct {
	Text  string
	Value float64
}

// Symbol is a unit, prefix+unit or dimension symbol.
type Symbol struct {
	Name string
	Pos  int
}

// Binary is a product or quotient. Op is token.Mul or token.Div.
type Binary struct {
	Left  Node
	Right Node
	Op    token.Type
}

// Power raises Base to a rational exponent.
type Power struct {
	Base Node
	Exp  sitypes.Rational
}

// Negate flips the sign of a leading factor.
type Negate struct {
	X Node
}

func (*Number) node() {}
func (*Symbol) node() {}
func (*Binary) node() {}
func (*Power) node()  {}
func (*Negate) node() {}
