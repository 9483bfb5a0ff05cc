package si

// Operand is an argument of the package-level arithmetic functions: a Real,
// a Complex or a *Scalar. Numbers are treated as dimensionless scalars.
type Operand interface {
	operand()
}

// Real is a dimensionless real number.
type Real float64

// Complex is a dimensionless complex number.
type Complex complex128

func (Real) operand()    {}
func (Complex) operand() {}
func (*Scalar) operand() {}

// scalarOperand returns o as a Scalar. temp reports whether the caller must
// close it.
func scalarOperand(o Operand) (s *Scalar, temp bool, err error) {
	switch o := o.(type) {
	case *Scalar:
		return o, false, nil
	case Real:
		s, err = NewScalar(float64(o), DimensionlessUnit())
	case Complex:
		s, err = NewComplexScalar(complex128(o), DimensionlessUnit())
	}
	return s, true, err
}

func apply(a, b Operand, fn func(x, y *Scalar) (*Scalar, error)) (*Scalar, error) {
	x, tx, err := scalarOperand(a)
	if err != nil {
		return nil, err
	}
	if tx {
		defer x.Close()
	}
	y, ty, err := scalarOperand(b)
	if err != nil {
		return nil, err
	}
	if ty {
		defer y.Close()
	}
	return fn(x, y)
}

// Add returns a+b.
func Add(a, b Operand) (*Scalar, error) {
	return apply(a, b, (*Scalar).Add)
}

// Sub returns a-b.
func Sub(a, b Operand) (*Scalar, error) {
	return apply(a, b, (*Scalar).Sub)
}

// Mul returns a*b, for example Mul(Real(2), length).
func Mul(a, b Operand) (*Scalar, error) {
	return apply(a, b, (*Scalar).Mul)
}

// Div returns a/b.
func Div(a, b Operand) (*Scalar, error) {
	return apply(a, b, (*Scalar).Div)
}
