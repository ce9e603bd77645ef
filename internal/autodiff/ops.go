package autodiff

import (
	"math"
)

// sameTape returns the tape shared by a and b.
func sameTape(a, b Value) *Tape {
	if a.tape != b.tape {
		panic("autodiff: operands belong to different tapes")
	}
	return a.tape
}

func (t *Tape) binary(op Op, a, b Value, result float64) Value {
	return t.push(node{value: result, op: op, lhs: a.id, rhs: b.id})
}

func (t *Tape) unary(op Op, a Value, result float64) Value {
	return t.push(node{value: result, op: op, lhs: a.id, rhs: noOperand})
}

// Add returns a + b.
func (a Value) Add(b Value) Value {
	t := sameTape(a, b)
	return t.binary(OpAdd, a, b, a.Data()+b.Data())
}

// Sub returns a - b.
func (a Value) Sub(b Value) Value {
	t := sameTape(a, b)
	return t.binary(OpSub, a, b, a.Data()-b.Data())
}

// Mul returns a * b.
func (a Value) Mul(b Value) Value {
	t := sameTape(a, b)
	return t.binary(OpMul, a, b, a.Data()*b.Data())
}

// Div returns a / b.
//
// Fails with ErrDivisionByZero when b is zero.
func (a Value) Div(b Value) (Value, error) {
	t := sameTape(a, b)
	x, y := a.Data(), b.Data()
	if y == 0 {
		return Value{}, &OpError{Op: OpDiv, Args: []float64{x, y}, Err: ErrDivisionByZero}
	}
	return t.binary(OpDiv, a, b, x/y), nil
}

// Pow returns a raised to the power b.
//
// The gradient with respect to the exponent involves ln(a), so a must be
// strictly positive unless b is a promoted constant.
func (a Value) Pow(b Value) (Value, error) {
	t := sameTape(a, b)
	x, p := a.Data(), b.Data()
	if err := checkPow(x, p, !b.node().constant); err != nil {
		return Value{}, err
	}
	return t.binary(OpPow, a, b, math.Pow(x, p)), nil
}

// checkPow validates x**p. needLog is set when the exponent receives a
// gradient, which requires ln(x).
//
// A zero base is rejected for every exponent below 1 except 0: either the
// value or the local gradient p*x**(p-1) would divide by zero.
func checkPow(x, p float64, needLog bool) error {
	switch {
	case needLog && x <= 0:
		return &OpError{Op: OpPow, Args: []float64{x, p}, Err: ErrDomain}
	case x == 0 && p < 1 && p != 0:
		return &OpError{Op: OpPow, Args: []float64{x, p}, Err: ErrDivisionByZero}
	case x < 0 && p != math.Trunc(p):
		return &OpError{Op: OpPow, Args: []float64{x, p}, Err: ErrDomain}
	}
	return nil
}

// AddScalar returns a + s.
func (a Value) AddScalar(s float64) Value {
	return a.Add(a.owner().constant(s))
}

// SubScalar returns a - s.
func (a Value) SubScalar(s float64) Value {
	return a.Sub(a.owner().constant(s))
}

// MulScalar returns a * s.
func (a Value) MulScalar(s float64) Value {
	return a.Mul(a.owner().constant(s))
}

// DivScalar returns a / s.
func (a Value) DivScalar(s float64) (Value, error) {
	if s == 0 {
		return Value{}, &OpError{Op: OpDiv, Args: []float64{a.Data(), s}, Err: ErrDivisionByZero}
	}
	return a.Div(a.owner().constant(s))
}

// PowScalar returns a raised to the constant power p.
//
// A negative base is accepted for integral exponents, so (x-y)**2 is always
// defined.
func (a Value) PowScalar(p float64) (Value, error) {
	if err := checkPow(a.Data(), p, false); err != nil {
		return Value{}, err
	}
	return a.Pow(a.owner().constant(p))
}

// ScalarAdd returns s + v.
func ScalarAdd(s float64, v Value) Value {
	return v.owner().constant(s).Add(v)
}

// ScalarSub returns s - v.
func ScalarSub(s float64, v Value) Value {
	return v.owner().constant(s).Sub(v)
}

// ScalarMul returns s * v.
func ScalarMul(s float64, v Value) Value {
	return v.owner().constant(s).Mul(v)
}

// ScalarDiv returns s / v.
func ScalarDiv(s float64, v Value) (Value, error) {
	if y := v.Data(); y == 0 {
		return Value{}, &OpError{Op: OpDiv, Args: []float64{s, y}, Err: ErrDivisionByZero}
	}
	return v.owner().constant(s).Div(v)
}

// ScalarPow returns s raised to the power v. The base must be positive.
func ScalarPow(s float64, v Value) (Value, error) {
	if err := checkPow(s, v.Data(), true); err != nil {
		return Value{}, err
	}
	return v.owner().constant(s).Pow(v)
}

// Neg returns -a.
func (a Value) Neg() Value {
	return a.tape.unary(OpNeg, a, -a.Data())
}

// Exp returns e**a.
func (a Value) Exp() Value {
	return a.tape.unary(OpExp, a, math.Exp(a.Data()))
}

// Log returns the natural logarithm of a.
//
// Fails with ErrDomain when a is not strictly positive.
func (a Value) Log() (Value, error) {
	x := a.Data()
	if x <= 0 {
		return Value{}, &OpError{Op: OpLog, Args: []float64{x}, Err: ErrDomain}
	}
	return a.tape.unary(OpLog, a, math.Log(x)), nil
}

// Tanh returns the hyperbolic tangent of a.
func (a Value) Tanh() Value {
	return a.tape.unary(OpTanh, a, math.Tanh(a.Data()))
}

// Sigmoid returns 1 / (1 + e**-a).
func (a Value) Sigmoid() Value {
	return a.tape.unary(OpSigmoid, a, sigmoid(a.Data()))
}

func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

// Sum returns first + rest[0] + rest[1] + ..., folded left to right.
func Sum(first Value, rest ...Value) Value {
	out := first
	for _, v := range rest {
		out = out.Add(v)
	}
	return out
}

// owner returns the tape of a live value.
func (v Value) owner() *Tape {
	v.node()
	return v.tape
}
