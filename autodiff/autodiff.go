// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides scalar reverse-mode automatic differentiation.
//
// Every operation eagerly computes its result and records a node on a Tape.
// Calling Backward on any value fills in the gradient of that value with
// respect to every node it depends on.
//
// Example:
//
//	import "github.com/born-ml/microborn/autodiff"
//
//	func main() {
//	    tape := autodiff.NewTape()
//	    x := tape.Scalar(2.0)
//	    w := tape.Scalar(-3.0)
//	    b := tape.Scalar(6.88)
//
//	    o := x.Mul(w).Add(b).Tanh()
//	    o.Backward()
//
//	    fmt.Println(w.Grad()) // x * (1 - o²)
//	}
package autodiff

import (
	"github.com/born-ml/microborn/internal/autodiff"
)

// Tape is the arena that owns the nodes of an expression graph.
type Tape = autodiff.Tape

// Mark is a position on a Tape, used to retire per-step graphs.
type Mark = autodiff.Mark

// Value is a handle to a scalar node.
type Value = autodiff.Value

// Op identifies the operation that produced a node.
type Op = autodiff.Op

// OpError is returned when an operator rejects its arguments.
type OpError = autodiff.OpError

// Operations.
const (
	OpNone    = autodiff.OpNone
	OpAdd     = autodiff.OpAdd
	OpMul     = autodiff.OpMul
	OpSub     = autodiff.OpSub
	OpDiv     = autodiff.OpDiv
	OpPow     = autodiff.OpPow
	OpNeg     = autodiff.OpNeg
	OpExp     = autodiff.OpExp
	OpLog     = autodiff.OpLog
	OpTanh    = autodiff.OpTanh
	OpSigmoid = autodiff.OpSigmoid
)

// Errors.
var (
	ErrDomain         = autodiff.ErrDomain
	ErrDivisionByZero = autodiff.ErrDivisionByZero
)

// NewTape creates an empty tape.
func NewTape() *Tape {
	return autodiff.NewTape()
}

// Sum returns the left-folded sum of its arguments.
func Sum(first Value, rest ...Value) Value {
	return autodiff.Sum(first, rest...)
}

// ScalarAdd returns s + v.
func ScalarAdd(s float64, v Value) Value {
	return autodiff.ScalarAdd(s, v)
}

// ScalarSub returns s - v.
func ScalarSub(s float64, v Value) Value {
	return autodiff.ScalarSub(s, v)
}

// ScalarMul returns s * v.
func ScalarMul(s float64, v Value) Value {
	return autodiff.ScalarMul(s, v)
}

// ScalarDiv returns s / v.
func ScalarDiv(s float64, v Value) (Value, error) {
	return autodiff.ScalarDiv(s, v)
}

// ScalarPow returns s raised to the power v.
func ScalarPow(s float64, v Value) (Value, error) {
	return autodiff.ScalarPow(s, v)
}
