// Package autodiff implements scalar reverse-mode automatic differentiation.
//
// Architecture:
//   - Tape: arena holding every node of the expression graph
//   - Value: lightweight handle to a node on a tape
//   - Op: tag selecting the node's local gradient rule
//   - Backward: reverse-topological sweep accumulating gradients
//
// Usage:
//
//	tape := autodiff.NewTape()
//	x := tape.Scalar(3.0)
//	y := x.Mul(x) // y = x²
//
//	y.Backward()
//	fmt.Println(x.Grad()) // dy/dx = 2x = 6.0
//
// Nodes are created eagerly: every operator computes its result immediately
// and fails right away when its arguments are outside the function domain.
package autodiff

// Op identifies the operation that produced a node.
type Op uint8

// Supported operations.
const (
	OpNone Op = iota // leaf
	OpAdd
	OpMul
	OpSub
	OpDiv
	OpPow
	OpNeg
	OpExp
	OpLog
	OpTanh
	OpSigmoid
)

var opSymbols = [...]string{
	OpNone:    "",
	OpAdd:     "+",
	OpMul:     "*",
	OpSub:     "-",
	OpDiv:     "/",
	OpPow:     "**",
	OpNeg:     "neg",
	OpExp:     "exp",
	OpLog:     "ln",
	OpTanh:    "tanh",
	OpSigmoid: "sigmoid",
}

// String returns the operator symbol ("" for leaves).
func (o Op) String() string {
	if int(o) < len(opSymbols) {
		return opSymbols[o]
	}
	return "op(?)"
}

// Arity returns the number of operands the operation takes.
func (o Op) Arity() int {
	switch o {
	case OpNone:
		return 0
	case OpNeg, OpExp, OpLog, OpTanh, OpSigmoid:
		return 1
	default:
		return 2
	}
}
