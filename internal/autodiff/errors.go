package autodiff

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Common errors.
var (
	ErrDomain         = errors.New("argument outside function domain")
	ErrDivisionByZero = errors.New("division by zero")
)

// OpError records an operator that rejected its arguments.
type OpError struct {
	Op   Op        // Operation that failed
	Args []float64 // Operand values, in order
	Err  error     // ErrDomain or ErrDivisionByZero
}

// Error implements the error interface.
func (e *OpError) Error() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = strconv.FormatFloat(a, 'g', -1, 64)
	}
	return fmt.Sprintf("autodiff: %s(%s): %v", e.Op, strings.Join(args, ", "), e.Err)
}

// Unwrap returns the underlying sentinel error.
func (e *OpError) Unwrap() error {
	return e.Err
}
