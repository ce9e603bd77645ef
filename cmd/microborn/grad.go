package main

import (
	"fmt"
	"strings"

	"github.com/born-ml/microborn/internal/autodiff"
)

// GradCommand builds a single tanh neuron, runs Backward and prints the
// expression tree with every gradient.
type GradCommand struct {
	Meta
}

func (c *GradCommand) Run(args []string) int {
	var x1, x2, w1, w2, b float64

	f := c.flagSet("grad")
	f.Float64Var(&x1, "x1", 2.0, "")
	f.Float64Var(&x2, "x2", 0.0, "")
	f.Float64Var(&w1, "w1", -3.0, "")
	f.Float64Var(&w2, "w2", 1.0, "")
	f.Float64Var(&b, "b", 6.88, "")
	if err := f.Parse(args); err != nil {
		c.Ui.Error(err.Error())
		return 1
	}

	tape := autodiff.NewTape()
	leaves := tape.Scalars(x1, x2, w1, w2, b)
	names := []string{"x1", "x2", "w1", "w2", "b"}

	n := autodiff.Sum(leaves[0].Mul(leaves[2]), leaves[1].Mul(leaves[3]), leaves[4])
	o := n.Tanh()
	o.Backward()

	var out strings.Builder
	fmt.Fprintf(&out, "n = x1*w1 + x2*w2 + b = %g\n", n.Data())
	fmt.Fprintf(&out, "o = tanh(n) = %g\n\n", o.Data())
	out.WriteString(o.Tree())
	out.WriteString("\n")
	for i, leaf := range leaves {
		fmt.Fprintf(&out, "d(o)/d(%s) = % .6f\n", names[i], leaf.Grad())
	}

	c.Ui.Output(strings.TrimRight(out.String(), "\n"))
	return 0
}

func (c *GradCommand) Help() string {
	helpText := `
Usage: microborn grad [options]

  Evaluates o = tanh(x1*w1 + x2*w2 + b), backpropagates from o and
  prints the expression graph with the gradient of every node.

Options:

  -x1, -x2, -w1, -w2, -b   Override the inputs (defaults 2, 0, -3, 1, 6.88).
`
	return strings.TrimSpace(helpText)
}

func (c *GradCommand) Synopsis() string {
	return "Show gradients of a single neuron"
}
