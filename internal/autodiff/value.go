package autodiff

import (
	"fmt"

	"github.com/xlab/treeprint"
)

// Value is a handle to a scalar node on a Tape.
//
// Values are small and meant to be passed by value. Two Values are the same
// node exactly when they compare equal with ==.
type Value struct {
	tape  *Tape
	id    int32
	epoch uint32
}

// node returns the referenced node, panicking on zero or stale handles.
func (v Value) node() *node {
	if v.tape == nil {
		panic("autodiff: use of zero Value")
	}
	if int(v.id) >= len(v.tape.nodes) || v.tape.nodes[v.id].epoch != v.epoch {
		panic(fmt.Sprintf("autodiff: stale Value #%d (tape truncated)", v.id))
	}
	return &v.tape.nodes[v.id]
}

// Tape returns the tape that owns this value.
func (v Value) Tape() *Tape {
	return v.tape
}

// ID returns the arena index of the node.
func (v Value) ID() int {
	return int(v.id)
}

// Valid reports whether v refers to a live node.
func (v Value) Valid() bool {
	if v.tape == nil || int(v.id) >= len(v.tape.nodes) {
		return false
	}
	return v.tape.nodes[v.id].epoch == v.epoch
}

// Data returns the scalar computed for this node.
func (v Value) Data() float64 {
	return v.node().value
}

// Grad returns the accumulated gradient of the last backward root with
// respect to this node.
func (v Value) Grad() float64 {
	return v.node().grad
}

// Op returns the operation that produced this node.
func (v Value) Op() Op {
	return v.node().op
}

// IsLeaf reports whether the node has no operands.
func (v Value) IsLeaf() bool {
	return v.node().op == OpNone
}

// Operands returns the nodes this value was computed from, in order.
// Raw scalars promoted by the *Scalar operators are not included, so
// x.MulScalar(3).Operands() is just [x].
func (v Value) Operands() []Value {
	n := v.node()
	var out []Value
	for _, id := range [2]int32{n.lhs, n.rhs} {
		if id == noOperand || v.tape.at(id).constant {
			continue
		}
		out = append(out, v.tape.handle(id))
	}
	return out
}

// SetData overwrites the value of a leaf node.
//
// Only leaves created by Scalar may be updated; interior nodes are fixed by
// the operation that created them. SetData panics otherwise.
func (v Value) SetData(x float64) {
	n := v.node()
	if n.op != OpNone {
		panic(fmt.Sprintf("autodiff: SetData on interior node #%d (%s)", v.id, n.op))
	}
	if n.constant {
		panic(fmt.Sprintf("autodiff: SetData on constant #%d", v.id))
	}
	n.value = x
}

// String implements fmt.Stringer.
func (v Value) String() string {
	if !v.Valid() {
		return "Value(invalid)"
	}
	n := v.node()
	return fmt.Sprintf("Value(data=%g, grad=%g)", n.value, n.grad)
}

// Tree renders the operand graph rooted at v.
//
// Shared nodes are expanded the first time they are reached and referenced
// by their #id afterwards.
func (v Value) Tree() string {
	t := v.tape
	root := treeprint.NewWithRoot(t.label(v.node(), v.id))

	type frame struct {
		id     int32
		branch treeprint.Tree
	}
	seen := map[int32]bool{v.id: true}
	stack := []frame{{id: v.id, branch: root}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := t.at(f.id)
		for _, child := range [2]int32{n.lhs, n.rhs} {
			if child == noOperand {
				continue
			}
			if seen[child] {
				f.branch.AddNode(fmt.Sprintf("#%d", child))
				continue
			}
			seen[child] = true

			c := t.at(child)
			if c.op == OpNone {
				f.branch.AddNode(t.label(c, child))
				continue
			}
			stack = append(stack, frame{id: child, branch: f.branch.AddBranch(t.label(c, child))})
		}
	}

	return root.String()
}

func (t *Tape) label(n *node, id int32) string {
	switch {
	case n.constant:
		return fmt.Sprintf("#%d const %g", id, n.value)
	case n.op == OpNone:
		return fmt.Sprintf("#%d data=%.4g grad=%.4g", id, n.value, n.grad)
	default:
		return fmt.Sprintf("#%d %s data=%.4g grad=%.4g", id, n.op, n.value, n.grad)
	}
}

func (t *Tape) handle(id int32) Value {
	return Value{tape: t, id: id, epoch: t.nodes[id].epoch}
}
