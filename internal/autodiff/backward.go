package autodiff

import (
	"math"
)

// Backward computes d(v)/d(node) for every node reachable from v.
//
// Algorithm:
//  1. Seed v's gradient with 1
//  2. Order the reachable nodes so that every node comes before its operands
//  3. Walk that order, letting each node add its contribution into its operands
//
// A node used by several consumers receives the sum of their contributions,
// and it only forwards its gradient once all of them have run.
//
// Gradients accumulate across calls; call ZeroGrad before reusing nodes.
func (v Value) Backward() {
	root := v.node()
	t := v.tape
	order := t.reverseTopo(v.id)

	root.grad = 1
	for _, id := range order {
		t.propagate(id)
	}
}

// ZeroGrad resets the gradient of v and of every node reachable from it.
func (v Value) ZeroGrad() {
	v.node()
	t := v.tape

	visited := make([]bool, v.id+1)
	stack := []int32{v.id}
	visited[v.id] = true

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := t.at(id)
		n.grad = 0
		for _, child := range [2]int32{n.lhs, n.rhs} {
			if child == noOperand || visited[child] {
				continue
			}
			visited[child] = true
			stack = append(stack, child)
		}
	}
}

// TopologicalOrder returns every node reachable from v, each one listed
// before any of its operands. v itself comes first.
//
// Raw scalars promoted into operators are internal to the tape and are left
// out.
func (v Value) TopologicalOrder() []Value {
	v.node()
	order := v.tape.reverseTopo(v.id)
	out := make([]Value, 0, len(order))
	for _, id := range order {
		if v.tape.at(id).constant {
			continue
		}
		out = append(out, v.tape.handle(id))
	}
	return out
}

// reverseTopo runs an iterative depth-first post-order from root and returns
// the reversed order. Nodes are tracked by arena index, so distinct nodes
// holding equal values are never merged.
func (t *Tape) reverseTopo(root int32) []int32 {
	t.at(root) // bounds check

	type frame struct {
		id       int32
		expanded bool
	}

	// Operands have lower indices than their consumers.
	visited := make([]bool, root+1)
	order := make([]int32, 0, root+1)
	stack := []frame{{id: root}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.expanded {
			order = append(order, f.id)
			continue
		}
		if visited[f.id] {
			continue
		}
		visited[f.id] = true

		// Re-push the node so it is emitted after its operands.
		stack = append(stack, frame{id: f.id, expanded: true})

		n := t.at(f.id)
		// Push rhs first so lhs is explored first.
		for _, child := range [2]int32{n.rhs, n.lhs} {
			if child != noOperand && !visited[child] {
				stack = append(stack, frame{id: child})
			}
		}
	}

	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// accumulate adds d into the gradient of node id. Promoted constants are
// skipped; no accessor hands them out.
func (t *Tape) accumulate(id int32, d float64) {
	n := t.at(id)
	if n.constant {
		return
	}
	n.grad += d
}

// propagate applies the local gradient rule of node id to its operands.
func (t *Tape) propagate(id int32) {
	n := t.at(id)
	g, out := n.grad, n.value

	switch n.op {
	case OpNone:
		return

	case OpAdd:
		t.accumulate(n.lhs, g)
		t.accumulate(n.rhs, g)

	case OpSub:
		t.accumulate(n.lhs, g)
		t.accumulate(n.rhs, -g)

	case OpMul:
		a, b := t.at(n.lhs).value, t.at(n.rhs).value
		t.accumulate(n.lhs, g*b)
		t.accumulate(n.rhs, g*a)

	case OpDiv:
		a, b := t.at(n.lhs).value, t.at(n.rhs).value
		t.accumulate(n.lhs, g/b)
		t.accumulate(n.rhs, -g*a/(b*b))

	case OpPow:
		a, p := t.at(n.lhs), t.at(n.rhs)
		// x**0 is constant in x; 0**-1 must not reach the product.
		if p.value != 0 {
			t.accumulate(n.lhs, g*p.value*math.Pow(a.value, p.value-1))
		}
		if !p.constant {
			// Construction guarantees a.value > 0 here.
			t.accumulate(n.rhs, g*out*math.Log(a.value))
		}

	case OpNeg:
		t.accumulate(n.lhs, -g)

	case OpExp:
		t.accumulate(n.lhs, g*out)

	case OpLog:
		t.accumulate(n.lhs, g/t.at(n.lhs).value)

	case OpTanh:
		t.accumulate(n.lhs, g*(1-out*out))

	case OpSigmoid:
		t.accumulate(n.lhs, g*out*(1-out))
	}
}
