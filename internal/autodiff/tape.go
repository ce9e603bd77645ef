package autodiff

// noOperand marks an absent operand slot.
const noOperand int32 = -1

// node is one entry of the tape arena.
type node struct {
	value    float64
	grad     float64
	lhs      int32 // first operand index, noOperand for leaves
	rhs      int32 // second operand index, noOperand for leaves and unary ops
	op       Op
	constant bool   // promoted raw scalar, never receives gradient
	epoch    uint32 // tape epoch at creation, used to detect stale handles
}

// Tape is an arena that owns every node of an expression graph.
//
// Operands always live at lower indices than the nodes that use them, so the
// graph stored on a tape is acyclic by construction. Values refer to nodes by
// index, which gives cheap identity comparison during traversal.
//
// A Tape is not safe for concurrent use.
//
// Usage:
//
//	tape := NewTape()
//	w := tape.Scalar(0.5) // parameter, survives truncation
//	mark := tape.Mark()
//	for step := range steps {
//	    loss := buildLoss(w)
//	    loss.Backward()
//	    // ... update w ...
//	    tape.Truncate(mark) // retire the per-step graph
//	}
type Tape struct {
	nodes []node
	epoch uint32
}

// Mark is a position on the tape returned by Tape.Mark.
type Mark struct {
	len int
}

// NewTape creates an empty tape.
func NewTape() *Tape {
	return &Tape{
		nodes: make([]node, 0, 64), // Pre-allocate for common case
	}
}

// Scalar creates a leaf value holding x.
func (t *Tape) Scalar(x float64) Value {
	return t.push(node{value: x, lhs: noOperand, rhs: noOperand})
}

// Scalars creates one leaf value per element of xs.
func (t *Tape) Scalars(xs ...float64) []Value {
	out := make([]Value, len(xs))
	for i, x := range xs {
		out[i] = t.Scalar(x)
	}
	return out
}

// constant creates a leaf for a raw scalar promoted into an operator.
func (t *Tape) constant(x float64) Value {
	return t.push(node{value: x, lhs: noOperand, rhs: noOperand, constant: true})
}

// Len returns the number of nodes currently on the tape.
func (t *Tape) Len() int {
	return len(t.nodes)
}

// Mark records the current end of the tape.
func (t *Tape) Mark() Mark {
	return Mark{len: len(t.nodes)}
}

// Truncate drops every node created after m.
//
// Values created after the mark become stale and panic when used. Values
// created before it, typically model parameters, keep working.
// Truncating to a mark beyond the current end is a no-op.
func (t *Tape) Truncate(m Mark) {
	if m.len >= len(t.nodes) {
		return
	}
	t.nodes = t.nodes[:m.len]
	t.epoch++
}

// Reset drops every node on the tape.
func (t *Tape) Reset() {
	t.Truncate(Mark{})
}

func (t *Tape) push(n node) Value {
	n.epoch = t.epoch
	id := int32(len(t.nodes))
	t.nodes = append(t.nodes, n)
	return Value{tape: t, id: id, epoch: t.epoch}
}

func (t *Tape) at(id int32) *node {
	return &t.nodes[id]
}
