// Package graphgen deterministically constructs directed graphs with a
// requested number of elementary cycles, represented as dense adjacency
// matrices.
//
// Three construction rules are selected by the requested cycle count:
//
//   - 0 cycles: a star converging on node 0 with no self-loop, guaranteed acyclic.
//   - 1 cycle: the same star plus a self-loop at node 0. A single node gets no
//     self-loop, since an isolated node is indistinguishable from a degenerate cycle.
//   - k > 1 cycles: one directed ring over the first k nodes; every remaining
//     node gets a single edge into node 0.
//
// Generation involves no randomness: the same spec always yields the same
// matrix.
package graphgen

import (
	"github.com/matzehuels/cyclograph/pkg/errors"
	"github.com/matzehuels/cyclograph/pkg/matrix"
)

// DefaultMaxNodes is the node ceiling applied by collaborators (CLI, TUI, HTTP
// API) when no bound is configured. Generation itself accepts any positive
// node count.
const DefaultMaxNodes = 10000

// Spec describes a graph generation request. It is an ephemeral value: once
// the matrix is built the spec is not retained.
type Spec struct {
	Nodes  int // number of nodes, at least 1
	Cycles int // requested elementary cycles, in [0, Nodes]
}

// Validate checks the generation preconditions. It returns an INVALID_SPEC
// error when the node count is not positive or the cycle count falls outside
// [0, Nodes].
func (s Spec) Validate() error {
	if s.Nodes < 1 {
		return errors.New(errors.ErrCodeInvalidSpec, "node count must be at least 1, got %d", s.Nodes)
	}
	if s.Cycles < 0 {
		return errors.New(errors.ErrCodeInvalidSpec, "cycle count must not be negative, got %d", s.Cycles)
	}
	if s.Cycles > s.Nodes {
		return errors.New(errors.ErrCodeInvalidSpec, "cycle count %d exceeds node count %d", s.Cycles, s.Nodes)
	}
	return nil
}

// ValidateBounded applies Validate plus an upper bound on the node count.
// A maxNodes of 0 or less disables the bound. Collaborators share this check
// so the CLI, TUI, and HTTP API enforce the same ceiling.
func (s Spec) ValidateBounded(maxNodes int) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if maxNodes > 0 && s.Nodes > maxNodes {
		return errors.New(errors.ErrCodeInvalidSpec, "node count %d exceeds maximum of %d", s.Nodes, maxNodes)
	}
	return nil
}

// Generate builds the adjacency matrix for the spec. The returned matrix is
// owned by the caller; Generate keeps no reference to it.
func Generate(spec Spec) (*matrix.Matrix, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	m, err := matrix.New(spec.Nodes)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "allocate %dx%d matrix", spec.Nodes, spec.Nodes)
	}

	switch {
	case spec.Cycles == 1:
		singleCycle(m)
	case spec.Cycles == 0:
		withoutCycle(m)
	default:
		multipleCycles(m, spec.Cycles)
	}
	return m, nil
}

// singleCycle points every node at node 0 and closes the one cycle with a
// self-loop there. With a single node the matrix stays zero.
func singleCycle(m *matrix.Matrix) {
	n := m.Size()
	if n == 1 {
		return
	}
	for i := 1; i < n; i++ {
		m.Set(i, 0, 1)
	}
	m.Set(0, 0, 1)
}

// withoutCycle builds the same star as singleCycle but leaves the diagonal
// empty, so no power of the matrix has a non-zero trace.
func withoutCycle(m *matrix.Matrix) {
	n := m.Size()
	for i := 1; i < n; i++ {
		m.Set(i, 0, 1)
	}
}

// multipleCycles seeds a directed ring over the first cycles nodes, then
// points every node outside the ring at node 0. The converging edges can close
// additional walks through node 0 beyond the seeded ring; that structural
// property carries through to the trace-based cycle counter and is preserved
// as-is.
func multipleCycles(m *matrix.Matrix, cycles int) {
	n := m.Size()
	used := make(map[int]struct{}, cycles)
	for i := 0; i < cycles; i++ {
		m.Set(i, (i+1)%cycles, 1)
		used[i] = struct{}{}
	}
	for i := 0; i < n; i++ {
		if _, ok := used[i]; ok {
			continue
		}
		m.Set(i, 0, 1)
	}
}
