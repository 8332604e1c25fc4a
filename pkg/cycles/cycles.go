// Package cycles counts directed cycles by powering an adjacency matrix.
//
// The trace of A^k counts the closed directed walks of length k in the graph
// described by A. [Search] raises A to successive powers and returns the first
// step whose trace equals the target count. In a graph with n nodes any
// elementary cycle has length at most n, so a match reachable by powering is
// reachable within n steps; the search never goes further.
package cycles

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/cyclograph/pkg/matrix"
)

// Result is the outcome of a cycle search.
//
// When Found is true, Step is the matrix power whose trace matched and Count
// is the matched trace. When Found is false, Step is the number of steps
// exhausted (the node count) and Count is unset. NotFound is a valid outcome,
// not an error.
type Result struct {
	Found   bool          `json:"found"`
	Step    int           `json:"step"`
	Count   int64         `json:"count,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
}

// String renders the result the way the CLI and TUI report it.
func (r Result) String() string {
	if !r.Found {
		return fmt.Sprintf("no matching cycle count within %d steps", r.Step)
	}
	return fmt.Sprintf("%d cycles at step %d", r.Count, r.Step)
}

// Search finds the smallest k in [1, n] with trace(adj^k) == target, where n
// is the dimension of adj. Step 1 inspects adj itself; each later step costs
// one O(n³) multiplication, so a full miss is O(n⁴).
//
// The input matrix is never mutated: the running power is a fresh allocation
// each step. ctx is checked between steps, so a caller can abandon a long
// search by cancelling; the partially powered matrices are simply discarded.
func Search(ctx context.Context, adj *matrix.Matrix, target int64) (Result, error) {
	start := time.Now()
	n := adj.Size()

	power := adj.Clone()
	for step := 1; step <= n; step++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if step > 1 {
			next, err := matrix.Mul(power, adj)
			if err != nil {
				// Cannot happen for a square input; fatal if it does.
				return Result{}, fmt.Errorf("power step %d: %w", step, err)
			}
			power = next
		}
		if tr := power.Trace(); tr == target {
			return Result{Found: true, Step: step, Count: tr, Elapsed: time.Since(start)}, nil
		}
	}
	return Result{Step: n, Elapsed: time.Since(start)}, nil
}
