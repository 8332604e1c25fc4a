package cycles

import (
	"context"
	"errors"
	"testing"

	"github.com/matzehuels/cyclograph/pkg/graphgen"
	"github.com/matzehuels/cyclograph/pkg/matrix"
)

func TestSearch_SingleCycleFoundAtStepOne(t *testing.T) {
	// The self-loop at node 0 already gives trace(A) == 1.
	m, err := graphgen.Generate(graphgen.Spec{Nodes: 4, Cycles: 1})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	res, err := Search(context.Background(), m, 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if !res.Found {
		t.Fatal("Search() not found, want found")
	}
	if res.Step != 1 {
		t.Errorf("Step = %d, want 1", res.Step)
	}
	if res.Count != 1 {
		t.Errorf("Count = %d, want 1", res.Count)
	}
}

func TestSearch_AcyclicNeverMatches(t *testing.T) {
	m, err := graphgen.Generate(graphgen.Spec{Nodes: 4, Cycles: 0})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	for _, target := range []int64{1, 2, 100} {
		res, err := Search(context.Background(), m, target)
		if err != nil {
			t.Fatalf("Search(target=%d) error = %v", target, err)
		}
		if res.Found {
			t.Errorf("Search(target=%d) found at step %d, want not found", target, res.Step)
		}
		if res.Step != 4 {
			t.Errorf("Search(target=%d) Step = %d, want 4 steps exhausted", target, res.Step)
		}
	}
}

func TestSearch_RingMatchesAtCycleLength(t *testing.T) {
	// A pure 3-ring over 3 nodes: trace(A^1) = trace(A^2) = 0, trace(A^3) = 3.
	m, err := graphgen.Generate(graphgen.Spec{Nodes: 3, Cycles: 3})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	res, err := Search(context.Background(), m, 3)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if !res.Found || res.Step != 3 {
		t.Errorf("Search() = %+v, want found at step 3", res)
	}
}

func TestSearch_ZeroTargetMatchesImmediately(t *testing.T) {
	// An empty diagonal means trace(A) == 0, so target 0 matches at step 1.
	m, err := graphgen.Generate(graphgen.Spec{Nodes: 5, Cycles: 0})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	res, err := Search(context.Background(), m, 0)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if !res.Found || res.Step != 1 {
		t.Errorf("Search() = %+v, want found at step 1", res)
	}
}

func TestSearch_FirstMatchWins(t *testing.T) {
	// Identity-like matrix: trace is 2 at every power. The search must stop
	// at step 1 rather than continue to an equally valid later step.
	m, err := matrix.FromRows([][]int64{{1, 0}, {0, 1}})
	if err != nil {
		t.Fatalf("FromRows() error = %v", err)
	}

	res, err := Search(context.Background(), m, 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if !res.Found || res.Step != 1 {
		t.Errorf("Search() = %+v, want found at step 1", res)
	}
}

func TestSearch_InputNotMutated(t *testing.T) {
	m, err := graphgen.Generate(graphgen.Spec{Nodes: 6, Cycles: 4})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	orig := m.Clone()

	if _, err := Search(context.Background(), m, 999); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if !m.Equal(orig) {
		t.Error("Search() mutated the input matrix")
	}
}

func TestSearch_CancelledContext(t *testing.T) {
	m, err := graphgen.Generate(graphgen.Spec{Nodes: 10, Cycles: 5})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Search(ctx, m, 12345); !errors.Is(err, context.Canceled) {
		t.Errorf("Search() error = %v, want context.Canceled", err)
	}
}
