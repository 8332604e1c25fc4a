package graph

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/matzehuels/cyclograph/pkg/errors"
	"github.com/matzehuels/cyclograph/pkg/graphgen"
)

func TestFromMatrix_DeterministicEdgeOrder(t *testing.T) {
	m, err := graphgen.Generate(graphgen.Spec{Nodes: 5, Cycles: 3})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	g := FromMatrix(m)
	if g.NodeCount != 5 {
		t.Errorf("NodeCount = %d, want 5", g.NodeCount)
	}
	want := []Edge{{0, 1}, {1, 2}, {2, 0}, {3, 0}, {4, 0}}
	if len(g.Edges) != len(want) {
		t.Fatalf("Edges = %v, want %v", g.Edges, want)
	}
	for i, e := range want {
		if g.Edges[i] != e {
			t.Errorf("Edges[%d] = %v, want %v", i, g.Edges[i], e)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	m, err := graphgen.Generate(graphgen.Spec{Nodes: 8, Cycles: 1})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	var buf bytes.Buffer
	if err := Write(m, &buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !got.Equal(m) {
		t.Errorf("round trip changed the matrix:\n%svs\n%s", got, m)
	}
}

func TestFileRoundTrip(t *testing.T) {
	m, err := graphgen.Generate(graphgen.Spec{Nodes: 4, Cycles: 2})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "graph.json")
	if err := WriteFile(m, path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !got.Equal(m) {
		t.Error("file round trip changed the matrix")
	}
}

func TestToMatrix_Invalid(t *testing.T) {
	tests := []struct {
		name string
		g    Graph
	}{
		{"zero nodes", Graph{NodeCount: 0}},
		{"negative node count", Graph{NodeCount: -2}},
		{"edge target out of range", Graph{NodeCount: 3, Edges: []Edge{{0, 3}}}},
		{"negative edge source", Graph{NodeCount: 3, Edges: []Edge{{-1, 0}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.g.ToMatrix(); !errors.Is(err, errors.ErrCodeInvalidGraph) {
				t.Errorf("ToMatrix() error = %v, want INVALID_GRAPH", err)
			}
		})
	}
}

func TestToMatrix_SelfLoop(t *testing.T) {
	g := Graph{NodeCount: 2, Edges: []Edge{{0, 0}, {1, 0}}}
	m, err := g.ToMatrix()
	if err != nil {
		t.Fatalf("ToMatrix() error = %v", err)
	}
	if m.At(0, 0) != 1 || m.At(1, 0) != 1 {
		t.Errorf("matrix entries wrong:\n%s", m)
	}
}

func TestReadFile_Missing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("ReadFile() on missing file returned nil error")
	}
}
