package graph

import (
	"github.com/matzehuels/cyclograph/pkg/errors"
	"github.com/matzehuels/cyclograph/pkg/matrix"
)

// Graph is the canonical serialization format for generated graphs.
// Used for CLI output files, API responses, and cache entries.
type Graph struct {
	NodeCount int    `json:"node_count"`
	Edges     []Edge `json:"edges"`
}

// Edge represents a directed edge between two node indices.
// From == To encodes a self-loop.
type Edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// FromMatrix converts an adjacency matrix to its serialization format.
// Edges are emitted in row-major order for deterministic output.
func FromMatrix(m *matrix.Matrix) Graph {
	n := m.Size()
	g := Graph{NodeCount: n}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if m.At(i, j) != 0 {
				g.Edges = append(g.Edges, Edge{From: i, To: j})
			}
		}
	}
	return g
}

// ToMatrix converts a Graph back to an adjacency matrix.
// Returns an INVALID_GRAPH error when the node count is not positive or an
// edge references a node outside [0, NodeCount).
func (g Graph) ToMatrix() (*matrix.Matrix, error) {
	if g.NodeCount < 1 {
		return nil, errors.New(errors.ErrCodeInvalidGraph, "node count must be at least 1, got %d", g.NodeCount)
	}
	m, err := matrix.New(g.NodeCount)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "allocate matrix")
	}
	for _, e := range g.Edges {
		if e.From < 0 || e.From >= g.NodeCount || e.To < 0 || e.To >= g.NodeCount {
			return nil, errors.New(errors.ErrCodeInvalidGraph, "edge %d→%d out of range for %d nodes", e.From, e.To, g.NodeCount)
		}
		m.Set(e.From, e.To, 1)
	}
	return m, nil
}

// EdgeCount returns the number of directed edges, self-loops included.
func (g Graph) EdgeCount() int { return len(g.Edges) }
