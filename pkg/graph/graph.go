package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/cyclograph/pkg/matrix"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// Marshal converts a matrix to indented JSON bytes.
func Marshal(m *matrix.Matrix) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(m, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes a matrix to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(m *matrix.Matrix, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTo(m, f)
}

// Write writes a matrix as JSON to an io.Writer.
func Write(m *matrix.Matrix, w io.Writer) error {
	return writeTo(m, w)
}

// ReadFile reads a JSON graph file and returns the decoded adjacency matrix.
func ReadFile(path string) (*matrix.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readFrom(f)
}

// Read decodes a JSON graph from an io.Reader into an adjacency matrix.
// Use ReadFile for files or pass bytes.NewReader for in-memory data.
func Read(r io.Reader) (*matrix.Matrix, error) {
	return readFrom(r)
}

// Unmarshal deserializes JSON bytes to a Graph without converting to a matrix.
func Unmarshal(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeTo(m *matrix.Matrix, w io.Writer) error {
	out := FromMatrix(m)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readFrom(r io.Reader) (*matrix.Matrix, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return g.ToMatrix()
}
