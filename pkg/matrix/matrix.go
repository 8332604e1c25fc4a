package matrix

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidSize is returned by [New] when the requested dimension is
	// smaller than 1. A matrix always has at least one row and column.
	ErrInvalidSize = errors.New("matrix size must be at least 1")

	// ErrDimensionMismatch is returned by [Mul] when the two operands differ
	// in size. Square operands of identical dimension are required.
	ErrDimensionMismatch = errors.New("matrices must be of the same size")
)

// Matrix is a dense n×n matrix of int64 entries in flat row-major storage.
//
// The zero value is not usable; use [New] or [FromRows].
type Matrix struct {
	n    int
	data []int64
}

// New creates an n×n zero matrix.
func New(n int) (*Matrix, error) {
	if n < 1 {
		return nil, fmt.Errorf("new %dx%d matrix: %w", n, n, ErrInvalidSize)
	}
	return &Matrix{n: n, data: make([]int64, n*n)}, nil
}

// FromRows creates a matrix from a slice of rows. Every row must have the same
// length as the number of rows.
func FromRows(rows [][]int64) (*Matrix, error) {
	m, err := New(len(rows))
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != m.n {
			return nil, fmt.Errorf("row %d has %d entries, want %d: %w", i, len(row), m.n, ErrDimensionMismatch)
		}
		copy(m.data[i*m.n:(i+1)*m.n], row)
	}
	return m, nil
}

// Size returns the dimension n of the matrix.
func (m *Matrix) Size() int { return m.n }

// At returns the entry at row i, column j. It panics when either index is out
// of range; indices are internal invariants, not user input.
func (m *Matrix) At(i, j int) int64 {
	return m.data[m.offset(i, j)]
}

// Set assigns the entry at row i, column j. It panics when either index is out
// of range.
func (m *Matrix) Set(i, j int, v int64) {
	m.data[m.offset(i, j)] = v
}

// offset maps (i, j) to the flat buffer index. The column bound must be
// checked explicitly: i*n+j can land inside the buffer even when j is out of
// range, which would silently read a neighboring row.
func (m *Matrix) offset(i, j int) int {
	if i < 0 || i >= m.n || j < 0 || j >= m.n {
		panic(fmt.Sprintf("matrix: index (%d,%d) out of range for %dx%d matrix", i, j, m.n, m.n))
	}
	return i*m.n + j
}

// Clone returns a deep copy of the matrix.
func (m *Matrix) Clone() *Matrix {
	data := make([]int64, len(m.data))
	copy(data, m.data)
	return &Matrix{n: m.n, data: data}
}

// Trace returns the sum of the diagonal entries. For the k-th power of an
// adjacency matrix this counts the closed directed walks of length k.
func (m *Matrix) Trace() int64 {
	var sum int64
	for i := 0; i < m.n; i++ {
		sum += m.data[i*m.n+i]
	}
	return sum
}

// Equal reports whether two matrices have identical dimension and entries.
func (m *Matrix) Equal(other *Matrix) bool {
	if other == nil || m.n != other.n {
		return false
	}
	for i, v := range m.data {
		if other.data[i] != v {
			return false
		}
	}
	return true
}

// String renders the matrix one row per line, for logs and test failures.
func (m *Matrix) String() string {
	var b strings.Builder
	for i := 0; i < m.n; i++ {
		b.WriteString("[")
		for j := 0; j < m.n; j++ {
			if j > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "%d", m.data[i*m.n+j])
		}
		b.WriteString("]\n")
	}
	return b.String()
}

// Mul multiplies two square matrices of identical dimension and returns the
// product in a freshly allocated matrix. Neither operand is mutated.
//
// The loops run in i→k→j order so the inner loop walks both the result row and
// the b row sequentially through the flat buffers.
func Mul(a, b *Matrix) (*Matrix, error) {
	if a.n != b.n {
		return nil, fmt.Errorf("multiply %dx%d by %dx%d: %w", a.n, a.n, b.n, b.n, ErrDimensionMismatch)
	}
	n := a.n
	out := &Matrix{n: n, data: make([]int64, n*n)}
	for i := 0; i < n; i++ {
		arow := a.data[i*n : (i+1)*n]
		orow := out.data[i*n : (i+1)*n]
		for k := 0; k < n; k++ {
			aik := arow[k]
			if aik == 0 {
				continue
			}
			brow := b.data[k*n : (k+1)*n]
			for j := 0; j < n; j++ {
				orow[j] += aik * brow[j]
			}
		}
	}
	return out, nil
}
