// Package matrix implements dense square matrices over int64 entries, as used
// for adjacency matrices of directed graphs and their powers.
//
// Matrices are stored in a single flat row-major buffer (offset i*n + j), which
// keeps the O(n³) multiplication in [Mul] cache-friendly and avoids per-row
// allocations when a matrix is repeatedly powered. Entries of a freshly
// generated adjacency matrix are 0 or 1; powers accumulate walk counts and can
// grow quickly. With int64 entries the trace of realistic graph powers stays
// representable up to the application's 10,000-node ceiling, but very dense
// graphs raised to high powers can overflow; overflow is a documented
// limitation of the arithmetic, not detected or saturated.
//
// A Matrix is not safe for concurrent mutation. [Mul] never mutates its
// operands; each call allocates a fresh result.
package matrix
