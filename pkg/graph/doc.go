// Package graph defines the serialization format for generated graphs.
//
// A graph travels between commands (and over the HTTP API) as a node count
// plus an edge list rather than a full matrix dump: generated graphs are
// sparse, so the edge list stays small even near the node ceiling. The format
// is human-readable JSON with round-trip fidelity: export followed by import
// reproduces the exact adjacency matrix.
package graph
