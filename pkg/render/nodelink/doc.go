// Package nodelink renders generated graphs as node-link diagrams.
//
// [ToDOT] converts an adjacency matrix to Graphviz DOT; [RenderSVG] and
// [RenderPNG] rasterize the DOT through goccy/go-graphviz. The default layout
// engine is circo, which places nodes on a circle, the natural presentation
// for ring-shaped generated graphs, and draws self-loops as arcs.
package nodelink
