package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/cyclograph/pkg/errors"
	"github.com/matzehuels/cyclograph/pkg/matrix"
)

// Layout engines accepted by [Options.Engine].
const (
	EngineCirco = "circo"
	EngineDot   = "dot"
	EngineNeato = "neato"
)

// DefaultEngine is used when Options.Engine is empty.
const DefaultEngine = EngineCirco

// Options configures node-link rendering.
type Options struct {
	// Engine selects the Graphviz layout engine. Defaults to circo.
	Engine string
}

// ValidateEngine checks that engine names a supported layout engine.
// An empty string is valid and means the default.
func ValidateEngine(engine string) error {
	switch engine {
	case "", EngineCirco, EngineDot, EngineNeato:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidEngine, "unknown layout engine %q (want circo, dot, or neato)", engine)
}

// ToDOT converts an adjacency matrix to Graphviz DOT format.
// Nodes are labeled by index; a 1 on the diagonal becomes a self-loop edge.
// The layout engine is embedded as a graph attribute so the DOT file renders
// the same through the standalone graphviz tools.
func ToDOT(m *matrix.Matrix, opts Options) string {
	engine := opts.Engine
	if engine == "" {
		engine = DefaultEngine
	}

	var buf bytes.Buffer
	buf.WriteString("digraph cyclograph {\n")
	fmt.Fprintf(&buf, "  layout=%s;\n", engine)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=12, fixedsize=true, width=0.45];\n")
	buf.WriteString("  edge [arrowsize=0.7];\n")
	buf.WriteString("\n")

	n := m.Size()
	for i := 0; i < n; i++ {
		fmt.Fprintf(&buf, "  %d;\n", i)
	}

	buf.WriteString("\n")
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if m.At(i, j) != 0 {
				fmt.Fprintf(&buf, "  %d -> %d;\n", i, j)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	data, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(data), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the SVG root element to a zero-origin viewBox with
// explicit pixel dimensions, so the output embeds predictably in web pages.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
