package nodelink

import (
	"strings"
	"testing"

	apperrors "github.com/matzehuels/cyclograph/pkg/errors"
	"github.com/matzehuels/cyclograph/pkg/graphgen"
	"github.com/matzehuels/cyclograph/pkg/matrix"
)

func TestToDOT_EdgesAndSelfLoop(t *testing.T) {
	m, err := graphgen.Generate(graphgen.Spec{Nodes: 3, Cycles: 1})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	dot := ToDOT(m, Options{})

	for _, want := range []string{
		"digraph cyclograph {",
		"layout=circo;",
		"0 -> 0;", // self-loop at node 0
		"1 -> 0;",
		"2 -> 0;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOT_DeclaresEveryNode(t *testing.T) {
	m, err := matrix.New(4)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	dot := ToDOT(m, Options{})

	// Isolated nodes still have to appear in the output.
	for _, want := range []string{"  0;\n", "  1;\n", "  2;\n", "  3;\n"} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing node declaration %q", strings.TrimSpace(want))
		}
	}
	if strings.Contains(dot, "->") {
		t.Errorf("ToDOT() of empty matrix contains edges:\n%s", dot)
	}
}

func TestToDOT_EngineOverride(t *testing.T) {
	m, _ := matrix.New(2)
	dot := ToDOT(m, Options{Engine: EngineDot})
	if !strings.Contains(dot, "layout=dot;") {
		t.Errorf("ToDOT() missing engine override:\n%s", dot)
	}
}

func TestValidateEngine(t *testing.T) {
	for _, engine := range []string{"", EngineCirco, EngineDot, EngineNeato} {
		if err := ValidateEngine(engine); err != nil {
			t.Errorf("ValidateEngine(%q) error = %v, want nil", engine, err)
		}
	}
	if err := ValidateEngine("magic"); !apperrors.Is(err, apperrors.ErrCodeInvalidEngine) {
		t.Errorf("ValidateEngine(magic) error = %v, want INVALID_ENGINE", err)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="8pt" height="6pt" viewBox="0.00 0.00 116.00 76.00" xmlns="http://www.w3.org/2000/svg">`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 116.00 76.00"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if !strings.Contains(out, `width="116" height="76"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
}

func TestNormalizeViewBox_NoViewBox(t *testing.T) {
	in := []byte(`<svg xmlns="http://www.w3.org/2000/svg">`)
	if got := string(normalizeViewBox(in)); got != string(in) {
		t.Errorf("normalizeViewBox() changed SVG without viewBox: %s", got)
	}
}
