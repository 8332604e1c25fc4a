package pipeline

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cyclograph/pkg/errors"
	"github.com/matzehuels/cyclograph/pkg/graphgen"
	"github.com/matzehuels/cyclograph/pkg/render/nodelink"
)

// Output formats accepted by [Options.Formats].
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// validFormats lists the supported artifact formats.
var validFormats = []string{FormatDOT, FormatSVG, FormatPNG}

// Options configures a pipeline run.
type Options struct {
	// Generation inputs.
	Nodes  int
	Cycles int

	// Target is the cycle count the search looks for.
	Target int64

	// Formats selects the artifacts to render. Empty skips rendering.
	Formats []string

	// Engine selects the Graphviz layout engine. Empty means the default.
	Engine string

	// MaxNodes bounds the accepted node count. 0 disables the bound.
	MaxNodes int

	// Refresh bypasses cache reads, forcing recomputation.
	Refresh bool

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger
}

// ValidateAndSetDefaults checks the options and fills unset fields.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.Spec().ValidateBounded(o.MaxNodes); err != nil {
		return err
	}
	if o.Target < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "target cycle count must not be negative, got %d", o.Target)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := nodelink.ValidateEngine(o.Engine); err != nil {
		return err
	}
	if o.Engine == "" {
		o.Engine = nodelink.DefaultEngine
	}
	return nil
}

// Spec returns the generation spec described by the options.
func (o Options) Spec() graphgen.Spec {
	return graphgen.Spec{Nodes: o.Nodes, Cycles: o.Cycles}
}

// ValidateFormats checks that every format is supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if !slices.Contains(validFormats, f) {
			return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want dot, svg, or png)", f)
		}
	}
	return nil
}
