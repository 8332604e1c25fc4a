package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cyclograph/pkg/cache"
	"github.com/matzehuels/cyclograph/pkg/graph"
	"github.com/matzehuels/cyclograph/pkg/pipeline"
)

// visualizeCommand creates the visualize command for rendering graphs.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		formatsStr string
		engine     string
		output     string
		noCache    bool
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:   "visualize [graph.json]",
		Short: "Render a graph to DOT, SVG, or PNG",
		Long: `Render a graph to visual output via Graphviz.

The visualize command takes a graph.json file (produced by 'generate') and
renders it with a circular layout, which keeps the ring structure of
multi-cycle graphs visible. Node 0 sits on the ring with the feed-in nodes
around it.

Rendered artifacts are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			return c.runVisualize(cmd.Context(), args[0], formats, engine, output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-render even if cached")
	cmd.Flags().StringVar(&engine, "engine", "", "graphviz layout engine: circo (default), dot, neato")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png (comma-separated)")

	return cmd
}

// runVisualize loads the graph and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, formats []string, engine, output string, noCache, refresh bool) error {
	m, err := graph.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	data, err := graph.Marshal(m)
	if err != nil {
		return fmt.Errorf("serialize graph: %w", err)
	}

	opts := pipeline.Options{
		Formats: formats,
		Engine:  engine,
		Refresh: refresh,
		Logger:  c.Logger,
	}
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Rendering graph...")
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, m, cache.Hash(data), opts)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	return writeArtifacts(artifacts, formats, input, output, cacheHit)
}

// writeArtifacts writes rendered artifacts to disk, one file per format.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string, cacheHit bool) error {
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	} else if len(formats) == 1 {
		// Single format with explicit output: use the path as-is.
		data := artifacts[formats[0]]
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		printSuccess("Rendered %s", formats[0])
		printFile(output)
		printRenderStatus(cacheHit)
		return nil
	} else {
		base = strings.TrimSuffix(output, filepath.Ext(output))
	}

	printSuccess("Rendered %s", strings.Join(formats, ", "))
	for _, format := range formats {
		path := base + "." + format
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printRenderStatus(cacheHit)
	return nil
}

func printRenderStatus(cacheHit bool) {
	status := iconFresh
	statusStyle := styleComputed
	if cacheHit {
		status = iconCached
		statusStyle = styleCached
	}
	fmt.Println("  " + statusStyle.Render(status))
}
