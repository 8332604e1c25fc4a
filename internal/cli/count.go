package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cyclograph/pkg/cache"
	"github.com/matzehuels/cyclograph/pkg/graph"
	"github.com/matzehuels/cyclograph/pkg/matrix"
	"github.com/matzehuels/cyclograph/pkg/pipeline"
)

// countCommand creates the count command for the cycle search.
func (c *CLI) countCommand() *cobra.Command {
	var (
		nodes   int
		cycles  int
		target  int64
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "count [graph.json]",
		Short: "Find the smallest matrix power matching a target cycle count",
		Long: `Search for the smallest power k of the graph's adjacency matrix whose
trace equals the target. The trace of the k-th power counts the closed walks
of length k, so a match means the graph contains exactly that many cycles of
length k.

The graph comes from a graph.json file (produced by 'generate'), or is built
inline with --nodes and --cycles. Powers from 1 up to the node count are
checked in order and the first match wins. Not finding a match is a normal
outcome, not an error.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			if input == "" && nodes == 0 {
				return fmt.Errorf("either a graph.json file or --nodes is required")
			}
			if target < 0 {
				return fmt.Errorf("target cycle count must not be negative, got %d", target)
			}
			return c.runCount(cmd.Context(), input, nodes, cycles, target, noCache, refresh)
		},
	}

	cmd.Flags().IntVarP(&nodes, "nodes", "n", 0, "number of nodes for an inline graph")
	cmd.Flags().IntVarP(&cycles, "cycles", "c", 0, "number of cycles for an inline graph")
	cmd.Flags().Int64VarP(&target, "target", "t", 0, "target cycle count (required)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if cached")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

// runCount loads or generates the graph and runs the search.
func (c *CLI) runCount(ctx context.Context, input string, nodes, cycles int, target int64, noCache, refresh bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var m *matrix.Matrix
	if input != "" {
		m, err = graph.ReadFile(input)
		if err != nil {
			return fmt.Errorf("load graph %s: %w", input, err)
		}
	} else {
		m, err = runner.Generate(ctx, pipeline.Options{
			Nodes:    nodes,
			Cycles:   cycles,
			MaxNodes: cfg.MaxNodes,
		})
		if err != nil {
			return fmt.Errorf("generate: %w", err)
		}
	}

	data, err := graph.Marshal(m)
	if err != nil {
		return fmt.Errorf("serialize graph: %w", err)
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Searching for %d cycles...", target))
	spinner.Start()

	res, cached, err := runner.SearchWithCacheInfo(ctx, m, cache.Hash(data), pipeline.Options{
		Target:  target,
		Refresh: refresh,
		Logger:  c.Logger,
	})
	if err != nil {
		spinner.StopWithError("Search failed")
		return fmt.Errorf("count: %w", err)
	}
	spinner.Stop()

	printSearchResult(res.Found, res.Step, res.Count, target, res.Elapsed, cached)
	return nil
}

// printSearchResult reports the search outcome with elapsed time in both
// milliseconds and seconds.
func printSearchResult(found bool, step int, count, target int64, elapsed time.Duration, cached bool) {
	if found {
		printSuccess("Found %s cycles at power %s",
			StyleNumber.Render(fmt.Sprintf("%d", count)),
			StyleNumber.Render(fmt.Sprintf("%d", step)))
	} else {
		printInfo("No power up to %s matched %s cycles",
			StyleNumber.Render(fmt.Sprintf("%d", step)),
			StyleNumber.Render(fmt.Sprintf("%d", target)))
	}

	status := iconFresh
	if cached {
		status = iconCached
	}
	printDetail("%dms (%.3fs) · %s", elapsed.Milliseconds(), elapsed.Seconds(), status)
}
