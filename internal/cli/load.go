package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	pkgerrors "github.com/calloway/intertext/pkg/errors"
	"github.com/calloway/intertext/pkg/graph"
	"github.com/calloway/intertext/pkg/pipeline"
)

// loadCommand creates the load command for building a graph from an edge list.
func (c *CLI) loadCommand() *cobra.Command {
	var (
		output  string
		skipBad bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "load [edges.csv]",
		Short: "Load an edge list CSV into an influence graph",
		Long: `Load an edge list CSV into an influence graph.

The load command reads a hand-curated CSV of influence edges, validates each
row, and writes the resulting graph as JSON. Malformed rows abort the run
unless --skip-bad is set, in which case they are logged and dropped.

The output graph.json can be fed to 'layout', 'render', 'stats', and
'archive push'.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) > 0 {
				input = args[0]
			}
			return c.runLoad(cmd.Context(), input, output, skipBad, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "graph.json", "output file")
	cmd.Flags().BoolVar(&skipBad, "skip-bad", false, "skip malformed rows instead of failing")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runLoad parses the CSV, builds the graph, and writes it as JSON.
func (c *CLI) runLoad(ctx context.Context, input, output string, skipBad, noCache bool) error {
	if err := pkgerrors.ValidateOutputPath(output); err != nil {
		return err
	}

	opts := c.mergeOptions(pipeline.Options{Input: input}, skipBad)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Loading %s...", opts.Input))
	spinner.Start()

	g, skipped, cacheHit, err := runner.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Load failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := graph.WriteFile(g, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Load complete")
	printFile(output)
	printStats(g.NodeCount(), g.EdgeCount(), cacheHit)
	if skipped > 0 {
		printWarning("Skipped %d malformed rows", skipped)
	}
	printNewline()
	printNextStep("Layout", "intertext layout "+output)

	return nil
}
