package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	pkgerrors "github.com/calloway/intertext/pkg/errors"
	"github.com/calloway/intertext/pkg/graph"
	"github.com/calloway/intertext/pkg/pipeline"
)

// renderCommand creates the render command for producing visual outputs.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Render an influence graph to visual output",
		Long: `Render an influence graph to visual output.

The render command takes a graph.json file (produced by 'load'), computes
the timeline layout, and renders the requested formats. The interactive HTML
page includes theme and weight filters plus hover details for every work and
influence. Static formats (svg, png, dot) use a left-to-right node-link
diagram.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): html (default), svg, png, dot, json (comma-separated)")
	cmd.Flags().StringVar(&opts.Title, "title", "", "network title")
	cmd.Flags().StringVar(&opts.Subtitle, "subtitle", "", "network subtitle")
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "frame width")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "frame height")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runRender loads the graph, computes the layout, and writes each format.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	if output != "" {
		if err := pkgerrors.ValidateOutputPath(output); err != nil {
			return err
		}
	}

	g, err := graph.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	formats := opts.Formats
	opts = c.mergeOptions(opts, false)
	opts.Formats = formats

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)

	l, _, err := runner.ComputeLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	spinner := newSpinnerWithContext(ctx, "Rendering network...")
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, l, g, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}
	prog.done("render finished")

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(g.NodeCount(), g.EdgeCount(), cacheHit)

	return nil
}

// writeArtifacts writes rendered artifacts next to the input file unless an
// explicit output path is given. A single format with an explicit output is
// written verbatim; multiple formats share a base path.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	if len(formats) == 1 && output != "" {
		format := formats[0]
		if err := writeFile(output, artifacts[format]); err != nil {
			return nil, fmt.Errorf("write output %s: %w", output, err)
		}
		return []string{output}, nil
	}

	base := basePath(output, input, pipeline.ValidFormats)
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if err := writeFile(path, data); err != nil {
			return nil, fmt.Errorf("write output %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
