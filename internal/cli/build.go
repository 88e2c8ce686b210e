package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	pkgerrors "github.com/calloway/intertext/pkg/errors"
	"github.com/calloway/intertext/pkg/pipeline"
)

// buildCommand creates the build command for running the full pipeline.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		outputDir  string
		formatsStr string
		skipBad    bool
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "build [edges.csv]",
		Short: "Build the influence network and render all outputs",
		Long: `Build the influence network and render all outputs.

The build command runs the full pipeline: it reads the edge list CSV,
constructs the influence graph, computes the timeline layout, and renders
the requested output formats into the output directory.

Results are cached locally for faster subsequent runs. Use 'load', 'layout',
and 'render' to run individual stages.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Input = args[0]
			}
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runBuild(cmd.Context(), opts, outputDir, skipBad, noCache)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "output directory (default: assets)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "html,svg", "output format(s): html, svg, png, dot, json (comma-separated)")
	cmd.Flags().StringVar(&opts.Title, "title", "", "network title")
	cmd.Flags().StringVar(&opts.Subtitle, "subtitle", "", "network subtitle")
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "frame width")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "frame height")
	cmd.Flags().BoolVar(&skipBad, "skip-bad", false, "skip malformed rows instead of failing")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runBuild executes the full pipeline and writes artifacts to the output directory.
func (c *CLI) runBuild(ctx context.Context, opts pipeline.Options, outputDir string, skipBad, noCache bool) error {
	opts = c.mergeOptions(opts, skipBad)
	if outputDir == "" {
		outputDir = c.Config.OutputDir
	}
	if outputDir == "" {
		outputDir = pipeline.DefaultOutputDir
	}
	if err := pkgerrors.ValidateOutputPath(outputDir); err != nil {
		return err
	}

	prog := newProgress(c.Logger)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Building network from %s...", opts.Input))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Build failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifactDir(result.Artifacts, outputDir, "network")
	if err != nil {
		return err
	}
	prog.done("build finished")

	printSuccess("Build complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)
	if result.SkippedRows > 0 {
		printWarning("Skipped %d malformed rows", result.SkippedRows)
	}
	printNewline()
	printNextStep("Inspect", "intertext stats "+opts.Input)
	printNextStep("Preview", "intertext serve "+outputDir)

	return nil
}

// mergeOptions layers command-line options over the project config.
func (c *CLI) mergeOptions(opts pipeline.Options, skipBad bool) pipeline.Options {
	base := c.pipelineOptions()
	if opts.Input != "" {
		base.Input = opts.Input
	}
	if base.Input == "" {
		base.Input = pipeline.DefaultInput
	}
	if skipBad {
		base.SkipBadRows = true
	}
	if opts.Width != 0 {
		base.Width = opts.Width
	}
	if opts.Height != 0 {
		base.Height = opts.Height
	}
	if opts.Title != "" {
		base.Title = opts.Title
	}
	if opts.Subtitle != "" {
		base.Subtitle = opts.Subtitle
	}
	base.Formats = opts.Formats
	return base
}

// writeArtifactDir writes each rendered artifact as <dir>/<name>.<format> and
// returns the written paths in format order.
func writeArtifactDir(artifacts map[string][]byte, dir, name string) ([]string, error) {
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(artifacts))
	for _, format := range pipeline.Formats() {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := filepath.Join(dir, name+"."+format)
		if err := writeFile(path, data); err != nil {
			return nil, fmt.Errorf("write output %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
