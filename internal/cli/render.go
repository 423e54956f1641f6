package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackchart/pkg/pipeline"
)

// renderCommand creates the render command for generating chart outputs.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		showPoints bool
		backend    backendOpts
	)
	opts := pipeline.Options{Axes: true, Tooltips: true}

	cmd := &cobra.Command{
		Use:   "render [chart.toml]",
		Short: "Render a chart description to SVG, PNG or JSON",
		Long: `Render a chart description to SVG, PNG or JSON.

The chart is measured once, its transitions are completed, and the settled
frame is written in every requested format. Use --live to capture the frame
as it looks when the update starts animating instead.

Results are cached locally for faster subsequent runs. Use --redis to share
the cache between machines and --archive to keep every measured frame in
MongoDB.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			opts.Path = args[0]
			opts.Archive = backend.mongoURI != ""
			return c.runRender(cmd.Context(), opts, output, backend, showPoints)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.Axes, "axes", opts.Axes, "draw axes and tick labels")
	cmd.Flags().BoolVar(&opts.Grid, "grid", false, "draw horizontal grid lines (svg)")
	cmd.Flags().BoolVar(&opts.Tooltips, "tooltips", opts.Tooltips, "show value tooltips on hover (svg)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", pipeline.DefaultScale, "pixel scale factor (png)")
	cmd.Flags().BoolVar(&opts.Live, "live", false, "snapshot before transitions complete")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached frames and artifacts")
	cmd.Flags().BoolVar(&showPoints, "points", false, "print the measured points as a table")
	backend.register(cmd)

	return cmd
}

// runRender executes the pipeline and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, backend backendOpts, showPoints bool) error {
	runner, err := c.newRunner(ctx, backend)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", filepath.Base(opts.Path)))
	restore := spinner.Track()
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	restore()
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     opts.Path,
		output:    output,
		cacheHit:  result.CacheInfo.RenderHit,
	}); err != nil {
		return err
	}
	printStats(result.Stats.SeriesCount, result.Stats.PointCount, result.Stats.Elements, result.CacheInfo.FrameHit)
	if result.Archived {
		printDetail("Archived as %s", result.Frame.Key)
	}
	if showPoints && len(result.Frame.Points) > 0 {
		fmt.Println(pointTable(result.Frame))
	}
	prog.done("Rendered "+strings.Join(opts.Formats, ", "), "elements", result.Stats.Elements)
	return nil
}

type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	cacheHit  bool
}

// writeArtifacts writes every artifact next to the input, or to output.
func writeArtifacts(p artifactWriteParams) error {
	base := basePath(p.output, p.input)
	single := len(p.formats) == 1 && p.output != ""

	status := "Rendered"
	if p.cacheHit {
		status = "Rendered (cached)"
	}
	printSuccess("%s %d output(s)", status, len(p.formats))

	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			return fmt.Errorf("no %s artifact produced", format)
		}
		path := base + "." + format
		if single {
			path = p.output
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// basePath returns the output path without extension. The input's
// directory and stem are used when no output is given.
func basePath(output, input string) string {
	if output != "" {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}
