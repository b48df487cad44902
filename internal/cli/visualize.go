package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spanlane/pkg/pipeline"
	"github.com/matzehuels/spanlane/pkg/schema"
)

// visualizeCommand renders a layout file written by `layout`.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Render visualization from a computed layout",
		Long: `Render visualization from a computed layout.

The visualize command takes a layout.json file (produced by 'layout') and
renders it to SVG, PNG, PDF or OTLP JSON. Style, time mode and scale default
to the values recorded in the layout.

Use 'render' as a shortcut to go directly from a model to visual output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if output == "" {
				output = stripArtifactExt(args[0])
			}
			return c.runVisualize(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, otlp (comma-separated)")
	cmd.Flags().StringVar(&opts.Style, "style", "", "visual style (default: as recorded)")
	cmd.Flags().StringVar(&opts.TimeMode, "time-mode", "", "time axis: ordinal, linear (default: as recorded)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "horizontal scale factor (default: as recorded)")
	cmd.Flags().BoolVar(&opts.NoArrows, "no-arrows", false, "omit parent to child arrows")
	cmd.Flags().Float64Var(&opts.Zoom, "zoom", pipeline.DefaultZoom, "PNG zoom factor")

	registerCompletions(cmd)
	return cmd
}

func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	l, err := schema.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", l.VizType))
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	printSuccess("Rendered %s", input)
	if err := writeArtifacts(artifacts, opts.Formats, output, opts); err != nil {
		return err
	}
	tr := l.Trace()
	printStats(len(tr.Spans), len(tr.Services()), tr.Duration, cacheHit)
	return nil
}
