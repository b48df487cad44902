package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spanlane/pkg/pipeline"
	"github.com/matzehuels/spanlane/pkg/schema"
)

// layoutCommand simulates a model and writes the computed layout.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [model|file]",
		Short: "Simulate a model and write its layout",
		Long: `Simulate a model and write its layout.

The layout file (<model>.layout.json, the same format as 'render -f json')
holds every placed span, the lanes and the time axis. Render it to SVG, PNG
or PDF with the 'visualize' command.

Seeded runs are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base := c.defaultOptions()
			mergeFlags(cmd, &base, opts)
			if len(args) == 1 {
				resolveModel(&base, args[0])
			}
			return c.runLayout(cmd.Context(), base, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <model>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addLayoutFlags(cmd, &opts)

	registerCompletions(cmd)
	return cmd
}

func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	entry, err := runner.LoadModel(opts)
	if err != nil {
		return err
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Laying out %s...", entry.Name))
	spinner.Start()

	tr, err := runner.Simulate(ctx, entry, opts)
	if err != nil {
		spinner.StopWithError("Simulation failed")
		return fmt.Errorf("simulate %s: %w", entry.Name, err)
	}
	l, cacheHit, err := runner.LayoutWithCacheInfo(ctx, entry.Name, tr, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = outputBase("", opts) + pipeline.Extension(pipeline.FormatJSON)
	}
	if err := schema.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(tr.Spans), len(tr.Services()), tr.Duration(), cacheHit)
	printNewline()
	printNextStep("Render", appName+" visualize "+outputPath)
	return nil
}

// addLayoutFlags binds the flags shared by layout and render to opts. Their
// zero defaults mean "use the config file or built-in default".
func addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVarP(&opts.VizType, "type", "t", "", "visualization type: lanes (default), tree")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show timings and attributes in tree nodes")
	cmd.Flags().StringVar(&opts.Style, "style", "", "visual style: simple (default), mono")
	cmd.Flags().StringVar(&opts.TimeMode, "time-mode", "", "time axis: ordinal (default), linear")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "horizontal scale factor (default 1)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed for normal leaves (default: random)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")
}

// mergeFlags copies every flag the user set from flags onto opts.
func mergeFlags(cmd *cobra.Command, opts *pipeline.Options, flags pipeline.Options) {
	changed := cmd.Flags().Changed
	if changed("type") {
		opts.VizType = flags.VizType
	}
	if changed("detailed") {
		opts.Detailed = flags.Detailed
	}
	if changed("style") {
		opts.Style = flags.Style
	}
	if changed("time-mode") {
		opts.TimeMode = flags.TimeMode
	}
	if changed("scale") {
		opts.Scale = flags.Scale
	}
	if changed("seed") {
		opts.Seed = flags.Seed
	}
	if changed("refresh") {
		opts.Refresh = flags.Refresh
	}
	if changed("no-arrows") {
		opts.NoArrows = flags.NoArrows
	}
	if changed("zoom") {
		opts.Zoom = flags.Zoom
	}
}
