package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spanlane/pkg/pipeline"
)

// renderCommand runs the full pipeline: simulate, lay out and render.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		pick       bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [model|file]",
		Short: "Simulate a model and render it in one step",
		Long: `Simulate a model and render it in one step.

Equivalent to 'layout' followed by 'visualize'. Without an argument the
default model is used; --pick chooses one interactively.

Formats:
  svg   swim-lane diagram (or span tree with -t tree)
  png   rasterized SVG (needs rsvg-convert)
  pdf   vector PDF (needs rsvg-convert)
  json  the layout, as written by 'layout'
  otlp  OTLP/JSON TracesData for trace viewers`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base := c.defaultOptions()
			mergeFlags(cmd, &base, opts)
			if cmd.Flags().Changed("format") {
				base.Formats = parseFormats(formatsStr)
			}
			if err := pipeline.ValidateFormats(base.Formats); err != nil {
				return err
			}
			if len(args) == 1 {
				resolveModel(&base, args[0])
			}
			return c.runRender(cmd.Context(), base, output, noCache, pick)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&pick, "pick", false, "choose the model interactively")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json, otlp (comma-separated)")
	cmd.Flags().BoolVar(&opts.NoArrows, "no-arrows", false, "omit parent to child arrows")
	cmd.Flags().Float64Var(&opts.Zoom, "zoom", pipeline.DefaultZoom, "PNG zoom factor")
	addLayoutFlags(cmd, &opts)

	registerCompletions(cmd)
	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache, pick bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if pick {
		entry, err := pickModel(runner.Catalog())
		if err != nil {
			return err
		}
		if entry == nil {
			printInfo("No model selected")
			return nil
		}
		opts.Model, opts.ModelFile = entry.Name, ""
	}

	spinner := newSpinner(ctx, "Rendering...")
	spinner.Start()

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done("pipeline complete", "model", result.Model)

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if opts.Model == "" && opts.ModelFile == "" {
		opts.Model = result.Model
	}
	printSuccess("Rendered %s", result.Model)
	if err := writeArtifacts(result.Artifacts, opts.Formats, output, opts); err != nil {
		return err
	}
	cached := result.CacheInfo.TraceHit && result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit
	printStats(result.Stats.SpanCount, result.Stats.Services, result.Stats.Duration, cached)
	printKeyValue("seed", fmt.Sprint(result.Trace.Seed))
	return nil
}
