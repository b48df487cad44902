package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spanlane/pkg/pipeline"
)

// simulateCommand runs a model once and prints the resulting trace.
func (c *CLI) simulateCommand() *cobra.Command {
	var (
		output  string
		tree    bool
		noCache bool
	)
	var seed uint64

	cmd := &cobra.Command{
		Use:   "simulate [model|file]",
		Short: "Simulate a model and print its trace",
		Long: `Simulate a model and print its trace.

The argument is a catalog model name (see 'spanlane models') or the path to a
.toml, .yaml or .json model file. Without --seed a random seed is drawn and
printed so the run can be reproduced.

With -o the trace is also written as JSON ("-" writes to stdout).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.defaultOptions()
			if cmd.Flags().Changed("seed") {
				opts.Seed = seed
			}
			if len(args) == 1 {
				resolveModel(&opts, args[0])
			}
			return c.runSimulate(cmd.Context(), opts, output, tree, noCache)
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (default: random, or the config file's)")
	cmd.Flags().BoolVar(&tree, "tree", false, "print an indented span tree instead of a table")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the trace as JSON to this file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	registerCompletions(cmd)
	return cmd
}

func (c *CLI) runSimulate(ctx context.Context, opts pipeline.Options, output string, tree, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	entry, err := runner.LoadModel(opts)
	if err != nil {
		return err
	}
	tr, cacheHit, err := runner.SimulateWithCacheInfo(ctx, entry, opts)
	if err != nil {
		return fmt.Errorf("simulate %s: %w", entry.Name, err)
	}

	if output == "-" {
		return writeTrace(os.Stdout, tr.Export(entry.Name))
	}

	if tree {
		fmt.Fprint(out, tr.Tree())
	} else {
		fmt.Fprintln(out, traceTable(tr))
	}
	printStats(len(tr.Spans), len(tr.Services()), tr.Duration(), cacheHit)
	printKeyValue("seed", fmt.Sprint(tr.Seed))

	if output != "" {
		if err := writeTraceFile(output, tr.Export(entry.Name)); err != nil {
			return fmt.Errorf("write output %s: %w", output, err)
		}
		printFile(output)
	}
	return nil
}
