package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// modelsCommand lists the built-in catalog plus any configured model files.
func (c *CLI) modelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List available models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer runner.Close()

			fmt.Fprintln(out, modelsTable(runner.Catalog()))
			printNextStep("Render one", appName+" render <model>")
			return nil
		},
	}
}
