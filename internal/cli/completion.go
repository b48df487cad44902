package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spanlane/pkg/models"
	"github.com/matzehuels/spanlane/pkg/pipeline"
	"github.com/matzehuels/spanlane/pkg/schema"
)

func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for spanlane.

To load completions:

Bash:
  $ source <(spanlane completion bash)

  # Persist for every session (Linux):
  $ spanlane completion bash > /etc/bash_completion.d/spanlane

Zsh:
  $ spanlane completion zsh > "${fpath[1]}/_spanlane"
  # then start a new shell (compinit must be enabled)

Fish:
  $ spanlane completion fish | source
  $ spanlane completion fish > ~/.config/fish/completions/spanlane.fish

PowerShell:
  PS> spanlane completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}

	return cmd
}

// registerCompletions wires value completion for the model argument and the
// enumerated flags that cmd defines.
func registerCompletions(cmd *cobra.Command) {
	if strings.Contains(cmd.Use, "[model|file]") {
		cmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return models.Names(), cobra.ShellCompDirectiveDefault
		}
	}

	fixed := map[string][]string{
		"type":      schema.VizTypes,
		"style":     schema.Styles,
		"time-mode": schema.TimeModes,
	}
	for name, values := range fixed {
		if cmd.Flags().Lookup(name) == nil {
			continue
		}
		_ = cmd.RegisterFlagCompletionFunc(name, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
	}
	if cmd.Flags().Lookup("format") != nil {
		_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	}
}

// completeFormats completes the last element of a comma-separated list.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := ""
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
	}
	out := make([]string, len(pipeline.Formats))
	for i, f := range pipeline.Formats {
		out[i] = prefix + f
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
