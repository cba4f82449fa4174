// Package completion provides the shell completion command.
package completion

import (
	"github.com/spf13/cobra"

	"github.com/clockworksproduction/gamecat/pkg/errors"
)

// Shells lists the shells a completion script can be generated for.
var Shells = []string{"bash", "zsh", "fish", "powershell"}

// NewCommand creates the completion command. It replaces cobra's default so
// the scripts are documented with gamecat paths.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <shell>",
		Short: "Generate shell completion scripts",
		Long: `Generate the autocompletion script for the given shell.

  source <(gamecat completion bash)
  gamecat completion zsh > "${fpath[1]}/_gamecat"
  gamecat completion fish > ~/.config/fish/completions/gamecat.fish
  gamecat completion powershell | Out-String | Invoke-Expression`,
		Args:                  cobra.ExactArgs(1),
		ValidArgs:             Shells,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(w, true)
			case "zsh":
				return root.GenZshCompletion(w)
			case "fish":
				return root.GenFishCompletion(w, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(w)
			default:
				return &errors.ValidationError{
					Field:   "shell",
					Value:   args[0],
					Message: "must be one of: bash, zsh, fish, powershell",
				}
			}
		},
	}
}

// FixedValues returns a flag completion function offering values.
func FixedValues(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}
