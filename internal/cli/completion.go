package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand generates shell completion scripts so that lockfile
// paths and flags tab-complete in the user's shell.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <bash|zsh|fish|powershell>",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for the given shell.

Load it in the current session:

  Bash:       source <(lockrank completion bash)
  Zsh:        source <(lockrank completion zsh)
  Fish:       lockrank completion fish | source
  PowerShell: lockrank completion powershell | Out-String | Invoke-Expression

To persist completions, write the script where your shell picks it up,
for example:

  lockrank completion bash > /etc/bash_completion.d/lockrank
  lockrank completion zsh  > "${fpath[1]}/_lockrank"
  lockrank completion fish > ~/.config/fish/completions/lockrank.fish
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(os.Stdout)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			default:
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			}
		},
	}
}
