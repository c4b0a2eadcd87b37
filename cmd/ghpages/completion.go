package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCompletionCommand creates the 'completion' command, which writes a
// shell completion script to stdout.
func NewCompletionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate completion script",
		Long: `To load completions for the current session:

  Bash:       $ source <(ghpages completion bash)
  Zsh:        $ source <(ghpages completion zsh)
  Fish:       $ ghpages completion fish | source
  PowerShell: PS> ghpages completion powershell | Out-String | Invoke-Expression

To load them for every new session, write the script to your shell's
completion directory instead, e.g.:

  $ ghpages completion zsh > "${fpath[1]}/_ghpages"
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}
}
