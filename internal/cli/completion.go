package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// completionCommand prints a shell completion script.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion bash|zsh|fish|powershell",
		Short: "Print a shell completion script",
		Long: `Print a shell completion script.

  source <(conceptree completion bash)
  conceptree completion zsh > "${fpath[1]}/_conceptree"
  conceptree completion fish > ~/.config/fish/completions/conceptree.fish
  conceptree completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}
}

// registerCompletions completes bundle files for the commands that read a
// bundle, and drawing formats for render --format.
func registerCompletions(root *cobra.Command) {
	bundleArg := func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
	}
	formats := func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"svg", "png", "dot", "json"}, cobra.ShellCompDirectiveNoFileComp
	}

	for _, cmd := range root.Commands() {
		switch cmd.Name() {
		case "resolve", "stats", "validate", "layout", "render", "browse":
			cmd.ValidArgsFunction = bundleArg
		}
		if cmd.Name() == "render" {
			_ = cmd.RegisterFlagCompletionFunc("format", formats)
		}
	}
}
