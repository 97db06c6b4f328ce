package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/conceptree/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// The --config flag is read in PersistentPreRunE, so every subcommand sees the
// loaded settings in c.Settings.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Conceptree resolves and draws concept hierarchies",
		Long: `Conceptree turns a concept set (concepts plus parent/child edges) into a
collapsible hierarchy: it computes descendant rollups, decides which rows
are visible for a given expand/collapse configuration, and draws the
hierarchy as a layered node-link diagram.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadSettings()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "settings file (.toml, .yaml)")

	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	registerCompletions(root)

	return root
}
