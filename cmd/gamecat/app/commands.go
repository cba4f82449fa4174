package app

import (
	"github.com/spf13/cobra"

	"github.com/clockworksproduction/gamecat/cmd/gamecat/cmd/completion"
	"github.com/clockworksproduction/gamecat/cmd/gamecat/cmd/covers"
	"github.com/clockworksproduction/gamecat/cmd/gamecat/cmd/dedupe"
	"github.com/clockworksproduction/gamecat/cmd/gamecat/cmd/index"
	"github.com/clockworksproduction/gamecat/cmd/gamecat/cmd/resolve"
	"github.com/clockworksproduction/gamecat/cmd/gamecat/cmd/sync"
	"github.com/clockworksproduction/gamecat/cmd/gamecat/cmd/version"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(sync.NewCommand(a))
	rootCmd.AddCommand(index.NewCommand(a))

	// Maintenance commands
	rootCmd.AddCommand(dedupe.NewCommand(a))
	rootCmd.AddCommand(covers.NewCommand(a))
	rootCmd.AddCommand(resolve.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(version.NewCommand(a))
	rootCmd.AddCommand(completion.NewCommand())
}
