package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/clockworksproduction/gamecat/cmd/gamecat/cmd/completion"
	"github.com/clockworksproduction/gamecat/internal/cmd/output"
	"github.com/clockworksproduction/gamecat/pkg/errors"
)

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	configFile string
	verbose    bool
	quiet      bool
	noColor    bool
	format     string
	logLevel   string
}

// Execute runs the gamecat CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:     "gamecat",
		Short:   "Game catalog builder",
		Version: a.version,
		Long: `gamecat merges game lists exported from several storefronts into one
folder per game. Each folder holds a meta.json record, a synopsis.txt and a
cover image.

Games seen in more than one list are recognised by name, existing folders
are matched even when their names differ slightly, and values already on
disk are never replaced by fresh data unless --force is given.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setupCommand(flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "maintenance",
		Title: "Maintenance Commands:",
	})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "config file (default is $HOME/.gamecat.yaml or ./.gamecat.yaml)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	pf.BoolVarP(&flags.quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	pf.BoolVar(&flags.noColor, "no-color", false, "disable colored output")
	pf.StringVarP(&flags.format, "format", "o", "", "output format: table, json, yaml")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	_ = rootCmd.RegisterFlagCompletionFunc("format", completion.FixedValues("table", "json", "yaml"))
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", completion.FixedValues("trace", "debug", "info", "warn", "error"))

	rootCmd.SetVersionTemplate("gamecat {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(flags *rootFlags) error {
	if flags.configFile != "" {
		config, err := LoadConfig(flags.configFile)
		if err != nil {
			return err
		}
		a.config = config
	}

	if _, err := output.ParseFormat(flags.format); err != nil {
		return err
	}
	a.config.UpdateFromFlags(flags.verbose, flags.quiet, flags.noColor, flags.format, flags.logLevel)

	logger := NewLogger(a.config)
	a.logger = &logger

	output.InitColor(a.config.NoColor)
	return nil
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		if errors.IsValidationError(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
