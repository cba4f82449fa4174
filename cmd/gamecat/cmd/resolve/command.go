// Package resolve provides the resolve command implementation.
package resolve

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/clockworksproduction/gamecat/internal/cmd/application"
	"github.com/clockworksproduction/gamecat/internal/cmd/cmdutil"
	"github.com/clockworksproduction/gamecat/internal/cmd/output"
	"github.com/clockworksproduction/gamecat/internal/cmd/table"
	"github.com/clockworksproduction/gamecat/internal/store"
	"github.com/clockworksproduction/gamecat/pkg/logging"
	"github.com/clockworksproduction/gamecat/pkg/reconcile"
)

// Result is what resolve prints in structured formats.
type Result struct {
	Name  string           `json:"name"`
	Match *reconcile.Match `json:"match"`
}

// NewCommand creates the resolve command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:     "resolve <name>",
		GroupID: "maintenance",
		Short:   "Show which existing folder a game name maps to",
		Args:    cobra.ExactArgs(1),
		Long: `Resolve runs the folder matcher used by sync against the existing game
folders and prints the folder a name would be written to, with the match
method (exact, similar or prefix) and its score.`,
		Example: `  gamecat resolve "Amnesia: The Bunker"
  gamecat resolve "Hollow Knight" -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Execute(cmd.Context(), app, args[0], outputDir, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&outputDir, "output-dir", "",
		"Directory holding one folder per game (default from config)")
	return cmd
}

// Execute resolves name against the folders under outputDir.
func Execute(ctx context.Context, app application.Application, name, outputDir string, w io.Writer) error {
	settings, err := app.Settings()
	if err != nil {
		return err
	}
	if outputDir == "" {
		outputDir = settings.OutputDir
	}

	folders, err := store.New(app.Fs(), outputDir).Folders()
	if err != nil {
		return err
	}

	result := Result{Name: name}
	if match, ok := reconcile.Resolve(name, folders); ok {
		result.Match = &match
	}
	logging.FromContext(cmdutil.Context(ctx, app)).Debug().
		Str("name", name).
		Int("candidates", len(folders)).
		Bool("matched", result.Match != nil).
		Msg("Resolved name")

	if !cmdutil.IsTable(app) {
		return cmdutil.Render(w, app, result, output.Data{})
	}
	if result.Match == nil {
		output.Warn(w, "No folder matches %q among %d folders", name, len(folders))
		return nil
	}
	data := output.Data{
		Headers: []string{"Name", "Folder", "Match"},
		Rows:    [][]string{{name, result.Match.Candidate, table.FormatMatch(result.Match)}},
	}
	return cmdutil.Render(w, app, result, data)
}
