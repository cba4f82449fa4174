// Package dedupe provides the dedupe command implementation.
package dedupe

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/clockworksproduction/gamecat/internal/cmd/application"
	"github.com/clockworksproduction/gamecat/internal/cmd/cmdutil"
	"github.com/clockworksproduction/gamecat/internal/cmd/output"
	"github.com/clockworksproduction/gamecat/internal/cmd/table"
	catalogsync "github.com/clockworksproduction/gamecat/pkg/sync"
)

// NewCommand creates the dedupe command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *cmdutil.TreeFlags

	cmd := &cobra.Command{
		Use:     "dedupe",
		GroupID: "maintenance",
		Short:   "Fold duplicate folders of the same game into one",
		Args:    cobra.NoArgs,
		Long: `Dedupe groups folders whose names normalize to the same key, such as
"hollowknight" and "Hollow_Knight", and folds each group into one survivor.

Metadata is merged with the survivor's values winning, files the survivor
lacks are moved over, and the absorbed folder is removed. A folder is only
removed after everything in it has been merged or moved.`,
		Example: `  gamecat dedupe             # Merge duplicate folders
  gamecat dedupe --dry-run   # Show the groups without touching disk`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), app, flags, cmd.OutOrStdout())
		},
	}

	flags = cmdutil.AddTreeFlags(cmd)
	return cmd
}

// Execute folds duplicate folders and prints the merges.
func Execute(ctx context.Context, app application.Application, flags *cmdutil.TreeFlags, w io.Writer) error {
	settings, err := app.Settings()
	if err != nil {
		return err
	}

	result, err := catalogsync.New(app.Fs(), nil).Dedupe(cmdutil.Context(ctx, app),
		catalogsync.WithOutputDir(flags.OutputDirOr(settings.OutputDir)),
		catalogsync.WithDryRun(flags.DryRun),
	)
	if err != nil {
		return err
	}

	if !cmdutil.IsTable(app) {
		return cmdutil.Render(w, app, result.Merges, output.Data{})
	}

	if len(result.Merges) == 0 {
		output.Info(w, "No duplicate folders")
		return nil
	}
	if err := cmdutil.Render(w, app, result.Merges, table.MergesToTableData(result.Merges)); err != nil {
		return err
	}

	failed := 0
	for _, m := range result.Merges {
		if m.Err != nil {
			failed++
			_ = output.Notice{Level: output.LevelError, Message: m.Absorbed + " kept", Err: m.Err}.Write(w)
		}
	}
	done := len(result.Merges) - failed
	switch {
	case flags.DryRun:
		output.Info(w, "%d duplicate folders would be merged (Dry run)", len(result.Merges))
	case done > 0:
		output.Success(w, "%d duplicate folders merged", done)
	}
	return nil
}
