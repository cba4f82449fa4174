// Package covers provides the covers command implementation.
package covers

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/clockworksproduction/gamecat/internal/cmd/application"
	"github.com/clockworksproduction/gamecat/internal/cmd/cmdutil"
	"github.com/clockworksproduction/gamecat/internal/cmd/output"
	"github.com/clockworksproduction/gamecat/internal/cmd/table"
	"github.com/clockworksproduction/gamecat/pkg/covers"
	catalogsync "github.com/clockworksproduction/gamecat/pkg/sync"
)

// NewCommand creates the covers command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *cmdutil.TreeFlags

	cmd := &cobra.Command{
		Use:     "covers",
		GroupID: "maintenance",
		Short:   "Download cover images for folders that have none",
		Args:    cobra.NoArgs,
		Long: `Covers looks at every game folder without an image and tries, in order:
the Steam header image for a known Steam app id, the social image of the
primary store page, then the social images of the other store pages.
The first image that downloads is saved as cover.<ext>.`,
		Example: `  gamecat covers             # Fetch missing covers
  gamecat covers --dry-run   # List folders without a cover`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), app, flags, cmd.OutOrStdout())
		},
	}

	flags = cmdutil.AddTreeFlags(cmd)
	return cmd
}

// Execute runs the cover pass over the output tree.
func Execute(ctx context.Context, app application.Application, flags *cmdutil.TreeFlags, w io.Writer) error {
	settings, err := app.Settings()
	if err != nil {
		return err
	}

	var fetcher covers.Fetcher
	if !flags.DryRun {
		if fetcher, err = app.Fetcher(); err != nil {
			return err
		}
	}

	result, err := catalogsync.New(app.Fs(), fetcher).Covers(cmdutil.Context(ctx, app),
		catalogsync.WithOutputDir(flags.OutputDirOr(settings.OutputDir)),
		catalogsync.WithDryRun(flags.DryRun),
	)
	if err != nil {
		return err
	}

	if !cmdutil.IsTable(app) {
		return cmdutil.Render(w, app, result, output.Data{})
	}

	if len(result.Covers) > 0 {
		if err := cmdutil.Render(w, app, result.Covers, table.CoversToTableData(result.Covers)); err != nil {
			return err
		}
		output.Success(w, "%d covers saved", len(result.Covers))
	}
	if len(result.CoversMissing) > 0 {
		return output.Notice{
			Level:   output.LevelWarning,
			Message: fmt.Sprintf("%d folders without a cover", len(result.CoversMissing)),
			Details: result.CoversMissing,
		}.Write(w)
	}
	if len(result.Covers) == 0 {
		output.Info(w, "Every folder has a cover")
	}
	return nil
}
