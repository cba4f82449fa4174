// Package index provides the index command implementation.
package index

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/clockworksproduction/gamecat/internal/cmd/application"
	"github.com/clockworksproduction/gamecat/internal/cmd/cmdutil"
	"github.com/clockworksproduction/gamecat/internal/cmd/output"
	"github.com/clockworksproduction/gamecat/internal/cmd/table"
	"github.com/clockworksproduction/gamecat/internal/store"
	"github.com/clockworksproduction/gamecat/pkg/index"
)

// Flags holds the index command flags.
type Flags struct {
	*cmdutil.TreeFlags
	Out       string
	ImageBase string
}

// NewCommand creates the index command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "index",
		GroupID: "core",
		Short:   "Write games.json listing every game folder",
		Args:    cobra.NoArgs,
		Long: `Index reads meta.json from every game folder and writes a listing with
the name, description, cover image path, primary store link and the other
storefronts of each game. Folders without readable metadata are left out.`,
		Example: `  gamecat index                                  # Write games.json
  gamecat index --out site/data/games.json
  gamecat index --image-base /static/games --dry-run`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), app, flags, cmd.OutOrStdout())
		},
	}

	flags.TreeFlags = cmdutil.AddTreeFlags(cmd)
	cmd.Flags().StringVar(&flags.Out, "out", "",
		"File to write (default games.json, or index_file from config)")
	cmd.Flags().StringVar(&flags.ImageBase, "image-base", "",
		"Prefix of image paths in the listing (default /asset/Game)")

	return cmd
}

// Execute builds the listing and writes it unless DryRun is set.
func Execute(ctx context.Context, app application.Application, flags *Flags, w io.Writer) error {
	settings, err := app.Settings()
	if err != nil {
		return err
	}
	out := flags.Out
	if out == "" {
		out = settings.IndexFile
	}
	imageBase := flags.ImageBase
	if imageBase == "" {
		imageBase = settings.ImageBase
	}

	ctx = cmdutil.Context(ctx, app)
	tree := store.New(app.Fs(), flags.OutputDirOr(settings.OutputDir))
	entries, err := index.Build(ctx, tree, imageBase)
	if err != nil {
		return err
	}

	if !flags.DryRun {
		if err := index.Write(app.Fs(), out, entries); err != nil {
			return err
		}
	}

	if !cmdutil.IsTable(app) {
		return cmdutil.Render(w, app, entries, output.Data{})
	}
	if err := cmdutil.Render(w, app, entries, table.IndexToTableData(entries)); err != nil {
		return err
	}
	if flags.DryRun {
		output.Info(w, "%d games would be written to %s (Dry run)", len(entries), out)
	} else {
		output.Success(w, "Wrote %d games to %s", len(entries), out)
	}
	return nil
}
