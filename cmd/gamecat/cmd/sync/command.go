// Package sync provides the sync command implementation.
package sync

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/clockworksproduction/gamecat/internal/cmd/application"
	"github.com/clockworksproduction/gamecat/internal/cmd/cmdutil"
	"github.com/clockworksproduction/gamecat/internal/cmd/output"
	"github.com/clockworksproduction/gamecat/internal/cmd/table"
	"github.com/clockworksproduction/gamecat/pkg/constants"
	"github.com/clockworksproduction/gamecat/pkg/covers"
	"github.com/clockworksproduction/gamecat/pkg/errors"
	"github.com/clockworksproduction/gamecat/pkg/sources"
	catalogsync "github.com/clockworksproduction/gamecat/pkg/sync"
)

// Flags holds the sync command flags.
type Flags struct {
	*cmdutil.TreeFlags
	Sources           []string
	NoCovers          bool
	Force             bool
	FetchDescriptions bool
	NoCreate          bool
	Details           bool
}

// NewCommand creates the sync command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "sync",
		GroupID: "core",
		Short:   "Merge source lists into the game folders",
		Args:    cobra.NoArgs,
		Long: `Sync reads every configured source list and writes one folder per game.

The command will:
• Merge games that appear in several lists into one record
• Match each game to an existing folder, even when the names differ slightly
• Fill empty fields of meta.json without replacing values already on disk
• Create synopsis.txt when it is missing
• Fold duplicate folders of the same game into one
• Download a cover image for folders that have none`,
		Example: `  gamecat sync                                      # Sources from .gamecat.yaml
  gamecat sync -s steam=_steam_game_list.json -s itch=_itch_game_list.json
  gamecat sync --dry-run                            # Preview changes
  gamecat sync --no-create                          # Only update existing folders
  gamecat sync --force                              # Fresh values replace stored ones
  gamecat sync --fetch-descriptions                 # Fill descriptions from store pages
  gamecat sync --details                            # List every source and game`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), app, flags, cmd.OutOrStdout())
		},
	}

	flags.TreeFlags = cmdutil.AddTreeFlags(cmd)
	cmd.Flags().StringArrayVarP(&flags.Sources, "source", "s", nil,
		"Source list as id=path, repeatable and in priority order (overrides config)")
	cmd.Flags().BoolVar(&flags.NoCovers, "no-covers", false,
		"Do not download cover images")
	cmd.Flags().BoolVar(&flags.Force, "force", false,
		"Replace stored values with fresh non-empty ones")
	cmd.Flags().BoolVar(&flags.FetchDescriptions, "fetch-descriptions", false,
		"Search Steam for missing app ids and fill missing descriptions and credits from the primary store page")
	cmd.Flags().BoolVar(&flags.NoCreate, "no-create", false,
		"Only update existing folders; unmatched games are skipped")
	cmd.Flags().BoolVar(&flags.Details, "details", false,
		"List every source and game, with the fields each update changed")

	return cmd
}

// BuildOptions combines configured settings with flags.
func BuildOptions(settings application.Settings, flags *Flags) ([]catalogsync.Option, error) {
	specs := settings.Sources
	if len(flags.Sources) > 0 {
		specs = make([]sources.Spec, 0, len(flags.Sources))
		for _, s := range flags.Sources {
			spec, err := sources.ParseSpec(s)
			if err != nil {
				return nil, err
			}
			specs = append(specs, spec)
		}
	}
	if len(specs) == 0 {
		return nil, errors.NewValidationError("source", nil,
			"no source lists configured; pass --source id=path or set sources in .gamecat.yaml")
	}

	return []catalogsync.Option{
		catalogsync.WithSources(specs...),
		catalogsync.WithOutputDir(flags.OutputDirOr(settings.OutputDir)),
		catalogsync.WithDryRun(flags.DryRun),
		catalogsync.WithForce(flags.Force),
		catalogsync.WithNoCreate(flags.NoCreate),
		catalogsync.WithCovers(settings.Covers && !flags.NoCovers),
		catalogsync.WithFetchDescriptions(settings.FetchDescriptions || flags.FetchDescriptions),
		catalogsync.WithTimeout(constants.CommandTimeout),
	}, nil
}

// Execute runs one sync pass and prints its result.
func Execute(ctx context.Context, app application.Application, flags *Flags, w io.Writer) error {
	settings, err := app.Settings()
	if err != nil {
		return err
	}
	opts, err := BuildOptions(settings, flags)
	if err != nil {
		return err
	}

	var fetcher covers.Fetcher
	o := catalogsync.Defaults().Apply(opts...)
	if o.Covers || o.FetchDescriptions {
		if fetcher, err = app.Fetcher(); err != nil {
			return err
		}
	}

	result, err := catalogsync.New(app.Fs(), fetcher).Run(cmdutil.Context(ctx, app), opts...)
	if err != nil {
		return err
	}
	return printResult(w, app, result, flags.Details)
}

func printResult(w io.Writer, app application.Application, result *catalogsync.Result, details bool) error {
	if !cmdutil.IsTable(app) {
		return cmdutil.Render(w, app, result, output.Data{})
	}

	for _, s := range result.Sources {
		if s.Error != "" {
			output.Warn(w, "Source %s unusable: %s", s.ID, s.Error)
		}
	}

	if details {
		if err := cmdutil.Render(w, app, result.Sources, table.SourcesToTableData(result.Sources)); err != nil {
			return err
		}
		if err := cmdutil.Render(w, app, result.Games, table.GamesToTableData(result.Games)); err != nil {
			return err
		}
	}

	if err := cmdutil.Render(w, app, result, table.SummaryToTableData(result)); err != nil {
		return err
	}

	if len(result.Merges) > 0 {
		if err := cmdutil.Render(w, app, result.Merges, table.MergesToTableData(result.Merges)); err != nil {
			return err
		}
	}

	if skipped := result.Skipped(); len(skipped) > 0 {
		n := output.Notice{Level: output.LevelWarning, Message: fmt.Sprintf("%d games skipped", len(skipped))}
		for _, g := range skipped {
			n.Details = append(n.Details, g.Name+": "+g.Reason)
		}
		if err := n.Write(w); err != nil {
			return err
		}
	}

	if len(result.CoversMissing) > 0 {
		n := output.Notice{Level: output.LevelWarning, Message: fmt.Sprintf("%d folders without a cover", len(result.CoversMissing))}
		n.Details = result.CoversMissing
		if err := n.Write(w); err != nil {
			return err
		}
	}

	if result.HasChanges() {
		output.Success(w, "%s", result.Summary())
	} else {
		output.Info(w, "%s", result.Summary())
	}
	return nil
}
