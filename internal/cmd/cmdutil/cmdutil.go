// Package cmdutil provides flags and helpers shared by gamecat commands.
package cmdutil

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/clockworksproduction/gamecat/internal/cmd/application"
	"github.com/clockworksproduction/gamecat/internal/cmd/output"
	"github.com/clockworksproduction/gamecat/pkg/logging"
)

// TreeFlags holds the flags of commands that work on the output tree.
type TreeFlags struct {
	OutputDir string
	DryRun    bool
}

// AddTreeFlags adds --output-dir and --dry-run to a command.
func AddTreeFlags(cmd *cobra.Command) *TreeFlags {
	flags := &TreeFlags{}

	cmd.Flags().StringVar(&flags.OutputDir, "output-dir", "",
		"Directory holding one folder per game (default from config)")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false,
		"Show what would change without writing anything")

	return flags
}

// OutputDirOr returns the flag value, or fallback when the flag is unset.
func (f *TreeFlags) OutputDirOr(fallback string) string {
	if f.OutputDir != "" {
		return f.OutputDir
	}
	return fallback
}

// Context attaches the application logger to ctx so library code logs
// through it.
func Context(ctx context.Context, app application.Application) context.Context {
	return logging.WithLogger(ctx, app.Logger())
}

// Render writes data in the configured format. Table output renders
// tableData; structured formats encode data itself.
func Render(w io.Writer, app application.Application, data any, tableData output.Data) error {
	format := output.DetectFormat(app.OutputFormat())
	if format == output.FormatTable {
		return output.NewFormatter(format).Format(w, tableData)
	}
	return output.NewFormatter(format).Format(w, data)
}

// IsTable reports whether the configured format renders tables, in which
// case commands may add notices around them.
func IsTable(app application.Application) bool {
	return output.DetectFormat(app.OutputFormat()) == output.FormatTable
}
