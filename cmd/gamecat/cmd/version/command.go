// Package version provides the version command implementation.
package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clockworksproduction/gamecat/internal/cmd/application"
	"github.com/clockworksproduction/gamecat/internal/cmd/cmdutil"
	"github.com/clockworksproduction/gamecat/internal/cmd/output"
)

// Info is the build information printed by the version command.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	BuiltBy string `json:"built_by"`
}

// NewCommand creates the version command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := Info{
				Version: app.Version(),
				Commit:  app.Commit(),
				Date:    app.Date(),
				BuiltBy: app.BuiltBy(),
			}
			w := cmd.OutOrStdout()
			if !cmdutil.IsTable(app) {
				return cmdutil.Render(w, app, info, output.Data{})
			}
			_, err := fmt.Fprintf(w, "gamecat %s\n  commit:   %s\n  built:    %s\n  built by: %s\n",
				info.Version, info.Commit, info.Date, info.BuiltBy)
			return err
		},
	}
}
