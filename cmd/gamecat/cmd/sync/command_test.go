package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockworksproduction/gamecat/internal/cmd/application"
	"github.com/clockworksproduction/gamecat/internal/cmd/cmdutil"
	"github.com/clockworksproduction/gamecat/internal/store"
	"github.com/clockworksproduction/gamecat/pkg/errors"
	"github.com/clockworksproduction/gamecat/pkg/games"
	"github.com/clockworksproduction/gamecat/pkg/sources"
	catalogsync "github.com/clockworksproduction/gamecat/pkg/sync"
)

const steamList = `[
	{"name": "DOOM", "appid": 2280, "url": "https://store.steampowered.com/app/2280/"},
	{"name": "Celeste", "url": "https://store.steampowered.com/app/504230/"}
]`

func newApp(t *testing.T, format string) (*application.Mock, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/in/_steam_game_list.json", []byte(steamList), 0o644))
	return &application.Mock{
		FsFunc:           func() afero.Fs { return fs },
		OutputFormatFunc: func() string { return format },
		SettingsFunc: func() (application.Settings, error) {
			return application.Settings{
				OutputDir: "/out",
				Sources:   []sources.Spec{{ID: "steam", Path: "/in/_steam_game_list.json"}},
			}, nil
		},
	}, fs
}

func run(t *testing.T, app application.Application, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSyncCommandJSON(t *testing.T) {
	app, fs := newApp(t, "json")

	out, err := run(t, app)
	require.NoError(t, err)

	var result struct {
		Games []struct {
			Name   string `json:"name"`
			Folder string `json:"folder"`
			Action string `json:"action"`
		} `json:"games"`
		OutputDir  string          `json:"output_dir"`
		StartedAt  json.RawMessage `json:"started_at"`
		FinishedAt json.RawMessage `json:"finished_at"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Games, 2)
	assert.NotEmpty(t, result.StartedAt)
	assert.NotEmpty(t, result.FinishedAt)
	assert.Equal(t, "DOOM", result.Games[0].Folder)
	assert.Equal(t, "created", result.Games[0].Action)
	assert.Equal(t, "/out", result.OutputDir)

	tree := store.New(fs, "/out")
	assert.True(t, tree.HasFolder("Celeste"))
}

func TestSyncCommandTable(t *testing.T) {
	defer func(prev bool) { color.NoColor = prev }(color.NoColor)
	color.NoColor = true
	app, _ := newApp(t, "table")

	out, err := run(t, app)
	require.NoError(t, err)
	assert.Contains(t, out, "Created")
	assert.Contains(t, out, "✓ 2 created, 0 updated, 0 unchanged, 0 skipped")

	out, err = run(t, app)
	require.NoError(t, err)
	assert.Contains(t, out, "· No changes detected")
}

func TestSyncCommandNoCreateListsSkipped(t *testing.T) {
	defer func(prev bool) { color.NoColor = prev }(color.NoColor)
	color.NoColor = true
	app, fs := newApp(t, "table")
	require.NoError(t, store.New(fs, "/out").Ensure("DOOM"))

	out, err := run(t, app, "--no-create")
	require.NoError(t, err)
	assert.Contains(t, out, "! 1 games skipped")
	assert.Contains(t, out, "   Celeste: no matching folder")
}

func TestSyncCommandDetails(t *testing.T) {
	defer func(prev bool) { color.NoColor = prev }(color.NoColor)
	color.NoColor = true
	app, fs := newApp(t, "table")
	require.NoError(t, store.New(fs, "/out").WriteMeta("DOOM", games.Meta{Name: "DOOM"}))

	out, err := run(t, app, "--details")
	require.NoError(t, err)
	assert.Contains(t, out, "/in/_steam_game_list.json")
	assert.Contains(t, out, "updated")
	assert.Contains(t, out, "appId.steam")
	assert.Contains(t, out, "storeUrl.steam")
}

func TestSyncCommandSourceFlagOverridesConfig(t *testing.T) {
	app, fs := newApp(t, "json")
	require.NoError(t, afero.WriteFile(fs, "/in/itch.json", []byte(`[{"name": "Hades"}]`), 0o644))

	out, err := run(t, app, "--source", "itch=/in/itch.json", "--output-dir", "/games", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Hades"`)
	assert.NotContains(t, out, "DOOM")

	exists, err := afero.DirExists(fs, "/games")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestBuildOptions(t *testing.T) {
	settings := application.Settings{OutputDir: "/out", Covers: true}

	_, err := BuildOptions(settings, &Flags{TreeFlags: &cmdutil.TreeFlags{}})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	_, err = BuildOptions(settings, &Flags{TreeFlags: &cmdutil.TreeFlags{}, Sources: []string{"steam="}})
	assert.True(t, errors.IsValidationError(err))

	opts, err := BuildOptions(settings, &Flags{
		TreeFlags:         &cmdutil.TreeFlags{DryRun: true},
		Sources:           []string{"steam=/in/a.json", "/in/_itch_game_list.json"},
		NoCovers:          true,
		Force:             true,
		FetchDescriptions: true,
	})
	require.NoError(t, err)
	o := catalogsync.Defaults().Apply(opts...)
	assert.Equal(t, []sources.Spec{
		{ID: "steam", Path: "/in/a.json"},
		{ID: "itch", Path: "/in/_itch_game_list.json"},
	}, o.Sources)
	assert.Equal(t, "/out", o.OutputDir)
	assert.True(t, o.DryRun)
	assert.True(t, o.Force)
	assert.False(t, o.Covers)
	assert.True(t, o.FetchDescriptions)
}
