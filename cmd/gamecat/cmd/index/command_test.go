package index

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockworksproduction/gamecat/internal/cmd/application"
	"github.com/clockworksproduction/gamecat/internal/store"
	"github.com/clockworksproduction/gamecat/pkg/games"
	"github.com/clockworksproduction/gamecat/pkg/stores"
)

func newApp(t *testing.T) (*application.Mock, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	tree := store.New(fs, "/out")
	doom := games.Meta{Name: "DOOM", Description: "Rip and tear"}
	doom.StoreURL.Set(stores.Steam, "https://store.steampowered.com/app/2280/")
	doom.StoreURL.Set(stores.GOG, "https://www.gog.com/game/doom")
	require.NoError(t, tree.WriteMeta("DOOM", doom))
	require.NoError(t, afero.WriteFile(fs, "/out/DOOM/cover.jpg", []byte("jpg"), 0o644))
	require.NoError(t, tree.Ensure("NoMeta"))

	return &application.Mock{
		FsFunc: func() afero.Fs { return fs },
		SettingsFunc: func() (application.Settings, error) {
			return application.Settings{OutputDir: "/out", ImageBase: "/asset/Game", IndexFile: "/site/games.json"}, nil
		},
	}, fs
}

func run(t *testing.T, app application.Application, args ...string) string {
	t.Helper()
	defer func(prev bool) { color.NoColor = prev }(color.NoColor)
	color.NoColor = true

	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(append([]string{}, args...))
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestIndexWritesFile(t *testing.T) {
	app, fs := newApp(t)

	out := run(t, app)
	assert.Contains(t, out, "✓ Wrote 1 games to /site/games.json")

	data, err := afero.ReadFile(fs, "/site/games.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"image": "/asset/Game/DOOM/cover.jpg"`)
	assert.Contains(t, string(data), `"primary_store": "steam"`)
	assert.NotContains(t, string(data), "NoMeta")
}

func TestIndexFlags(t *testing.T) {
	app, fs := newApp(t)

	out := run(t, app, "--out", "/tmp/list.json", "--image-base", "static/games", "--dry-run")
	assert.Contains(t, out, "/static/games/DOOM/cover.jpg")
	assert.Contains(t, out, "(Dry run)")

	exists, err := afero.Exists(fs, "/tmp/list.json")
	require.NoError(t, err)
	assert.False(t, exists)

	run(t, app, "--out", "/tmp/list.json")
	exists, err = afero.Exists(fs, "/tmp/list.json")
	require.NoError(t, err)
	assert.True(t, exists)
}
