package covers

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockworksproduction/gamecat/internal/cmd/application"
	"github.com/clockworksproduction/gamecat/internal/store"
	"github.com/clockworksproduction/gamecat/pkg/covers"
	"github.com/clockworksproduction/gamecat/pkg/errors"
	"github.com/clockworksproduction/gamecat/pkg/games"
	"github.com/clockworksproduction/gamecat/pkg/stores"
)

const pngData = "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"

type fakeFetcher map[string]string

func (f fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	body, ok := f[url]
	if !ok {
		return nil, errors.NewAPIError("test", http.StatusNotFound, "not found")
	}
	return []byte(body), nil
}

func (f fakeFetcher) Page(ctx context.Context, url string) (string, error) {
	body, err := f.Fetch(ctx, url)
	return string(body), err
}

func setup(t *testing.T, fetcher covers.Fetcher) (*application.Mock, *store.Store) {
	t.Helper()
	fs := afero.NewMemMapFs()
	tree := store.New(fs, "/out")
	doom := games.Meta{Name: "DOOM"}
	doom.AppID.Set(stores.Steam, "2280")
	require.NoError(t, tree.WriteMeta("DOOM", doom))
	require.NoError(t, tree.WriteMeta("Celeste", games.Meta{Name: "Celeste"}))

	app := &application.Mock{
		FsFunc:      func() afero.Fs { return fs },
		FetcherFunc: func() (covers.Fetcher, error) { return fetcher, nil },
		SettingsFunc: func() (application.Settings, error) {
			return application.Settings{OutputDir: "/out"}, nil
		},
	}
	return app, tree
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

func TestCoversCommand(t *testing.T) {
	app, tree := setup(t, fakeFetcher{stores.SteamHeaderURL(2280): pngData})

	out := run(t, app)
	assert.Contains(t, out, "steam-header")
	assert.Contains(t, out, "✓ 1 covers saved")
	assert.Contains(t, out, "! 1 folders without a cover")
	assert.Contains(t, out, "   Celeste")

	name, ok := tree.Image("DOOM")
	require.True(t, ok)
	assert.Equal(t, "cover.png", name)
}

func TestCoversCommandDryRun(t *testing.T) {
	app, tree := setup(t, nil)
	app.FetcherFunc = func() (covers.Fetcher, error) {
		t.Fatal("dry run must not build a fetcher")
		return nil, nil
	}

	out := run(t, app, "--dry-run")
	assert.Contains(t, out, "! 2 folders without a cover")
	_, ok := tree.Image("DOOM")
	assert.False(t, ok)
}
