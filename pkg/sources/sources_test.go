package sources

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/clockworksproduction/gamecat/pkg/errors"
	"github.com/clockworksproduction/gamecat/pkg/logging"
	"github.com/clockworksproduction/gamecat/pkg/stores"
)

const steamList = `[
  {"name": "DOOM + DOOM II", "appid": 2280, "store_link": "https://store.steampowered.com/app/2280/"},
  {"name": "Hades", "appid": "1145360", "developers": ["Supergiant Games"],
   "genres": [{"id": "1", "description": "Action"}, {"id": "25", "description": "Adventure"}],
   "release_date": {"coming_soon": false, "date": "17 Sep, 2020"}},
  {"appid": 10},
  "not an object"
]`

const epicList = `[
  {"app_name": "Fortnite", "app_title": "Fortnite",
   "metadata": {"id": "4fe75bbc5a674f4f9b356b5c90567da5", "description": "Battle royale",
     "developer": "Epic Games",
     "keyImages": [
       {"type": "Thumbnail", "url": "https://cdn.epic/thumb.png"},
       {"type": "DieselGameBox", "url": "https://cdn.epic/box.jpg"}
     ]}}
]`

func TestParse(t *testing.T) {
	list, err := Parse("steam", []byte(steamList))
	require.NoError(t, err)
	require.Len(t, list.Records, 2)
	assert.Equal(t, 2, list.Discarded)

	doom := list.Records[0]
	assert.Equal(t, "DOOM + DOOM II", doom.Name)
	assert.Equal(t, "2280", doom.PlatformID)
	assert.Equal(t, "https://store.steampowered.com/app/2280/", doom.URL)
	assert.Equal(t, ID("steam"), doom.Source)

	hades := list.Records[1]
	assert.Equal(t, "1145360", hades.PlatformID)
	assert.Equal(t, []string{"Supergiant Games"}, hades.Developers)
	assert.Equal(t, []string{"Action", "Adventure"}, hades.Genres)
	assert.Equal(t, "17 Sep, 2020", hades.ReleaseDate)
	assert.Empty(t, hades.URL)
}

func TestParseNestedMetadata(t *testing.T) {
	list, err := Parse("epic", []byte(epicList))
	require.NoError(t, err)
	require.Len(t, list.Records, 1)

	rec := list.Records[0]
	assert.Equal(t, "Fortnite", rec.Name)
	assert.Equal(t, "4fe75bbc5a674f4f9b356b5c90567da5", rec.PlatformID)
	assert.Equal(t, "Battle royale", rec.Description)
	assert.Equal(t, []string{"Epic Games"}, rec.Developers)
	require.Len(t, rec.KeyImages, 2)
	assert.Equal(t, "https://cdn.epic/box.jpg", rec.PreferredImage())
}

func TestParseRejectsNonArrays(t *testing.T) {
	_, err := Parse("steam", []byte(`{"name": "x"}`))
	assert.True(t, errors.IsValidationError(err))

	_, err = Parse("steam", []byte(`[{"name": `))
	var parseErr *errors.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestFieldPriority(t *testing.T) {
	obj := gjson.Parse(`{"title": "Second", "name": "First", "url": "https://b", "store_link": "https://a"}`)
	rec, ok := ParseRecord("other", obj)
	require.True(t, ok)
	assert.Equal(t, "First", rec.Name)
	assert.Equal(t, "https://a", rec.URL)
}

func TestEmptyValuesFallThrough(t *testing.T) {
	obj := gjson.Parse(`{"name": "  ", "app_title": "Real Name", "store_link": "", "url": "https://x.itch.io/y"}`)
	rec, ok := ParseRecord("itch", obj)
	require.True(t, ok)
	assert.Equal(t, "Real Name", rec.Name)
	assert.Equal(t, "https://x.itch.io/y", rec.URL)
}

func TestPreferredImage(t *testing.T) {
	assert.Equal(t, "https://a", Record{KeyImages: []Image{{Type: "Thumb", URL: "https://a"}}}.PreferredImage())
	assert.Equal(t, "https://plain", Record{ImageURL: "https://plain"}.PreferredImage())
	assert.Equal(t, "", Record{}.PreferredImage())
}

func TestIdentifierStore(t *testing.T) {
	assert.Equal(t, stores.EpicGames, ID("epic").IdentifierStore())
	assert.Equal(t, stores.EpicGames, ID("EpicGames").IdentifierStore())
	assert.Equal(t, stores.Steam, ID("steam").IdentifierStore())
	assert.Equal(t, stores.Steam, ID("other").IdentifierStore())
}

func TestParseGenericIDOnlyForEpic(t *testing.T) {
	gog, err := Parse("gog", []byte(`[{"title": "The Witcher 3", "id": 1207664663}]`))
	require.NoError(t, err)
	require.Len(t, gog.Records, 1)
	assert.Empty(t, gog.Records[0].PlatformID)

	epic, err := Parse("epic", []byte(`[{"title": "Alan Wake", "id": "a1b2"}]`))
	require.NoError(t, err)
	require.Len(t, epic.Records, 1)
	assert.Equal(t, "a1b2", epic.Records[0].PlatformID)

	steam, err := Parse("steam", []byte(`[{"name": "Portal", "steam_appid": 400, "id": 7}]`))
	require.NoError(t, err)
	assert.Equal(t, "400", steam.Records[0].PlatformID)
}

func TestIDFromPath(t *testing.T) {
	tests := map[string]ID{
		"_steam_game_list.json":     "steam",
		"data/_epic_game_list.json": "epic",
		"itch_list.json":            "itch",
		"/abs/other_games.json":     "other",
		"newgrounds.json":           "newgrounds",
		"_game_list.json":           "game",
	}
	for path, want := range tests {
		assert.Equal(t, want, IDFromPath(path), path)
	}
}

func TestParseSpec(t *testing.T) {
	spec, err := ParseSpec("epic=lists/epic.json")
	require.NoError(t, err)
	assert.Equal(t, Spec{ID: "epic", Path: "lists/epic.json"}, spec)

	spec, err = ParseSpec("_steam_game_list.json")
	require.NoError(t, err)
	assert.Equal(t, Spec{ID: "steam", Path: "_steam_game_list.json"}, spec)

	_, err = ParseSpec("=x.json")
	assert.True(t, errors.IsValidationError(err))
	_, err = ParseSpec("")
	assert.Error(t, err)
}

func TestLoadAll(t *testing.T) {
	logging.DisableLoggingForTest(t)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/in/_steam_game_list.json", []byte(steamList), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/in/broken.json", []byte("{nope"), 0o644))

	lists := LoadAll(context.Background(), fs, []Spec{
		{ID: "steam", Path: "/in/_steam_game_list.json"},
		{ID: "broken", Path: "/in/broken.json"},
		{ID: "missing", Path: "/in/missing.json"},
	})

	require.Len(t, lists, 3)
	assert.Len(t, lists[0].Records, 2)
	assert.NoError(t, lists[0].Err)
	assert.Empty(t, lists[1].Records)
	assert.Equal(t, ID("broken"), lists[1].ID)
	assert.True(t, errors.IsValidationError(lists[1].Err), "parse errors count as invalid input")
	assert.Empty(t, lists[2].Records)
	assert.Error(t, lists[2].Err)
}

func TestLoadReportsPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/in/bad.json", []byte(`{"a": 1}`), 0o644))

	_, err := Load(fs, Spec{ID: "bad", Path: "/in/bad.json"})
	var parseErr *errors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "/in/bad.json", parseErr.File)
}

func TestLoadManifest(t *testing.T) {
	fs := afero.NewMemMapFs()
	manifest := `sources:
  - id: steam
    path: _steam_game_list.json
  - path: /abs/_epic_game_list.json
`
	require.NoError(t, afero.WriteFile(fs, "/cfg/sources.yaml", []byte(manifest), 0o644))

	specs, err := LoadManifest(fs, "/cfg/sources.yaml")
	require.NoError(t, err)
	assert.Equal(t, []Spec{
		{ID: "steam", Path: "/cfg/_steam_game_list.json"},
		{ID: "epic", Path: "/abs/_epic_game_list.json"},
	}, specs)

	require.NoError(t, afero.WriteFile(fs, "/cfg/bad.yaml", []byte("sources:\n  - id: x\n"), 0o644))
	_, err = LoadManifest(fs, "/cfg/bad.yaml")
	assert.True(t, errors.IsValidationError(err))
}
