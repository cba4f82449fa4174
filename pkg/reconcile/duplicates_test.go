package reconcile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockworksproduction/gamecat/internal/store"
	"github.com/clockworksproduction/gamecat/pkg/errors"
	"github.com/clockworksproduction/gamecat/pkg/games"
	"github.com/clockworksproduction/gamecat/pkg/logging"
	"github.com/clockworksproduction/gamecat/pkg/stores"
)

func TestPlanDuplicates(t *testing.T) {
	plan := PlanDuplicates([]string{"Celeste", "Hollow_Knight", "Hades", "hollowknight", "Hollow Knight", "HADES"})
	require.Len(t, plan, 2)

	assert.Equal(t, FolderMerge{Key: "hollowknight", Survivor: "Hollow_Knight", Absorbed: []string{"hollowknight", "Hollow Knight"}}, plan[0])
	assert.Equal(t, FolderMerge{Key: "hades", Survivor: "Hades", Absorbed: []string{"HADES"}}, plan[1])

	assert.Empty(t, PlanDuplicates([]string{"Celeste", "Hades"}))
	assert.Empty(t, PlanDuplicates(nil))
}

func writeMeta(t *testing.T, s *store.Store, folder string, meta games.Meta) {
	t.Helper()
	require.NoError(t, s.WriteMeta(folder, meta))
}

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

// hollowKnightTree lays out two folders for the same game.
func hollowKnightTree(t *testing.T, fs afero.Fs) *store.Store {
	t.Helper()
	s := store.New(fs, "/out")

	survivor := games.Meta{Name: "Hollow Knight"}
	survivor.StoreURL.Set(stores.Steam, "https://store.steampowered.com/app/367520/")
	writeMeta(t, s, "Hollow_Knight", survivor)
	writeFile(t, fs, "/out/Hollow_Knight/synopsis.txt", "survivor synopsis")

	absorbed := games.Meta{Name: "Hollow Knight", Description: "Forge your own path", Genre: []string{"Metroidvania"}}
	absorbed.StoreURL.Set(stores.GOG, "https://www.gog.com/game/hollow_knight")
	writeMeta(t, s, "hollowknight", absorbed)
	writeFile(t, fs, "/out/hollowknight/synopsis.txt", "absorbed synopsis")
	writeFile(t, fs, "/out/hollowknight/cover.png", "png")

	return s
}

func TestDeduplicatorMergesFolders(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := hollowKnightTree(t, fs)
	ctx := logging.WithLogger(context.Background(), logging.NewNopLogger())

	folders, err := s.Folders()
	require.NoError(t, err)
	actions := NewDeduplicator(s).Run(ctx, folders)
	require.Len(t, actions, 1)

	action := actions[0]
	require.NoError(t, action.Err)
	assert.Equal(t, "Hollow_Knight", action.Survivor)
	assert.Equal(t, "hollowknight", action.Absorbed)
	assert.True(t, action.MetaMerged)
	assert.Equal(t, []string{"cover.png"}, action.Moved)
	assert.Equal(t, []string{"synopsis.txt"}, action.Kept)
	assert.True(t, action.Removed)

	assert.False(t, s.HasFolder("hollowknight"))

	meta, err := s.ReadMeta("Hollow_Knight")
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, "Forge your own path", meta.Description)
	assert.Equal(t, []string{"Metroidvania"}, meta.Genre)
	assert.Equal(t, "https://store.steampowered.com/app/367520/", meta.StoreURL.Get(stores.Steam))
	assert.Equal(t, "https://www.gog.com/game/hollow_knight", meta.StoreURL.Get(stores.GOG))

	synopsis, err := afero.ReadFile(fs, "/out/Hollow_Knight/synopsis.txt")
	require.NoError(t, err)
	assert.Equal(t, "survivor synopsis", string(synopsis))
	assert.True(t, s.Exists("Hollow_Knight", "cover.png"))
}

func TestDeduplicatorIdempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := hollowKnightTree(t, fs)
	ctx := context.Background()

	folders, err := s.Folders()
	require.NoError(t, err)
	NewDeduplicator(s).Run(ctx, folders)

	before, err := afero.ReadFile(fs, "/out/Hollow_Knight/meta.json")
	require.NoError(t, err)

	folders, err = s.Folders()
	require.NoError(t, err)
	assert.Equal(t, []string{"Hollow_Knight"}, folders)
	assert.Empty(t, NewDeduplicator(s).Run(ctx, folders))

	after, err := afero.ReadFile(fs, "/out/Hollow_Knight/meta.json")
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestDeduplicatorMovesMetaWhenSurvivorHasNone(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := store.New(fs, "/out")
	require.NoError(t, s.Ensure("Hades"))
	writeMeta(t, s, "HADES", games.Meta{Name: "Hades", Description: "Roguelike"})

	actions := NewDeduplicator(s).Run(context.Background(), []string{"Hades", "HADES"})
	require.Len(t, actions, 1)
	assert.True(t, actions[0].MetaMoved)
	assert.False(t, actions[0].MetaMerged)
	assert.True(t, actions[0].Removed)

	meta, err := s.ReadMeta("Hades")
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, "Roguelike", meta.Description)
}

func TestDeduplicatorReplacesCorruptSurvivorMeta(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := store.New(fs, "/out")
	writeFile(t, fs, "/out/Hades/meta.json", "{broken")
	writeMeta(t, s, "HADES", games.Meta{Name: "Hades", Description: "Roguelike"})

	actions := NewDeduplicator(s).Run(context.Background(), []string{"Hades", "HADES"})
	require.Len(t, actions, 1)
	require.NoError(t, actions[0].Err)
	assert.True(t, actions[0].MetaMerged)

	meta, err := s.ReadMeta("Hades")
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, "Roguelike", meta.Description)
}

func TestDeduplicatorRicherMetaWins(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := store.New(fs, "/out")
	writeMeta(t, s, "Hades", games.Meta{Name: "Hades", Description: "x"})
	writeMeta(t, s, "HADES", games.Meta{Name: "HADES", Description: "A much longer description of the game"})

	NewDeduplicator(s).Run(context.Background(), []string{"Hades", "HADES"})

	meta, err := s.ReadMeta("Hades")
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, "HADES", meta.Name)
	assert.Equal(t, "A much longer description of the game", meta.Description)
}

func TestDeduplicatorSizeTieKeepsSurvivor(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := store.New(fs, "/out")
	writeMeta(t, s, "Hades", games.Meta{Name: "Hades", Description: "aaaa"})
	writeMeta(t, s, "HADES", games.Meta{Name: "Hades", Description: "bbbb"})

	NewDeduplicator(s).Run(context.Background(), []string{"Hades", "HADES"})

	meta, err := s.ReadMeta("Hades")
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, "aaaa", meta.Description)
}

// coverRenameFailFs fails renames that would put a cover.png into place.
type coverRenameFailFs struct {
	afero.Fs
}

func (fs coverRenameFailFs) Rename(oldname, newname string) error {
	if filepath.Base(newname) == "cover.png" {
		return os.ErrPermission
	}
	return fs.Fs.Rename(oldname, newname)
}

func TestDeduplicatorFailureLeavesAbsorbedIntact(t *testing.T) {
	mem := afero.NewMemMapFs()
	hollowKnightTree(t, mem)
	s := store.New(coverRenameFailFs{mem}, "/out")

	actions := NewDeduplicator(s).Run(context.Background(), []string{"Hollow_Knight", "hollowknight"})
	require.Len(t, actions, 1)

	action := actions[0]
	var mergeErr *errors.MergeError
	require.ErrorAs(t, action.Err, &mergeErr)
	assert.Equal(t, "hollowknight", mergeErr.Absorbed)
	assert.False(t, action.Removed)

	assert.True(t, s.HasFolder("hollowknight"))
	assert.True(t, s.Exists("hollowknight", "cover.png"))
	assert.True(t, s.Exists("hollowknight", "meta.json"))
}

func TestDeduplicatorDryRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := hollowKnightTree(t, fs)

	before, err := afero.ReadFile(fs, "/out/Hollow_Knight/meta.json")
	require.NoError(t, err)

	actions := NewDeduplicator(s, WithDryRun(true)).Run(context.Background(), []string{"Hollow_Knight", "hollowknight"})
	require.Len(t, actions, 1)
	assert.True(t, actions[0].MetaMerged)
	assert.False(t, actions[0].Removed)

	assert.True(t, s.HasFolder("hollowknight"))
	after, err := afero.ReadFile(fs, "/out/Hollow_Knight/meta.json")
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestDeduplicatorStopsOnCanceledContext(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := hollowKnightTree(t, fs)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Empty(t, NewDeduplicator(s).Run(ctx, []string{"Hollow_Knight", "hollowknight"}))
	assert.True(t, s.HasFolder("hollowknight"))
}

func TestDeduplicatorMovesSubdirectories(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := hollowKnightTree(t, fs)
	writeFile(t, fs, "/out/hollowknight/screenshots/shot1.png", "shot1")
	writeFile(t, fs, "/out/hollowknight/mods/a.txt", "absorbed mod")
	writeFile(t, fs, "/out/hollowknight/mods/b.txt", "b")
	writeFile(t, fs, "/out/Hollow_Knight/mods/a.txt", "survivor mod")

	actions := NewDeduplicator(s).Run(context.Background(), []string{"Hollow_Knight", "hollowknight"})
	require.Len(t, actions, 1)

	action := actions[0]
	require.NoError(t, action.Err)
	assert.Equal(t, []string{"cover.png", "mods/b.txt", "screenshots"}, action.Moved)
	assert.Equal(t, []string{"mods/a.txt", "synopsis.txt"}, action.Kept)
	assert.True(t, action.Removed)
	assert.False(t, s.HasFolder("hollowknight"))

	shot, err := afero.ReadFile(fs, "/out/Hollow_Knight/screenshots/shot1.png")
	require.NoError(t, err)
	assert.Equal(t, "shot1", string(shot))

	mod, err := afero.ReadFile(fs, "/out/Hollow_Knight/mods/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "survivor mod", string(mod))
	assert.True(t, s.Exists("Hollow_Knight", "mods/b.txt"))
}
