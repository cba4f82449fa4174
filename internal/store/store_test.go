package store

import (
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockworksproduction/gamecat/pkg/errors"
	"github.com/clockworksproduction/gamecat/pkg/games"
	"github.com/clockworksproduction/gamecat/pkg/stores"
)

func newTestStore(t *testing.T) (*Store, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return New(fs, "/out"), fs
}

func TestFoldersMissingRoot(t *testing.T) {
	s, _ := newTestStore(t)
	folders, err := s.Folders()
	require.NoError(t, err)
	assert.Empty(t, folders)
}

func TestFolders(t *testing.T) {
	s, fs := newTestStore(t)
	for _, dir := range []string{"/out/hollowknight", "/out/Hollow_Knight", "/out/Celeste", "/out/.git"} {
		require.NoError(t, fs.MkdirAll(dir, 0o755))
	}
	require.NoError(t, afero.WriteFile(fs, "/out/games.json", []byte("[]"), 0o644))

	folders, err := s.Folders()
	require.NoError(t, err)
	assert.Equal(t, []string{"Celeste", "Hollow_Knight", "hollowknight"}, folders)
	assert.True(t, s.HasFolder("Celeste"))
	assert.False(t, s.HasFolder("Hades"))
}

func TestMetaRoundTrip(t *testing.T) {
	s, fs := newTestStore(t)

	meta, err := s.ReadMeta("Celeste")
	require.NoError(t, err)
	assert.Nil(t, meta, "missing meta.json is absent, not an error")

	m := games.Meta{Name: "Celeste", Description: "Climb"}
	m.StoreURL.Set(stores.Steam, "https://store.steampowered.com/app/504230/")
	require.NoError(t, s.WriteMeta("Celeste", m))

	got, err := s.ReadMeta("Celeste")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, m.Equal(*got))

	data, err := afero.ReadFile(fs, "/out/Celeste/meta.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"description\": \"Climb\",")

	files, err := s.Files("Celeste")
	require.NoError(t, err)
	assert.Equal(t, []string{"meta.json"}, files, "no temp files left behind")
}

func TestReadMetaCorrupt(t *testing.T) {
	s, fs := newTestStore(t)
	require.NoError(t, afero.WriteFile(fs, "/out/Broken/meta.json", []byte("{not json"), 0o644))

	meta, err := s.ReadMeta("Broken")
	assert.Nil(t, meta)
	var parseErr *errors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "/out/Broken/meta.json", parseErr.File)
}

func TestEnsureSynopsis(t *testing.T) {
	s, fs := newTestStore(t)

	created, err := s.EnsureSynopsis("Hades", "Hades: Add your synopsis here.")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.EnsureSynopsis("Hades", "something else")
	require.NoError(t, err)
	assert.False(t, created)

	data, err := afero.ReadFile(fs, "/out/Hades/synopsis.txt")
	require.NoError(t, err)
	assert.Equal(t, "Hades: Add your synopsis here.", string(data))
}

func TestMoveRefusesOverwrite(t *testing.T) {
	s, fs := newTestStore(t)
	require.NoError(t, afero.WriteFile(fs, "/out/A/notes.txt", []byte("a"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/out/B/notes.txt", []byte("b"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/out/B/extra.txt", []byte("x"), 0o644))

	err := s.Move("B", "A", "notes.txt")
	assert.True(t, errors.IsAlreadyExists(err))

	require.NoError(t, s.Move("B", "A", "extra.txt"))
	assert.True(t, s.Exists("A", "extra.txt"))
	assert.False(t, s.Exists("B", "extra.txt"))

	data, err := afero.ReadFile(fs, "/out/A/notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))
}

func TestRemove(t *testing.T) {
	s, fs := newTestStore(t)
	require.NoError(t, afero.WriteFile(fs, "/out/Gone/cover.png", []byte("x"), 0o644))
	require.NoError(t, s.Remove("Gone"))
	assert.False(t, s.HasFolder("Gone"))
}

func TestImage(t *testing.T) {
	s, fs := newTestStore(t)
	require.NoError(t, fs.MkdirAll("/out/Empty", 0o755))
	_, ok := s.Image("Empty")
	assert.False(t, ok)

	require.NoError(t, afero.WriteFile(fs, "/out/Game/meta.json", []byte("{}"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/out/Game/shot.PNG", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/out/Game/art.webp", []byte("x"), 0o644))
	name, ok := s.Image("Game")
	require.True(t, ok)
	assert.Equal(t, "art.webp", name)

	require.NoError(t, afero.WriteFile(fs, "/out/Game/cover.jpg", []byte("x"), 0o644))
	name, _ = s.Image("Game")
	assert.Equal(t, "cover.jpg", name)

	_, ok = s.Image("Missing")
	assert.False(t, ok)
}

func TestSaveImage(t *testing.T) {
	s, fs := newTestStore(t)
	path, err := s.SaveImage("Celeste", "cover.png", []byte("\x89PNG"))
	require.NoError(t, err)
	assert.Equal(t, "/out/Celeste/cover.png", path)

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(data))
}

// renameFailFs fails every rename so atomic writes cannot complete.
type renameFailFs struct {
	afero.Fs
}

func (renameFailFs) Rename(string, string) error {
	return os.ErrPermission
}

func TestWriteAtomicLeavesNoPartialFile(t *testing.T) {
	fs := renameFailFs{afero.NewMemMapFs()}
	s := New(fs, "/out")

	_, err := s.SaveImage("Celeste", "cover.jpg", []byte("\xff\xd8\xff"))
	require.Error(t, err)

	files, err := s.Files("Celeste")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestIsImage(t *testing.T) {
	for _, name := range []string{"a.jpg", "a.JPEG", "a.png", "a.gif", "a.webp"} {
		assert.True(t, IsImage(name), name)
	}
	for _, name := range []string{"meta.json", "synopsis.txt", "a.jpg.tmp", "jpg"} {
		assert.False(t, IsImage(name), name)
	}
}

func TestEntriesIncludesDirectories(t *testing.T) {
	s, fs := newTestStore(t)
	require.NoError(t, afero.WriteFile(fs, "/out/Celeste/synopsis.txt", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/out/Celeste/screenshots/a.png", []byte("x"), 0o644))

	entries, err := s.Entries("Celeste")
	require.NoError(t, err)
	assert.Equal(t, []string{"screenshots", "synopsis.txt"}, entries)

	files, err := s.Files("Celeste")
	require.NoError(t, err)
	assert.Equal(t, []string{"synopsis.txt"}, files)

	nested, err := s.Entries("Celeste/screenshots")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png"}, nested)

	require.NoError(t, s.Ensure("Madeline"))
	require.NoError(t, s.Move("Celeste", "Madeline", "screenshots"))
	assert.True(t, s.Exists("Madeline", "screenshots/a.png"))
	assert.False(t, s.Exists("Celeste", "screenshots"))
}
