// Package store is the on-disk output tree: one folder per game holding
// meta.json, synopsis.txt and at most one cover image.
package store

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/clockworksproduction/gamecat/pkg/constants"
	"github.com/clockworksproduction/gamecat/pkg/errors"
	"github.com/clockworksproduction/gamecat/pkg/games"
)

// Store reads and writes game folders under a root directory.
// It assumes it is the only writer of the tree.
type Store struct {
	fs   afero.Fs
	root string
}

// New returns a Store rooted at root on fs.
func New(fs afero.Fs, root string) *Store {
	return &Store{fs: fs, root: filepath.Clean(root)}
}

// NewOS returns a Store on the local filesystem.
func NewOS(root string) *Store {
	return New(afero.NewOsFs(), root)
}

// Root returns the root directory.
func (s *Store) Root() string {
	return s.root
}

// Path joins a folder and an optional file name onto the root.
func (s *Store) Path(folder string, name ...string) string {
	return filepath.Join(append([]string{s.root, folder}, name...)...)
}

// Folders lists the game folders in lexical order. A missing root is an
// empty tree.
func (s *Store) Folders() ([]string, error) {
	ok, err := afero.DirExists(s.fs, s.root)
	if err != nil {
		return nil, errors.WrapIO("stat", s.root, err)
	}
	if !ok {
		return nil, nil
	}
	entries, err := afero.ReadDir(s.fs, s.root)
	if err != nil {
		return nil, errors.WrapIO("read", s.root, err)
	}
	var folders []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			folders = append(folders, e.Name())
		}
	}
	sort.Strings(folders)
	return folders, nil
}

// HasFolder reports whether the folder exists.
func (s *Store) HasFolder(folder string) bool {
	ok, _ := afero.DirExists(s.fs, s.Path(folder))
	return ok
}

// Ensure creates the folder if needed.
func (s *Store) Ensure(folder string) error {
	if err := s.fs.MkdirAll(s.Path(folder), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", s.Path(folder), err)
	}
	return nil
}

// ReadMeta returns the folder's metadata, or nil when it has none.
// Corrupt metadata is reported as a *errors.ParseError.
func (s *Store) ReadMeta(folder string) (*games.Meta, error) {
	path := s.Path(folder, constants.MetaFile)
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapIO("read", path, err)
	}
	meta, err := games.DecodeMeta(data)
	if err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	return &meta, nil
}

// WriteMeta replaces the folder's metadata.
func (s *Store) WriteMeta(folder string, meta games.Meta) error {
	data, err := meta.Encode()
	if err != nil {
		return errors.WrapResource("encode", "meta", folder, err)
	}
	return s.writeAtomic(folder, constants.MetaFile, append(data, '\n'))
}

// EnsureSynopsis writes synopsis.txt unless it already exists. It reports
// whether the file was created.
func (s *Store) EnsureSynopsis(folder, text string) (bool, error) {
	if s.Exists(folder, constants.SynopsisFile) {
		return false, nil
	}
	if err := s.writeAtomic(folder, constants.SynopsisFile, []byte(text)); err != nil {
		return false, err
	}
	return true, nil
}

// Files lists the plain files of a folder in lexical order.
func (s *Store) Files(folder string) ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.Path(folder))
	if err != nil {
		return nil, errors.WrapIO("read", s.Path(folder), err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// Entries lists every entry of a folder, directories included, in lexical
// order. folder may be a nested path such as "Celeste/screenshots".
func (s *Store) Entries(folder string) ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.Path(folder))
	if err != nil {
		return nil, errors.WrapIO("read", s.Path(folder), err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Exists reports whether folder/name exists.
func (s *Store) Exists(folder, name string) bool {
	ok, _ := afero.Exists(s.fs, s.Path(folder, name))
	return ok
}

// Move moves a file or directory between folders. name may be nested. It
// refuses to overwrite.
func (s *Store) Move(from, to, name string) error {
	dst := s.Path(to, name)
	if s.Exists(to, name) {
		return errors.WrapIO("move", dst, errors.ErrAlreadyExists)
	}
	if err := s.fs.Rename(s.Path(from, name), dst); err != nil {
		return errors.WrapIO("move", dst, err)
	}
	return nil
}

// Remove deletes a folder and everything in it.
func (s *Store) Remove(folder string) error {
	if err := s.fs.RemoveAll(s.Path(folder)); err != nil {
		return errors.WrapIO("delete", s.Path(folder), err)
	}
	return nil
}

// Image returns the folder's cover image file name. cover.jpg is preferred,
// then the first image file in lexical order.
func (s *Store) Image(folder string) (string, bool) {
	if s.Exists(folder, constants.DefaultCoverFile) {
		return constants.DefaultCoverFile, true
	}
	files, err := s.Files(folder)
	if err != nil {
		return "", false
	}
	for _, name := range files {
		if IsImage(name) {
			return name, true
		}
	}
	return "", false
}

// SaveImage writes an image into the folder and returns its path.
func (s *Store) SaveImage(folder, name string, data []byte) (string, error) {
	if err := s.writeAtomic(folder, name, data); err != nil {
		return "", err
	}
	return s.Path(folder, name), nil
}

// IsImage reports whether name has a cover image extension.
func IsImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range constants.ImageExtensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

// writeAtomic writes to a temp file in the folder and renames it into place,
// so readers never see a partial file.
func (s *Store) writeAtomic(folder, name string, data []byte) error {
	if err := s.Ensure(folder); err != nil {
		return err
	}
	path := s.Path(folder, name)

	tmp, err := afero.TempFile(s.fs, s.Path(folder), "."+name+".*.tmp")
	if err != nil {
		return errors.WrapIO("create", "temp file", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpPath)
		return errors.WrapIO("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpPath)
		return errors.WrapIO("write", path, err)
	}
	if err := s.fs.Rename(tmpPath, path); err != nil {
		_ = s.fs.Remove(tmpPath)
		return errors.WrapIO("move", path, err)
	}
	return nil
}
