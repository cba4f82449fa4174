// Package index builds games.json, the listing the website reads: one entry
// per game folder with its cover path and storefront links.
package index

import (
	"bytes"
	"context"
	"encoding/json"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/clockworksproduction/gamecat/pkg/constants"
	"github.com/clockworksproduction/gamecat/pkg/errors"
	"github.com/clockworksproduction/gamecat/pkg/games"
	"github.com/clockworksproduction/gamecat/pkg/logging"
	"github.com/clockworksproduction/gamecat/pkg/stores"
)

// Storefront is a secondary store link.
type Storefront struct {
	Store string `json:"store"`
	URL   string `json:"url"`
}

// Entry is one game in the listing.
type Entry struct {
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Image        string       `json:"image"`
	PrimaryStore string       `json:"primary_store"`
	PrimaryLink  string       `json:"primary_link"`
	Storefronts  []Storefront `json:"storefronts"`
}

// Source is the part of the output tree the index reads.
type Source interface {
	Folders() ([]string, error)
	ReadMeta(folder string) (*games.Meta, error)
	Image(folder string) (string, bool)
}

// Build lists every folder with readable metadata, in folder order.
// imageBase prefixes image paths, e.g. "/asset/Game".
func Build(ctx context.Context, src Source, imageBase string) ([]Entry, error) {
	folders, err := src.Folders()
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	entries := make([]Entry, 0, len(folders))
	for _, folder := range folders {
		meta, err := src.ReadMeta(folder)
		if err != nil {
			logger.Warn().Err(err).Str("folder", folder).Msg("Skipping folder with unreadable metadata")
			continue
		}
		if meta == nil {
			logger.Debug().Str("folder", folder).Msg("Skipping folder without metadata")
			continue
		}
		entries = append(entries, NewEntry(folder, *meta, imagePath(src, imageBase, folder)))
	}
	return entries, nil
}

// NewEntry builds the listing entry for one folder.
func NewEntry(folder string, meta games.Meta, image string) Entry {
	e := Entry{
		Name:        meta.Name,
		Description: meta.Description,
		Image:       image,
		Storefronts: []Storefront{},
	}
	if e.Name == "" {
		e.Name = folder
	}

	primary, link, ok := meta.Primary()
	if ok {
		e.PrimaryStore = primary.String()
		e.PrimaryLink = link
	}
	for _, s := range stores.All() {
		u := meta.StoreURL.Get(s)
		if u == "" || (ok && s == primary) {
			continue
		}
		e.Storefronts = append(e.Storefronts, Storefront{Store: s.String(), URL: u})
	}
	return e
}

func imagePath(src Source, base, folder string) string {
	name, ok := src.Image(folder)
	if !ok {
		return ""
	}
	return path.Join("/", strings.Trim(base, "/"), folder, name)
}

// Encode renders entries as indented JSON.
func Encode(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes entries to file on fs, creating its directory.
func Write(fs afero.Fs, file string, entries []Entry) error {
	data, err := Encode(entries)
	if err != nil {
		return errors.WrapResource("encode", "index", file, err)
	}
	if err := fs.MkdirAll(filepath.Dir(file), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(file), err)
	}
	if err := afero.WriteFile(fs, file, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", file, err)
	}
	return nil
}
