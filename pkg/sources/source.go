// Package sources reads storefront export lists.
//
// Each list is a JSON array of objects with storefront specific field names.
// Fields are discovered through the lookup tables in fields.go and copied
// into a typed Record; anything unrecognized is ignored.
package sources

import (
	"path/filepath"
	"strings"

	"github.com/clockworksproduction/gamecat/pkg/errors"
	"github.com/clockworksproduction/gamecat/pkg/stores"
)

// ID names a source list, e.g. "steam" or "epic".
type ID string

// String returns the ID as a string.
func (id ID) String() string {
	return string(id)
}

// IdentifierStore returns the storefront slot a bare identifier from this
// source belongs to. Epic lists carry Epic catalog ids; every other list is
// assumed to carry Steam app ids.
func (id ID) IdentifierStore() stores.Store {
	if strings.Contains(strings.ToLower(string(id)), "epic") {
		return stores.EpicGames
	}
	return stores.Steam
}

// IdentifierFields returns the fields read as this source's identifier. A
// generic "id" is only read from Epic lists.
func (id ID) IdentifierFields() []string {
	if id.IdentifierStore() == stores.EpicGames {
		return EpicIDFields
	}
	return SteamIDFields
}

// List is a loaded source list. Records keep file order.
type List struct {
	ID      ID
	Path    string
	Records []Record
	// Discarded counts entries skipped for lacking a name or not being objects.
	Discarded int
	// Err is why LoadAll could not use the list, if it could not.
	Err error
}

// Spec tells the loader where a source list lives.
type Spec struct {
	ID   ID     `json:"id" yaml:"id" mapstructure:"id"`
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// ParseSpec parses "id=path" or a bare path, in which case the ID is derived
// from the file name.
func ParseSpec(s string) (Spec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Spec{}, errors.NewValidationError("source", s, "empty source")
	}
	if id, path, ok := strings.Cut(s, "="); ok {
		id, path = strings.TrimSpace(id), strings.TrimSpace(path)
		if id == "" || path == "" {
			return Spec{}, errors.NewValidationError("source", s, "expected id=path")
		}
		return Spec{ID: ID(id), Path: path}, nil
	}
	return Spec{ID: IDFromPath(s), Path: s}, nil
}

// IDFromPath derives a source ID from a list file name:
// "_steam_game_list.json" becomes "steam".
func IDFromPath(path string) ID {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	base = strings.Trim(base, "_")
	for _, suffix := range []string{"_game_list", "_games_list", "_list", "_games"} {
		if trimmed := strings.TrimSuffix(base, suffix); trimmed != base && trimmed != "" {
			base = trimmed
			break
		}
	}
	return ID(base)
}
