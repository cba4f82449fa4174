// Package games holds the game model shared by the aggregator, the merger
// and the output tree: the identity of a game, the record aggregated from
// source lists, and the metadata persisted in each game folder.
package games

import (
	"strings"

	"github.com/clockworksproduction/gamecat/pkg/names"
)

// Identity is a game's display name as first observed plus its normalized
// key. Identities with equal keys are the same game.
type Identity struct {
	Name string
	Key  string
}

// NewIdentity builds an Identity from a display name.
func NewIdentity(name string) Identity {
	name = strings.TrimSpace(name)
	return Identity{Name: name, Key: names.Normalize(name)}
}

// Valid reports whether the name produced a usable key.
func (id Identity) Valid() bool {
	return id.Key != ""
}

// Slug returns the folder name for the identity.
func (id Identity) Slug() string {
	return names.Slugify(id.Name)
}

// Same reports whether both identities name the same game.
func (id Identity) Same(other Identity) bool {
	return id.Key == other.Key
}

// String returns the display name.
func (id Identity) String() string {
	return id.Name
}
