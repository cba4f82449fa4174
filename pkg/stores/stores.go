// Package stores defines the closed set of storefronts gamecat knows about
// and classifies URLs into them.
package stores

import (
	"strconv"
	"strings"

	"github.com/clockworksproduction/gamecat/pkg/errors"
)

// Store identifies a storefront. The zero value is Steam; Other is the
// catch-all for links that match no known storefront.
type Store uint8

// Known storefronts, in the order their slots are persisted.
const (
	Steam Store = iota
	ItchIo
	EpicGames
	GOG
	Xbox
	PlayStation
	Nintendo
	Newgrounds
	Other
)

// Count is the number of storefront slots.
const Count = int(Other) + 1

var keys = [Count]string{
	Steam:       "steam",
	ItchIo:      "itchIo",
	EpicGames:   "epicGames",
	GOG:         "gog",
	Xbox:        "xbox",
	PlayStation: "playstation",
	Nintendo:    "nintendo",
	Newgrounds:  "newgrounds",
	Other:       "other",
}

var displayNames = [Count]string{
	Steam:       "Steam",
	ItchIo:      "itch.io",
	EpicGames:   "Epic Games",
	GOG:         "GOG",
	Xbox:        "Xbox",
	PlayStation: "PlayStation",
	Nintendo:    "Nintendo",
	Newgrounds:  "Newgrounds",
	Other:       "Other",
}

var aliases = map[string]Store{
	"epic": EpicGames,
	"itch": ItchIo,
}

// All returns every store in persisted slot order.
func All() []Store {
	all := make([]Store, Count)
	for i := range all {
		all[i] = Store(i)
	}
	return all
}

// String returns the persisted key, e.g. "itchIo".
func (s Store) String() string {
	if !s.Valid() {
		return "store(" + strconv.Itoa(int(s)) + ")"
	}
	return keys[s]
}

// DisplayName returns a human readable storefront name.
func (s Store) DisplayName() string {
	if !s.Valid() {
		return s.String()
	}
	return displayNames[s]
}

// Valid reports whether s is one of the known stores.
func (s Store) Valid() bool {
	return int(s) < Count
}

// Lookup resolves a persisted key or alias, case-insensitively.
func Lookup(key string) (Store, bool) {
	k := strings.ToLower(strings.TrimSpace(key))
	for i, candidate := range keys {
		if strings.ToLower(candidate) == k {
			return Store(i), true
		}
	}
	if s, ok := aliases[k]; ok {
		return s, true
	}
	return Other, false
}

// Parse resolves a key like Lookup but maps unknown keys to Other.
func Parse(key string) Store {
	s, _ := Lookup(key)
	return s
}

// MarshalText implements encoding.TextMarshaler.
func (s Store) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, errors.NewValidationError("store", int(s), "unknown store")
	}
	return []byte(keys[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown keys decode to Other.
func (s *Store) UnmarshalText(text []byte) error {
	*s = Parse(string(text))
	return nil
}
