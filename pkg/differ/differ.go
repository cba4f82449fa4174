package differ

import (
	"strings"

	"github.com/clockworksproduction/gamecat/pkg/games"
	"github.com/clockworksproduction/gamecat/pkg/stores"
)

// defaultValueLimit keeps long descriptions readable in reports.
const defaultValueLimit = 50

// Differ compares metadata records.
type Differ struct {
	ignoreFields map[string]bool
	valueLimit   int
}

// New creates a Differ with default settings.
func New(opts ...Option) *Differ {
	d := &Differ{
		ignoreFields: make(map[string]bool),
		valueLimit:   defaultValueLimit,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Meta returns the changes that turn existing into updated, in meta.json
// field order. A nil existing record compares as empty. Blank placeholder
// lists compare equal to empty ones.
func (d *Differ) Meta(existing *games.Meta, updated games.Meta) []FieldChange {
	var old games.Meta
	if existing != nil {
		old = *existing
	}

	var changes []FieldChange
	d.scalar(&changes, "name", old.Name, updated.Name)
	d.appIDs(&changes, old.AppID, updated.AppID)
	d.scalar(&changes, "description", old.Description, updated.Description)
	d.scalar(&changes, "developer", old.Developer, updated.Developer)
	d.scalar(&changes, "publisher", old.Publisher, updated.Publisher)
	d.scalar(&changes, "releaseDate", old.ReleaseDate, updated.ReleaseDate)
	d.list(&changes, "genre", old.Genre, updated.Genre)
	d.list(&changes, "platforms", old.Platforms, updated.Platforms)
	d.list(&changes, "tags", old.Tags, updated.Tags)
	d.scalar(&changes, "primaryStore", old.PrimaryStore, updated.PrimaryStore)
	d.storeURLs(&changes, old.StoreURL, updated.StoreURL)
	return changes
}

func (d *Differ) scalar(changes *[]FieldChange, path, old, updated string) {
	if old == updated || d.ignored(path) {
		return
	}
	*changes = append(*changes, FieldChange{
		Path:     path,
		OldValue: d.truncate(old),
		NewValue: d.truncate(updated),
		Type:     changeType(old, updated),
	})
}

func (d *Differ) list(changes *[]FieldChange, path string, old, updated []string) {
	if games.EmptyList(old) {
		old = nil
	}
	if games.EmptyList(updated) {
		updated = nil
	}
	d.scalar(changes, path, strings.Join(old, ", "), strings.Join(updated, ", "))
}

func (d *Differ) appIDs(changes *[]FieldChange, old, updated games.AppIDs) {
	if d.ignored("appId") {
		return
	}
	for _, s := range stores.All() {
		d.scalar(changes, "appId."+s.String(), old.Get(s), updated.Get(s))
	}
}

func (d *Differ) storeURLs(changes *[]FieldChange, old, updated games.StoreURLs) {
	if d.ignored("storeUrl") {
		return
	}
	for _, s := range stores.All() {
		d.scalar(changes, "storeUrl."+s.String(), old.Get(s), updated.Get(s))
	}
}

func (d *Differ) ignored(path string) bool {
	return d.ignoreFields[path]
}

func (d *Differ) truncate(s string) string {
	if d.valueLimit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= d.valueLimit {
		return s
	}
	return string(runes[:d.valueLimit-3]) + "..."
}

func changeType(old, updated string) ChangeType {
	switch {
	case old == "":
		return ChangeTypeAdd
	case updated == "":
		return ChangeTypeRemove
	default:
		return ChangeTypeUpdate
	}
}
