package reconcile

import (
	"strings"

	"github.com/clockworksproduction/gamecat/pkg/games"
)

// Merge folds a freshly aggregated record into persisted metadata.
//
// Persisted values win: fresh data only fills fields that are empty in
// existing. Store links and app ids merge slot by slot. List fields are
// replaced wholesale when the persisted list is empty or the blank
// placeholder. With no persisted metadata the fresh record is projected as
// is, primary store unresolved.
func Merge(existing *games.Meta, fresh *games.Record) games.Meta {
	projected := fresh.Meta()
	if existing == nil {
		return projected
	}
	return MergeMeta(*existing, projected)
}

// MergeMeta applies the Merge rule to two persisted records: existing wins,
// other fills gaps.
func MergeMeta(existing, other games.Meta) games.Meta {
	merged := existing.Clone()

	merged.Name = firstNonEmpty(existing.Name, other.Name)
	merged.Description = firstNonEmpty(existing.Description, other.Description)
	merged.Developer = firstNonEmpty(existing.Developer, other.Developer)
	merged.Publisher = firstNonEmpty(existing.Publisher, other.Publisher)
	merged.ReleaseDate = firstNonEmpty(existing.ReleaseDate, other.ReleaseDate)
	merged.PrimaryStore = firstNonEmpty(existing.PrimaryStore, other.PrimaryStore)

	merged.AppID = existing.AppID.Fill(other.AppID)
	merged.StoreURL = existing.StoreURL.Fill(other.StoreURL)

	merged.Genre = fillList(merged.Genre, other.Genre)
	merged.Platforms = fillList(merged.Platforms, other.Platforms)
	merged.Tags = fillList(merged.Tags, other.Tags)

	return merged
}

// Overwrite is the force-mode merge: fresh values replace persisted ones and
// persisted values survive only where the fresh record is empty. Since a
// fresh record never carries a primary store, the persisted one is kept.
func Overwrite(existing *games.Meta, fresh *games.Record) games.Meta {
	projected := fresh.Meta()
	if existing == nil {
		return projected
	}
	return MergeMeta(projected, *existing)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func fillList(existing, other []string) []string {
	if !games.EmptyList(existing) {
		return existing
	}
	if games.EmptyList(other) {
		return existing
	}
	out := make([]string, len(other))
	copy(out, other)
	return out
}
