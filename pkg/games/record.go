package games

import "github.com/clockworksproduction/gamecat/pkg/stores"

// Record is everything the source lists say about one game. It is created
// on first sighting and only ever gains information.
type Record struct {
	Identity    Identity
	StoreLinks  StoreURLs
	PlatformIDs AppIDs
	Description string
	ReleaseDate string
	Developers  Set
	Publishers  Set
	Genres      Set
	Platforms   Set
	Tags        Set
	// ImageHint is the first explicit image URL offered by a source.
	ImageHint string
	// Sources lists the contributing source IDs in the order they were seen.
	Sources []string
}

// NewRecord returns an empty record for id.
func NewRecord(id Identity) *Record {
	return &Record{Identity: id}
}

// AddSource records that a source list contributed to this game.
func (r *Record) AddSource(source string) {
	for _, s := range r.Sources {
		if s == source {
			return
		}
	}
	r.Sources = append(r.Sources, source)
}

// PrimaryURL returns the link chosen by stores.PrimaryPriority, or "".
func (r *Record) PrimaryURL() string {
	_, link, _ := r.StoreLinks.Primary()
	return link
}

// SteamAppID returns the Steam app id when one is known.
func (r *Record) SteamAppID() (int64, bool) {
	return r.PlatformIDs.Steam()
}

// HasStore reports whether the record links to s.
func (r *Record) HasStore(s stores.Store) bool {
	return r.StoreLinks.Get(s) != ""
}

// Meta projects the record into persisted form. The primary store is left
// unresolved.
func (r *Record) Meta() Meta {
	return Meta{
		Name:        r.Identity.Name,
		AppID:       r.PlatformIDs,
		Description: r.Description,
		Developer:   JoinValues(r.Developers.Values()),
		Publisher:   JoinValues(r.Publishers.Values()),
		ReleaseDate: r.ReleaseDate,
		Genre:       r.Genres.Values(),
		Platforms:   r.Platforms.Values(),
		Tags:        r.Tags.Values(),
		StoreURL:    r.StoreLinks,
	}
}
