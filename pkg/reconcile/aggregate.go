package reconcile

import (
	"github.com/clockworksproduction/gamecat/pkg/games"
	"github.com/clockworksproduction/gamecat/pkg/sources"
	"github.com/clockworksproduction/gamecat/pkg/stores"
)

// Aggregator folds source records into a catalog. Lists are applied in the
// order given, records in file order; for single-valued fields the first
// non-empty value wins and collection fields are unioned.
type Aggregator struct {
	catalog *games.Catalog
	skipped int
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{catalog: games.NewCatalog()}
}

// Aggregate folds lists into a new catalog.
func Aggregate(lists []sources.List) *games.Catalog {
	a := NewAggregator()
	for _, list := range lists {
		a.AddList(list)
	}
	return a.Catalog()
}

// AddList folds every record of list.
func (a *Aggregator) AddList(list sources.List) {
	for _, rec := range list.Records {
		a.Add(rec)
	}
}

// Add folds one record. Records whose name normalizes to nothing are
// counted and dropped.
func (a *Aggregator) Add(rec sources.Record) {
	id := games.NewIdentity(rec.Name)
	if !id.Valid() {
		a.skipped++
		return
	}
	r, _ := a.catalog.Ensure(id)
	r.AddSource(rec.Source.String())

	idStore := rec.Source.IdentifierStore()
	r.PlatformIDs.SetIfEmpty(idStore, rec.PlatformID)

	link := rec.URL
	if link == "" {
		link, _ = stores.CanonicalURL(idStore, rec.PlatformID)
	}
	if link != "" {
		r.StoreLinks.SetIfEmpty(stores.Classify(link), link)
	}

	if r.Description == "" {
		r.Description = rec.Description
	}
	if r.ReleaseDate == "" {
		r.ReleaseDate = rec.ReleaseDate
	}

	union(&r.Developers, rec.Developers)
	union(&r.Publishers, rec.Publishers)
	union(&r.Genres, rec.Genres)
	union(&r.Platforms, rec.Platforms)
	union(&r.Tags, rec.Tags)

	if r.ImageHint == "" {
		r.ImageHint = rec.PreferredImage()
	}
}

// Catalog returns the catalog built so far.
func (a *Aggregator) Catalog() *games.Catalog {
	return a.catalog
}

// Skipped returns how many records had no usable name.
func (a *Aggregator) Skipped() int {
	return a.skipped
}

func union(set *games.Set, contributions []string) {
	for _, v := range games.SplitValues(contributions...) {
		set.Add(v)
	}
}
