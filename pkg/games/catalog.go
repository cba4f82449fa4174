package games

// Catalog owns the records of one aggregation pass, keyed by identity and
// iterated in order of first sighting.
type Catalog struct {
	order []*Record
	byKey map[string]*Record
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{byKey: make(map[string]*Record)}
}

// Ensure returns the record for id, creating it when first seen. The second
// result reports whether the record was created.
func (c *Catalog) Ensure(id Identity) (*Record, bool) {
	if r, ok := c.byKey[id.Key]; ok {
		return r, false
	}
	r := NewRecord(id)
	c.byKey[id.Key] = r
	c.order = append(c.order, r)
	return r, true
}

// Get returns the record whose identity matches name.
func (c *Catalog) Get(name string) (*Record, bool) {
	r, ok := c.byKey[NewIdentity(name).Key]
	return r, ok
}

// Records returns the records in order of first sighting.
func (c *Catalog) Records() []*Record {
	out := make([]*Record, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of games.
func (c *Catalog) Len() int {
	return len(c.order)
}
