package games

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/clockworksproduction/gamecat/pkg/stores"
)

// StoreURLs holds one link per storefront. Every slot is always persisted,
// empty slots as "".
type StoreURLs [stores.Count]string

// Get returns the link for s.
func (u StoreURLs) Get(s stores.Store) string {
	if !s.Valid() {
		return ""
	}
	return u[s]
}

// Set stores a link for s.
func (u *StoreURLs) Set(s stores.Store, link string) {
	if s.Valid() {
		u[s] = strings.TrimSpace(link)
	}
}

// SetIfEmpty stores a link only when the slot is empty and reports whether it did.
func (u *StoreURLs) SetIfEmpty(s stores.Store, link string) bool {
	link = strings.TrimSpace(link)
	if !s.Valid() || link == "" || u[s] != "" {
		return false
	}
	u[s] = link
	return true
}

// Fill returns u with every empty slot taken from other.
func (u StoreURLs) Fill(other StoreURLs) StoreURLs {
	for i := range u {
		if u[i] == "" {
			u[i] = other[i]
		}
	}
	return u
}

// Any reports whether at least one slot is set.
func (u StoreURLs) Any() bool {
	for _, link := range u {
		if link != "" {
			return true
		}
	}
	return false
}

// Primary picks the link shown on the site using stores.PrimaryPriority.
func (u StoreURLs) Primary() (stores.Store, string, bool) {
	return stores.ChoosePrimary(u.Get)
}

// MarshalJSON writes every slot in store order.
func (u StoreURLs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, link := range u {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeKey(&buf, stores.Store(i))
		value, err := marshal(link)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a slot object. Keys are parsed with stores.Parse, so
// aliases are accepted and unknown storefronts collapse into "other".
func (u *StoreURLs) UnmarshalJSON(data []byte) error {
	*u = StoreURLs{}
	gjson.ParseBytes(data).ForEach(func(key, value gjson.Result) bool {
		if value.Type == gjson.String {
			u.SetIfEmpty(stores.Parse(key.String()), value.String())
		}
		return true
	})
	return nil
}

// AppIDs holds one storefront identifier per store. Numeric identifiers are
// persisted as JSON numbers, opaque ones (Epic catalog ids) as strings and
// empty slots as 0.
type AppIDs [stores.Count]string

// Get returns the identifier for s.
func (a AppIDs) Get(s stores.Store) string {
	if !s.Valid() {
		return ""
	}
	return a[s]
}

// Set stores an identifier for s. "0" counts as empty, and a Steam id that
// is not a positive integer is dropped.
func (a *AppIDs) Set(s stores.Store, id string) {
	if s.Valid() {
		a[s] = cleanID(s, id)
	}
}

// SetIfEmpty stores an identifier only when the slot is empty.
func (a *AppIDs) SetIfEmpty(s stores.Store, id string) bool {
	id = cleanID(s, id)
	if !s.Valid() || id == "" || a[s] != "" {
		return false
	}
	a[s] = id
	return true
}

// Fill returns a with every empty slot taken from other.
func (a AppIDs) Fill(other AppIDs) AppIDs {
	for i := range a {
		if a[i] == "" {
			a[i] = other[i]
		}
	}
	return a
}

// Steam returns the Steam app id when one is set.
func (a AppIDs) Steam() (int64, bool) {
	return stores.SteamAppID(a[stores.Steam])
}

// MarshalJSON writes every slot in store order.
func (a AppIDs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeKey(&buf, stores.Store(i))
		switch n, err := strconv.ParseInt(id, 10, 64); {
		case id == "":
			buf.WriteByte('0')
		case err == nil && n > 0:
			buf.WriteString(strconv.FormatInt(n, 10))
		default:
			value, err := marshal(id)
			if err != nil {
				return nil, err
			}
			buf.Write(value)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a slot object of numbers or strings.
func (a *AppIDs) UnmarshalJSON(data []byte) error {
	*a = AppIDs{}
	gjson.ParseBytes(data).ForEach(func(key, value gjson.Result) bool {
		switch value.Type {
		case gjson.Number, gjson.String:
			a.SetIfEmpty(stores.Parse(key.String()), value.String())
		}
		return true
	})
	return nil
}

func cleanID(s stores.Store, id string) string {
	id = strings.TrimSpace(id)
	if id == "0" {
		return ""
	}
	if s == stores.Steam && id != "" {
		n, ok := stores.SteamAppID(id)
		if !ok {
			return ""
		}
		return strconv.FormatInt(n, 10)
	}
	return id
}

func writeKey(buf *bytes.Buffer, s stores.Store) {
	buf.WriteByte('"')
	buf.WriteString(s.String())
	buf.WriteString(`":`)
}
