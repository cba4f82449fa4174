package games

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/clockworksproduction/gamecat/pkg/stores"
)

// Meta is the metadata persisted as meta.json in a game folder.
// Field order is the on-disk order.
type Meta struct {
	Name         string    `json:"name"`
	AppID        AppIDs    `json:"appId"`
	Description  string    `json:"description"`
	Developer    string    `json:"developer"`
	Publisher    string    `json:"publisher"`
	ReleaseDate  string    `json:"releaseDate"`
	Genre        []string  `json:"genre"`
	Platforms    []string  `json:"platforms"`
	Tags         []string  `json:"tags"`
	PrimaryStore string    `json:"primaryStore"`
	StoreURL     StoreURLs `json:"storeUrl"`
}

// placeholder is the legacy value written for an unset genre or tag list.
var placeholder = []string{""}

// EmptyList reports whether a list field is unset: nil, empty, or the single
// blank placeholder.
func EmptyList(list []string) bool {
	for _, v := range list {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// JoinValues joins collection values into the legacy single-string form.
func JoinValues(values []string) string {
	return strings.Join(values, ", ")
}

// Developers returns the developer field split into values.
func (m Meta) Developers() []string {
	return SplitValues(m.Developer)
}

// Publishers returns the publisher field split into values.
func (m Meta) Publishers() []string {
	return SplitValues(m.Publisher)
}

// Clone returns a deep copy.
func (m Meta) Clone() Meta {
	m.Genre = cloneList(m.Genre)
	m.Platforms = cloneList(m.Platforms)
	m.Tags = cloneList(m.Tags)
	return m
}

// Primary returns the storefront and link shown for the game. A set
// PrimaryStore wins when its slot has a link; otherwise the priority order
// decides.
func (m Meta) Primary() (stores.Store, string, bool) {
	if s, ok := stores.Lookup(m.PrimaryStore); ok {
		if link := m.StoreURL.Get(s); link != "" {
			return s, link, true
		}
	}
	return m.StoreURL.Primary()
}

// ResolvePrimary fills an empty PrimaryStore from the store links.
func (m *Meta) ResolvePrimary() {
	if m.PrimaryStore != "" {
		return
	}
	if s, _, ok := m.StoreURL.Primary(); ok {
		m.PrimaryStore = s.String()
	}
}

// Encode returns the persisted JSON form, indented by two spaces.
func (m Meta) Encode() ([]byte, error) {
	return encode(m, "  ")
}

// Size is the length of the compact serialized form. It is how two records
// for the same game are compared for richness.
func (m Meta) Size() int {
	data, err := encode(m, "")
	if err != nil {
		return 0
	}
	return len(data)
}

// Equal reports whether both records serialize identically.
func (m Meta) Equal(other Meta) bool {
	a, errA := encode(m, "")
	b, errB := encode(other, "")
	return errA == nil && errB == nil && string(a) == string(b)
}

// MarshalJSON writes list placeholders for unset genre and tag lists and an
// empty array for unset platforms.
func (m Meta) MarshalJSON() ([]byte, error) {
	type plain Meta
	p := plain(m)
	if EmptyList(p.Genre) {
		p.Genre = placeholder
	}
	if EmptyList(p.Tags) {
		p.Tags = placeholder
	}
	if p.Platforms == nil {
		p.Platforms = []string{}
	}
	return marshal(p)
}

// UnmarshalJSON reads meta.json tolerantly: string fields may hold arrays
// and list fields may hold a single string, as hand edited files sometimes do.
func (m *Meta) UnmarshalJSON(data []byte) error {
	type plain Meta
	var aux struct {
		plain
		Developer json.RawMessage `json:"developer"`
		Publisher json.RawMessage `json:"publisher"`
		Genre     json.RawMessage `json:"genre"`
		Platforms json.RawMessage `json:"platforms"`
		Tags      json.RawMessage `json:"tags"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*m = Meta(aux.plain)
	m.Developer = JoinValues(rawList(aux.Developer))
	m.Publisher = JoinValues(rawList(aux.Publisher))
	m.Genre = rawList(aux.Genre)
	m.Platforms = rawList(aux.Platforms)
	m.Tags = rawList(aux.Tags)
	return nil
}

// DecodeMeta parses meta.json content.
func DecodeMeta(data []byte) (Meta, error) {
	var m Meta
	err := json.Unmarshal(data, &m)
	return m, err
}

func rawList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	v := gjson.ParseBytes(raw)
	if v.Type == gjson.String {
		return []string{v.String()}
	}
	if !v.IsArray() {
		return nil
	}
	var out []string
	v.ForEach(func(_, item gjson.Result) bool {
		if item.Type == gjson.String || item.Type == gjson.Number {
			out = append(out, item.String())
		}
		return true
	})
	return out
}

func encode(m Meta, indent string) ([]byte, error) {
	data, err := marshal(m)
	if err != nil || indent == "" {
		return data, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// marshal is json.Marshal without HTML escaping.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func cloneList(list []string) []string {
	if list == nil {
		return nil
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}
