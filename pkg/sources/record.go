package sources

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Record is one entry from one storefront export. Collection fields hold the
// raw contributions; splitting compound values is left to the aggregator.
type Record struct {
	Source      ID
	Name        string
	URL         string
	PlatformID  string
	Description string
	ReleaseDate string
	Developers  []string
	Publishers  []string
	Genres      []string
	Platforms   []string
	Tags        []string
	ImageURL    string
	KeyImages   []Image
}

// Image is one entry of a keyed image list.
type Image struct {
	Type string
	URL  string
}

// PreferredImage returns the best explicit image for the record: the box art
// variant of the keyed list, else its first entry, else the plain image field.
func (r Record) PreferredImage() string {
	for _, img := range r.KeyImages {
		if img.Type == BoxArtImageType && img.URL != "" {
			return img.URL
		}
	}
	for _, img := range r.KeyImages {
		if img.URL != "" {
			return img.URL
		}
	}
	return r.ImageURL
}

// ParseRecord reads a record from a JSON object. It returns false when the
// value is not an object or carries no usable name.
func ParseRecord(source ID, obj gjson.Result) (Record, bool) {
	if !obj.IsObject() {
		return Record{}, false
	}

	rec := Record{
		Source:      source,
		Name:        text(obj, NameFields),
		URL:         text(obj, URLFields),
		PlatformID:  text(obj, source.IdentifierFields()),
		Description: text(obj, DescriptionFields),
		ReleaseDate: text(obj, ReleaseDateFields),
		Developers:  list(obj, DeveloperFields),
		Publishers:  list(obj, PublisherFields),
		Genres:      list(obj, GenreFields),
		Platforms:   list(obj, PlatformFields),
		Tags:        list(obj, TagFields),
		ImageURL:    text(obj, ImageFields),
		KeyImages:   keyImages(obj),
	}
	if rec.Name == "" {
		return Record{}, false
	}
	return rec, true
}

// lookup returns the first present value among paths, searching the record
// before its nested metadata object.
func lookup(obj gjson.Result, paths []string, usable func(gjson.Result) bool) gjson.Result {
	scopes := []gjson.Result{obj}
	if nested := obj.Get(NestedObject); nested.IsObject() {
		scopes = append(scopes, nested)
	}
	for _, scope := range scopes {
		for _, p := range paths {
			if v := scope.Get(p); usable(v) {
				return v
			}
		}
	}
	return gjson.Result{}
}

func text(obj gjson.Result, paths []string) string {
	v := lookup(obj, paths, func(v gjson.Result) bool {
		return (v.Type == gjson.String || v.Type == gjson.Number) && strings.TrimSpace(v.String()) != ""
	})
	return strings.TrimSpace(v.String())
}

func list(obj gjson.Result, paths []string) []string {
	v := lookup(obj, paths, func(v gjson.Result) bool {
		return len(values(v)) > 0
	})
	return values(v)
}

// values flattens a string, an array of strings, or an array of objects.
func values(v gjson.Result) []string {
	var out []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	switch {
	case v.Type == gjson.String:
		add(v.String())
	case v.IsArray():
		v.ForEach(func(_, item gjson.Result) bool {
			switch {
			case item.Type == gjson.String:
				add(item.String())
			case item.IsObject():
				for _, key := range listItemFields {
					if s := item.Get(key); s.Type == gjson.String && s.String() != "" {
						add(s.String())
						break
					}
				}
			}
			return true
		})
	}
	return out
}

func keyImages(obj gjson.Result) []Image {
	v := lookup(obj, KeyImageFields, func(v gjson.Result) bool { return v.IsArray() })
	var images []Image
	v.ForEach(func(_, item gjson.Result) bool {
		if u := strings.TrimSpace(item.Get("url").String()); u != "" {
			images = append(images, Image{Type: item.Get("type").String(), URL: u})
		}
		return true
	})
	return images
}
