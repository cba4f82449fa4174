// Package scrape extracts game metadata from storefront HTML pages: social
// preview tags (Open Graph and Twitter cards) and JSON-LD structured data.
//
// Extraction is best effort. Nothing here is authoritative over metadata a
// user has already persisted; callers only use it to fill empty fields.
package scrape

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Meta tag keys in lookup order.
var (
	ImageKeys       = []string{"og:image", "og:image:url", "og:image:secure_url", "twitter:image", "twitter:image:src"}
	DescriptionKeys = []string{"og:description", "twitter:description", "description"}
)

// Document is a tokenized page. Only meta tags and JSON-LD scripts are kept.
type Document struct {
	meta   map[string]string
	ldJSON []string
}

// Parse tokenizes a page. Malformed markup never fails; whatever was read
// before the tokenizer gave up is kept.
func Parse(doc string) *Document {
	d := &Document{meta: make(map[string]string)}
	z := html.NewTokenizer(strings.NewReader(doc))

	var script *strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return d
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			switch string(name) {
			case "meta":
				if hasAttr {
					d.addMeta(z)
				}
			case "script":
				if hasAttr && isJSONLD(z) {
					script = &strings.Builder{}
				}
			}
		case html.TextToken:
			if script != nil {
				script.Write(z.Text())
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); string(name) == "script" && script != nil {
				d.ldJSON = append(d.ldJSON, script.String())
				script = nil
			}
		}
	}
}

// Meta returns the content of the first meta tag with the given property or
// name. Keys are case-insensitive.
func (d *Document) Meta(key string) (string, bool) {
	v, ok := d.meta[strings.ToLower(key)]
	return v, ok
}

// SocialImage returns the page's preview image URL as written in the page.
// Open Graph tags win over Twitter card tags.
func (d *Document) SocialImage() (string, bool) {
	return d.first(ImageKeys)
}

// Description returns the page's preview description.
func (d *Document) Description() (string, bool) {
	return d.first(DescriptionKeys)
}

func (d *Document) first(keys []string) (string, bool) {
	for _, key := range keys {
		if v, ok := d.meta[key]; ok {
			return v, true
		}
	}
	return "", false
}

func (d *Document) addMeta(z *html.Tokenizer) {
	var key, content string
	for {
		k, v, more := z.TagAttr()
		switch string(k) {
		case "property":
			key = string(v)
		case "name", "itemprop":
			if key == "" {
				key = string(v)
			}
		case "content":
			content = string(v)
		}
		if !more {
			break
		}
	}
	key = strings.ToLower(strings.TrimSpace(key))
	content = strings.TrimSpace(content)
	if key == "" || content == "" {
		return
	}
	if _, seen := d.meta[key]; !seen {
		d.meta[key] = content
	}
}

func isJSONLD(z *html.Tokenizer) bool {
	for {
		k, v, more := z.TagAttr()
		if string(k) == "type" {
			return strings.EqualFold(strings.TrimSpace(string(v)), "application/ld+json")
		}
		if !more {
			return false
		}
	}
}

// SocialImage parses doc and returns its preview image URL.
func SocialImage(doc string) (string, bool) {
	return Parse(doc).SocialImage()
}

// Description parses doc and returns its preview description.
func Description(doc string) (string, bool) {
	return Parse(doc).Description()
}

// ResolveURL resolves ref against base. Protocol relative and root relative
// references are common in storefront markup.
func ResolveURL(base, ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", false
	}
	if !r.IsAbs() {
		b, err := url.Parse(base)
		if err != nil || !b.IsAbs() {
			return "", false
		}
		r = b.ResolveReference(r)
	}
	if r.Scheme != "http" && r.Scheme != "https" {
		return "", false
	}
	return r.String(), true
}
