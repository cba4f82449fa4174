package scrape

import (
	"strings"

	"github.com/tidwall/gjson"
)

// GameTypes are the schema.org types read from JSON-LD.
var GameTypes = []string{"VideoGame", "SoftwareApplication", "Game", "VideoGameSeries"}

// Metadata is what a page's structured data says about a game.
type Metadata struct {
	Name        string
	Description string
	Developers  []string
	Publishers  []string
	ReleaseDate string
	Genres      []string
	Image       string
}

// Empty reports whether nothing was found.
func (m Metadata) Empty() bool {
	return m.Name == "" && m.Description == "" && len(m.Developers) == 0 &&
		len(m.Publishers) == 0 && m.ReleaseDate == "" && len(m.Genres) == 0 && m.Image == ""
}

// Structured reads the page's JSON-LD game nodes. When several nodes
// describe a game the first non-empty value of each field wins.
// Unparseable blocks are skipped.
func (d *Document) Structured() Metadata {
	var m Metadata
	for _, block := range d.ldJSON {
		if !gjson.Valid(block) {
			continue
		}
		for _, node := range gameNodes(gjson.Parse(block)) {
			m.fill(node)
		}
	}
	return m
}

// Structured parses doc and returns its structured metadata.
func Structured(doc string) Metadata {
	return Parse(doc).Structured()
}

func (m *Metadata) fill(node gjson.Result) {
	if m.Name == "" {
		m.Name = strings.TrimSpace(node.Get("name").String())
	}
	if m.Description == "" {
		m.Description = strings.TrimSpace(node.Get("description").String())
	}
	if len(m.Developers) == 0 {
		m.Developers = append(names(node.Get("developer")), names(node.Get("author"))...)
	}
	if len(m.Publishers) == 0 {
		m.Publishers = names(node.Get("publisher"))
	}
	if m.ReleaseDate == "" {
		m.ReleaseDate = strings.TrimSpace(node.Get("datePublished").String())
	}
	if len(m.Genres) == 0 {
		m.Genres = names(node.Get("genre"))
	}
	if m.Image == "" {
		if images := urls(node.Get("image")); len(images) > 0 {
			m.Image = images[0]
		}
	}
}

// gameNodes flattens a JSON-LD value (object, array, or @graph) into the
// nodes whose @type is a game type.
func gameNodes(v gjson.Result) []gjson.Result {
	var out []gjson.Result
	var walk func(gjson.Result)
	walk = func(v gjson.Result) {
		switch {
		case v.IsArray():
			for _, item := range v.Array() {
				walk(item)
			}
		case v.IsObject():
			if graph := v.Get("@graph"); graph.Exists() {
				walk(graph)
			}
			if isGame(v.Get("@type")) {
				out = append(out, v)
			}
		}
	}
	walk(v)
	return out
}

func isGame(t gjson.Result) bool {
	for _, s := range t.Array() {
		for _, want := range GameTypes {
			if s.String() == want {
				return true
			}
		}
	}
	return false
}

// names reads a string, an object with a name, or an array of either.
// Duplicates are dropped.
func names(v gjson.Result) []string {
	return collect(v, "name")
}

// urls reads a string, an object with a url, or an array of either.
func urls(v gjson.Result) []string {
	return collect(v, "url")
}

func collect(v gjson.Result, key string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, item := range v.Array() {
		switch {
		case item.Type == gjson.String:
			add(item.String())
		case item.IsObject():
			add(item.Get(key).String())
		}
	}
	return out
}
