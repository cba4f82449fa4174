package scrape

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

var steamAppPath = regexp.MustCompile(`/app/(\d+)/`)

// SteamAppIDs returns the Steam app ids linked from a search results page,
// in page order and without repeats. Only anchor targets are read.
func SteamAppIDs(doc string) []int64 {
	var ids []int64
	seen := make(map[int64]bool)
	z := html.NewTokenizer(strings.NewReader(doc))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ids
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "a" || !hasAttr {
				continue
			}
			m := steamAppPath.FindStringSubmatch(href(z))
			if m == nil {
				continue
			}
			id, err := strconv.ParseInt(m[1], 10, 64)
			if err != nil || id <= 0 || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
}

func href(z *html.Tokenizer) string {
	for {
		k, v, more := z.TagAttr()
		if string(k) == "href" {
			return string(v)
		}
		if !more {
			return ""
		}
	}
}
