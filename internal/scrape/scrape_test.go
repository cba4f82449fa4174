package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const steamPage = `<!DOCTYPE html>
<html><head>
<title>Hollow Knight on Steam</title>
<meta name="Description" content="Forge your own path in Hollow Knight!">
<meta name="twitter:image" content="https://cdn.example/twitter.jpg">
<meta property="og:image" content="https://cdn.example/header.jpg?t=1">
<meta property="og:description" content="An epic action adventure &amp; more.">
<meta property="og:image" content="https://cdn.example/second.jpg">
<script>var og = "<meta property='og:image' content='wrong'>";</script>
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@type": "VideoGame",
  "name": "Hollow Knight",
  "author": {"@type": "Organization", "name": "Team Cherry"},
  "publisher": [{"name": "Team Cherry"}, "Fangamer"],
  "datePublished": "2017-02-24",
  "genre": ["Action", "Adventure"],
  "image": {"@type": "ImageObject", "url": "https://cdn.example/ld.jpg"}
}
</script>
</head><body></body></html>`

func TestSocialImage(t *testing.T) {
	img, ok := SocialImage(steamPage)
	assert.True(t, ok)
	assert.Equal(t, "https://cdn.example/header.jpg?t=1", img, "first og:image wins over twitter and later tags")

	img, ok = SocialImage(`<meta content="/img/cover.png" name="twitter:image:src">`)
	assert.True(t, ok)
	assert.Equal(t, "/img/cover.png", img)

	img, ok = SocialImage(`<meta property="og:image:secure_url" content="https://cdn.example/s.jpg"><meta name="twitter:image" content="https://cdn.example/t.jpg">`)
	assert.True(t, ok)
	assert.Equal(t, "https://cdn.example/s.jpg", img)

	_, ok = SocialImage(`<html><head><meta property="og:image" content="  "></head></html>`)
	assert.False(t, ok)

	_, ok = SocialImage("")
	assert.False(t, ok)
}

func TestDescription(t *testing.T) {
	desc, ok := Description(steamPage)
	assert.True(t, ok)
	assert.Equal(t, "An epic action adventure & more.", desc)

	desc, ok = Description(`<meta name="description" content="Plain">`)
	assert.True(t, ok)
	assert.Equal(t, "Plain", desc)

	_, ok = Description(`<p>no meta</p>`)
	assert.False(t, ok)
}

func TestMetaKeysAreCaseInsensitive(t *testing.T) {
	doc := Parse(`<META PROPERTY="OG:Title" CONTENT="Celeste">`)
	v, ok := doc.Meta("og:title")
	assert.True(t, ok)
	assert.Equal(t, "Celeste", v)
}

func TestStructured(t *testing.T) {
	m := Structured(steamPage)
	assert.Equal(t, "Hollow Knight", m.Name)
	assert.Equal(t, []string{"Team Cherry"}, m.Developers)
	assert.Equal(t, []string{"Team Cherry", "Fangamer"}, m.Publishers)
	assert.Equal(t, "2017-02-24", m.ReleaseDate)
	assert.Equal(t, []string{"Action", "Adventure"}, m.Genres)
	assert.Equal(t, "https://cdn.example/ld.jpg", m.Image)
	assert.Empty(t, m.Description)
}

func TestStructuredGraph(t *testing.T) {
	doc := `<script type="application/ld+json">
	{"@graph": [
		{"@type": "WebPage", "name": "Store page"},
		{"@type": ["Product", "SoftwareApplication"], "name": "Celeste", "developer": "Maddy Makes Games", "genre": "Platformer"}
	]}</script>
	<script type="application/ld+json">{"@type": "VideoGame", "name": "Ignored", "description": "Climb", "publisher": "Matt Makes Games"}</script>`

	m := Structured(doc)
	assert.Equal(t, "Celeste", m.Name)
	assert.Equal(t, []string{"Maddy Makes Games"}, m.Developers)
	assert.Equal(t, []string{"Platformer"}, m.Genres)
	assert.Equal(t, "Climb", m.Description)
	assert.Equal(t, []string{"Matt Makes Games"}, m.Publishers)
}

func TestStructuredSkipsBrokenBlocks(t *testing.T) {
	doc := `<script type="application/ld+json">{not json</script>
	<script type="application/ld+json">[{"@type": "Organization", "name": "Valve"}]</script>`
	assert.True(t, Structured(doc).Empty())
	assert.True(t, Structured("").Empty())
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		base, ref string
		want      string
		ok        bool
	}{
		{"https://store.example/app/1/", "https://cdn.example/a.jpg", "https://cdn.example/a.jpg", true},
		{"https://store.example/app/1/", "//cdn.example/a.jpg", "https://cdn.example/a.jpg", true},
		{"https://store.example/app/1/", "/img/a.jpg", "https://store.example/img/a.jpg", true},
		{"https://store.example/app/1/", "a.jpg", "https://store.example/app/1/a.jpg", true},
		{"", "/img/a.jpg", "", false},
		{"https://store.example/", "", "", false},
		{"https://store.example/", "data:image/png;base64,AAAA", "", false},
	}
	for _, tt := range tests {
		got, ok := ResolveURL(tt.base, tt.ref)
		assert.Equal(t, tt.ok, ok, tt.ref)
		assert.Equal(t, tt.want, got, tt.ref)
	}
}

func TestSteamAppIDs(t *testing.T) {
	page := `<div id="search_resultsRows">
<a href="https://store.steampowered.com/app/367520/Hollow_Knight/?snr=1_7_7_151_150_1" data-ds-appid="367520" class="search_result_row">Hollow Knight</a>
<a href="https://store.steampowered.com/app/1030300/Hollow_Knight_Silksong/?snr=1_7_7_151_150_1">Silksong</a>
<a href="https://store.steampowered.com/app/367520/Hollow_Knight/">again</a>
<a href="https://store.steampowered.com/app/0/">zero</a>
<a href="https://store.steampowered.com/bundle/1234/">bundle</a>
</div>
<script>location.href = "/app/999/";</script>`

	assert.Equal(t, []int64{367520, 1030300}, SteamAppIDs(page))
	assert.Empty(t, SteamAppIDs(`<div class="search_results_count">0 results match your search.</div>`))
	assert.Empty(t, SteamAppIDs(""))
}
