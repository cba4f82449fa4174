package stores

import (
	"net/url"
	"strconv"
	"strings"
)

type signature struct {
	store    Store
	patterns []string
}

// signatures are checked in order; the first substring hit wins.
var signatures = []signature{
	{Steam, []string{"steampowered.com", "steamcommunity.com"}},
	{EpicGames, []string{"epicgames.com"}},
	{ItchIo, []string{"itch.io"}},
	{GOG, []string{"gog.com"}},
	{Xbox, []string{"xbox.com", "microsoft.com"}},
	{PlayStation, []string{"playstation.com"}},
	{Nintendo, []string{"nintendo."}},
	{Newgrounds, []string{"newgrounds.com"}},
}

// Classify maps a URL to the storefront that hosts it. The match is a
// case-insensitive substring test against the whole URL, so malformed URLs
// are still classified. Empty or unmatched URLs are Other.
func Classify(rawURL string) Store {
	u := strings.ToLower(strings.TrimSpace(rawURL))
	if u == "" {
		return Other
	}
	for _, sig := range signatures {
		for _, p := range sig.patterns {
			if strings.Contains(u, p) {
				return sig.store
			}
		}
	}
	return Other
}

// PrimaryPriority is the order in which a game's links are considered when
// choosing the one shown on the site.
var PrimaryPriority = []Store{Other, Steam, ItchIo, EpicGames, Xbox, Nintendo, PlayStation, Newgrounds, GOG}

// ChoosePrimary returns the first store in PrimaryPriority that has a
// non-empty link.
func ChoosePrimary(link func(Store) string) (Store, string, bool) {
	for _, s := range PrimaryPriority {
		if u := strings.TrimSpace(link(s)); u != "" {
			return s, u, true
		}
	}
	return Other, "", false
}

// CanonicalURL synthesizes a store page URL from a storefront identifier.
// Only Steam app ids are supported.
func CanonicalURL(s Store, id string) (string, bool) {
	if s != Steam {
		return "", false
	}
	appID, ok := SteamAppID(id)
	if !ok {
		return "", false
	}
	return "https://store.steampowered.com/app/" + strconv.FormatInt(appID, 10) + "/", true
}

// SteamHeaderURL returns the CDN header image for a Steam app.
func SteamHeaderURL(appID int64) string {
	return "https://cdn.cloudflare.steamstatic.com/steam/apps/" + strconv.FormatInt(appID, 10) + "/header.jpg"
}

// SteamSearchURL returns the Steam store search page for term.
func SteamSearchURL(term string) string {
	return "https://store.steampowered.com/search/?term=" + url.QueryEscape(term)
}

// SteamAppID parses a positive Steam app id.
func SteamAppID(id string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Host returns the lower-cased host of a URL, or "" when it cannot be parsed.
func Host(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
