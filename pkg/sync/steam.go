package sync

import (
	"context"
	"strconv"
	"strings"

	"github.com/clockworksproduction/gamecat/internal/scrape"
	"github.com/clockworksproduction/gamecat/pkg/games"
	"github.com/clockworksproduction/gamecat/pkg/logging"
	"github.com/clockworksproduction/gamecat/pkg/stores"
)

// SearchTerms returns the Steam search terms tried for a game name, in order
// and without repeats: the name itself, the name without brackets and
// quotes, '&' spelled out, and the name with its whitespace collapsed.
func SearchTerms(name string) []string {
	candidates := []string{
		name,
		strings.NewReplacer("(", "", ")", "", "[", "", "]", "", "'", "", `"`, "").Replace(name),
		strings.ReplaceAll(name, "&", "and"),
		strings.Join(strings.Fields(name), " "),
	}

	var terms []string
	seen := make(map[string]bool)
	for _, c := range candidates {
		if strings.TrimSpace(c) == "" || seen[c] {
			continue
		}
		seen[c] = true
		terms = append(terms, c)
	}
	return terms
}

// findSteamApp fills rec's Steam id and link from the Steam store search when
// neither the record nor the persisted metadata has one. The first app linked
// from the first term that yields results is taken.
func (s *Syncer) findSteamApp(ctx context.Context, existing *games.Meta, rec *games.Record) {
	if rec.PlatformIDs.Get(stores.Steam) != "" || rec.StoreLinks.Get(stores.Steam) != "" {
		return
	}
	if existing != nil && (existing.AppID.Get(stores.Steam) != "" || existing.StoreURL.Get(stores.Steam) != "") {
		return
	}

	logger := logging.FromContext(logging.WithStore(ctx, stores.Steam.String()))
	for _, term := range SearchTerms(rec.Identity.Name) {
		if ctx.Err() != nil {
			return
		}
		page, err := s.fetcher.Page(ctx, stores.SteamSearchURL(term))
		if err != nil {
			logger.Debug().Err(err).Str("term", term).Msg("Steam search unavailable")
			continue
		}
		ids := scrape.SteamAppIDs(page)
		if len(ids) == 0 {
			continue
		}

		id := strconv.FormatInt(ids[0], 10)
		rec.PlatformIDs.SetIfEmpty(stores.Steam, id)
		if link, ok := stores.CanonicalURL(stores.Steam, id); ok {
			rec.StoreLinks.SetIfEmpty(stores.Steam, link)
		}
		logger.Debug().Str("term", term).Str("app_id", id).Msg("Found Steam app by search")
		return
	}
}
