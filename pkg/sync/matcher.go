package sync

import (
	"github.com/clockworksproduction/gamecat/internal/store"
	"github.com/clockworksproduction/gamecat/pkg/games"
	"github.com/clockworksproduction/gamecat/pkg/reconcile"
)

// matcher assigns games to folders. Candidates are the folders that existed
// when the run started; a folder claimed by one game is not offered to
// another.
type matcher struct {
	candidates []string
	claimed    map[string]bool
}

func newMatcher(folders []string) *matcher {
	return &matcher{
		candidates: append([]string(nil), folders...),
		claimed:    make(map[string]bool),
	}
}

// locate returns the folder for id and whether it already exists. A folder
// named by the game's slug is used directly; otherwise the name is resolved
// against the unclaimed candidates, and failing that the slug is proposed
// as a new folder. An empty folder means no usable folder: taken is set
// when the slug belongs to a game placed earlier in the run.
func (m *matcher) locate(tree *store.Store, id games.Identity) (folder string, match *reconcile.Match, exists, taken bool) {
	slug := id.Slug()
	if slug == "" {
		return "", nil, false, false
	}
	if !m.claimed[slug] && tree.HasFolder(slug) {
		return slug, nil, true, false
	}
	if found, ok := reconcile.Resolve(id.Name, m.available()); ok {
		return found.Candidate, &found, true, false
	}
	if m.claimed[slug] {
		return "", nil, false, true
	}
	return slug, nil, false, false
}

func (m *matcher) claim(folder string) {
	m.claimed[folder] = true
}

func (m *matcher) available() []string {
	out := make([]string, 0, len(m.candidates))
	for _, c := range m.candidates {
		if !m.claimed[c] {
			out = append(out, c)
		}
	}
	return out
}
