package reconcile

import (
	"strings"

	"github.com/clockworksproduction/gamecat/pkg/constants"
	"github.com/clockworksproduction/gamecat/pkg/names"
)

// MatchMethod records which resolution step produced a match.
type MatchMethod int

const (
	// MatchExact means the normalized names are equal.
	MatchExact MatchMethod = iota
	// MatchSimilar means the similarity score reached the threshold.
	MatchSimilar
	// MatchPrefix means the candidate's normalized name prefixes the target's.
	MatchPrefix
)

// String returns the method name.
func (m MatchMethod) String() string {
	switch m {
	case MatchExact:
		return "exact"
	case MatchSimilar:
		return "similar"
	case MatchPrefix:
		return "prefix"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m MatchMethod) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Match is a resolved candidate.
type Match struct {
	Candidate string      `json:"candidate"`
	Method    MatchMethod `json:"method"`
	Score     float64     `json:"score"`
}

// Resolve finds the candidate that names the same game as target. Steps are
// tried in order and the first hit wins:
//
//  1. exact match of normalized names;
//  2. the highest similarity between the raw strings, if it reaches
//     constants.SimilarityThreshold (ties go to the earlier candidate);
//  3. the first candidate whose normalized name is a prefix of the target's.
//
// A target that normalizes to nothing never matches.
func Resolve(target string, candidates []string) (Match, bool) {
	key := names.Normalize(target)
	if key == "" {
		return Match{}, false
	}

	for _, c := range candidates {
		if names.Normalize(c) == key {
			return Match{Candidate: c, Method: MatchExact, Score: 1}, true
		}
	}

	best, bestScore := -1, 0.0
	for i, c := range candidates {
		if score := names.Similarity(target, c); score > bestScore {
			best, bestScore = i, score
		}
	}
	if best >= 0 && bestScore >= constants.SimilarityThreshold {
		return Match{Candidate: candidates[best], Method: MatchSimilar, Score: bestScore}, true
	}

	for _, c := range candidates {
		if ck := names.Normalize(c); ck != "" && strings.HasPrefix(key, ck) {
			return Match{Candidate: c, Method: MatchPrefix, Score: names.Similarity(target, c)}, true
		}
	}

	return Match{}, false
}
