package games

import (
	"strings"

	"github.com/clockworksproduction/gamecat/pkg/names"
)

// Set is an insertion ordered set of strings. Membership ignores case and
// punctuation differences; the first spelling seen is kept.
// The zero value is an empty set ready to use.
type Set struct {
	values []string
	index  map[string]struct{}
}

// NewSet returns a set holding values.
func NewSet(values ...string) Set {
	var s Set
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts v and reports whether it was new. Blank values are ignored.
func (s *Set) Add(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	key := setKey(v)
	if _, ok := s.index[key]; ok {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	s.index[key] = struct{}{}
	s.values = append(s.values, v)
	return true
}

// Contains reports whether v is in the set.
func (s Set) Contains(v string) bool {
	_, ok := s.index[setKey(strings.TrimSpace(v))]
	return ok
}

// Len returns the number of members.
func (s Set) Len() int {
	return len(s.values)
}

// Values returns the members in insertion order.
func (s Set) Values() []string {
	if len(s.values) == 0 {
		return nil
	}
	out := make([]string, len(s.values))
	copy(out, s.values)
	return out
}

// Equal reports set equality, ignoring order.
func (s Set) Equal(other Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	for key := range s.index {
		if _, ok := other.index[key]; !ok {
			return false
		}
	}
	return true
}

func setKey(v string) string {
	if key := names.Normalize(v); key != "" {
		return key
	}
	return v
}

// valueDelimiters separate compound values such as "Action, Adventure".
const valueDelimiters = ",/|;"

// SplitValues splits each value on the collection delimiters and trims the
// parts, dropping blanks.
func SplitValues(values ...string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.FieldsFunc(v, func(r rune) bool {
			return strings.ContainsRune(valueDelimiters, r)
		}) {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
