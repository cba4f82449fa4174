// Package names canonicalizes game titles.
//
// Two keys are derived from a display name. Normalize produces the identity
// key used to decide whether two source records describe the same game, and
// Slugify produces the folder name the game is stored under. FolderKey is the
// looser key used to find folders that differ only by spacing or underscores.
package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Normalize returns the identity key for a display name.
//
// The name is case folded, every character that is not a letter, digit,
// whitespace, '-' or '_' is removed, whitespace runs collapse to a single
// space and the result is trimmed. Normalize is idempotent.
func Normalize(name string) string {
	folded := cases.Fold().String(name)

	var b strings.Builder
	b.Grow(len(folded))
	pendingSpace := false
	for _, r := range folded {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
		case keep(r):
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Same reports whether two display names share an identity key.
func Same(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// Slugify returns the folder name for a display name.
//
// Disallowed characters are removed, surrounding whitespace is trimmed and
// each remaining whitespace character becomes '_'. Case is preserved.
func Slugify(name string) string {
	var filtered strings.Builder
	filtered.Grow(len(name))
	for _, r := range name {
		if unicode.IsSpace(r) || keep(r) {
			filtered.WriteRune(r)
		}
	}

	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(filtered.String()))
}

// FolderKey returns the duplicate detection key for an existing folder name.
// Whitespace and underscores are dropped and the rest is case folded, so
// "Hollow_Knight" and "HollowKnight" share a key.
func FolderKey(folder string) string {
	folded := cases.Fold().String(folder)
	return strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, folded)
}

func keep(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_'
}
