// Package mention resolves @Name tokens in note text to known users.
//
// The user set is indexed up front: names are normalized (lowercased,
// whitespace collapsed) into a lookup map, and extraction applies a
// longest-match policy so "@John Smith" resolves to the user named
// "John Smith" rather than a user named "John".
package mention

import (
	"strings"
	"unicode"
)

// UserRef is the minimal view of a user the resolver needs.
type UserRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Index maps normalized display names to user IDs.
// Build a new Index whenever the user set changes; lookups are read-only
// and safe for concurrent use after construction.
type Index struct {
	byName    map[string]string // normalized name -> user ID
	users     []UserRef         // insertion order, for suggestions
	maxTokens int               // longest known name, in words
}

// NewIndex builds an index over the given users.
// If two users normalize to the same name, the first one wins.
func NewIndex(users []UserRef) *Index {
	ix := &Index{
		byName: make(map[string]string, len(users)),
		users:  make([]UserRef, 0, len(users)),
	}
	for _, u := range users {
		key := Normalize(u.Name)
		if key == "" {
			continue
		}
		if _, taken := ix.byName[key]; taken {
			continue
		}
		ix.byName[key] = u.ID
		ix.users = append(ix.users, u)
		if n := len(strings.Fields(key)); n > ix.maxTokens {
			ix.maxTokens = n
		}
	}
	return ix
}

// Normalize lowercases a display name and collapses runs of whitespace,
// so matching is case-insensitive and layout-insensitive.
func Normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Extract scans text for @Name mentions and returns the IDs of known users,
// ordered by first appearance with duplicates collapsed.
//
// A mention candidate is the longest run of word tokens separated by single
// spaces following an '@'. Longest match wins: the full run is tried first,
// then one trailing token is dropped at a time until a known name matches.
// Candidates that never match a known name are silently dropped. A bare or
// trailing '@' yields no match.
func (ix *Index) Extract(text string) []string {
	var ids []string
	seen := make(map[string]bool)

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '@' {
			continue
		}

		tokens, end := scanTokens(runes, i+1, ix.maxTokens)
		if len(tokens) == 0 {
			continue
		}

		// Back off from the longest token run to the shortest.
		for k := len(tokens); k >= 1; k-- {
			key := strings.ToLower(strings.Join(tokens[:k], " "))
			userID, ok := ix.byName[key]
			if !ok {
				continue
			}
			if !seen[userID] {
				seen[userID] = true
				ids = append(ids, userID)
			}
			break
		}

		// The whole token run is consumed whether or not it resolved.
		i = end - 1
	}

	return ids
}

// ResolveNames resolves raw name strings (the tagged names a client collected
// while the note was typed) to user IDs by exact, case-insensitive equality.
// Unresolved names are dropped; duplicates collapse to one, preserving first
// appearance.
func (ix *Index) ResolveNames(names []string) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, name := range names {
		userID, ok := ix.byName[Normalize(name)]
		if !ok || seen[userID] {
			continue
		}
		seen[userID] = true
		ids = append(ids, userID)
	}
	return ids
}

// Suggest returns users whose display name starts with the given prefix,
// case-insensitively, in index order. Used by the live typeahead while a
// mention is being typed. A limit <= 0 means no limit.
func (ix *Index) Suggest(prefix string, limit int) []UserRef {
	key := Normalize(prefix)
	if key == "" {
		return nil
	}

	var out []UserRef
	for _, u := range ix.users {
		if !strings.HasPrefix(Normalize(u.Name), key) {
			continue
		}
		out = append(out, u)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// Len returns the number of indexed users.
func (ix *Index) Len() int {
	return len(ix.users)
}

// scanTokens collects up to maxTokens word tokens starting at position start,
// where tokens are separated by exactly one space. It returns the tokens and
// the position just past the last consumed token.
func scanTokens(runes []rune, start, maxTokens int) ([]string, int) {
	var tokens []string
	pos := start

	for len(tokens) < maxTokens {
		tokenStart := pos
		for pos < len(runes) && isWordRune(runes[pos]) {
			pos++
		}
		if pos == tokenStart {
			break
		}
		tokens = append(tokens, string(runes[tokenStart:pos]))

		// Continue only across a single space followed by another word rune.
		if pos+1 < len(runes) && runes[pos] == ' ' && isWordRune(runes[pos+1]) {
			pos++
			continue
		}
		break
	}

	return tokens, pos
}

// isWordRune mirrors the \w character class: letters, digits, underscore.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
