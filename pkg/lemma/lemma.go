// Package lemma derives a plausible base ("root") form for an inflected
// English word. A rule-based stripper reduces suffixes one hop at a time,
// and a resolver layers the dictionary's own redirect and cross-reference
// metadata over the heuristic, validating untrusted guesses with a live
// lookup before surfacing them.
package lemma

import "strings"

// maxHops bounds the number of stripping passes in one derivation.
const maxHops = 3

// Normalize lowercases and trims a word the way every internal comparison
// expects it.
func Normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// TitleCase uppercases the first letter for display.
func TitleCase(word string) string {
	if word == "" {
		return ""
	}
	return strings.ToUpper(word[:1]) + word[1:]
}

// DeriveRoot repeatedly strips suffixes from word, feeding each result
// back in, for at most three hops. It stops early when a hop produces
// nothing or the candidate drops under three letters. A result equal to
// the normalized input is a no-op reduction and returns "".
func DeriveRoot(word string) string {
	start := Normalize(word)
	cur := start
	for hop := 0; hop < maxHops; hop++ {
		next := Strip(cur)
		if next == "" {
			break
		}
		cur = next
		if len(cur) < 3 {
			break
		}
	}
	if cur == start {
		return ""
	}
	return cur
}
