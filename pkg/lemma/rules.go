package lemma

import "strings"

// rule is a single suffix-stripping step. match reports whether the rule
// applies to w; apply produces the reduced form. The table is evaluated in
// order and the first matching rule wins, so overlapping suffixes ("-lly"
// vs "-ly", "-ied" inside "-ed") resolve by position.
type rule struct {
	match func(w string) bool
	apply func(w string) string
}

// undouble drops the final letter when the word ends in a doubled
// consonant introduced by suffixation (runn -> run).
func undouble(w string) string {
	if len(w) >= 2 && w[len(w)-1] == w[len(w)-2] {
		return w[:len(w)-1]
	}
	return w
}

func cut(w, suffix string) string { return w[:len(w)-len(suffix)] }

// esStrippable reports whether a trailing "-es" may be removed: the letter
// before it must be one of s/x/z/h (boxes, wishes) and the word must be
// longer than four letters.
func esStrippable(w string) bool {
	return strings.HasSuffix(w, "es") && len(w) > 4 &&
		strings.ContainsRune("sxzh", rune(w[len(w)-3]))
}

// rules is the ordered stripping table.
var rules = []rule{
	{
		// -lly: smelly -> smell. These are usually adjectives built on a
		// noun that already ends in l, so only the final letter goes.
		match: func(w string) bool { return strings.HasSuffix(w, "lly") },
		apply: func(w string) string { return w[:len(w)-1] },
	},
	{
		// -ing: running -> runn -> run
		match: func(w string) bool { return strings.HasSuffix(w, "ing") },
		apply: func(w string) string { return undouble(cut(w, "ing")) },
	},
	{
		// -ed, with tried -> try
		match: func(w string) bool { return strings.HasSuffix(w, "ed") },
		apply: func(w string) string {
			if strings.HasSuffix(w, "ied") {
				return cut(w, "ied") + "y"
			}
			return undouble(cut(w, "ed"))
		},
	},
	{
		// -ly, with happily -> happy
		match: func(w string) bool { return strings.HasSuffix(w, "ly") },
		apply: func(w string) string {
			if strings.HasSuffix(w, "ily") {
				return cut(w, "ily") + "y"
			}
			return cut(w, "ly")
		},
	},
	{
		// plurals: cities -> city, boxes -> box, cats -> cat.
		// Words ending in -ss (class) are left alone.
		match: func(w string) bool {
			return strings.HasSuffix(w, "ies") || esStrippable(w) ||
				(strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss"))
		},
		apply: func(w string) string {
			switch {
			case strings.HasSuffix(w, "ies"):
				return cut(w, "ies") + "y"
			case esStrippable(w):
				return cut(w, "es")
			default:
				return cut(w, "s")
			}
		},
	},
	{
		// -er, with happier -> happy, runner -> run
		match: func(w string) bool { return strings.HasSuffix(w, "er") },
		apply: func(w string) string {
			if strings.HasSuffix(w, "ier") {
				return cut(w, "ier") + "y"
			}
			return undouble(cut(w, "er"))
		},
	},
	{
		// -est, with fattiest -> fatty
		match: func(w string) bool { return strings.HasSuffix(w, "est") },
		apply: func(w string) string {
			if strings.HasSuffix(w, "iest") {
				return cut(w, "iest") + "y"
			}
			return undouble(cut(w, "est"))
		},
	},
	{
		// -y catch-all, lowest priority: fatty -> fatt -> fat
		match: func(w string) bool { return strings.HasSuffix(w, "y") },
		apply: func(w string) string { return undouble(cut(w, "y")) },
	},
}

// Strip applies the first matching suffix rule to word and returns the
// reduced form, or "" when no rule matches. Words shorter than four
// letters never match; the floor keeps short roots from being mangled.
// The input is expected lowercase and trimmed (see Normalize).
func Strip(word string) string {
	if len(word) < 4 {
		return ""
	}
	for _, r := range rules {
		if r.match(word) {
			return r.apply(word)
		}
	}
	return ""
}
