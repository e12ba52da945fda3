package lemma

import (
	"context"
	"strings"
)

// Provenance records where a root candidate came from and therefore how
// much it is trusted. Redirect and cross-reference candidates come from
// the dictionary's own metadata and are accepted outright; heuristic
// candidates must be confirmed by a live lookup.
type Provenance string

const (
	ProvenanceRedirect       Provenance = "redirect"
	ProvenanceCrossReference Provenance = "cross-reference"
	ProvenanceHeuristic      Provenance = "heuristic"
)

// Candidate is a resolved base-form hypothesis for a query word. Word is
// title-cased for display.
type Candidate struct {
	Word       string     `json:"word"`
	Provenance Provenance `json:"provenance"`
}

// Validator reports whether a word exists in the dictionary. The resolver
// treats any error as a failed validation.
type Validator func(ctx context.Context, word string) (bool, error)

// ResolveRoot picks the most plausible base form for query, or nil when
// none can be trusted.
//
// canonicalID is the dictionary's identifier for the matched entry,
// possibly carrying a ":n" homograph suffix; crossRefs are the explicit
// "see X" targets collected from the senses. The layers run in strict
// priority order and the first success wins:
//
//  1. redirect: the canonical id, when it is not already contained in the
//     normalized query (an id contained in the query is taken to name the
//     same entry),
//  2. cross-reference: the first non-empty target that differs from the
//     query,
//  3. a redirect or cross-reference candidate is deepened by one further
//     derivation when the deeper form passes validation,
//  4. otherwise a pure heuristic derivation of the query, accepted only
//     when it passes validation.
//
// validate is invoked at most once per call. ResolveRoot never fails; the
// root hint is an enhancement, not a required result.
func ResolveRoot(ctx context.Context, query, canonicalID string, crossRefs []string, validate Validator) *Candidate {
	q := Normalize(query)

	var cand *Candidate
	if id := Normalize(stripHomograph(canonicalID)); id != "" && !strings.Contains(q, id) {
		cand = &Candidate{Word: id, Provenance: ProvenanceRedirect}
	}
	if cand == nil {
		for _, ref := range crossRefs {
			if r := Normalize(ref); r != "" && r != q {
				cand = &Candidate{Word: r, Provenance: ProvenanceCrossReference}
				break
			}
		}
	}

	if cand != nil {
		// The dictionary may redirect "fattiest" only as far as "fatty";
		// the stripper can often take that one step further. The deeper
		// form is trusted only when a live lookup confirms it.
		if deeper := DeriveRoot(cand.Word); deeper != "" && deeper != q && confirmed(ctx, validate, deeper) {
			cand.Word = deeper
		}
		cand.Word = TitleCase(cand.Word)
		return cand
	}

	guess := DeriveRoot(q)
	if guess == "" || !confirmed(ctx, validate, guess) {
		// An unvalidated guess is worse than no root at all.
		return nil
	}
	return &Candidate{Word: TitleCase(guess), Provenance: ProvenanceHeuristic}
}

// confirmed wraps the validation callback so a flaky lookup can never
// abort the enclosing flow.
func confirmed(ctx context.Context, validate Validator, word string) bool {
	if validate == nil {
		return false
	}
	ok, err := validate(ctx, word)
	return err == nil && ok
}

// stripHomograph removes a trailing ":n" disambiguation from a canonical
// id ("swim:1" -> "swim").
func stripHomograph(id string) string {
	if i := strings.IndexByte(id, ':'); i >= 0 {
		return id[:i]
	}
	return id
}
