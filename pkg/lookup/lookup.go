// Package lookup combines the dictionary, synonym and root-resolution
// pieces into the single result the presentation layer renders.
package lookup

import (
	"context"
	"fmt"
	"strings"

	"github.com/japaniel/vocabtrack/pkg/dictionary"
	"github.com/japaniel/vocabtrack/pkg/lemma"
)

// Dictionary is the slice of the dictionary client the service uses.
type Dictionary interface {
	Lookup(ctx context.Context, word string) (*dictionary.Entry, error)
	Exists(ctx context.Context, word string) (bool, error)
}

// SynonymSource returns up to max related words.
type SynonymSource interface {
	Synonyms(ctx context.Context, word string, max int) ([]string, error)
}

// Service orchestrates one interactive lookup.
type Service struct {
	Dict Dictionary
	// Syn is optional; a nil source simply yields no synonyms.
	Syn SynonymSource
	// MaxSynonyms caps the synonym list (default 5).
	MaxSynonyms int
}

// Result is everything a lookup produced for one query.
type Result struct {
	Word          string           `json:"word"`
	PartsOfSpeech []string         `json:"partsOfSpeech,omitempty"`
	Definitions   []string         `json:"definitions,omitempty"`
	Root          *lemma.Candidate `json:"root,omitempty"`
	Synonyms      []string         `json:"synonyms,omitempty"`
	AudioURL      string           `json:"audioUrl,omitempty"`
	Suggestions   []string         `json:"suggestions,omitempty"`
}

// Found reports whether the dictionary matched the query.
func (r *Result) Found() bool { return len(r.Definitions) > 0 }

// DefinitionText flattens the numbered definitions into the single block
// persisted with a saved word.
func (r *Result) DefinitionText() string { return strings.Join(r.Definitions, "\n") }

// Lookup runs one query: fetch senses, shape definitions, resolve the
// root, gather synonyms. Root resolution and synonym failures never fail
// the lookup; a dictionary failure does.
func (s *Service) Lookup(ctx context.Context, query string) (*Result, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, fmt.Errorf("query must be non-empty")
	}

	entry, err := s.Dict.Lookup(ctx, q)
	if err != nil {
		return nil, err
	}

	res := &Result{Word: lemma.TitleCase(lemma.Normalize(q))}
	if !entry.Found() {
		res.Suggestions = entry.Suggestions
		return res, nil
	}

	seenPOS := make(map[string]bool)
	for _, sense := range entry.Senses {
		if !seenPOS[sense.PartOfSpeech] {
			seenPOS[sense.PartOfSpeech] = true
			res.PartsOfSpeech = append(res.PartsOfSpeech, sense.PartOfSpeech)
		}
		// Definitions are numbered locally within each sense and carry
		// the sense's part of speech as a prefix.
		for i, d := range sense.Definitions {
			res.Definitions = append(res.Definitions, fmt.Sprintf("%s %d. %s", sense.PartOfSpeech, i+1, d))
		}
	}
	res.AudioURL = entry.AudioURL

	res.Root = lemma.ResolveRoot(ctx, q, entry.CanonicalID, entry.CrossReferences(), s.validator())

	if s.Syn != nil {
		max := s.MaxSynonyms
		if max <= 0 {
			max = 5
		}
		if syns, err := s.Syn.Synonyms(ctx, q, max); err == nil {
			res.Synonyms = syns
		}
	}
	return res, nil
}

// validator adapts the dictionary's existence check for the resolver.
func (s *Service) validator() lemma.Validator {
	if s.Dict == nil {
		return nil
	}
	return func(ctx context.Context, word string) (bool, error) {
		return s.Dict.Exists(ctx, word)
	}
}
