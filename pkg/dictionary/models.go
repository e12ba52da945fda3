package dictionary

// Sense is one dictionary entry for a query: a part-of-speech label, the
// short definitions in order, the headword as listed (syllable markers
// stripped), and an optional explicit "see X" target.
type Sense struct {
	PartOfSpeech   string   `json:"partOfSpeech"`
	Definitions    []string `json:"definitions"`
	Headword       string   `json:"headword,omitempty"`
	CrossReference string   `json:"crossReference,omitempty"`
}

// Entry aggregates everything the dictionary returned for one query.
type Entry struct {
	// Senses is empty when the word was not found.
	Senses []Sense `json:"senses"`
	// CanonicalID is the source's identifier for the first matched entry.
	// It may differ from the query (querying "swimming" can return
	// "swim") and may carry a ":n" homograph suffix.
	CanonicalID string `json:"canonicalId,omitempty"`
	// AudioURL is a playable pronunciation URL, when the source has one.
	AudioURL string `json:"audioUrl,omitempty"`
	// Suggestions holds the source's own spelling suggestions when
	// nothing matched.
	Suggestions []string `json:"suggestions,omitempty"`
}

// Found reports whether the lookup matched at least one sense.
func (e *Entry) Found() bool { return len(e.Senses) > 0 }

// CrossReferences collects the non-empty cross-reference targets across
// all senses, in sense order.
func (e *Entry) CrossReferences() []string {
	var refs []string
	for _, s := range e.Senses {
		if s.CrossReference != "" {
			refs = append(refs, s.CrossReference)
		}
	}
	return refs
}
