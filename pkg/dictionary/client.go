// Package dictionary talks to the remote word services: a collegiate-style
// dictionary API for senses and pronunciation audio, and a Datamuse-style
// endpoint for synonyms.
package dictionary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/tidwall/gjson"
)

const (
	defaultTimeout = 5 * time.Second
	userAgent      = "vocabtrack-cli"

	// maxResponseSize caps dictionary payloads; entries are small.
	maxResponseSize = 2 * 1024 * 1024

	audioBaseURL = "https://media.merriam-webster.com/audio/prons/en/us/mp3"
)

// Client queries the dictionary API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a dictionary client. timeout <= 0 selects the default;
// the timeout doubles as the bound on the resolver's validation lookups.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Lookup fetches the entry for word. A miss is not an error: the returned
// Entry has no senses and may carry spelling suggestions.
func (c *Client) Lookup(ctx context.Context, word string) (*Entry, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return nil, fmt.Errorf("word must be non-empty")
	}

	u := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(word))
	if c.apiKey != "" {
		u += "?key=" + url.QueryEscape(c.apiKey)
	}
	body, err := c.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("dictionary lookup %q: %w", word, err)
	}
	entry, err := parseEntry(body)
	if err != nil {
		return nil, fmt.Errorf("dictionary lookup %q: %w", word, err)
	}
	return entry, nil
}

// Exists reports whether a fresh lookup for word returns at least one
// sense. It is the validation callback handed to the root resolver.
func (c *Client) Exists(ctx context.Context, word string) (bool, error) {
	entry, err := c.Lookup(ctx, word)
	if err != nil {
		return false, err
	}
	return entry.Found(), nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
}

// parseEntry shapes the raw JSON into an Entry. The source answers with an
// array: entry objects on a hit, bare suggestion strings on a miss.
func parseEntry(body []byte) (*Entry, error) {
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, fmt.Errorf("unexpected response shape")
	}

	entry := &Entry{}
	items := root.Array()
	if len(items) > 0 && items[0].Type == gjson.String {
		for _, s := range items {
			entry.Suggestions = append(entry.Suggestions, s.String())
		}
		return entry, nil
	}

	for i, item := range items {
		if i == 0 {
			entry.CanonicalID = item.Get("meta.id").String()
			if ref := item.Get("hwi.prs.0.sound.audio").String(); ref != "" {
				entry.AudioURL = audioURL(ref)
			}
		}

		sense := Sense{
			PartOfSpeech:   item.Get("fl").String(),
			Headword:       strings.ReplaceAll(item.Get("hwi.hw").String(), "*", ""),
			CrossReference: crossReference(item),
		}
		if sense.PartOfSpeech == "" {
			sense.PartOfSpeech = "unknown"
		}
		item.Get("shortdef").ForEach(func(_, def gjson.Result) bool {
			if d := def.String(); d != "" {
				sense.Definitions = append(sense.Definitions, d)
			}
			return true
		})
		entry.Senses = append(entry.Senses, sense)
	}
	return entry, nil
}

// crossReference extracts the first "see X" target of an entry, with any
// homograph suffix removed.
func crossReference(item gjson.Result) string {
	ref := item.Get("cxs.0.cxtis.0.cxt").String()
	if i := strings.IndexByte(ref, ':'); i >= 0 {
		ref = ref[:i]
	}
	return ref
}

// audioURL resolves an audio reference to a playable URL. The source files
// live in a subdirectory named after the reference: literal "bix" and "gg"
// groups, "number" for references starting with a non-letter, otherwise
// the first letter.
func audioURL(ref string) string {
	var sub string
	switch {
	case strings.HasPrefix(ref, "bix"):
		sub = "bix"
	case strings.HasPrefix(ref, "gg"):
		sub = "gg"
	case !unicode.IsLetter(rune(ref[0])):
		sub = "number"
	default:
		sub = ref[:1]
	}
	return fmt.Sprintf("%s/%s/%s.mp3", audioBaseURL, sub, ref)
}
