package dictionary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// SynonymClient queries a Datamuse-style related-words endpoint.
type SynonymClient struct {
	baseURL string
	http    *http.Client
}

// NewSynonymClient creates a synonym client. timeout <= 0 selects the
// default.
func NewSynonymClient(baseURL string, timeout time.Duration) *SynonymClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &SynonymClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Synonyms returns up to max words related to word. An empty result is
// normal for rare words.
func (c *SynonymClient) Synonyms(ctx context.Context, word string, max int) ([]string, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return nil, fmt.Errorf("word must be non-empty")
	}
	if max <= 0 {
		max = 5
	}

	u := fmt.Sprintf("%s/words?rel_syn=%s&max=%d", c.baseURL, url.QueryEscape(word), max)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synonyms for %q: %w", word, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("synonyms for %q: unexpected status: %s", word, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("synonyms for %q: %w", word, err)
	}

	var out []string
	gjson.ParseBytes(body).ForEach(func(_, item gjson.Result) bool {
		if w := item.Get("word").String(); w != "" {
			out = append(out, w)
		}
		return len(out) < max
	})
	return out, nil
}
