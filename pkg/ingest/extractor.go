package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
)

// maxBodySize caps fetched HTML to protect against untrusted URLs.
const maxBodySize = 10 * 1024 * 1024

// FetchArticle downloads rawURL and extracts the readable article text.
func FetchArticle(ctx context.Context, rawURL string) (title, text string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("create request: %w", err)
	}
	// Mimic a browser; some sites block default Go clients.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", "", fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) >= int64(maxBodySize) {
		return "", "", fmt.Errorf("fetch %s: body exceeds %d bytes", rawURL, maxBodySize)
	}

	parsedURL, _ := url.Parse(rawURL)
	article, err := readability.FromReader(bytes.NewReader(body), parsedURL)
	if err != nil {
		return "", "", fmt.Errorf("extract article: %w", err)
	}
	return article.Title, article.TextContent, nil
}

var wordRe = regexp.MustCompile(`[a-zA-Z]+`)

// stopWords are ubiquitous words never worth a flashcard.
var stopWords = map[string]bool{
	"about": true, "after": true, "again": true, "also": true, "been": true,
	"before": true, "being": true, "between": true, "both": true, "could": true,
	"each": true, "from": true, "have": true, "having": true, "here": true,
	"into": true, "just": true, "more": true, "most": true, "only": true,
	"other": true, "over": true, "same": true, "should": true, "some": true,
	"such": true, "than": true, "that": true, "their": true, "them": true,
	"then": true, "there": true, "these": true, "they": true, "this": true,
	"those": true, "through": true, "under": true, "very": true, "were": true,
	"what": true, "when": true, "where": true, "which": true,
	"while": true, "will": true, "with": true, "would": true, "your": true,
}

// ExtractWords returns the candidate vocabulary words of text: lowercase
// letter-only tokens of at least minLen characters, stop words dropped,
// deduplicated in order of first appearance.
func ExtractWords(text string, minLen int) []string {
	if minLen <= 0 {
		minLen = 4
	}
	var words []string
	seen := make(map[string]bool)
	for _, tok := range wordRe.FindAllString(text, -1) {
		w := strings.ToLower(tok)
		if len(w) < minLen || stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		words = append(words, w)
	}
	return words
}
