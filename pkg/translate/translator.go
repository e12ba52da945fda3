// Package translate implements the translator mode: foreign text is
// converted to the target language through a JSON translation service,
// with unsegmented Japanese input tokenized first so individual words can
// be offered for saving.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	defaultTimeout  = 5 * time.Second
	maxResponseSize = 1 * 1024 * 1024
)

// Translator calls a LibreTranslate-style endpoint.
type Translator struct {
	baseURL string
	http    *http.Client
}

// NewTranslator creates a translator client. timeout <= 0 selects the
// default.
func NewTranslator(baseURL string, timeout time.Duration) *Translator {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Translator{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Translate converts text into the target language. An empty source means
// service-side detection.
func (t *Translator) Translate(ctx context.Context, text, source, target string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("text must be non-empty")
	}
	if target == "" {
		return "", fmt.Errorf("target language must be non-empty")
	}
	if source == "" {
		source = "auto"
	}

	payload, err := json.Marshal(map[string]string{
		"q":      text,
		"source": source,
		"target": target,
		"format": "text",
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/translate", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate: unexpected status: %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}

	out := gjson.GetBytes(body, "translatedText").String()
	if out == "" {
		return "", fmt.Errorf("translate: empty translation in response")
	}
	return out, nil
}
