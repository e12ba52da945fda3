// Package speech fetches spoken audio for words and translated phrases
// from a translate-TTS-style endpoint and caches the MP3 files locally.
// Audio is an enhancement: every failure degrades to a placeholder value
// instead of an error.
package speech

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// Placeholder is stored as the audio reference when no audio could be
// fetched.
const Placeholder = "no audio available"

const (
	defaultTimeout = 5 * time.Second
	maxAudioSize   = 5 * 1024 * 1024
)

// Synthesizer downloads and caches pronunciation audio.
type Synthesizer struct {
	baseURL string
	lang    string
	dir     string
	http    *http.Client
}

// NewSynthesizer creates a synthesizer caching files under dir. lang is
// the spoken language code (e.g. "en"). timeout <= 0 selects the default.
func NewSynthesizer(baseURL, lang, dir string, timeout time.Duration) *Synthesizer {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if lang == "" {
		lang = "en"
	}
	return &Synthesizer{
		baseURL: strings.TrimRight(baseURL, "/"),
		lang:    lang,
		dir:     dir,
		http:    &http.Client{Timeout: timeout},
	}
}

// Fetch returns the cached audio path for text, downloading it first when
// missing. On any failure it returns Placeholder.
func (s *Synthesizer) Fetch(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return Placeholder
	}
	dest := filepath.Join(s.dir, cacheName(text))
	if _, err := os.Stat(dest); err == nil {
		return dest
	}
	if err := s.download(ctx, text, dest); err != nil {
		return Placeholder
	}
	return dest
}

func (s *Synthesizer) download(ctx context.Context, text, dest string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	u := fmt.Sprintf("%s?ie=UTF-8&client=tw-ob&tl=%s&q=%s",
		s.baseURL, url.QueryEscape(s.lang), url.QueryEscape(text))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tts: unexpected status: %s", resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, io.LimitReader(resp.Body, maxAudioSize)); err != nil {
		os.Remove(dest)
		return err
	}
	return nil
}

// cacheName builds a stable file name for text: the leading letters and
// digits when there are any, otherwise a hash, so phrases in any script
// get a usable name.
func cacheName(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if b.Len() >= 40 {
			break
		}
		switch {
		case r <= unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case r == ' ' || r == '-':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		h := fnv.New64a()
		h.Write([]byte(text))
		return fmt.Sprintf("%x.mp3", h.Sum64())
	}
	return b.String() + ".mp3"
}
