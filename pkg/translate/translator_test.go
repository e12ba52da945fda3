package translate

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		var req map[string]string
		if err := json.Unmarshal(body, &req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if req["q"] != "猫が好きです" || req["target"] != "en" || req["source"] != "auto" {
			t.Errorf("unexpected payload: %v", req)
		}
		w.Write([]byte(`{"translatedText":"I like cats"}`))
	}))
	defer srv.Close()

	tr := NewTranslator(srv.URL, time.Second)
	got, err := tr.Translate(context.Background(), "猫が好きです", "", "en")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got != "I like cats" {
		t.Fatalf("translation = %q", got)
	}
}

func TestTranslateErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()
	tr := NewTranslator(srv.URL, time.Second)

	if _, err := tr.Translate(context.Background(), "", "", "en"); err == nil {
		t.Error("expected error for empty text")
	}
	if _, err := tr.Translate(context.Background(), "hello", "", ""); err == nil {
		t.Error("expected error for empty target")
	}
	if _, err := tr.Translate(context.Background(), "hello", "", "ja"); err == nil {
		t.Error("expected error for empty translation in response")
	}
}

func TestTranslateBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()
	tr := NewTranslator(srv.URL, time.Second)
	if _, err := tr.Translate(context.Background(), "hello", "", "ja"); err == nil {
		t.Fatal("expected error on bad status")
	}
}

func TestSegment(t *testing.T) {
	seg, err := NewSegmenter()
	if err != nil {
		t.Fatalf("new segmenter: %v", err)
	}
	tokens := seg.Segment("私は毎日走っています。")
	if len(tokens) == 0 {
		t.Fatal("no tokens")
	}
	// At least one token should have a base form differing from its
	// surface (the conjugated verb).
	conjugated := false
	for _, tok := range tokens {
		if tok.BaseForm != "" && tok.BaseForm != tok.Surface {
			conjugated = true
			break
		}
	}
	if !conjugated {
		t.Error("expected a conjugated token with a distinct base form")
	}
}

func TestContentWords(t *testing.T) {
	seg, err := NewSegmenter()
	if err != nil {
		t.Fatalf("new segmenter: %v", err)
	}
	words := seg.ContentWords("猫が好きです。")
	if len(words) == 0 {
		t.Fatal("no content words")
	}
	for _, w := range words {
		if w == "が" || w == "。" {
			t.Errorf("particle or symbol %q leaked into content words", w)
		}
	}
}

func TestContainsJapanese(t *testing.T) {
	if !ContainsJapanese("走る") || !ContainsJapanese("カタカナ") || !ContainsJapanese("ひらがな") {
		t.Error("expected Japanese detection for kana/kanji")
	}
	if ContainsJapanese("plain english text") {
		t.Error("false positive on plain English")
	}
}

func TestToHiragana(t *testing.T) {
	if got := ToHiragana("ネコ"); got != "ねこ" {
		t.Fatalf("ToHiragana = %q", got)
	}
}
