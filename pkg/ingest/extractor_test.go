package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Ocean Currents</title></head>
<body>
<article>
<h1>Ocean Currents</h1>
<p>The thermohaline circulation moves enormous volumes of water between the
tropical and polar regions. Scientists measure salinity and temperature to
track these sluggish underwater rivers. The circulation has weakened in
recent decades, and researchers debate whether the trend will continue.</p>
<p>Buoys scattered across the Atlantic report conditions hourly, and the
resulting datasets are enormous.</p>
</article>
</body>
</html>`

func TestFetchArticle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "Mozilla") {
			t.Errorf("expected browser user agent, got %q", ua)
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	title, text, err := FetchArticle(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !strings.Contains(title, "Ocean Currents") {
		t.Errorf("title = %q", title)
	}
	if !strings.Contains(text, "thermohaline") {
		t.Errorf("text missing article body: %q", text)
	}
}

func TestFetchArticleBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	if _, _, err := FetchArticle(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestExtractWords(t *testing.T) {
	text := "The sluggish current, the SLUGGISH tide; cats ran over there quickly."
	got := ExtractWords(text, 4)
	want := []string{"sluggish", "current", "tide", "cats", "quickly"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractWords = %v, want %v", got, want)
	}
}

func TestExtractWordsDefaultMinLen(t *testing.T) {
	got := ExtractWords("an ox ran far away", 0)
	// Three-letter and shorter tokens are dropped by the default floor.
	want := []string{"away"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractWords = %v, want %v", got, want)
	}
}
