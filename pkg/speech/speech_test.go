package speech

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

func TestFetchCachesAudio(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Query().Get("q") != "petrichor" || r.URL.Query().Get("tl") != "en" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	s := NewSynthesizer(srv.URL, "en", dir, time.Second)

	path := s.Fetch(context.Background(), "petrichor")
	if path == Placeholder {
		t.Fatal("expected a cached file, got placeholder")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read cached file: %v", err)
	}
	if string(data) != "mp3-bytes" {
		t.Fatalf("cached content = %q", data)
	}

	// Second fetch must come from the cache.
	if again := s.Fetch(context.Background(), "petrichor"); again != path {
		t.Fatalf("second fetch = %q, want %q", again, path)
	}
	if requests != 1 {
		t.Fatalf("server hit %d times, want 1", requests)
	}
}

func TestFetchFailureYieldsPlaceholder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no", http.StatusForbidden)
	}))
	defer srv.Close()

	s := NewSynthesizer(srv.URL, "en", t.TempDir(), time.Second)
	if got := s.Fetch(context.Background(), "word"); got != Placeholder {
		t.Fatalf("got %q, want placeholder", got)
	}
}

func TestFetchEmptyText(t *testing.T) {
	s := NewSynthesizer("http://unused", "en", t.TempDir(), time.Second)
	if got := s.Fetch(context.Background(), "   "); got != Placeholder {
		t.Fatalf("got %q, want placeholder", got)
	}
}

func TestCacheName(t *testing.T) {
	if got := cacheName("Hello World"); got != "hello_world.mp3" {
		t.Errorf("cacheName = %q", got)
	}
	// Non-ASCII text still gets a stable name.
	a, b := cacheName("猫が好き"), cacheName("猫が好き")
	if a != b || !strings.HasSuffix(a, ".mp3") {
		t.Errorf("hashed names differ or malformed: %q vs %q", a, b)
	}
}
