package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/japaniel/vocabtrack/pkg/db"
	"github.com/japaniel/vocabtrack/pkg/lookup"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	conn.SetMaxOpenConns(1)
	if err := db.InitDB(conn); err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

type fakeLookup struct {
	results map[string]*lookup.Result
	err     error
}

func (f *fakeLookup) Lookup(ctx context.Context, query string) (*lookup.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	if res, ok := f.results[strings.ToLower(query)]; ok {
		return res, nil
	}
	return &lookup.Result{Word: query}, nil
}

type fakeTranslator struct{ out string }

func (f *fakeTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if f.out == "" {
		return "", fmt.Errorf("no translation")
	}
	return f.out, nil
}

func newTestServer(t *testing.T) (*Server, *sql.DB) {
	t.Helper()
	conn := setupTestDB(t)
	srv := &Server{
		DB: conn,
		Lookup: &fakeLookup{results: map[string]*lookup.Result{
			"swimming": {
				Word:          "Swimming",
				PartsOfSpeech: []string{"verb"},
				Definitions:   []string{"verb 1. to move through water"},
				AudioURL:      "https://example.com/swim.mp3",
			},
		}},
		Translator: &fakeTranslator{out: "I like cats"},
	}
	return srv, conn
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestLookupEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	w := doRequest(t, h, http.MethodGet, "/api/lookup?word=swimming", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var res lookup.Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Word != "Swimming" || len(res.Definitions) != 1 {
		t.Errorf("result = %+v", res)
	}
}

func TestLookupEndpointMiss(t *testing.T) {
	srv, _ := newTestServer(t)
	w := doRequest(t, srv.Handler(), http.MethodGet, "/api/lookup?word=zzqqx", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestLookupEndpointMissingParam(t *testing.T) {
	srv, _ := newTestServer(t)
	w := doRequest(t, srv.Handler(), http.MethodGet, "/api/lookup", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSaveWordLooksUpBareWord(t *testing.T) {
	srv, conn := newTestServer(t)
	h := srv.Handler()

	w := doRequest(t, h, http.MethodPost, "/api/words", `{"word":"swimming"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	saved, err := db.GetWord(conn, "swimming")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if saved.Definition != "verb 1. to move through water" {
		t.Errorf("definition = %q", saved.Definition)
	}
	if saved.AudioRef != "https://example.com/swim.mp3" {
		t.Errorf("audio = %q", saved.AudioRef)
	}
}

func TestSaveWordWithExplicitFields(t *testing.T) {
	srv, conn := newTestServer(t)
	body := `{"word":"tide","definition":"noun 1. rise and fall of the sea","partOfSpeech":"noun"}`
	w := doRequest(t, srv.Handler(), http.MethodPost, "/api/words", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	saved, err := db.GetWord(conn, "tide")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if saved.PartOfSpeech != "noun" {
		t.Errorf("pos = %q", saved.PartOfSpeech)
	}
}

func TestSaveWordMiss(t *testing.T) {
	srv, _ := newTestServer(t)
	w := doRequest(t, srv.Handler(), http.MethodPost, "/api/words", `{"word":"zzqqx"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestListWordsEmpty(t *testing.T) {
	srv, _ := newTestServer(t)
	w := doRequest(t, srv.Handler(), http.MethodGet, "/api/words", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Errorf("body = %q, want empty array", got)
	}
}

func TestFlashcardsDrawLeastReviewed(t *testing.T) {
	srv, conn := newTestServer(t)
	for _, word := range []string{"alpha", "bravo", "charlie"} {
		if _, err := db.SaveWord(conn, word, "def", "noun", ""); err != nil {
			t.Fatalf("seed %s: %v", word, err)
		}
	}
	if err := db.IncrementReviewCount(conn, "alpha"); err != nil {
		t.Fatalf("bump: %v", err)
	}

	w := doRequest(t, srv.Handler(), http.MethodGet, "/api/flashcards?size=2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var cards []db.Word
	if err := json.Unmarshal(w.Body.Bytes(), &cards); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(cards) != 2 || cards[0].Word != "bravo" || cards[1].Word != "charlie" {
		t.Errorf("cards = %+v", cards)
	}
}

func TestReviewEndpoint(t *testing.T) {
	srv, conn := newTestServer(t)
	if _, err := db.SaveWord(conn, "alpha", "def", "noun", ""); err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := doRequest(t, srv.Handler(), http.MethodPost, "/api/flashcards/review", `{"word":"alpha"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var word db.Word
	if err := json.Unmarshal(w.Body.Bytes(), &word); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if word.ReviewCount != 2 {
		t.Errorf("review count = %d, want 2", word.ReviewCount)
	}
}

func TestReviewUnknownWord(t *testing.T) {
	srv, _ := newTestServer(t)
	w := doRequest(t, srv.Handler(), http.MethodPost, "/api/flashcards/review", `{"word":"nope"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestTranslateEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	w := doRequest(t, srv.Handler(), http.MethodPost, "/api/translate", `{"text":"猫が好きです","target":"en"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var res translateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.TranslatedText != "I like cats" {
		t.Errorf("translation = %q", res.TranslatedText)
	}
}

func TestTranslateNotConfigured(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.Translator = nil
	w := doRequest(t, srv.Handler(), http.MethodPost, "/api/translate", `{"text":"hola"}`)
	if w.Code != http.StatusNotImplemented {
		t.Errorf("status = %d, want 501", w.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()
	for _, tc := range []struct{ method, target string }{
		{http.MethodPost, "/api/lookup"},
		{http.MethodGet, "/api/translate"},
		{http.MethodGet, "/api/flashcards/review"},
	} {
		w := doRequest(t, h, tc.method, tc.target, "")
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: status = %d, want 405", tc.method, tc.target, w.Code)
		}
	}
}

func TestCORSHeaders(t *testing.T) {
	srv, _ := newTestServer(t)
	r := httptest.NewRequest(http.MethodGet, "/api/words", nil)
	r.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, r)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Error("missing CORS allow-origin header")
	}
}
