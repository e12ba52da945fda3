// Package server exposes the vocabulary tool as a JSON REST API.
//
// Endpoints:
//
//	GET  /api/lookup?word=<word>
//	GET  /api/words
//	POST /api/words            body: {"word":"..."} or a full lookup result
//	GET  /api/flashcards[?size=n]
//	POST /api/flashcards/review  body: {"word":"..."}
//	POST /api/translate        body: {"text":"...","source":"","target":"en"}
package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/rs/cors"

	"github.com/japaniel/vocabtrack/pkg/db"
	"github.com/japaniel/vocabtrack/pkg/lookup"
)

// Lookuper runs one interactive lookup.
type Lookuper interface {
	Lookup(ctx context.Context, query string) (*lookup.Result, error)
}

// TextTranslator translates text between languages.
type TextTranslator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Server holds the dependencies the handlers share. Translator is
// optional; the translate endpoint reports 501 without one.
type Server struct {
	DB         *sql.DB
	Lookup     Lookuper
	Translator TextTranslator
	// DeckSize is the default flashcard draw (db.LeastReviewed's default
	// applies when zero).
	DeckSize int
	// AllowedOrigins configures CORS; empty allows any origin.
	AllowedOrigins []string
}

type errorResponse struct {
	Error string `json:"error"`
}

type saveWordRequest struct {
	Word         string `json:"word"`
	Definition   string `json:"definition"`
	PartOfSpeech string `json:"partOfSpeech"`
	AudioRef     string `json:"audioRef"`
}

type reviewRequest struct {
	Word string `json:"word"`
}

type translateRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// Handler builds the routed, CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/lookup", s.handleLookup)
	mux.HandleFunc("/api/words", s.handleWords)
	mux.HandleFunc("/api/flashcards/review", s.handleReview)
	mux.HandleFunc("/api/flashcards", s.handleFlashcards)
	mux.HandleFunc("/api/translate", s.handleTranslate)

	c := cors.New(cors.Options{
		AllowedOrigins: s.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})
	return c.Handler(mux)
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	word := r.URL.Query().Get("word")
	if word == "" {
		writeError(w, http.StatusBadRequest, "missing 'word' query parameter")
		return
	}

	res, err := s.Lookup.Lookup(r.Context(), word)
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Sprintf("lookup failed: %v", err))
		return
	}
	status := http.StatusOK
	if !res.Found() {
		status = http.StatusNotFound
	}
	writeJSON(w, status, res)
}

func (s *Server) handleWords(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		words, err := db.ListWords(s.DB)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if words == nil {
			words = []db.Word{}
		}
		writeJSON(w, http.StatusOK, words)

	case http.MethodPost:
		var body saveWordRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Word == "" {
			writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty 'word' field")
			return
		}
		// A bare word is looked up before saving so the row carries its
		// definition, matching the interactive save flow.
		if body.Definition == "" && s.Lookup != nil {
			res, err := s.Lookup.Lookup(r.Context(), body.Word)
			if err != nil {
				writeError(w, http.StatusBadGateway, fmt.Sprintf("lookup failed: %v", err))
				return
			}
			if !res.Found() {
				writeError(w, http.StatusNotFound, fmt.Sprintf("word %q not found", body.Word))
				return
			}
			body.Definition = res.DefinitionText()
			if len(res.PartsOfSpeech) > 0 {
				body.PartOfSpeech = res.PartsOfSpeech[0]
			}
			body.AudioRef = res.AudioURL
		}
		if _, err := db.SaveWord(s.DB, body.Word, body.Definition, body.PartOfSpeech, body.AudioRef); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		saved, err := db.GetWord(s.DB, body.Word)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, saved)

	default:
		writeError(w, http.StatusMethodNotAllowed, "GET or POST required")
	}
}

func (s *Server) handleFlashcards(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	size := s.DeckSize
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "'size' must be a positive integer")
			return
		}
		size = n
	}
	cards, err := db.LeastReviewed(s.DB, size)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if cards == nil {
		cards = []db.Word{}
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var body reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Word == "" {
		writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty 'word' field")
		return
	}
	if err := db.IncrementReviewCount(s.DB, body.Word); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	word, err := db.GetWord(s.DB, body.Word)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("word %q not in list", body.Word))
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, word)
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	if s.Translator == nil {
		writeError(w, http.StatusNotImplemented, "translation not configured")
		return
	}
	var body translateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == "" {
		writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty 'text' field")
		return
	}
	if body.Target == "" {
		body.Target = "en"
	}
	out, err := s.Translator.Translate(r.Context(), body.Text, body.Source, body.Target)
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Sprintf("translate failed: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, translateResponse{TranslatedText: out})
}
