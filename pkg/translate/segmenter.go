package translate

import (
	"strings"
	"unicode"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Token is one segmented unit of Japanese input.
type Token struct {
	Surface  string // the text as it appears (e.g. "行っ")
	BaseForm string // the dictionary form (e.g. "行く")
	Reading  string // hiragana reading
	POS      string // primary part-of-speech label (Kagome IPA labels)
}

// Segmenter splits unsegmented Japanese text into tokens so translator
// mode can offer per-word translations and base forms for saving.
type Segmenter struct {
	t *tokenizer.Tokenizer
}

// NewSegmenter creates a tokenizer instance.
func NewSegmenter() (*Segmenter, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Segmenter{t: t}, nil
}

// Segment breaks text into tokens with readings and base forms.
func (s *Segmenter) Segment(text string) []Token {
	var result []Token
	for _, token := range s.t.Tokenize(text) {
		if token.Class == tokenizer.DUMMY || strings.TrimSpace(token.Surface) == "" {
			continue
		}

		features := token.Features()

		// Kagome IPA features: 0 part of speech, 6 base form, 7 reading.
		base := token.Surface
		if len(features) > 6 && features[6] != "*" {
			base = features[6]
		}
		reading := ""
		if len(features) > 7 && features[7] != "*" {
			reading = ToHiragana(features[7])
		}
		pos := ""
		if len(features) > 0 {
			pos = features[0]
		}

		result = append(result, Token{
			Surface:  token.Surface,
			BaseForm: base,
			Reading:  reading,
			POS:      pos,
		})
	}
	return result
}

// ContentWords returns the base forms of the content-bearing tokens,
// skipping particles, auxiliaries and symbols. These are the words worth
// offering for the vocabulary list.
func (s *Segmenter) ContentWords(text string) []string {
	var words []string
	seen := make(map[string]bool)
	for _, tok := range s.Segment(text) {
		switch tok.POS {
		case "記号", "補助記号", "助詞", "助動詞":
			continue
		}
		if !seen[tok.BaseForm] {
			seen[tok.BaseForm] = true
			words = append(words, tok.BaseForm)
		}
	}
	return words
}

// ContainsJapanese reports whether text carries kana or kanji and
// therefore needs segmentation before word-level handling.
func ContainsJapanese(text string) bool {
	for _, r := range text {
		if unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han) {
			return true
		}
	}
	return false
}

// ToHiragana converts katakana to hiragana.
func ToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}
