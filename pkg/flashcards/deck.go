// Package flashcards runs review sessions over the saved word list. The
// session is an explicit state machine driven by discrete user actions
// rather than ambient session globals: Idle until Start, then Question and
// Revealed alternate until the deck is exhausted.
package flashcards

import (
	"fmt"

	"github.com/japaniel/vocabtrack/pkg/db"
)

// DefaultSize is how many of the least-reviewed words a deck draws.
const DefaultSize = 10

// State is the session's position in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateQuestion
	StateRevealed
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateQuestion:
		return "question"
	case StateRevealed:
		return "revealed"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrEmptyDeck is returned when a session starts with no saved words.
var ErrEmptyDeck = fmt.Errorf("flashcards: no words to review")

// Deck is one review session. Reviews are recorded through the store as
// the session advances, so the next deck draws different words.
type Deck struct {
	store db.Execer
	cards []db.Word
	pos   int
	state State
}

// NewDeck draws up to size of the least-reviewed words from store.
func NewDeck(store db.Execer, size int) (*Deck, error) {
	if size <= 0 {
		size = DefaultSize
	}
	cards, err := db.LeastReviewed(store, size)
	if err != nil {
		return nil, fmt.Errorf("draw deck: %w", err)
	}
	return &Deck{store: store, cards: cards, state: StateIdle}, nil
}

// State returns the session state.
func (d *Deck) State() State { return d.state }

// Size returns the number of cards drawn.
func (d *Deck) Size() int { return len(d.cards) }

// Start begins the session on the first card.
func (d *Deck) Start() error {
	if d.state != StateIdle {
		return fmt.Errorf("flashcards: cannot start from %s", d.state)
	}
	if len(d.cards) == 0 {
		d.state = StateDone
		return ErrEmptyDeck
	}
	d.state = StateQuestion
	return nil
}

// Current returns the card in play. ok is false when the session is not
// showing a card.
func (d *Deck) Current() (card db.Word, ok bool) {
	if d.state != StateQuestion && d.state != StateRevealed {
		return db.Word{}, false
	}
	return d.cards[d.pos], true
}

// Reveal flips the current card to its definition side.
func (d *Deck) Reveal() error {
	if d.state != StateQuestion {
		return fmt.Errorf("flashcards: cannot reveal from %s", d.state)
	}
	d.state = StateRevealed
	return nil
}

// Next records the review of the current card and advances. The session
// ends when the last card has been reviewed.
func (d *Deck) Next() error {
	if d.state != StateRevealed {
		return fmt.Errorf("flashcards: cannot advance from %s", d.state)
	}
	if err := db.IncrementReviewCount(d.store, d.cards[d.pos].Word); err != nil {
		return fmt.Errorf("record review: %w", err)
	}
	d.pos++
	if d.pos >= len(d.cards) {
		d.state = StateDone
		return nil
	}
	d.state = StateQuestion
	return nil
}
