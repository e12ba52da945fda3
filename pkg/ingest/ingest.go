// Package ingest builds vocabulary from reading: it extracts the readable
// article from a web page, pulls out candidate words, looks each one up
// through the dictionary and batch-saves the hits into the word list.
package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/japaniel/vocabtrack/pkg/db"
	"github.com/japaniel/vocabtrack/pkg/dictionary"
)

// Lookuper is the slice of the dictionary client the ingester needs.
type Lookuper interface {
	Lookup(ctx context.Context, word string) (*dictionary.Entry, error)
}

// Ingester looks words up concurrently and persists the found ones.
type Ingester struct {
	DB   *sql.DB
	Dict Lookuper

	// Workers bounds the concurrent dictionary lookups.
	Workers int
	// BatchSize is how many saves share one transaction.
	BatchSize int
	// Logger is used for informational messages. nil means no logging.
	Logger *log.Logger
	// OnProgress is called after each processed word with (done, total).
	OnProgress func(done, total int)
}

// NewIngester creates an ingester with the default concurrency settings.
func NewIngester(conn *sql.DB, dict Lookuper) *Ingester {
	return &Ingester{
		DB:        conn,
		Dict:      dict,
		Workers:   4,
		BatchSize: 25,
	}
}

// lookedUp carries one word's lookup outcome to the writer.
type lookedUp struct {
	word       string
	definition string
	pos        string
	audio      string
	found      bool
}

// Ingest resolves words against the dictionary and saves every hit.
// Misses are skipped silently since articles are full of names and
// inflections the dictionary does not list. Returns the number of words
// saved.
func (ig *Ingester) Ingest(ctx context.Context, words []string) (int, error) {
	if len(words) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool := NewWorkerPool(ig.Workers, ig.Workers*2)
	results := make(chan lookedUp, ig.Workers*2)
	bw := NewBatchWriter(ig.DB, ig.BatchSize)

	var saved int64
	done := make(chan error, 1)

	go func() {
		defer close(done)
		processed := 0
		for res := range results {
			processed++
			if res.found {
				item := res
				err := bw.Submit(ctx, func(ctx context.Context, tx *sql.Tx) error {
					if _, err := db.SaveWord(tx, item.word, item.definition, item.pos, item.audio); err != nil {
						return fmt.Errorf("persist word %s: %w", item.word, err)
					}
					atomic.AddInt64(&saved, 1)
					return nil
				})
				if err != nil {
					// Stop producers so they do not block on results.
					cancel()
					done <- err
					return
				}
			}
			if ig.OnProgress != nil {
				ig.OnProgress(processed, len(words))
			}
		}
		done <- nil
	}()

	pool.Start(ctx)

	for _, w := range words {
		word := w
		job := func(ctx context.Context) error {
			res := lookedUp{word: word}
			entry, err := ig.Dict.Lookup(ctx, word)
			if err != nil {
				if ig.Logger != nil {
					ig.Logger.Printf("lookup %s: %v", word, err)
				}
			} else if entry.Found() {
				res = shapeResult(word, entry)
			}
			select {
			case results <- res:
			case <-ctx.Done():
			}
			return nil
		}
		if err := pool.Submit(ctx, job); err != nil {
			if err == ctx.Err() || err == ErrPoolClosed {
				break
			}
			pool.Close()
			close(results)
			<-done
			return int(atomic.LoadInt64(&saved)), err
		}
	}

	pool.Close()
	close(results)

	err := <-done
	if cerr := bw.Close(context.Background()); err == nil {
		err = cerr
	}
	return int(atomic.LoadInt64(&saved)), err
}

// shapeResult flattens an entry into the row that gets saved: the
// definitions numbered per sense and prefixed with the part of speech,
// matching what an interactive lookup would store.
func shapeResult(word string, entry *dictionary.Entry) lookedUp {
	res := lookedUp{word: word, found: true, audio: entry.AudioURL}
	for _, sense := range entry.Senses {
		if res.pos == "" {
			res.pos = sense.PartOfSpeech
		}
		for i, d := range sense.Definitions {
			if res.definition != "" {
				res.definition += "\n"
			}
			res.definition += fmt.Sprintf("%s %d. %s", sense.PartOfSpeech, i+1, d)
		}
	}
	return res
}
