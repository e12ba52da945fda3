// Command vocabtrack is a personal vocabulary tool: look words up, save
// them, review them as flashcards, translate snippets and harvest new
// words from articles. One invocation runs one mode:
//
//	vocabtrack -word swimming [-save]
//	vocabtrack -review
//	vocabtrack -translate "猫が好きです" [-target en]
//	vocabtrack -url https://example.com/article
//	vocabtrack -serve [-addr :8080]
package main

import (
	"bufio"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofrs/flock"

	"github.com/japaniel/vocabtrack/pkg/config"
	"github.com/japaniel/vocabtrack/pkg/db"
	"github.com/japaniel/vocabtrack/pkg/dictionary"
	"github.com/japaniel/vocabtrack/pkg/flashcards"
	"github.com/japaniel/vocabtrack/pkg/ingest"
	"github.com/japaniel/vocabtrack/pkg/lookup"
	"github.com/japaniel/vocabtrack/pkg/server"
	"github.com/japaniel/vocabtrack/pkg/speech"
	"github.com/japaniel/vocabtrack/pkg/translate"

	_ "github.com/mattn/go-sqlite3"
)

func main() {
	configFlag := flag.String("config", "vocabtrack.yaml", "Path to YAML config file")
	wordFlag := flag.String("word", "", "Word to look up")
	saveFlag := flag.Bool("save", false, "Save the looked-up word to the list")
	reviewFlag := flag.Bool("review", false, "Run a flashcard review session")
	translateFlag := flag.String("translate", "", "Text to translate")
	targetFlag := flag.String("target", "en", "Target language for -translate")
	urlFlag := flag.String("url", "", "URL of an article to harvest words from")
	serveFlag := flag.Bool("serve", false, "Run the JSON API server")
	addrFlag := flag.String("addr", "", "Listen address for -serve (overrides config)")
	dbFlag := flag.String("db", "", "Path to SQLite database (overrides config)")
	flag.Parse()

	// Setup context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dbFlag != "" {
		cfg.DBPath = *dbFlag
	}
	if *addrFlag != "" {
		cfg.Server.Addr = *addrFlag
	}

	// One process owns the database at a time. SQLite tolerates readers,
	// but a second writer mid-review corrupts the session's assumptions.
	lock := flock.New(cfg.DBPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("Failed to acquire database lock: %v", err)
	}
	if !locked {
		log.Fatalf("Database %s is in use by another vocabtrack process", cfg.DBPath)
	}
	defer lock.Unlock()

	conn, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer conn.Close()

	if err := db.InitDB(conn); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	dict := dictionary.NewClient(cfg.Dictionary.BaseURL, cfg.Dictionary.APIKey, cfg.Timeout)
	svc := &lookup.Service{
		Dict: dict,
		Syn:  dictionary.NewSynonymClient(cfg.Synonyms.BaseURL, cfg.Timeout),
	}

	switch {
	case *serveFlag:
		runServe(ctx, cfg, conn, svc)
	case *wordFlag != "":
		runLookup(ctx, cfg, conn, svc, *wordFlag, *saveFlag)
	case *reviewFlag:
		runReview(ctx, cfg, conn)
	case *translateFlag != "":
		runTranslate(ctx, cfg, *translateFlag, *targetFlag)
	case *urlFlag != "":
		runIngest(ctx, conn, dict, *urlFlag)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func runLookup(ctx context.Context, cfg *config.Config, conn *sql.DB, svc *lookup.Service, word string, save bool) {
	res, err := svc.Lookup(ctx, word)
	if err != nil {
		log.Fatalf("Lookup failed: %v", err)
	}

	if !res.Found() {
		fmt.Printf("No entry for %q.\n", word)
		if len(res.Suggestions) > 0 {
			fmt.Printf("Did you mean: %s\n", strings.Join(res.Suggestions, ", "))
		}
		return
	}

	fmt.Println(res.Word)
	if len(res.PartsOfSpeech) > 0 {
		fmt.Printf("(%s)\n", strings.Join(res.PartsOfSpeech, ", "))
	}
	for _, def := range res.Definitions {
		fmt.Println("  " + def)
	}
	if res.Root != nil {
		fmt.Printf("Root: %s (%s)\n", res.Root.Word, res.Root.Provenance)
	}
	if len(res.Synonyms) > 0 {
		fmt.Printf("Synonyms: %s\n", strings.Join(res.Synonyms, ", "))
	}

	audioRef := res.AudioURL
	if audioRef == "" {
		tts := speech.NewSynthesizer(cfg.TTS.BaseURL, cfg.TTS.Lang, cfg.AudioDir, cfg.Timeout)
		audioRef = tts.Fetch(ctx, res.Word)
	}
	fmt.Printf("Audio: %s\n", audioRef)

	if save {
		if _, err := db.SaveWord(conn, word, res.DefinitionText(), firstOrEmpty(res.PartsOfSpeech), audioRef); err != nil {
			log.Fatalf("Failed to save word: %v", err)
		}
		fmt.Printf("Saved %q to the word list.\n", strings.ToLower(strings.TrimSpace(word)))
	}
}

func runReview(ctx context.Context, cfg *config.Config, conn *sql.DB) {
	deck, err := flashcards.NewDeck(conn, cfg.DeckSize)
	if err != nil {
		log.Fatalf("Failed to draw deck: %v", err)
	}
	if err := deck.Start(); err != nil {
		if err == flashcards.ErrEmptyDeck {
			fmt.Println("No words to review. Save some with -word <word> -save.")
			return
		}
		log.Fatalf("Failed to start session: %v", err)
	}

	fmt.Printf("Reviewing %d words. Press Enter to flip, Ctrl+C to quit.\n", deck.Size())
	in := bufio.NewScanner(os.Stdin)
	n := 0
	for deck.State() != flashcards.StateDone {
		if ctx.Err() != nil {
			fmt.Println("\nSession interrupted.")
			return
		}
		card, ok := deck.Current()
		if !ok {
			break
		}
		n++
		fmt.Printf("\n[%d/%d] %s", n, deck.Size(), card.Word)
		if !in.Scan() {
			return
		}
		if err := deck.Reveal(); err != nil {
			log.Fatalf("Reveal failed: %v", err)
		}
		fmt.Println(card.Definition)
		if !in.Scan() {
			return
		}
		if err := deck.Next(); err != nil {
			log.Fatalf("Failed to record review: %v", err)
		}
	}
	fmt.Printf("\nSession complete. Reviewed %d words.\n", n)
}

func runTranslate(ctx context.Context, cfg *config.Config, text, target string) {
	if translate.ContainsJapanese(text) {
		seg, err := translate.NewSegmenter()
		if err != nil {
			log.Printf("Warning: segmenter unavailable: %v", err)
		} else {
			for _, tok := range seg.Segment(text) {
				fmt.Printf("%s\t%s\t%s\n", tok.Surface, tok.BaseForm, tok.Reading)
			}
		}
	}

	tr := translate.NewTranslator(cfg.Translate.BaseURL, cfg.Timeout)
	out, err := tr.Translate(ctx, text, "", target)
	if err != nil {
		log.Fatalf("Translation failed: %v", err)
	}
	fmt.Println(out)

	tts := speech.NewSynthesizer(cfg.TTS.BaseURL, target, cfg.AudioDir, cfg.Timeout)
	fmt.Printf("Audio: %s\n", tts.Fetch(ctx, out))
}

func runIngest(ctx context.Context, conn *sql.DB, dict *dictionary.Client, rawURL string) {
	fmt.Printf("Fetching %s...\n", rawURL)
	title, text, err := ingest.FetchArticle(ctx, rawURL)
	if err != nil {
		log.Fatalf("Failed to fetch article: %v", err)
	}
	fmt.Printf("Title: %s\n", title)

	words := ingest.ExtractWords(text, 0)
	fmt.Printf("Found %d candidate words. Looking them up...\n", len(words))

	ig := ingest.NewIngester(conn, dict)
	ig.Logger = log.Default()
	ig.OnProgress = func(done, total int) {
		if done%25 == 0 || done == total {
			fmt.Printf("  %d/%d\n", done, total)
		}
	}
	saved, err := ig.Ingest(ctx, words)
	if err != nil {
		log.Fatalf("Ingestion failed: %v", err)
	}
	fmt.Printf("Processing complete. Saved %d words.\n", saved)
}

func runServe(ctx context.Context, cfg *config.Config, conn *sql.DB, svc *lookup.Service) {
	srv := &server.Server{
		DB:             conn,
		Lookup:         svc,
		Translator:     translate.NewTranslator(cfg.Translate.BaseURL, cfg.Timeout),
		DeckSize:       cfg.DeckSize,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}
	httpSrv := &http.Server{Addr: cfg.Server.Addr, Handler: srv.Handler()}

	go func() {
		<-ctx.Done()
		httpSrv.Shutdown(context.Background())
	}()

	log.Printf("Listening on %s", cfg.Server.Addr)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}

func firstOrEmpty(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	return ss[0]
}
