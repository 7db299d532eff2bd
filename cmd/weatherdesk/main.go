package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "modernc.org/sqlite"

	"github.com/ppps/weatherdesk/internal/darksky"
	"github.com/ppps/weatherdesk/internal/indesign"
	"github.com/ppps/weatherdesk/internal/keys"
	"github.com/ppps/weatherdesk/internal/locations"
	"github.com/ppps/weatherdesk/internal/metoffice"
	"github.com/ppps/weatherdesk/internal/pipeline"
)

func main() {
	dateStr := flag.String("date", "", "anchor date YYYY-MM-DD (default today)")
	dryRun := flag.Bool("dry-run", false, "print reports instead of writing to the document")
	app := flag.String("app", indesign.DefaultApp, "InDesign application name for osascript")
	daemon := flag.Bool("daemon", false, "keep running and publish once a day")
	hour := flag.Int("hour", 5, "local hour to publish in daemon mode")
	metricsAddr := flag.String("metrics", "", "address to serve Prometheus metrics on in daemon mode (e.g. :9090)")
	keysDB := flag.String("keys-db", "", "path to a SQLite key store (default: OS keychain)")
	flag.Parse()

	// Optional .env for API keys on hosts without a keychain.
	godotenv.Load()

	store, closeStore, err := openKeyStore(*keysDB)
	if err != nil {
		log.Fatalf("open key store: %v", err)
	}
	defer closeStore()

	darkskyKey, err := keys.Resolve(store, "darksky", keys.TerminalPrompt)
	if err != nil {
		log.Fatalf("resolve darksky key: %v", err)
	}
	metofficeKey, err := keys.Resolve(store, "metoffice", keys.TerminalPrompt)
	if err != nil {
		log.Fatalf("resolve metoffice key: %v", err)
	}

	mo := metoffice.NewClient(metofficeKey)
	p := pipeline.New(darksky.NewClient(darkskyKey), mo, mo, locations.All)

	var sink indesign.Sink = indesign.New(*app)
	if *dryRun {
		sink = indesign.Writer{W: os.Stdout}
	}

	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		log.Printf("could not load Europe/London timezone, using UTC: %v", err)
		loc = time.UTC
	}

	if *daemon {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if *metricsAddr != "" {
			go func() {
				log.Printf("serving metrics on %s", *metricsAddr)
				if err := http.ListenAndServe(*metricsAddr, promhttp.Handler()); err != nil {
					log.Printf("metrics server: %v", err)
				}
			}()
		}

		pipeline.NewScheduler(p, sink, loc, *hour).Run(ctx)
		return
	}

	now := time.Now().In(loc)
	if *dateStr != "" {
		now, err = time.ParseInLocation("2006-01-02", *dateStr, loc)
		if err != nil {
			log.Fatalf("parse -date: %v", err)
		}
	}

	dates := pipeline.TargetDates(now)
	res, err := p.Run(context.Background(), dates)
	if err != nil {
		// Contract breaks; publish what we have, then fail the run.
		log.Printf("pipeline: %v", err)
	}
	p.Publish(res, dates, sink)
	if err != nil {
		os.Exit(1)
	}
}

// openKeyStore picks the SQLite store when a path is given, otherwise
// the OS keychain.
func openKeyStore(path string) (keys.Store, func(), error) {
	if path == "" {
		return keys.Keychain{}, func() {}, nil
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, err
	}
	store := keys.NewSQLite(db)
	if err := store.Migrate(); err != nil {
		db.Close()
		return nil, nil, err
	}
	return store, func() { db.Close() }, nil
}
