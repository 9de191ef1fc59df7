package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bukken_watcher/config"
	"bukken_watcher/httputil"
	"bukken_watcher/logging"
	"bukken_watcher/scheduler"
	"bukken_watcher/scraper"
	"bukken_watcher/services"
	"bukken_watcher/storage"
	"bukken_watcher/workers"
)

var (
	scrapeNow  = flag.Bool("scrape", false, "Run scrape once and exit")
	scrapeSite = flag.String("site", "", "Limit -scrape to one site ID")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logFile, err := logging.Setup("daemon.log", cfg.LogLevel)
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	log.Println("Starting bukken_watcher...")
	log.Printf("Loaded %d site configs", len(cfg.Sites))
	for id, site := range cfg.Sites {
		log.Printf("  - %s (%s)", site.Name, id)
	}

	ctx := context.Background()

	// SQLite always holds operational data: runs, logs, commands. It also
	// carries the record table unless a Postgres DSN is configured.
	sqliteStore, err := storage.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open SQLite: %v", err)
	}
	defer sqliteStore.Close()
	log.Printf("SQLite database: %s", cfg.DBPath)

	var tabular storage.TabularStore = sqliteStore
	var pgStore *storage.PostgresStore
	if cfg.PostgresDSN != "" {
		pgStore, err = storage.NewPostgresStore(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("Failed to connect to Postgres: %v", err)
		}
		defer pgStore.Close()
		log.Printf("Connected to Postgres: %s", maskConnectionString(cfg.PostgresDSN))
		tabular = pgStore
	}

	clients := httputil.NewClients()
	searchService := services.NewSearchService(clients.API, cfg.Search.APIKey, cfg.Search.CSEID)
	if cfg.Search.APIKey == "" {
		log.Println("No search API key configured, official URLs will be left empty")
	}
	reconcileService := services.NewReconcileService(tabular, searchService)

	orchestrator := scraper.NewOrchestrator(cfg, sqliteStore, reconcileService)
	if pgStore != nil {
		orchestrator.SetPostgresStore(pgStore)
	}

	if *scrapeNow {
		log.Println("Running scrape...")
		if *scrapeSite != "" {
			err = orchestrator.RunSite(ctx, *scrapeSite)
		} else {
			err = orchestrator.RunAll(ctx)
		}
		if err != nil {
			log.Fatalf("Scrape failed: %v", err)
		}
		log.Println("Scrape complete!")
		return
	}

	// Daemon mode
	sched := scheduler.New(cfg, orchestrator, sqliteStore)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := sched.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	enrichmentWorker := workers.NewEnrichmentWorker(tabular, searchService)
	go enrichmentWorker.Run(ctx, 6*time.Hour)
	sched.SetWorkers(enrichmentWorker)
	log.Println("Enrichment worker started")

	log.Println("Daemon running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	sched.Stop()
	log.Println("Goodbye!")
}

// maskConnectionString masks password in connection string for logging
func maskConnectionString(connStr string) string {
	start := 0
	for i := 0; i < len(connStr)-3; i++ {
		if connStr[i:i+3] == "://" {
			start = i + 3
			break
		}
	}
	if start == 0 {
		return connStr
	}

	colonIdx := -1
	atIdx := -1
	for i := start; i < len(connStr); i++ {
		if connStr[i] == ':' && colonIdx == -1 {
			colonIdx = i
		}
		if connStr[i] == '@' {
			atIdx = i
			break
		}
	}

	if colonIdx > 0 && atIdx > colonIdx {
		return connStr[:colonIdx+1] + "****" + connStr[atIdx:]
	}
	return connStr
}
