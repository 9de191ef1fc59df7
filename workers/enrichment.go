package workers

import (
	"context"
	"log"
	"time"

	"bukken_watcher/services"
	"bukken_watcher/storage"
	"bukken_watcher/textutil"
)

// EnrichmentWorker backfills official URLs for stored rows whose
// official-URL cell is still empty. Each pass walks the store once; a
// name that still resolves to nothing is retried on the next pass.
type EnrichmentWorker struct {
	store     storage.TabularStore
	resolver  services.OfficialURLResolver
	triggerCh chan struct{}
}

func NewEnrichmentWorker(store storage.TabularStore, resolver services.OfficialURLResolver) *EnrichmentWorker {
	return &EnrichmentWorker{
		store:     store,
		resolver:  resolver,
		triggerCh: make(chan struct{}, 1),
	}
}

// Trigger causes the worker to run immediately
func (w *EnrichmentWorker) Trigger() {
	select {
	case w.triggerCh <- struct{}{}:
	default:
	}
}

// Run starts the enrichment worker loop
func (w *EnrichmentWorker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Enrichment worker stopping")
			return
		case <-ticker.C:
			w.ProcessBatch(ctx)
		case <-w.triggerCh:
			w.ProcessBatch(ctx)
		}
	}
}

// ProcessBatch resolves official URLs for every row missing one.
func (w *EnrichmentWorker) ProcessBatch(ctx context.Context) {
	names, err := w.store.ReadColumn(ctx, storage.ColName)
	if err != nil {
		log.Printf("Enrichment: failed to read names: %v", err)
		return
	}
	officials, err := w.store.ReadColumn(ctx, storage.ColOfficialURL)
	if err != nil {
		log.Printf("Enrichment: failed to read official urls: %v", err)
		return
	}

	var pending int
	for i, name := range names {
		if name == "" {
			continue
		}
		if i < len(officials) && officials[i] != "" {
			continue
		}
		pending++

		official := w.resolver.OfficialURL(ctx, name)
		if official == "" {
			continue
		}

		if err := w.store.UpdateCell(ctx, i+1, storage.ColOfficialURL, textutil.Sanitize(official)); err != nil {
			log.Printf("Enrichment: failed to patch row %d (%s): %v", i+1, name, err)
			continue
		}
		log.Printf("Enrichment: filled official URL for %s", name)

		select {
		case <-ctx.Done():
			return
		default:
		}
	}

	if pending > 0 {
		log.Printf("Enrichment: pass complete, %d rows were missing official URLs", pending)
	}
}
