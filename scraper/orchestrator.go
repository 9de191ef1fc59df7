package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"bukken_watcher/config"
	"bukken_watcher/extract"
	"bukken_watcher/httputil"
	"bukken_watcher/models"
	"bukken_watcher/services"
	"bukken_watcher/storage"
	"bukken_watcher/textutil"
)

type Orchestrator struct {
	cfg       *config.Config
	store     *storage.SQLiteStore
	handlers  map[string]Handler
	clients   *httputil.Clients
	reconcile *services.ReconcileService
	paused    bool

	pgStore *storage.PostgresStore
}

func NewOrchestrator(cfg *config.Config, store *storage.SQLiteStore, reconcile *services.ReconcileService) *Orchestrator {
	handlers := make(map[string]Handler)
	for id, siteCfg := range cfg.Sites {
		handlers[id] = NewHandler(siteCfg)
	}

	return &Orchestrator{
		cfg:       cfg,
		store:     store,
		handlers:  handlers,
		clients:   httputil.NewClients(),
		reconcile: reconcile,
	}
}

// SetPostgresStore enables run bookkeeping in Postgres alongside SQLite.
func (o *Orchestrator) SetPostgresStore(pgStore *storage.PostgresStore) {
	o.pgStore = pgStore
}

func (o *Orchestrator) RunAll(ctx context.Context) error {
	if o.paused {
		log.Println("Scraper is paused, skipping run")
		return nil
	}

	for siteID := range o.cfg.Sites {
		if err := o.RunSite(ctx, siteID); err != nil {
			log.Printf("Error running site %s: %v", siteID, err)
		}
	}

	return nil
}

func (o *Orchestrator) RunSite(ctx context.Context, siteID string) error {
	siteCfg, ok := o.cfg.Sites[siteID]
	if !ok {
		return fmt.Errorf("unknown site: %s", siteID)
	}

	handler, ok := o.handlers[siteID]
	if !ok {
		return fmt.Errorf("no handler for site: %s", siteID)
	}

	run := &models.ScrapeRun{
		SiteID:    siteID,
		StartedAt: time.Now(),
		Status:    models.RunStatusRunning,
	}

	runID, err := o.store.CreateRun(run)
	if err != nil {
		return err
	}
	run.ID = runID

	var pgRun *storage.RunRecord
	if o.pgStore != nil {
		pgRun = &storage.RunRecord{
			ID:        uuid.New(),
			Source:    siteID,
			StartedAt: run.StartedAt,
			Status:    string(models.RunStatusRunning),
		}
		if err := o.pgStore.CreateRun(ctx, pgRun); err != nil {
			log.Printf("Warning: failed to create Postgres run: %v", err)
			pgRun = nil
		}
	}

	o.log(run.ID, models.LogLevelInfo, fmt.Sprintf("Starting scrape for %s", siteCfg.Name), siteID)

	defer func() {
		now := time.Now()
		run.FinishedAt = &now
		o.store.UpdateRun(run)
		o.store.UpdateSiteStats(siteID)

		if pgRun != nil {
			pgRun.FinishedAt = &now
			pgRun.Status = string(run.Status)
			pgRun.LinksFound = run.LinksFound
			pgRun.RecordsNew = run.RecordsNew
			pgRun.RecordsPatched = run.RecordsPatched
			pgRun.ErrorsCount = run.ErrorsCount
			o.pgStore.FinishRun(ctx, pgRun)
		}
	}()

	// A failed listing page means no record set to reconcile against, so
	// the run aborts here before anything is written.
	links, err := handler.Links(ctx)
	if err != nil {
		o.log(run.ID, models.LogLevelError, fmt.Sprintf("Listing page failed: %v", err), siteID)
		run.Status = models.RunStatusFailed
		run.ErrorsCount++
		return err
	}

	run.LinksFound = len(links)
	o.log(run.ID, models.LogLevelInfo, fmt.Sprintf("Found %d detail links", len(links)), siteID)

	records := o.collectRecords(ctx, run, siteCfg, links)

	plan, err := o.reconcile.BuildPlan(ctx, records)
	if err != nil {
		o.log(run.ID, models.LogLevelError, fmt.Sprintf("Reconcile failed: %v", err), siteID)
		run.Status = models.RunStatusFailed
		run.ErrorsCount++
		return err
	}

	stats := o.reconcile.Apply(ctx, plan)
	run.RecordsNew = stats.Inserted
	run.RecordsPatched = stats.Patched
	run.RecordsSkipped = stats.Skipped
	run.ErrorsCount += stats.Errors

	run.Status = models.RunStatusCompleted
	o.log(run.ID, models.LogLevelInfo,
		fmt.Sprintf("Completed: %d links, %d new, %d patched, %d skipped, %d errors",
			run.LinksFound, stats.Inserted, stats.Patched, stats.Skipped, stats.Errors), siteID)

	return nil
}

// collectRecords visits each detail page and builds the record batch.
// A page that fails to fetch or yields no usable name is dropped; the
// rest of the batch continues.
func (o *Orchestrator) collectRecords(ctx context.Context, run *models.ScrapeRun, siteCfg *config.SiteConfig, links []string) []models.PropertyRecord {
	delay := o.detailDelay(siteCfg)

	var records []models.PropertyRecord
	seen := make(map[string]bool)

	for i, link := range links {
		if i > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return records
			}
		}

		rec, err := o.fetchDetail(ctx, link)
		if err != nil {
			o.log(run.ID, models.LogLevelWarn, fmt.Sprintf("Detail page %s: %v", link, err), siteCfg.ID)
			run.ErrorsCount++
			continue
		}
		if rec == nil {
			continue
		}
		if seen[rec.Name] {
			continue
		}
		seen[rec.Name] = true
		records = append(records, *rec)
	}

	return records
}

func (o *Orchestrator) fetchDetail(ctx context.Context, link string) (*models.PropertyRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}
	httputil.SetScrapingHeaders(req)

	resp, err := o.clients.Scraping.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	// The title can carry portal boilerplate instead of a project name
	// when the page is a stub. Those pages are dropped.
	name := textutil.NameFromTitle(extract.PageTitle(doc))
	if name == "" || strings.Contains(name, textutil.PortalBrand) {
		return nil, nil
	}

	details := extract.ParseDetailDocument(doc)

	return &models.PropertyRecord{
		Name:       name,
		DetailURL:  link,
		ImageURL:   details.ImageURL,
		Address:    details.Address,
		Layout:     details.Layout,
		Area:       details.Area,
		Access:     details.Access,
		TotalUnits: details.TotalUnits,
		ScrapedAt:  time.Now(),
	}, nil
}

func (o *Orchestrator) detailDelay(siteCfg *config.SiteConfig) time.Duration {
	ms := siteCfg.RateLimitMS
	if ms <= 0 {
		ms = o.cfg.Scraper.DelayMS
	}
	return time.Duration(ms) * time.Millisecond
}

func (o *Orchestrator) HandleCommand(cmd *models.Command) error {
	params, err := o.store.ParseCommandParams(cmd)
	if err != nil {
		return err
	}

	ctx := context.Background()

	switch cmd.Command {
	case models.CmdScrapeNow:
		return o.RunAll(ctx)
	case models.CmdScrapeSite:
		if params.Site != "" {
			return o.RunSite(ctx, params.Site)
		}
		return o.RunAll(ctx)
	case models.CmdPause:
		o.paused = true
		log.Println("Scraper paused")
	case models.CmdResume:
		o.paused = false
		log.Println("Scraper resumed")
	}

	return nil
}

func (o *Orchestrator) IsPaused() bool {
	return o.paused
}

func (o *Orchestrator) log(runID int64, level models.LogLevel, message, siteID string) {
	log.Printf("[%s] %s: %s", level, siteID, message)
	o.store.Log(&runID, level, message, siteID)
}

func (o *Orchestrator) GetSiteIDs() []string {
	var ids []string
	for id := range o.cfg.Sites {
		ids = append(ids, id)
	}
	return ids
}

func (o *Orchestrator) MarshalStatus() ([]byte, error) {
	status := map[string]interface{}{
		"paused": o.paused,
		"sites":  o.GetSiteIDs(),
	}
	return json.Marshal(status)
}
