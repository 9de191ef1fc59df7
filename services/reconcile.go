package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"bukken_watcher/models"
	"bukken_watcher/storage"
	"bukken_watcher/textutil"
)

const (
	forumSearchBase = "https://www.e-mansion.co.jp/bbs/search/"
	webSearchBase   = "https://www.google.com/search?q="
)

// ReconcileService decides, for each scraped record, whether it is new,
// an update to a stored row, or a duplicate carrying no new information.
type ReconcileService struct {
	store    storage.TabularStore
	resolver OfficialURLResolver
}

func NewReconcileService(store storage.TabularStore, resolver OfficialURLResolver) *ReconcileService {
	return &ReconcileService{store: store, resolver: resolver}
}

// Patch marks a stored row whose official-URL cell is still empty.
type Patch struct {
	RowNum int // 1-based data row in the store
	Name   string
}

// Plan is the classification of one batch against one store snapshot.
type Plan struct {
	Inserts []models.PropertyRecord
	Updates []Patch
	Skips   []string
}

// BuildPlan snapshots the store's identity column once and classifies
// each record: unknown name → insert, known name with an empty official
// URL → update, known and populated → skip. Matching is exact string
// equality after sanitization. Within the batch, the first occurrence of
// a name wins.
func (s *ReconcileService) BuildPlan(ctx context.Context, records []models.PropertyRecord) (*Plan, error) {
	names, err := s.store.ReadColumn(ctx, storage.ColName)
	if err != nil {
		return nil, fmt.Errorf("snapshot names: %w", err)
	}
	officials, err := s.store.ReadColumn(ctx, storage.ColOfficialURL)
	if err != nil {
		return nil, fmt.Errorf("snapshot official urls: %w", err)
	}

	index := make(map[string]int, len(names))
	for i, n := range names {
		if _, ok := index[n]; !ok {
			index[n] = i
		}
	}

	plan := &Plan{}
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		name := textutil.Sanitize(rec.Name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		idx, exists := index[name]
		switch {
		case !exists:
			rec.Name = name
			plan.Inserts = append(plan.Inserts, rec)
		case idx >= len(officials) || officials[idx] == "":
			plan.Updates = append(plan.Updates, Patch{RowNum: idx + 1, Name: name})
		default:
			plan.Skips = append(plan.Skips, name)
		}
	}
	return plan, nil
}

// ApplyStats counts the outcome of one Apply pass.
type ApplyStats struct {
	Inserted int
	Patched  int
	Skipped  int
	Errors   int
}

// Apply executes a plan sequentially: patches first, then appends in
// batch order. A failed row write is logged and does not stop the rest of
// the batch; a row is always written whole or not at all.
func (s *ReconcileService) Apply(ctx context.Context, plan *Plan) *ApplyStats {
	stats := &ApplyStats{Skipped: len(plan.Skips)}
	for _, name := range plan.Skips {
		log.Printf("Skipping duplicate: %s", name)
	}

	for _, patch := range plan.Updates {
		official := s.resolver.OfficialURL(ctx, patch.Name)
		if official == "" {
			log.Printf("No official URL found for %s, row %d left as is", patch.Name, patch.RowNum)
			continue
		}
		if err := s.store.UpdateCell(ctx, patch.RowNum, storage.ColOfficialURL, textutil.Sanitize(official)); err != nil {
			log.Printf("Warning: failed to patch row %d (%s): %v", patch.RowNum, patch.Name, err)
			stats.Errors++
			continue
		}
		stats.Patched++
	}

	for _, rec := range plan.Inserts {
		if err := s.store.AppendRow(ctx, s.buildRow(ctx, &rec)); err != nil {
			log.Printf("Warning: failed to append %s: %v", rec.Name, err)
			stats.Errors++
			continue
		}
		stats.Inserted++
	}

	return stats
}

// buildRow assembles the full fixed-width row for one record. The two
// derived search URLs embed the escaped name; every cell passes through
// the sanitizer before it is written.
func (s *ReconcileService) buildRow(ctx context.Context, rec *models.PropertyRecord) []string {
	row := make([]string, storage.ColumnCount)
	row[storage.ColDate-1] = time.Now().Format("2006/01/02")
	row[storage.ColName-1] = textutil.Sanitize(rec.Name)
	row[storage.ColForumURL-1] = forumSearchBase + url.PathEscape(rec.Name)
	row[storage.ColWebSearchURL-1] = webSearchBase + url.QueryEscape(rec.Name)
	row[storage.ColOfficialURL-1] = textutil.Sanitize(s.resolver.OfficialURL(ctx, rec.Name))
	row[storage.ColImageURL-1] = textutil.Sanitize(rec.ImageURL)
	row[storage.ColAddress-1] = textutil.Sanitize(rec.Address)
	row[storage.ColLayout-1] = textutil.Sanitize(rec.Layout)
	row[storage.ColArea-1] = textutil.Sanitize(rec.Area)
	row[storage.ColAccess-1] = textutil.Sanitize(rec.Access)
	return row
}
