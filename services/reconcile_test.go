package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"bukken_watcher/models"
	"bukken_watcher/storage"
)

// fakeStore is an in-memory TabularStore.
type fakeStore struct {
	rows [][]string
}

func (f *fakeStore) ReadColumn(_ context.Context, col int) ([]string, error) {
	var out []string
	for _, row := range f.rows {
		out = append(out, row[col-1])
	}
	return out, nil
}

func (f *fakeStore) AppendRow(_ context.Context, row []string) error {
	if len(row) != storage.ColumnCount {
		return fmt.Errorf("row has %d cells", len(row))
	}
	copied := make([]string, len(row))
	copy(copied, row)
	f.rows = append(f.rows, copied)
	return nil
}

func (f *fakeStore) UpdateCell(_ context.Context, rowNum, col int, value string) error {
	if rowNum < 1 || rowNum > len(f.rows) {
		return fmt.Errorf("row %d not found", rowNum)
	}
	f.rows[rowNum-1][col-1] = value
	return nil
}

func (f *fakeStore) addRow(name, officialURL string) {
	row := make([]string, storage.ColumnCount)
	row[storage.ColName-1] = name
	row[storage.ColOfficialURL-1] = officialURL
	f.rows = append(f.rows, row)
}

// stubResolver returns canned official URLs.
type stubResolver struct {
	urls  map[string]string
	calls int
}

func (r *stubResolver) OfficialURL(_ context.Context, name string) string {
	r.calls++
	return r.urls[name]
}

func record(name string) models.PropertyRecord {
	return models.PropertyRecord{
		Name:      name,
		DetailURL: "https://house.goo.ne.jp/buy/bm/detail/" + name,
		Address:   "東京都中野区",
		Layout:    "1LDK・3LDK",
		Area:      "44.83㎡～74.57㎡",
		Access:    "JR中央線「東中野」駅 徒歩5分",
	}
}

func TestBuildPlanClassification(t *testing.T) {
	store := &fakeStore{}
	store.addRow("A", "")
	store.addRow("B", "https://b.example.co.jp/")

	svc := NewReconcileService(store, &stubResolver{})
	plan, err := svc.BuildPlan(context.Background(), []models.PropertyRecord{
		record("C"), record("A"), record("B"),
	})
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}

	if len(plan.Inserts) != 1 || plan.Inserts[0].Name != "C" {
		t.Fatalf("unexpected inserts %+v", plan.Inserts)
	}
	if len(plan.Updates) != 1 || plan.Updates[0].Name != "A" || plan.Updates[0].RowNum != 1 {
		t.Fatalf("unexpected updates %+v", plan.Updates)
	}
	if len(plan.Skips) != 1 || plan.Skips[0] != "B" {
		t.Fatalf("unexpected skips %v", plan.Skips)
	}
}

func TestBuildPlanSanitizesAndDeduplicates(t *testing.T) {
	store := &fakeStore{}
	svc := NewReconcileService(store, &stubResolver{})

	plan, err := svc.BuildPlan(context.Background(), []models.PropertyRecord{
		record("  Foo\tTower "),
		record("Foo Tower"),
		record(""),
	})
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	if len(plan.Inserts) != 1 || plan.Inserts[0].Name != "Foo Tower" {
		t.Fatalf("unexpected inserts %+v", plan.Inserts)
	}
}

func TestApplyInsertsFullRows(t *testing.T) {
	store := &fakeStore{}
	resolver := &stubResolver{urls: map[string]string{"Foo Tower": "https://footower.co.jp/"}}
	svc := NewReconcileService(store, resolver)

	plan, err := svc.BuildPlan(context.Background(), []models.PropertyRecord{record("Foo Tower")})
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	stats := svc.Apply(context.Background(), plan)
	if stats.Inserted != 1 || stats.Errors != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	row := store.rows[0]
	if len(row) != storage.ColumnCount {
		t.Fatalf("expected %d cells, got %d", storage.ColumnCount, len(row))
	}
	if row[storage.ColDate-1] == "" {
		t.Fatal("expected date cell")
	}
	if row[storage.ColName-1] != "Foo Tower" {
		t.Fatalf("unexpected name cell %q", row[storage.ColName-1])
	}
	if !strings.HasPrefix(row[storage.ColForumURL-1], "https://www.e-mansion.co.jp/bbs/search/") {
		t.Fatalf("unexpected forum URL %q", row[storage.ColForumURL-1])
	}
	if !strings.Contains(row[storage.ColForumURL-1], "Foo%20Tower") {
		t.Fatalf("expected escaped name in forum URL, got %q", row[storage.ColForumURL-1])
	}
	if row[storage.ColOfficialURL-1] != "https://footower.co.jp/" {
		t.Fatalf("unexpected official URL %q", row[storage.ColOfficialURL-1])
	}
	if row[storage.ColLayout-1] != "1LDK・3LDK" {
		t.Fatalf("unexpected layout %q", row[storage.ColLayout-1])
	}
}

func TestApplyPatchesOnlyOfficialURL(t *testing.T) {
	store := &fakeStore{}
	store.addRow("A", "")
	store.rows[0][storage.ColAddress-1] = "既存の住所"
	resolver := &stubResolver{urls: map[string]string{"A": "https://a.example.co.jp/"}}
	svc := NewReconcileService(store, resolver)

	plan, err := svc.BuildPlan(context.Background(), []models.PropertyRecord{record("A")})
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	stats := svc.Apply(context.Background(), plan)
	if stats.Patched != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if store.rows[0][storage.ColOfficialURL-1] != "https://a.example.co.jp/" {
		t.Fatalf("official URL not patched: %v", store.rows[0])
	}
	if store.rows[0][storage.ColAddress-1] != "既存の住所" {
		t.Fatalf("other columns must stay untouched: %v", store.rows[0])
	}
}

func TestPipelineIdempotent(t *testing.T) {
	store := &fakeStore{}
	resolver := &stubResolver{urls: map[string]string{
		"Foo Tower":     "https://footower.co.jp/",
		"Bar Residence": "https://bar.example.co.jp/",
	}}
	svc := NewReconcileService(store, resolver)
	batch := []models.PropertyRecord{record("Foo Tower"), record("Bar Residence")}

	plan, err := svc.BuildPlan(context.Background(), batch)
	if err != nil {
		t.Fatalf("first plan failed: %v", err)
	}
	svc.Apply(context.Background(), plan)
	if len(store.rows) != 2 {
		t.Fatalf("expected 2 rows after first pass, got %d", len(store.rows))
	}

	plan, err = svc.BuildPlan(context.Background(), batch)
	if err != nil {
		t.Fatalf("second plan failed: %v", err)
	}
	stats := svc.Apply(context.Background(), plan)
	if stats.Inserted != 0 {
		t.Fatalf("second pass must insert nothing, inserted %d", stats.Inserted)
	}
	if len(store.rows) != 2 {
		t.Fatalf("expected 2 rows after second pass, got %d", len(store.rows))
	}
	if stats.Skipped != 2 {
		t.Fatalf("expected both records skipped, got %+v", stats)
	}
}
