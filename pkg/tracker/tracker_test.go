package tracker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dg-workos/opsassist/pkg/models"
)

func setup(t *testing.T) (*SQLiteTracker, context.Context) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "tracker_test.db")
	tr, err := New(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = tr.Close() })
	return tr, context.Background()
}

func TestRecordAndTotal(t *testing.T) {
	tr, ctx := setup(t)

	now := time.Now().UTC()
	_ = tr.Record(ctx, models.UsageRecord{
		Tier: "cheap", Model: "gpt-4o-mini",
		InputTokens: 100, OutputTokens: 50, TotalTokens: 150,
		CreatedAt: now,
	})
	_ = tr.Record(ctx, models.UsageRecord{
		Tier: "deep", Model: "o1",
		InputTokens: 1000, OutputTokens: 500, TotalTokens: 1500,
		CreatedAt: now,
	})

	total, err := tr.TotalSince(ctx, now.Add(-time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if total != 1650 {
		t.Errorf("expected 1650 total, got %d", total)
	}
}

func TestTotalSinceExcludesOlder(t *testing.T) {
	tr, ctx := setup(t)

	_ = tr.Record(ctx, models.UsageRecord{
		Tier: "standard", Model: "gpt-4o",
		InputTokens: 200, OutputTokens: 100, TotalTokens: 300,
		CreatedAt: time.Now().UTC().Add(-48 * time.Hour),
	})
	_ = tr.Record(ctx, models.UsageRecord{
		Tier: "standard", Model: "gpt-4o",
		InputTokens: 10, OutputTokens: 5, TotalTokens: 15,
		CreatedAt: time.Now().UTC(),
	})

	total, err := tr.TotalSince(ctx, time.Now().UTC().Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if total != 15 {
		t.Errorf("expected 15 (today only), got %d", total)
	}
}

func TestTotalByTier(t *testing.T) {
	tr, ctx := setup(t)

	now := time.Now().UTC()
	_ = tr.Record(ctx, models.UsageRecord{Tier: "cheap", Model: "m", TotalTokens: 100, CreatedAt: now})
	_ = tr.Record(ctx, models.UsageRecord{Tier: "deep", Model: "m", TotalTokens: 900, CreatedAt: now})

	total, err := tr.TotalByTierSince(ctx, "deep", now.Add(-time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if total != 900 {
		t.Errorf("expected 900 for deep, got %d", total)
	}
}

func TestSummary(t *testing.T) {
	tr, ctx := setup(t)

	now := time.Now().UTC()
	_ = tr.Record(ctx, models.UsageRecord{Tier: "cheap", Model: "m", InputTokens: 10, OutputTokens: 5, TotalTokens: 15, CreatedAt: now})
	_ = tr.Record(ctx, models.UsageRecord{Tier: "cheap", Model: "m", InputTokens: 20, OutputTokens: 10, TotalTokens: 30, CreatedAt: now})

	summaries, err := tr.Summary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary row, got %d", len(summaries))
	}
	if summaries[0].RequestCount != 2 || summaries[0].TotalTokens != 45 {
		t.Errorf("unexpected summary: %+v", summaries[0])
	}
}
