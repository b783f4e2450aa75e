package classifier

import (
	"testing"

	"github.com/dg-workos/opsassist/pkg/models"
)

func TestDeepEscalation(t *testing.T) {
	questions := map[string]string{
		"compare all agencies and recommend priorities":           "comparison",
		"why did collections drop last month":                     "causal",
		"what is the passenger trend for next quarter":            "forecast",
		"what should the ministry prioritize this year":           "recommendation",
		"what is our worst case exposure if the plant goes down":  "risk",
		"give me a comprehensive review of the capital portfolio": "comprehensive",
	}
	for q, want := range questions {
		got := Classify(q)
		if got.Tier != models.TierDeep {
			t.Errorf("Classify(%q).Tier = %s, want deep", q, got.Tier)
		}
		if got.QueryType != want {
			t.Errorf("Classify(%q).QueryType = %s, want %s", q, got.QueryType, want)
		}
	}
}

func TestCheapLookups(t *testing.T) {
	questions := map[string]string{
		"what is the GPL health score":       "health_score",
		"how many tasks are overdue":         "count",
		"what is the on-time rate this month": "kpi",
		"what's on today's schedule":         "schedule",
	}
	for q, want := range questions {
		got := Classify(q)
		if got.Tier != models.TierCheap {
			t.Errorf("Classify(%q).Tier = %s, want cheap", q, got.Tier)
		}
		if got.QueryType != want {
			t.Errorf("Classify(%q).QueryType = %s, want %s", q, got.QueryType, want)
		}
	}
}

func TestPortfolioCountsStayCheap(t *testing.T) {
	// Mentioning projects must not read as a forecasting request.
	questions := []string{
		"how many projects are delayed",
		"what is the count of delayed projects",
		"how many projects does GPL have",
	}
	for _, q := range questions {
		got := Classify(q)
		if got.Tier != models.TierCheap {
			t.Errorf("Classify(%q).Tier = %s, want cheap", q, got.Tier)
		}
		if got.QueryType != "count" {
			t.Errorf("Classify(%q).QueryType = %s, want count", q, got.QueryType)
		}
	}
}

func TestProjectionVocabularyStillEscalates(t *testing.T) {
	questions := []string{
		"what is the revenue projection for next year",
		"what is the projected demand for the east bank corridor",
	}
	for _, q := range questions {
		got := Classify(q)
		if got.Tier != models.TierDeep || got.QueryType != "forecast" {
			t.Errorf("Classify(%q) = %s/%s, want deep/forecast", q, got.Tier, got.QueryType)
		}
	}
}

func TestDefaultStandard(t *testing.T) {
	got := Classify("tell me about the water utility")
	if got.Tier != models.TierStandard {
		t.Errorf("expected standard tier, got %s", got.Tier)
	}
	if got.QueryType != "general" {
		t.Errorf("expected general query type, got %s", got.QueryType)
	}
}

func TestDeepBeatsCheap(t *testing.T) {
	// Matches both a cheap rule (health score) and a deep rule (comparison).
	got := Classify("compare the health score across all agencies")
	if got.Tier != models.TierDeep {
		t.Errorf("expected deep tier when deep and cheap rules both match, got %s", got.Tier)
	}
}

func TestClassifyNeverFails(t *testing.T) {
	for _, q := range []string{"", "   ", "???", "x"} {
		got := Classify(q)
		if got.Tier != models.TierStandard {
			t.Errorf("Classify(%q) = %s, want standard fallback", q, got.Tier)
		}
	}
}
