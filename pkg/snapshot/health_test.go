package snapshot

import (
	"testing"

	"github.com/dg-workos/opsassist/pkg/config"
	"github.com/dg-workos/opsassist/pkg/models"
)

func testScorer() *Scorer {
	return NewScorer(config.Default().Scoring)
}

func TestPowerScoreBands(t *testing.T) {
	s := testScorer()

	// Healthy spare capacity, no outages: baseline + major + minor.
	h := s.Power(&PowerReport{Summary: &models.PowerDailySummary{
		AvailableMW: 180, PeakDemandMW: 140,
	}})
	if h.Score != 80 {
		t.Errorf("healthy power score = %d, want 80", h.Score)
	}
	if h.Label != "Stable" {
		t.Errorf("healthy power label = %s, want Stable", h.Label)
	}

	// Thin margin with many outages: baseline - major - minor.
	h = s.Power(&PowerReport{Summary: &models.PowerDailySummary{
		AvailableMW: 140, PeakDemandMW: 140, ActiveOutages: 8,
	}})
	if h.Score != 20 {
		t.Errorf("stressed power score = %d, want 20", h.Score)
	}
	if h.Label != "Critical" {
		t.Errorf("stressed power label = %s, want Critical", h.Label)
	}
}

func TestWaterScoreClamped(t *testing.T) {
	s := testScorer()

	// Every penalty at once must clamp, not go negative.
	h := s.Water(&WaterReport{Monthly: &models.WaterMonthlyReport{
		CollectionRatePct: 40, NonRevenuePct: 55, ActiveLeaks: 30,
	}})
	if h.Score != 10 {
		t.Errorf("stressed water score = %d, want 10", h.Score)
	}

	h = s.Water(&WaterReport{Monthly: &models.WaterMonthlyReport{
		CollectionRatePct: 95, NonRevenuePct: 20,
	}})
	if h.Score != 70 {
		t.Errorf("healthy water score = %d, want 70", h.Score)
	}
}

func TestNoDataDistinctFromWorst(t *testing.T) {
	s := testScorer()

	noData := s.Airport(nil)
	if noData.Score != NoData || noData.Label != "No Data" {
		t.Errorf("missing source should score No Data, got %+v", noData)
	}

	worst := s.Airport(&models.AirportMonthlyReport{OnTimePct: 10, OpenIncidents: 50})
	if worst.Score == NoData {
		t.Error("a reported-but-bad score must not equal the No Data sentinel")
	}
	if worst.Label != "Critical" {
		t.Errorf("worst airport label = %s, want Critical", worst.Label)
	}
}

func TestCAAScore(t *testing.T) {
	s := testScorer()

	h := s.CAA(&models.CAAMonthlyReport{CompliancePct: 92, OpenFindings: 0})
	if h.Score != 80 {
		t.Errorf("compliant CAA score = %d, want 80", h.Score)
	}
}

func TestScoreCoversAllDomains(t *testing.T) {
	s := testScorer()
	healths := s.Score(&Report{})
	if len(healths) != 4 {
		t.Fatalf("expected 4 domain scores, got %d", len(healths))
	}
	for _, h := range healths {
		if h.Score != NoData {
			t.Errorf("empty report should score No Data for %s, got %d", h.Domain, h.Score)
		}
	}
}
