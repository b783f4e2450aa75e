package snapshot

import (
	"github.com/dg-workos/opsassist/pkg/config"
	"github.com/dg-workos/opsassist/pkg/models"
)

// NoData marks a domain with nothing reported. Distinct from a clamped minimum
// so "nothing uploaded" never reads as "reported and critical".
const NoData = -1

// Health is one domain's derived score.
type Health struct {
	Domain string
	Agency string
	Score  int
	Label  string
}

// Scorer derives per-domain health scores from whatever signals a source
// returned. Bands and increments are ministry policy and come from config.
type Scorer struct {
	cfg config.ScoringConfig
}

// NewScorer creates a Scorer with the given policy bands.
func NewScorer(cfg config.ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

func (s *Scorer) clamp(score int) int {
	if score < s.cfg.Min {
		return s.cfg.Min
	}
	if score > s.cfg.Max {
		return s.cfg.Max
	}
	return score
}

// labelFor maps a clamped score onto the five ordered labels.
func (s *Scorer) labelFor(score int) string {
	if score == NoData {
		return "No Data"
	}
	span := s.cfg.Max - s.cfg.Min
	switch {
	case score >= s.cfg.Min+span*85/100:
		return "Strong"
	case score >= s.cfg.Min+span*70/100:
		return "Stable"
	case score >= s.cfg.Min+span*50/100:
		return "Watch"
	case score >= s.cfg.Min+span*30/100:
		return "Weak"
	default:
		return "Critical"
	}
}

func (s *Scorer) health(domain, agency string, score int) Health {
	return Health{Domain: domain, Agency: agency, Score: score, Label: s.labelFor(score)}
}

// Power scores the power utility from spare capacity and outage count.
func (s *Scorer) Power(r *PowerReport) Health {
	if r == nil || r.Summary == nil {
		return s.health("power", "GPL", NoData)
	}
	score := s.cfg.Baseline
	if r.Summary.PeakDemandMW > 0 {
		spare := r.Summary.AvailableMW / r.Summary.PeakDemandMW
		switch {
		case spare >= s.cfg.SpareHigh:
			score += s.cfg.StepMajor
		case spare < s.cfg.SpareLow:
			score -= s.cfg.StepMajor
		}
	}
	switch {
	case r.Summary.ActiveOutages > s.cfg.IncidentLimit:
		score -= s.cfg.StepMinor
	case r.Summary.ActiveOutages == 0:
		score += s.cfg.StepMinor
	}
	return s.health("power", "GPL", s.clamp(score))
}

// Water scores the water utility from collection rate, non-revenue water, and leaks.
func (s *Scorer) Water(r *WaterReport) Health {
	if r == nil || r.Monthly == nil {
		return s.health("water", "GWI", NoData)
	}
	score := s.cfg.Baseline
	switch {
	case r.Monthly.CollectionRatePct >= s.cfg.CollectionHigh:
		score += s.cfg.StepMajor
	case r.Monthly.CollectionRatePct < s.cfg.CollectionLow:
		score -= s.cfg.StepMajor
	}
	if r.Monthly.NonRevenuePct >= s.cfg.NonRevenueHigh {
		score -= s.cfg.StepMinor
	}
	if r.Monthly.ActiveLeaks > s.cfg.IncidentLimit {
		score -= s.cfg.StepMinor
	}
	return s.health("water", "GWI", s.clamp(score))
}

// Airport scores the airport from on-time performance and open incidents.
func (s *Scorer) Airport(r *models.AirportMonthlyReport) Health {
	if r == nil {
		return s.health("airport", "CJIA", NoData)
	}
	score := s.cfg.Baseline
	switch {
	case r.OnTimePct >= s.cfg.RateHigh:
		score += s.cfg.StepMajor
	case r.OnTimePct < s.cfg.RateLow:
		score -= s.cfg.StepMajor
	}
	switch {
	case r.OpenIncidents > s.cfg.IncidentLimit:
		score -= s.cfg.StepMinor
	case r.OpenIncidents == 0:
		score += s.cfg.StepMinor
	}
	return s.health("airport", "CJIA", s.clamp(score))
}

// CAA scores the aviation authority from compliance rate and open findings.
func (s *Scorer) CAA(r *models.CAAMonthlyReport) Health {
	if r == nil {
		return s.health("aviation-authority", "GCAA", NoData)
	}
	score := s.cfg.Baseline
	switch {
	case r.CompliancePct >= s.cfg.RateHigh:
		score += s.cfg.StepMajor
	case r.CompliancePct < s.cfg.RateLow:
		score -= s.cfg.StepMajor
	}
	switch {
	case r.OpenFindings > s.cfg.IncidentLimit:
		score -= s.cfg.StepMinor
	case r.OpenFindings == 0:
		score += s.cfg.StepMinor
	}
	return s.health("aviation-authority", "GCAA", s.clamp(score))
}

// Score derives all domain health entries from one report.
func (s *Scorer) Score(r *Report) []Health {
	return []Health{
		s.Power(r.Power),
		s.Water(r.Water),
		s.Airport(r.Airport),
		s.CAA(r.CAA),
	}
}
