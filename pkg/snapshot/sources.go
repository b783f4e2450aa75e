package snapshot

import (
	"context"
	"time"

	"github.com/dg-workos/opsassist/pkg/models"
	"github.com/dg-workos/opsassist/pkg/store"
)

// Report is the fan-in result of one assembly cycle. A nil domain pointer or
// empty slice means that source contributed nothing; Gaps names the sources
// that failed outright.
type Report struct {
	Power     *PowerReport
	Water     *WaterReport
	Airport   *models.AirportMonthlyReport
	CAA       *models.CAAMonthlyReport
	Portfolio *PortfolioReport
	Tasks     []models.Task
	Today     []models.CalendarEvent
	Week      []models.CalendarEvent
	Gaps      []string
}

// PowerReport groups the power utility's reads.
type PowerReport struct {
	Summary  *models.PowerDailySummary
	Stations []models.StationStatus
	KPIs     []models.PowerKPI
}

// WaterReport groups the water utility's reads.
type WaterReport struct {
	Monthly    *models.WaterMonthlyReport
	Insight    *models.WaterInsight
	Complaints *models.ComplaintsSnapshot
}

// PortfolioReport groups the capital-project reads.
type PortfolioReport struct {
	Summary *models.PortfolioSummary
	Delayed []models.DelayedProject
}

// Source is one independently failable read of operational state. Fetch writes
// only its own slot of the report; a returned error means the source
// contributed nothing this cycle.
type Source interface {
	Name() string
	Fetch(ctx context.Context, r *Report) error
}

// StoreSources returns the full source set backed by the operational store.
func StoreSources(st *store.Store) []Source {
	return []Source{
		powerSource{st},
		waterSource{st},
		airportSource{st},
		caaSource{st},
		projectsSource{st},
		tasksSource{st},
		calendarSource{st},
	}
}

type powerSource struct{ st *store.Store }

func (powerSource) Name() string { return "power" }

func (s powerSource) Fetch(ctx context.Context, r *Report) error {
	summary, err := s.st.PowerDailySummary(ctx)
	if err != nil {
		return err
	}
	p := &PowerReport{Summary: summary}
	// Station and KPI detail degrade silently; the daily summary is the
	// signal health scoring needs.
	if stations, err := s.st.PowerStations(ctx); err == nil {
		p.Stations = stations
	}
	if kpis, err := s.st.PowerKPIs(ctx); err == nil {
		p.KPIs = kpis
	}
	r.Power = p
	return nil
}

type waterSource struct{ st *store.Store }

func (waterSource) Name() string { return "water" }

func (s waterSource) Fetch(ctx context.Context, r *Report) error {
	monthly, err := s.st.WaterMonthlyReport(ctx)
	if err != nil {
		return err
	}
	w := &WaterReport{Monthly: monthly}
	if insight, err := s.st.WaterInsight(ctx); err == nil {
		w.Insight = insight
	}
	if complaints, err := s.st.WaterComplaints(ctx); err == nil {
		w.Complaints = complaints
	}
	r.Water = w
	return nil
}

type airportSource struct{ st *store.Store }

func (airportSource) Name() string { return "airport" }

func (s airportSource) Fetch(ctx context.Context, r *Report) error {
	report, err := s.st.AirportMonthlyReport(ctx)
	if err != nil {
		return err
	}
	r.Airport = report
	return nil
}

type caaSource struct{ st *store.Store }

func (caaSource) Name() string { return "aviation-authority" }

func (s caaSource) Fetch(ctx context.Context, r *Report) error {
	report, err := s.st.CAAMonthlyReport(ctx)
	if err != nil {
		return err
	}
	r.CAA = report
	return nil
}

type projectsSource struct{ st *store.Store }

func (projectsSource) Name() string { return "projects" }

func (s projectsSource) Fetch(ctx context.Context, r *Report) error {
	summary, err := s.st.PortfolioSummary(ctx)
	if err != nil {
		return err
	}
	delayed, err := s.st.DelayedProjects(ctx)
	if err != nil {
		return err
	}
	r.Portfolio = &PortfolioReport{Summary: summary, Delayed: delayed}
	return nil
}

type tasksSource struct{ st *store.Store }

func (tasksSource) Name() string { return "tasks" }

func (s tasksSource) Fetch(ctx context.Context, r *Report) error {
	tasks, err := s.st.ActiveTasks(ctx)
	if err != nil {
		return err
	}
	r.Tasks = tasks
	return nil
}

type calendarSource struct{ st *store.Store }

func (calendarSource) Name() string { return "calendar" }

func (s calendarSource) Fetch(ctx context.Context, r *Report) error {
	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	today, err := s.st.EventsBetween(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return err
	}
	week, err := s.st.EventsBetween(ctx, dayStart, dayStart.AddDate(0, 0, 7))
	if err != nil {
		return err
	}
	r.Today = today
	r.Week = week
	return nil
}
