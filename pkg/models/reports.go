package models

import "time"

// Domain report records read by the context assembler. Each carries only the
// fields the health scoring and rendering logic consume; extra upstream columns
// are ignored at the store layer.

// PowerDailySummary is the power utility's latest daily operations summary.
type PowerDailySummary struct {
	Date          time.Time `json:"date"`
	AvailableMW   float64   `json:"available_mw"`
	PeakDemandMW  float64   `json:"peak_demand_mw"`
	ActiveOutages int       `json:"active_outages"`
}

// StationStatus is one generating station's current state.
type StationStatus struct {
	Name     string  `json:"name"`
	Status   string  `json:"status"`
	OutputMW float64 `json:"output_mw"`
}

// PowerKPI is one entry from the power utility's monthly KPI set.
type PowerKPI struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Target float64 `json:"target"`
	Unit   string  `json:"unit"`
}

// WaterMonthlyReport is the water utility's latest monthly report.
type WaterMonthlyReport struct {
	Month             string  `json:"month"`
	ProductionMG      float64 `json:"production_mg"`
	NonRevenuePct     float64 `json:"non_revenue_pct"`
	CollectionRatePct float64 `json:"collection_rate_pct"`
	ActiveLeaks       int     `json:"active_leaks"`
}

// WaterInsight is the latest AI-derived insight for the water utility.
type WaterInsight struct {
	Summary     string    `json:"summary"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ComplaintsSnapshot is the latest weekly complaints position for the water utility.
type ComplaintsSnapshot struct {
	WeekOf   time.Time `json:"week_of"`
	Open     int       `json:"open"`
	Resolved int       `json:"resolved"`
}

// AirportMonthlyReport is the airport's latest monthly operations report.
type AirportMonthlyReport struct {
	Month         string  `json:"month"`
	Passengers    int     `json:"passengers"`
	OnTimePct     float64 `json:"on_time_pct"`
	OpenIncidents int     `json:"open_incidents"`
}

// CAAMonthlyReport is the civil aviation authority's latest monthly report.
type CAAMonthlyReport struct {
	Month           string  `json:"month"`
	InspectionsDone int     `json:"inspections_done"`
	CompliancePct   float64 `json:"compliance_pct"`
	OpenFindings    int     `json:"open_findings"`
}

// PortfolioSummary aggregates the capital-project portfolio.
type PortfolioSummary struct {
	TotalProjects int     `json:"total_projects"`
	OnTrack       int     `json:"on_track"`
	Delayed       int     `json:"delayed"`
	BudgetTotal   float64 `json:"budget_total"`
	BudgetSpent   float64 `json:"budget_spent"`
}

// DelayedProject is one delayed capital project.
type DelayedProject struct {
	Name            string `json:"name"`
	Agency          string `json:"agency"`
	DaysDelayed     int    `json:"days_delayed"`
	PercentComplete int    `json:"percent_complete"`
}

// Task is one active operational task.
type Task struct {
	ID      int64     `json:"id"`
	Title   string    `json:"title"`
	Status  string    `json:"status"`
	Agency  string    `json:"agency"`
	DueDate time.Time `json:"due_date"`
}

// CalendarEvent is one scheduled event.
type CalendarEvent struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	StartsAt time.Time `json:"starts_at"`
	Location string    `json:"location"`
}
