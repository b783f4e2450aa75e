// Package store provides read accessors over the dashboard's operational
// database. Each accessor is one collaborator contract for the context
// assembler and fails independently.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dg-workos/opsassist/pkg/models"
)

// Store reads latest known operational state.
type Store struct {
	db *sql.DB
}

const createTables = `
CREATE TABLE IF NOT EXISTS power_daily_summaries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	date DATETIME NOT NULL,
	available_mw REAL NOT NULL,
	peak_demand_mw REAL NOT NULL,
	active_outages INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS power_stations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	status TEXT NOT NULL,
	output_mw REAL NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS power_kpis (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	value REAL NOT NULL,
	target REAL NOT NULL,
	unit TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS water_monthly_reports (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	month TEXT NOT NULL,
	production_mg REAL NOT NULL,
	non_revenue_pct REAL NOT NULL,
	collection_rate_pct REAL NOT NULL,
	active_leaks INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS water_insights (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	summary TEXT NOT NULL,
	generated_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS water_complaints (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	week_of DATETIME NOT NULL,
	open INTEGER NOT NULL,
	resolved INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS airport_monthly_reports (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	month TEXT NOT NULL,
	passengers INTEGER NOT NULL,
	on_time_pct REAL NOT NULL,
	open_incidents INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS caa_monthly_reports (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	month TEXT NOT NULL,
	inspections_done INTEGER NOT NULL,
	compliance_pct REAL NOT NULL,
	open_findings INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS projects (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	agency TEXT NOT NULL,
	status TEXT NOT NULL,
	percent_complete INTEGER NOT NULL DEFAULT 0,
	days_delayed INTEGER NOT NULL DEFAULT 0,
	budget REAL NOT NULL DEFAULT 0,
	spent REAL NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	status TEXT NOT NULL,
	agency TEXT NOT NULL DEFAULT '',
	due_date DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS calendar_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	starts_at DATETIME NOT NULL,
	location TEXT NOT NULL DEFAULT ''
);
`

// Open opens the operational database and runs auto-migration.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open ops db: %w", err)
	}
	if _, err := db.Exec(createTables); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate ops db: %w", err)
	}
	return &Store{db: db}, nil
}

// PowerDailySummary returns the power utility's latest daily summary.
func (s *Store) PowerDailySummary(ctx context.Context) (*models.PowerDailySummary, error) {
	var r models.PowerDailySummary
	err := s.db.QueryRowContext(ctx,
		`SELECT date, available_mw, peak_demand_mw, active_outages
		 FROM power_daily_summaries ORDER BY date DESC LIMIT 1`,
	).Scan(&r.Date, &r.AvailableMW, &r.PeakDemandMW, &r.ActiveOutages)
	if err != nil {
		return nil, fmt.Errorf("power daily summary: %w", err)
	}
	return &r, nil
}

// PowerStations returns per-station status.
func (s *Store) PowerStations(ctx context.Context) ([]models.StationStatus, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, status, output_mw FROM power_stations ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("power stations: %w", err)
	}
	defer rows.Close()

	var stations []models.StationStatus
	for rows.Next() {
		var st models.StationStatus
		if err := rows.Scan(&st.Name, &st.Status, &st.OutputMW); err != nil {
			return nil, fmt.Errorf("scan station: %w", err)
		}
		stations = append(stations, st)
	}
	return stations, rows.Err()
}

// PowerKPIs returns the power utility's monthly KPI set.
func (s *Store) PowerKPIs(ctx context.Context) ([]models.PowerKPI, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, value, target, unit FROM power_kpis ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("power kpis: %w", err)
	}
	defer rows.Close()

	var kpis []models.PowerKPI
	for rows.Next() {
		var k models.PowerKPI
		if err := rows.Scan(&k.Name, &k.Value, &k.Target, &k.Unit); err != nil {
			return nil, fmt.Errorf("scan kpi: %w", err)
		}
		kpis = append(kpis, k)
	}
	return kpis, rows.Err()
}

// WaterMonthlyReport returns the water utility's latest monthly report.
func (s *Store) WaterMonthlyReport(ctx context.Context) (*models.WaterMonthlyReport, error) {
	var r models.WaterMonthlyReport
	err := s.db.QueryRowContext(ctx,
		`SELECT month, production_mg, non_revenue_pct, collection_rate_pct, active_leaks
		 FROM water_monthly_reports ORDER BY id DESC LIMIT 1`,
	).Scan(&r.Month, &r.ProductionMG, &r.NonRevenuePct, &r.CollectionRatePct, &r.ActiveLeaks)
	if err != nil {
		return nil, fmt.Errorf("water monthly report: %w", err)
	}
	return &r, nil
}

// WaterInsight returns the latest AI-derived water insight.
func (s *Store) WaterInsight(ctx context.Context) (*models.WaterInsight, error) {
	var r models.WaterInsight
	err := s.db.QueryRowContext(ctx,
		`SELECT summary, generated_at FROM water_insights ORDER BY generated_at DESC LIMIT 1`,
	).Scan(&r.Summary, &r.GeneratedAt)
	if err != nil {
		return nil, fmt.Errorf("water insight: %w", err)
	}
	return &r, nil
}

// WaterComplaints returns the latest weekly complaints snapshot.
func (s *Store) WaterComplaints(ctx context.Context) (*models.ComplaintsSnapshot, error) {
	var r models.ComplaintsSnapshot
	err := s.db.QueryRowContext(ctx,
		`SELECT week_of, open, resolved FROM water_complaints ORDER BY week_of DESC LIMIT 1`,
	).Scan(&r.WeekOf, &r.Open, &r.Resolved)
	if err != nil {
		return nil, fmt.Errorf("water complaints: %w", err)
	}
	return &r, nil
}

// AirportMonthlyReport returns the airport's latest monthly report.
func (s *Store) AirportMonthlyReport(ctx context.Context) (*models.AirportMonthlyReport, error) {
	var r models.AirportMonthlyReport
	err := s.db.QueryRowContext(ctx,
		`SELECT month, passengers, on_time_pct, open_incidents
		 FROM airport_monthly_reports ORDER BY id DESC LIMIT 1`,
	).Scan(&r.Month, &r.Passengers, &r.OnTimePct, &r.OpenIncidents)
	if err != nil {
		return nil, fmt.Errorf("airport monthly report: %w", err)
	}
	return &r, nil
}

// CAAMonthlyReport returns the aviation authority's latest monthly report.
func (s *Store) CAAMonthlyReport(ctx context.Context) (*models.CAAMonthlyReport, error) {
	var r models.CAAMonthlyReport
	err := s.db.QueryRowContext(ctx,
		`SELECT month, inspections_done, compliance_pct, open_findings
		 FROM caa_monthly_reports ORDER BY id DESC LIMIT 1`,
	).Scan(&r.Month, &r.InspectionsDone, &r.CompliancePct, &r.OpenFindings)
	if err != nil {
		return nil, fmt.Errorf("caa monthly report: %w", err)
	}
	return &r, nil
}

// PortfolioSummary aggregates the capital-project portfolio.
func (s *Store) PortfolioSummary(ctx context.Context) (*models.PortfolioSummary, error) {
	var r models.PortfolioSummary
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN days_delayed = 0 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN days_delayed > 0 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(budget), 0),
		        COALESCE(SUM(spent), 0)
		 FROM projects WHERE status != 'completed'`,
	).Scan(&r.TotalProjects, &r.OnTrack, &r.Delayed, &r.BudgetTotal, &r.BudgetSpent)
	if err != nil {
		return nil, fmt.Errorf("portfolio summary: %w", err)
	}
	return &r, nil
}

// DelayedProjects returns delayed projects ordered by days delayed, worst first.
func (s *Store) DelayedProjects(ctx context.Context) ([]models.DelayedProject, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, agency, days_delayed, percent_complete
		 FROM projects WHERE days_delayed > 0 AND status != 'completed'
		 ORDER BY days_delayed DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("delayed projects: %w", err)
	}
	defer rows.Close()

	var projects []models.DelayedProject
	for rows.Next() {
		var p models.DelayedProject
		if err := rows.Scan(&p.Name, &p.Agency, &p.DaysDelayed, &p.PercentComplete); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// ActiveTasks returns tasks not yet completed, soonest due first.
func (s *Store) ActiveTasks(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, status, agency, due_date
		 FROM tasks WHERE status NOT IN ('done', 'cancelled')
		 ORDER BY due_date ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("active tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var tk models.Task
		if err := rows.Scan(&tk.ID, &tk.Title, &tk.Status, &tk.Agency, &tk.DueDate); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, tk)
	}
	return tasks, rows.Err()
}

// EventsBetween returns calendar events within [from, to), earliest first.
func (s *Store) EventsBetween(ctx context.Context, from, to time.Time) ([]models.CalendarEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, starts_at, location
		 FROM calendar_events WHERE starts_at >= ? AND starts_at < ?
		 ORDER BY starts_at ASC`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("calendar events: %w", err)
	}
	defer rows.Close()

	var events []models.CalendarEvent
	for rows.Next() {
		var e models.CalendarEvent
		if err := rows.Scan(&e.ID, &e.Title, &e.StartsAt, &e.Location); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
