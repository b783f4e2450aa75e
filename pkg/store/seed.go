package store

import (
	"context"
	"fmt"
	"time"
)

// Seed loads a small demo dataset so the assistant has something to ground on.
// Existing rows are left in place.
func (s *Store) Seed(ctx context.Context) error {
	now := time.Now().UTC()
	stmts := []struct {
		query string
		args  []any
	}{
		{`INSERT INTO power_daily_summaries (date, available_mw, peak_demand_mw, active_outages) VALUES (?, ?, ?, ?)`,
			[]any{now, 172.5, 148.0, 2}},
		{`INSERT INTO power_stations (name, status, output_mw) VALUES (?, ?, ?)`,
			[]any{"Garden of Eden", "online", 46.5}},
		{`INSERT INTO power_stations (name, status, output_mw) VALUES (?, ?, ?)`,
			[]any{"Kingston", "online", 72.0}},
		{`INSERT INTO power_stations (name, status, output_mw) VALUES (?, ?, ?)`,
			[]any{"Canefield", "maintenance", 0}},
		{`INSERT INTO power_kpis (name, value, target, unit) VALUES (?, ?, ?, ?)`,
			[]any{"System losses", 27.4, 24.0, "%"}},
		{`INSERT INTO power_kpis (name, value, target, unit) VALUES (?, ?, ?, ?)`,
			[]any{"Collection rate", 91.2, 95.0, "%"}},
		{`INSERT INTO water_monthly_reports (month, production_mg, non_revenue_pct, collection_rate_pct, active_leaks) VALUES (?, ?, ?, ?, ?)`,
			[]any{now.Format("2006-01"), 812.3, 38.5, 82.1, 14}},
		{`INSERT INTO water_insights (summary, generated_at) VALUES (?, ?)`,
			[]any{"Non-revenue water remains the dominant loss driver; leak repairs in Region 4 lag the backlog target.", now}},
		{`INSERT INTO water_complaints (week_of, open, resolved) VALUES (?, ?, ?)`,
			[]any{now.AddDate(0, 0, -int(now.Weekday())), 23, 41}},
		{`INSERT INTO airport_monthly_reports (month, passengers, on_time_pct, open_incidents) VALUES (?, ?, ?, ?)`,
			[]any{now.Format("2006-01"), 48211, 78.4, 1}},
		{`INSERT INTO caa_monthly_reports (month, inspections_done, compliance_pct, open_findings) VALUES (?, ?, ?, ?)`,
			[]any{now.Format("2006-01"), 12, 88.9, 3}},
		{`INSERT INTO projects (name, agency, status, percent_complete, days_delayed, budget, spent) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			[]any{"East Coast transmission upgrade", "GPL", "active", 62, 45, 12_500_000, 8_100_000}},
		{`INSERT INTO projects (name, agency, status, percent_complete, days_delayed, budget, spent) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			[]any{"Treatment plant rehabilitation", "GWI", "active", 38, 120, 6_200_000, 2_900_000}},
		{`INSERT INTO projects (name, agency, status, percent_complete, days_delayed, budget, spent) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			[]any{"Terminal expansion phase 2", "CJIA", "active", 81, 0, 22_000_000, 17_600_000}},
		{`INSERT INTO tasks (title, status, agency, due_date) VALUES (?, ?, ?, ?)`,
			[]any{"Submit Q3 loss-reduction plan", "open", "GPL", now.AddDate(0, 0, -3)}},
		{`INSERT INTO tasks (title, status, agency, due_date) VALUES (?, ?, ?, ?)`,
			[]any{"Review complaints backlog", "open", "GWI", now}},
		{`INSERT INTO tasks (title, status, agency, due_date) VALUES (?, ?, ?, ?)`,
			[]any{"Board paper on tariff study", "in_progress", "", now.AddDate(0, 0, 4)}},
		{`INSERT INTO calendar_events (title, starts_at, location) VALUES (?, ?, ?)`,
			[]any{"Utility performance review", now.Add(2 * time.Hour), "Conference Room A"}},
		{`INSERT INTO calendar_events (title, starts_at, location) VALUES (?, ?, ?)`,
			[]any{"Site visit: treatment plant", now.AddDate(0, 0, 2), "Region 4"}},
	}

	for _, st := range stmts {
		if _, err := s.db.ExecContext(ctx, st.query, st.args...); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	return nil
}
