package snapshot

import (
	"fmt"
	"strings"
	"time"

	"github.com/dg-workos/opsassist/pkg/models"
)

// Pages with expanded sections.
const (
	PageHome     = "home"
	PageProjects = "projects"
)

// delayedLimit caps the delayed-project listing off the portfolio page.
const delayedLimit = 10

// render produces the grounding document. Sections are fixed; detail depth
// depends on which page the operator is viewing.
func render(r *Report, healths []Health, page string) string {
	var b strings.Builder
	now := time.Now().UTC()

	b.WriteString("=== AGENCY HEALTH SCORES ===\n")
	for _, h := range healths {
		if h.Score == NoData {
			fmt.Fprintf(&b, "%s (%s): No Data\n", h.Agency, h.Domain)
		} else {
			fmt.Fprintf(&b, "%s (%s): %d/100 — %s\n", h.Agency, h.Domain, h.Score, h.Label)
		}
	}

	b.WriteString("\n=== POWER UTILITY (GPL) ===\n")
	if r.Power == nil {
		b.WriteString("No data reported.\n")
	} else {
		s := r.Power.Summary
		fmt.Fprintf(&b, "Daily summary %s: available %.1f MW, peak demand %.1f MW, active outages %d\n",
			s.Date.Format("2006-01-02"), s.AvailableMW, s.PeakDemandMW, s.ActiveOutages)
		for _, st := range r.Power.Stations {
			fmt.Fprintf(&b, "Station %s: %s (%.1f MW)\n", st.Name, st.Status, st.OutputMW)
		}
		for _, k := range r.Power.KPIs {
			fmt.Fprintf(&b, "KPI %s: %.1f%s (target %.1f%s)\n", k.Name, k.Value, k.Unit, k.Target, k.Unit)
		}
	}

	b.WriteString("\n=== WATER UTILITY (GWI) ===\n")
	if r.Water == nil {
		b.WriteString("No data reported.\n")
	} else {
		m := r.Water.Monthly
		fmt.Fprintf(&b, "Monthly report %s: production %.1f MG, non-revenue %.1f%%, collection rate %.1f%%, active leaks %d\n",
			m.Month, m.ProductionMG, m.NonRevenuePct, m.CollectionRatePct, m.ActiveLeaks)
		if r.Water.Insight != nil {
			fmt.Fprintf(&b, "Latest insight: %s\n", r.Water.Insight.Summary)
		}
		if c := r.Water.Complaints; c != nil {
			fmt.Fprintf(&b, "Complaints week of %s: %d open, %d resolved\n",
				c.WeekOf.Format("2006-01-02"), c.Open, c.Resolved)
		}
	}

	b.WriteString("\n=== AIRPORT (CJIA) ===\n")
	if r.Airport == nil {
		b.WriteString("No data reported.\n")
	} else {
		fmt.Fprintf(&b, "Monthly report %s: %d passengers, %.1f%% on-time, %d open incidents\n",
			r.Airport.Month, r.Airport.Passengers, r.Airport.OnTimePct, r.Airport.OpenIncidents)
	}

	b.WriteString("\n=== AVIATION AUTHORITY (GCAA) ===\n")
	if r.CAA == nil {
		b.WriteString("No data reported.\n")
	} else {
		fmt.Fprintf(&b, "Monthly report %s: %d inspections, %.1f%% compliance, %d open findings\n",
			r.CAA.Month, r.CAA.InspectionsDone, r.CAA.CompliancePct, r.CAA.OpenFindings)
	}

	b.WriteString("\n=== CAPITAL PROJECT PORTFOLIO ===\n")
	if r.Portfolio == nil {
		b.WriteString("No data reported.\n")
	} else {
		s := r.Portfolio.Summary
		fmt.Fprintf(&b, "%d active projects: %d on track, %d delayed. Budget $%.0f, spent $%.0f\n",
			s.TotalProjects, s.OnTrack, s.Delayed, s.BudgetTotal, s.BudgetSpent)
		delayed := r.Portfolio.Delayed
		if page != PageProjects && len(delayed) > delayedLimit {
			fmt.Fprintf(&b, "Top %d delayed projects (of %d):\n", delayedLimit, len(delayed))
			delayed = delayed[:delayedLimit]
		} else if len(delayed) > 0 {
			b.WriteString("Delayed projects:\n")
		}
		for _, p := range delayed {
			fmt.Fprintf(&b, "- %s (%s): %d days behind, %d%% complete\n",
				p.Name, p.Agency, p.DaysDelayed, p.PercentComplete)
		}
	}

	b.WriteString("\n=== ACTIVE TASKS ===\n")
	renderTasks(&b, r.Tasks, page, now)

	b.WriteString("\n=== CALENDAR ===\n")
	renderEvents(&b, "Today", r.Today)
	renderEvents(&b, "This week", r.Week)

	if len(r.Gaps) > 0 {
		fmt.Fprintf(&b, "\nData gaps (no response from): %s\n", strings.Join(r.Gaps, ", "))
	} else {
		b.WriteString("\nData gaps: none\n")
	}
	fmt.Fprintf(&b, "Current page: %s\n", page)

	return b.String()
}

// renderTasks partitions tasks into overdue / due today / due this week.
// Individual tasks are enumerated only on the home page; elsewhere the counts
// keep the document bounded.
func renderTasks(b *strings.Builder, tasks []models.Task, page string, now time.Time) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)
	weekEnd := dayStart.AddDate(0, 0, 7)

	var overdue, dueToday, dueWeek []models.Task
	for _, t := range tasks {
		switch {
		case t.DueDate.Before(dayStart):
			overdue = append(overdue, t)
		case t.DueDate.Before(dayEnd):
			dueToday = append(dueToday, t)
		case t.DueDate.Before(weekEnd):
			dueWeek = append(dueWeek, t)
		}
	}

	groups := []struct {
		label string
		tasks []models.Task
	}{
		{"Overdue", overdue},
		{"Due today", dueToday},
		{"Due this week", dueWeek},
	}
	for _, g := range groups {
		fmt.Fprintf(b, "%s: %d\n", g.label, len(g.tasks))
		if page != PageHome {
			continue
		}
		for _, t := range g.tasks {
			agency := t.Agency
			if agency == "" {
				agency = "ministry"
			}
			fmt.Fprintf(b, "- %s (%s, due %s)\n", t.Title, agency, t.DueDate.Format("2006-01-02"))
		}
	}
}

func renderEvents(b *strings.Builder, label string, events []models.CalendarEvent) {
	if len(events) == 0 {
		fmt.Fprintf(b, "%s: no events\n", label)
		return
	}
	fmt.Fprintf(b, "%s:\n", label)
	for _, e := range events {
		if e.Location != "" {
			fmt.Fprintf(b, "- %s at %s (%s)\n", e.Title, e.StartsAt.Format("15:04"), e.Location)
		} else {
			fmt.Fprintf(b, "- %s at %s\n", e.Title, e.StartsAt.Format("15:04"))
		}
	}
}
