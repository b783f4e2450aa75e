package snapshot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dg-workos/opsassist/pkg/config"
	"github.com/dg-workos/opsassist/pkg/models"
)

type fakeSource struct {
	name  string
	delay time.Duration
	err   error
	fill  func(*Report)
}

func (f fakeSource) Name() string { return f.name }

func (f fakeSource) Fetch(ctx context.Context, r *Report) error {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if f.err != nil {
		return f.err
	}
	if f.fill != nil {
		f.fill(r)
	}
	return nil
}

func newTestAssembler(sources []Source, ttl time.Duration) *Assembler {
	return New(sources, config.Default().Scoring, config.SnapshotConfig{
		TTL:           ttl,
		SourceTimeout: 100 * time.Millisecond,
	}, nil)
}

func powerFill(r *Report) {
	r.Power = &PowerReport{Summary: &models.PowerDailySummary{
		Date: time.Now().UTC(), AvailableMW: 180, PeakDemandMW: 140,
	}}
}

func TestAssembleAllSourcesFailing(t *testing.T) {
	sources := []Source{
		fakeSource{name: "power", err: errors.New("down")},
		fakeSource{name: "water", err: errors.New("down")},
		fakeSource{name: "calendar", err: errors.New("down")},
	}
	a := newTestAssembler(sources, time.Minute)

	snap, err := a.Assemble(context.Background(), PageHome)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Text == "" {
		t.Fatal("expected a well-formed document even with every source failing")
	}
	for _, name := range []string{"power", "water", "calendar"} {
		found := false
		for _, g := range snap.Gaps {
			if g == name {
				found = true
			}
		}
		if !found {
			t.Errorf("gap list missing failed source %q", name)
		}
	}
	if !strings.Contains(snap.Text, "Data gaps (no response from): calendar, power, water") {
		t.Errorf("document does not name gaps:\n%s", snap.Text)
	}
	if !strings.Contains(snap.Text, "No Data") {
		t.Error("domains without data should score No Data")
	}
}

func TestAssembleCachesWithinTTL(t *testing.T) {
	calls := 0
	src := fakeSource{name: "power", fill: func(r *Report) {
		calls++
		powerFill(r)
	}}
	a := newTestAssembler([]Source{src}, time.Minute)
	ctx := context.Background()

	s1, _ := a.Assemble(ctx, PageHome)
	s2, _ := a.Assemble(ctx, PageHome)
	if calls != 1 {
		t.Errorf("expected 1 source call for repeated page, got %d", calls)
	}
	if s1 != s2 {
		t.Error("expected the cached snapshot to be returned unchanged")
	}
}

func TestAssembleNeverServedAcrossPages(t *testing.T) {
	calls := 0
	src := fakeSource{name: "power", fill: func(r *Report) {
		calls++
		powerFill(r)
	}}
	a := newTestAssembler([]Source{src}, time.Minute)
	ctx := context.Background()

	s1, _ := a.Assemble(ctx, PageHome)
	s2, _ := a.Assemble(ctx, PageProjects)
	if calls != 2 {
		t.Errorf("page change must rebuild, got %d source calls", calls)
	}
	if s1.Page == s2.Page {
		t.Error("snapshots should be built for their own pages")
	}
	if !strings.Contains(s2.Text, "Current page: projects") {
		t.Error("document missing current-page trailer")
	}
}

func TestAssembleExpiryRebuilds(t *testing.T) {
	calls := 0
	src := fakeSource{name: "power", fill: func(r *Report) { calls++ }}
	a := newTestAssembler([]Source{src}, 10*time.Millisecond)
	ctx := context.Background()

	_, _ = a.Assemble(ctx, PageHome)
	time.Sleep(20 * time.Millisecond)
	_, _ = a.Assemble(ctx, PageHome)
	if calls != 2 {
		t.Errorf("expected rebuild after TTL, got %d source calls", calls)
	}
}

func TestInvalidateForcesRebuild(t *testing.T) {
	calls := 0
	src := fakeSource{name: "power", fill: func(r *Report) { calls++ }}
	a := newTestAssembler([]Source{src}, time.Minute)
	ctx := context.Background()

	_, _ = a.Assemble(ctx, PageHome)
	a.Invalidate()
	_, _ = a.Assemble(ctx, PageHome)
	if calls != 2 {
		t.Errorf("expected rebuild after Invalidate, got %d source calls", calls)
	}
}

func TestSlowSourceTimesOutAlone(t *testing.T) {
	sources := []Source{
		fakeSource{name: "power", fill: powerFill},
		fakeSource{name: "water", delay: time.Second},
	}
	a := newTestAssembler(sources, time.Minute)

	start := time.Now()
	snap, err := a.Assemble(context.Background(), PageHome)
	if err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("slow source stalled assembly for %v", elapsed)
	}
	if len(snap.Gaps) != 1 || snap.Gaps[0] != "water" {
		t.Errorf("expected only water in gaps, got %v", snap.Gaps)
	}
	if !strings.Contains(snap.Text, "Daily summary") {
		t.Error("healthy source's data missing from document")
	}
}

func TestRenderTaskEnumerationOnlyOnHome(t *testing.T) {
	now := time.Now().UTC()
	fill := func(r *Report) {
		r.Tasks = []models.Task{
			{Title: "Overdue thing", Status: "open", DueDate: now.AddDate(0, 0, -2)},
			{Title: "Today thing", Status: "open", DueDate: now},
		}
	}
	ctx := context.Background()

	home, _ := newTestAssembler([]Source{fakeSource{name: "tasks", fill: fill}}, time.Minute).Assemble(ctx, PageHome)
	if !strings.Contains(home.Text, "Overdue thing") {
		t.Error("home page should enumerate tasks")
	}

	other, _ := newTestAssembler([]Source{fakeSource{name: "tasks", fill: fill}}, time.Minute).Assemble(ctx, "budget")
	if strings.Contains(other.Text, "Overdue thing") {
		t.Error("non-home pages should show task counts only")
	}
	if !strings.Contains(other.Text, "Overdue: 1") {
		t.Error("non-home pages should still show task counts")
	}
}

func TestRenderDelayedProjectLimit(t *testing.T) {
	fill := func(r *Report) {
		var delayed []models.DelayedProject
		for i := 0; i < 15; i++ {
			delayed = append(delayed, models.DelayedProject{
				Name: "Project " + string(rune('A'+i)), Agency: "GPL", DaysDelayed: 100 - i,
			})
		}
		r.Portfolio = &PortfolioReport{
			Summary: &models.PortfolioSummary{TotalProjects: 15, Delayed: 15},
			Delayed: delayed,
		}
	}
	ctx := context.Background()

	projects, _ := newTestAssembler([]Source{fakeSource{name: "projects", fill: fill}}, time.Minute).Assemble(ctx, PageProjects)
	if strings.Count(projects.Text, "Project ") != 15 {
		t.Error("projects page should list every delayed project")
	}

	home, _ := newTestAssembler([]Source{fakeSource{name: "projects", fill: fill}}, time.Minute).Assemble(ctx, PageHome)
	if got := strings.Count(home.Text, "Project "); got != 10 {
		t.Errorf("other pages should list top 10 delayed projects, got %d", got)
	}
}
