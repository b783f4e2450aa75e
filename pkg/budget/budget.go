// Package budget tracks daily token consumption and derives the tier ceiling
// imposed as usage approaches the configured limit.
package budget

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dg-workos/opsassist/pkg/models"
	"github.com/dg-workos/opsassist/pkg/tracker"
)

// Budget is a process-wide daily token counter. The in-memory counter is the
// source of truth for cap decisions; the tracker persists records so the
// counter survives restarts via Preload.
type Budget struct {
	limit   int64
	warnPct float64
	capPct  float64
	tracker tracker.Tracker
	log     *zap.Logger
	now     func() time.Time // injectable clock for day-boundary tests

	mu   sync.Mutex
	day  time.Time // UTC midnight of the day the counter covers
	used int64
}

// New creates a Budget. warnPct is the fraction of the limit above which the
// tier is capped at standard, capPct the fraction above which it is capped at
// cheap. The tracker may be nil, in which case usage is memory-only.
func New(limit int64, warnPct, capPct float64, t tracker.Tracker, log *zap.Logger) *Budget {
	if log == nil {
		log = zap.NewNop()
	}
	return &Budget{
		limit:   limit,
		warnPct: warnPct,
		capPct:  capPct,
		tracker: t,
		log:     log,
		now:     time.Now,
		day:     dayStart(time.Now().UTC()),
	}
}

func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Preload initializes the counter from persisted records for the current day.
func (b *Budget) Preload(ctx context.Context) error {
	if b.tracker == nil {
		return nil
	}
	today := dayStart(b.now().UTC())
	total, err := b.tracker.TotalSince(ctx, today)
	if err != nil {
		return fmt.Errorf("preload budget: %w", err)
	}
	b.mu.Lock()
	b.day = today
	b.used = total
	b.mu.Unlock()
	return nil
}

// rollover resets the counter if the UTC day has changed. Caller holds b.mu.
func (b *Budget) rollover(now time.Time) {
	if today := dayStart(now); today.After(b.day) {
		b.day = today
		b.used = 0
	}
}

// RecordUsage adds a completed invocation's tokens to today's counter and
// persists the record in the background. Usage is attributed to the day it is
// recorded. Persistence failure is logged, never surfaced: the answer has
// already been delivered and billing is advisory bookkeeping.
func (b *Budget) RecordUsage(rec models.UsageRecord) {
	now := b.now().UTC()
	b.mu.Lock()
	b.rollover(now)
	b.used += int64(rec.TotalTokens)
	b.mu.Unlock()

	if b.tracker == nil {
		return
	}
	rec.CreatedAt = now
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := b.tracker.Record(ctx, rec); err != nil {
			b.log.Warn("usage record write failed", zap.Error(err))
		}
	}()
}

// CapFor lowers a tier toward cheap when consumption crosses the configured
// thresholds. It never raises a tier.
func (b *Budget) CapFor(tier models.Tier) models.Tier {
	ceiling := b.tierCap()
	if tier > ceiling {
		return ceiling
	}
	return tier
}

// tierCap returns the highest tier currently allowed.
func (b *Budget) tierCap() models.Tier {
	b.mu.Lock()
	b.rollover(b.now().UTC())
	used := b.used
	b.mu.Unlock()

	if b.limit <= 0 {
		return models.TierDeep
	}
	pct := float64(used) / float64(b.limit)
	switch {
	case pct >= b.capPct:
		return models.TierCheap
	case pct >= b.warnPct:
		return models.TierStandard
	default:
		return models.TierDeep
	}
}

// Remaining returns today's remaining token allowance, floored at zero.
func (b *Budget) Remaining() int64 {
	b.mu.Lock()
	b.rollover(b.now().UTC())
	used := b.used
	b.mu.Unlock()

	remaining := b.limit - used
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// Status reports current consumption against the daily limit.
func (b *Budget) Status() models.BudgetStatus {
	b.mu.Lock()
	b.rollover(b.now().UTC())
	used := b.used
	b.mu.Unlock()

	var pct float64
	if b.limit > 0 {
		pct = float64(used) / float64(b.limit)
	}
	st := models.BudgetStatus{
		UsedToday:  used,
		DailyLimit: b.limit,
		Pct:        pct,
		TierCap:    b.tierCap().String(),
	}
	switch {
	case pct >= 1:
		st.Warning = "daily token budget exhausted; responses limited to quick answers"
	case pct >= b.capPct:
		st.Warning = "daily token budget nearly exhausted; deep and standard analysis unavailable"
	case pct >= b.warnPct:
		st.Warning = "daily token budget above warning threshold; deep analysis unavailable"
	}
	return st
}
