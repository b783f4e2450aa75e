// Package snapshot assembles a bounded text document grounding the assistant's
// answers in the latest known operational state.
package snapshot

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dg-workos/opsassist/pkg/config"
)

// Snapshot is the rendered grounding document for one page.
type Snapshot struct {
	Page    string
	Text    string
	Gaps    []string
	BuiltAt time.Time
}

// Assembler builds snapshots by fanning out to all sources concurrently and
// caches the last rendered document per page.
type Assembler struct {
	sources []Source
	scorer  *Scorer
	ttl     time.Duration
	timeout time.Duration
	log     *zap.Logger

	mu      sync.Mutex
	current *Snapshot
}

// New creates an Assembler.
func New(sources []Source, scoring config.ScoringConfig, cfg config.SnapshotConfig, log *zap.Logger) *Assembler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assembler{
		sources: sources,
		scorer:  NewScorer(scoring),
		ttl:     cfg.TTL,
		timeout: cfg.SourceTimeout,
		log:     log,
	}
}

// Assemble returns the live snapshot for a page, rebuilding it if the cached
// one has expired or was built for a different page. Only one snapshot is
// retained; the last page wins.
func (a *Assembler) Assemble(ctx context.Context, page string) (*Snapshot, error) {
	a.mu.Lock()
	if s := a.current; s != nil && s.Page == page && time.Since(s.BuiltAt) < a.ttl {
		a.mu.Unlock()
		return s, nil
	}
	a.mu.Unlock()

	report := a.collect(ctx)
	snap := &Snapshot{
		Page:    page,
		Text:    render(report, a.scorer.Score(report), page),
		Gaps:    report.Gaps,
		BuiltAt: time.Now().UTC(),
	}

	a.mu.Lock()
	a.current = snap
	a.mu.Unlock()
	return snap, nil
}

// Invalidate drops the cached snapshot so the next Assemble rebuilds. Called
// when underlying records change.
func (a *Assembler) Invalidate() {
	a.mu.Lock()
	a.current = nil
	a.mu.Unlock()
}

// collect fans out to every source with an independent timeout and folds the
// results. A source failure contributes a named gap, never an error: total
// failure of every source still yields a usable (if empty) report.
func (a *Assembler) collect(ctx context.Context) *Report {
	report := &Report{}
	var mu sync.Mutex

	var g errgroup.Group
	for _, src := range a.sources {
		g.Go(func() error {
			sctx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()
			if err := src.Fetch(sctx, report); err != nil {
				a.log.Warn("snapshot source failed",
					zap.String("source", src.Name()), zap.Error(err))
				mu.Lock()
				report.Gaps = append(report.Gaps, src.Name())
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(report.Gaps)
	return report
}
