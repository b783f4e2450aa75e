// Package answer orchestrates the assistant pipeline: classify the question,
// apply the budget cap, try the answer cache, and otherwise ground a model call
// in the assembled context and relay its output incrementally.
package answer

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dg-workos/opsassist/pkg/budget"
	cachesqlite "github.com/dg-workos/opsassist/pkg/cache/sqlite"
	"github.com/dg-workos/opsassist/pkg/classifier"
	"github.com/dg-workos/opsassist/pkg/config"
	"github.com/dg-workos/opsassist/pkg/models"
	"github.com/dg-workos/opsassist/pkg/snapshot"
)

// Emitter receives the answer event stream. Implementations forward events to
// the caller; event order is meta, zero or more text, then done or error.
type Emitter interface {
	Meta(models.MetaEvent) error
	Text(models.TextEvent) error
	Done(models.DoneEvent) error
	Error(models.ErrorEvent) error
}

// ModelClient invokes the model endpoint and relays content deltas.
type ModelClient interface {
	Stream(ctx context.Context, model, system, user string, maxTokens int, onDelta func(string)) (*models.Usage, error)
}

// Auditor records answered questions for the history trail.
type Auditor interface {
	Log(ctx context.Context, e models.AuditEntry) error
}

// Streamer answers operator questions.
type Streamer struct {
	cache     *cachesqlite.Cache
	budget    *budget.Budget
	assembler *snapshot.Assembler
	client    ModelClient
	auditor   Auditor
	tiers     config.TierModels
	log       *zap.Logger
}

// New creates a Streamer. cache and auditor may be nil to disable answer
// caching and the history trail respectively.
func New(c *cachesqlite.Cache, b *budget.Budget, a *snapshot.Assembler, client ModelClient, auditor Auditor, tiers config.TierModels, log *zap.Logger) *Streamer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Streamer{cache: c, budget: b, assembler: a, client: client, auditor: auditor, tiers: tiers, log: log}
}

// audit writes a history entry without blocking the response path.
func (s *Streamer) audit(e models.AuditEntry) {
	if s.auditor == nil {
		return
	}
	e.CreatedAt = time.Now().UTC()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.auditor.Log(ctx, e); err != nil {
			s.log.Warn("audit log failed", zap.Error(err))
		}
	}()
}

func (s *Streamer) tierModel(t models.Tier) config.TierModel {
	switch t {
	case models.TierCheap:
		return s.tiers.Cheap
	case models.TierDeep:
		return s.tiers.Deep
	default:
		return s.tiers.Standard
	}
}

// Answer runs one question through the pipeline, emitting events to em.
// The reported tier is always the classified one, for operator transparency;
// billing and caching use the tier actually invoked after the budget cap.
func (s *Streamer) Answer(ctx context.Context, question, page string, em Emitter) error {
	started := time.Now()
	cls := classifier.Classify(question)
	effective := s.budget.CapFor(cls.Tier)

	var warning string
	if effective != cls.Tier {
		warning = s.budget.Status().Warning
	}

	// Cache hit: replay the stored answer, no model call, no debit.
	if s.cache != nil {
		if cached, ok := s.cache.Lookup(ctx, question, page); ok {
			if err := em.Meta(models.MetaEvent{Tier: cls.Tier.String(), TierLabel: cls.Tier.Label(), Cached: true}); err != nil {
				return err
			}
			if err := em.Text(models.TextEvent{Text: cached.Text}); err != nil {
				return err
			}
			s.audit(models.AuditEntry{
				Question:       question,
				Page:           page,
				QueryType:      cls.QueryType,
				ClassifiedTier: cls.Tier.String(),
				EffectiveTier:  cached.Tier.String(),
				Cached:         true,
				LatencyMs:      time.Since(started).Milliseconds(),
			})
			return em.Done(models.DoneEvent{
				Tier:        cls.Tier.String(),
				TierLabel:   cls.Tier.Label(),
				Cached:      true,
				Remaining:   s.budget.Remaining(),
				Warning:     warning,
				Suggestions: cached.Suggestions,
				Actions:     cached.Actions,
			})
		}
	}

	if err := em.Meta(models.MetaEvent{Tier: cls.Tier.String(), TierLabel: cls.Tier.Label(), Cached: false}); err != nil {
		return err
	}

	snap, err := s.assembler.Assemble(ctx, page)
	if err != nil {
		// Assembly degrades internally; an error here means the whole build
		// failed, which still must not block an answer.
		s.log.Warn("context assembly failed", zap.Error(err))
		snap = &snapshot.Snapshot{Page: page, Text: "No operational context available."}
	}

	tm := s.tierModel(effective)
	system := buildPrompt(effective, cls.QueryType, snap.Text)

	var full strings.Builder
	usage, err := s.client.Stream(ctx, tm.Model, system, question, tm.MaxTokens, func(delta string) {
		full.WriteString(delta)
		if err := em.Text(models.TextEvent{Text: delta}); err != nil {
			s.log.Debug("text relay failed", zap.Error(err))
		}
	})
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			// Caller went away mid-stream: nothing cached, nothing billed.
			return ctx.Err()
		}
		s.log.Error("model call failed", zap.String("tier", effective.String()), zap.Error(err))
		s.audit(models.AuditEntry{
			Question:       question,
			Page:           page,
			QueryType:      cls.QueryType,
			ClassifiedTier: cls.Tier.String(),
			EffectiveTier:  effective.String(),
			Model:          tm.Model,
			LatencyMs:      time.Since(started).Milliseconds(),
			Error:          err.Error(),
		})
		return em.Error(models.ErrorEvent{Error: "the assistant could not produce an answer"})
	}

	text, suggestions, actions := ExtractMarkers(full.String())

	var usageVal models.Usage
	if usage != nil {
		usageVal = *usage
		s.budget.RecordUsage(models.UsageRecord{
			Tier:         effective.String(),
			Model:        tm.Model,
			QueryType:    cls.QueryType,
			InputTokens:  usage.InputTokens,
			OutputTokens: usage.OutputTokens,
			TotalTokens:  usage.Total(),
		})
	}

	if s.cache != nil {
		if err := s.cache.Store(ctx, question, page, models.CachedAnswer{
			Text:        text,
			Suggestions: suggestions,
			Actions:     actions,
			Tier:        effective,
			Usage:       usageVal,
			CreatedAt:   time.Now().UTC(),
		}); err != nil {
			s.log.Warn("answer cache store failed", zap.Error(err))
		}
	}

	s.audit(models.AuditEntry{
		Question:       question,
		Page:           page,
		QueryType:      cls.QueryType,
		ClassifiedTier: cls.Tier.String(),
		EffectiveTier:  effective.String(),
		Model:          tm.Model,
		InputTokens:    usageVal.InputTokens,
		OutputTokens:   usageVal.OutputTokens,
		TotalTokens:    usageVal.Total(),
		LatencyMs:      time.Since(started).Milliseconds(),
	})

	return em.Done(models.DoneEvent{
		Tier:        cls.Tier.String(),
		TierLabel:   cls.Tier.Label(),
		Cached:      false,
		Usage:       usage,
		Remaining:   s.budget.Remaining(),
		Warning:     warning,
		Suggestions: suggestions,
		Actions:     actions,
	})
}
