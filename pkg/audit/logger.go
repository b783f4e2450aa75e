// Package audit keeps a trail of assistant questions: what was asked, which
// tier answered it, what it cost, and whether the cache absorbed it.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	_ "modernc.org/sqlite"

	"github.com/dg-workos/opsassist/pkg/models"
)

// maxQuestion bounds stored question text.
const maxQuestion = 500

// Logger writes and queries audit entries in SQLite.
type Logger struct {
	db            *sql.DB
	retentionDays int
	done          chan struct{}
	wg            sync.WaitGroup
}

const createAuditTable = `
CREATE TABLE IF NOT EXISTS question_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	question TEXT NOT NULL,
	page TEXT NOT NULL,
	query_type TEXT NOT NULL,
	classified_tier TEXT NOT NULL,
	effective_tier TEXT NOT NULL,
	model TEXT NOT NULL DEFAULT '',
	cached INTEGER NOT NULL DEFAULT 0,
	input_tokens INTEGER NOT NULL DEFAULT 0,
	output_tokens INTEGER NOT NULL DEFAULT 0,
	total_tokens INTEGER NOT NULL DEFAULT 0,
	latency_ms INTEGER NOT NULL DEFAULT 0,
	error TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_question_log_created ON question_log(created_at);
CREATE INDEX IF NOT EXISTS idx_question_log_tier ON question_log(effective_tier);
`

// New opens the audit database and starts the retention loop.
func New(dbPath string, retentionDays int) (*Logger, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	if _, err := db.Exec(createAuditTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate audit db: %w", err)
	}

	l := &Logger{db: db, retentionDays: retentionDays, done: make(chan struct{})}
	if retentionDays > 0 {
		l.wg.Add(1)
		go l.retentionLoop()
	}
	return l, nil
}

// Log inserts an audit entry.
func (l *Logger) Log(ctx context.Context, e models.AuditEntry) error {
	if l == nil || l.db == nil {
		return nil
	}
	question := truncate(e.Question, maxQuestion)
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO question_log
		 (question, page, query_type, classified_tier, effective_tier, model, cached,
		  input_tokens, output_tokens, total_tokens, latency_ms, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		question, e.Page, e.QueryType, e.ClassifiedTier, e.EffectiveTier, e.Model, e.Cached,
		e.InputTokens, e.OutputTokens, e.TotalTokens, e.LatencyMs, e.Error, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("audit log: %w", err)
	}
	return nil
}

// truncate bounds s to max bytes, backing up so a multi-byte rune is never
// split mid-sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// Query returns audit entries matching the given options, newest first.
func (l *Logger) Query(ctx context.Context, opts models.AuditQueryOpts) ([]models.AuditEntry, error) {
	q := `SELECT id, question, page, query_type, classified_tier, effective_tier, model, cached,
		input_tokens, output_tokens, total_tokens, latency_ms, error, created_at
		FROM question_log WHERE 1=1`
	var args []any

	if opts.Tier != "" {
		q += " AND effective_tier = ?"
		args = append(args, opts.Tier)
	}
	if !opts.Since.IsZero() {
		q += " AND created_at >= ?"
		args = append(args, opts.Since)
	}
	q += " ORDER BY created_at DESC LIMIT ?"
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)

	rows, err := l.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(
			&e.ID, &e.Question, &e.Page, &e.QueryType, &e.ClassifiedTier, &e.EffectiveTier,
			&e.Model, &e.Cached, &e.InputTokens, &e.OutputTokens, &e.TotalTokens,
			&e.LatencyMs, &e.Error, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats returns question counts grouped by tier and day.
func (l *Logger) Stats(ctx context.Context) ([]models.AuditStat, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT effective_tier, date(created_at) as day, count(*)
		 FROM question_log GROUP BY effective_tier, day ORDER BY day DESC, effective_tier`)
	if err != nil {
		return nil, fmt.Errorf("audit stats: %w", err)
	}
	defer rows.Close()

	var stats []models.AuditStat
	for rows.Next() {
		var s models.AuditStat
		var day sql.NullString
		if err := rows.Scan(&s.Tier, &day, &s.Count); err != nil {
			return nil, fmt.Errorf("scan audit stat: %w", err)
		}
		s.Day = day.String
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// Cleanup deletes entries older than the retention period.
func (l *Logger) Cleanup(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -l.retentionDays)
	res, err := l.db.ExecContext(ctx, `DELETE FROM question_log WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("audit cleanup: %w", err)
	}
	return res.RowsAffected()
}

// Close stops the retention loop and closes the database.
func (l *Logger) Close() error {
	close(l.done)
	l.wg.Wait()
	return l.db.Close()
}

func (l *Logger) retentionLoop() {
	defer l.wg.Done()
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			_, _ = l.Cleanup(context.Background())
		}
	}
}
