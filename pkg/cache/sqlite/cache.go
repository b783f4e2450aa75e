// Package sqlite implements the content-addressed answer cache. Keys are a
// digest over the normalized question, the page the operator was viewing, and
// the UTC calendar day, so repeated questions collapse to one row and every key
// rotates daily without a sweep.
package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	_ "modernc.org/sqlite"

	"github.com/dg-workos/opsassist/pkg/models"
)

// Cache is the answer cache backed by SQLite.
type Cache struct {
	db          *sql.DB
	cheapTTL    time.Duration
	standardTTL time.Duration
	maxQuestion int
	hits        atomic.Int64
	misses      atomic.Int64
}

const createCacheTable = `
CREATE TABLE IF NOT EXISTS answer_cache (
	key TEXT PRIMARY KEY,
	question TEXT NOT NULL,
	page TEXT NOT NULL,
	tier TEXT NOT NULL,
	answer TEXT NOT NULL,
	suggestions TEXT NOT NULL DEFAULT '[]',
	actions TEXT NOT NULL DEFAULT '[]',
	input_tokens INTEGER NOT NULL DEFAULT 0,
	output_tokens INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	expires_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cache_expiry ON answer_cache(expires_at);
`

// New creates a Cache with per-tier TTLs. maxQuestion bounds the stored
// question text.
func New(dbPath string, cheapTTL, standardTTL time.Duration, maxQuestion int) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	if _, err := db.Exec(createCacheTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}

	if maxQuestion <= 0 {
		maxQuestion = 500
	}
	return &Cache{db: db, cheapTTL: cheapTTL, standardTTL: standardTTL, maxQuestion: maxQuestion}, nil
}

// Normalize lowercases question text and collapses runs of whitespace so
// semantically identical questions hash identically.
func Normalize(question string) string {
	return strings.Join(strings.Fields(strings.ToLower(question)), " ")
}

// Key computes the cache key digest for a question asked on a page on a given
// UTC day.
func Key(question, page string, day time.Time) string {
	h := sha256.New()
	h.Write([]byte(Normalize(question)))
	h.Write([]byte{0})
	h.Write([]byte(page))
	h.Write([]byte{0})
	h.Write([]byte(day.UTC().Format("2006-01-02")))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// ttlFor returns the cache lifetime for a tier. Zero means do not cache; deep
// answers are never cached.
func (c *Cache) ttlFor(tier models.Tier) time.Duration {
	switch tier {
	case models.TierCheap:
		return c.cheapTTL
	case models.TierStandard:
		return c.standardTTL
	default:
		return 0
	}
}

// Lookup retrieves a cached answer for today's key. Expired rows are never
// returned, swept or not.
func (c *Cache) Lookup(ctx context.Context, question, page string) (*models.CachedAnswer, bool) {
	key := Key(question, page, time.Now().UTC())

	var ans models.CachedAnswer
	var tier, suggestions, actions string
	err := c.db.QueryRowContext(ctx,
		`SELECT tier, answer, suggestions, actions, input_tokens, output_tokens, created_at, expires_at
		 FROM answer_cache WHERE key = ? AND expires_at > ?`,
		key, time.Now().UTC(),
	).Scan(&tier, &ans.Text, &suggestions, &actions, &ans.Usage.InputTokens, &ans.Usage.OutputTokens, &ans.CreatedAt, &ans.ExpiresAt)

	if err != nil {
		c.misses.Add(1)
		return nil, false
	}

	ans.Tier = models.ParseTier(tier)
	_ = json.Unmarshal([]byte(suggestions), &ans.Suggestions)
	_ = json.Unmarshal([]byte(actions), &ans.Actions)

	c.hits.Add(1)
	return &ans, true
}

// Store upserts an answer under today's key. Deep-tier answers are never
// stored; a recomputation for the same key replaces the existing row.
func (c *Cache) Store(ctx context.Context, question, page string, ans models.CachedAnswer) error {
	ttl := c.ttlFor(ans.Tier)
	if ttl <= 0 {
		return nil
	}

	stored := truncate(question, c.maxQuestion)
	suggestions, _ := json.Marshal(ans.Suggestions)
	actions, _ := json.Marshal(ans.Actions)
	if ans.Suggestions == nil {
		suggestions = []byte("[]")
	}
	if ans.Actions == nil {
		actions = []byte("[]")
	}

	now := time.Now().UTC()
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO answer_cache
		 (key, question, page, tier, answer, suggestions, actions, input_tokens, output_tokens, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		Key(question, page, now), stored, page, ans.Tier.String(), ans.Text,
		string(suggestions), string(actions),
		ans.Usage.InputTokens, ans.Usage.OutputTokens, now, now.Add(ttl),
	)
	if err != nil {
		return fmt.Errorf("cache store: %w", err)
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

// SweepExpired removes rows whose expiry has passed. Idempotent and safe to
// run concurrently with lookups and stores; the count is informational.
func (c *Cache) SweepExpired(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM answer_cache WHERE expires_at <= ?`, time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("cache sweep: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Stats returns cache performance metrics.
func (c *Cache) Stats(ctx context.Context) (models.CacheStats, error) {
	var count int64
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM answer_cache`).Scan(&count)
	if err != nil {
		return models.CacheStats{}, fmt.Errorf("cache stats: %w", err)
	}
	return models.CacheStats{
		Entries: count,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}, nil
}

// Close releases the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}
