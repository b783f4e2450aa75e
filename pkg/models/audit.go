package models

import "time"

// AuditEntry records one assistant question and how it was answered.
type AuditEntry struct {
	ID             int64     `json:"id"`
	Question       string    `json:"question"`
	Page           string    `json:"page"`
	QueryType      string    `json:"query_type"`
	ClassifiedTier string    `json:"classified_tier"`
	EffectiveTier  string    `json:"effective_tier"`
	Model          string    `json:"model,omitempty"`
	Cached         bool      `json:"cached"`
	InputTokens    int       `json:"input_tokens"`
	OutputTokens   int       `json:"output_tokens"`
	TotalTokens    int       `json:"total_tokens"`
	LatencyMs      int64     `json:"latency_ms"`
	Error          string    `json:"error,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// AuditQueryOpts filters audit queries.
type AuditQueryOpts struct {
	Tier  string
	Since time.Time
	Limit int
}

// AuditStat is an aggregate count of questions per tier per day.
type AuditStat struct {
	Tier  string `json:"tier"`
	Day   string `json:"day"`
	Count int64  `json:"count"`
}
