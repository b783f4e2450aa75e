package models

import "time"

// Action is a follow-up link the assistant can point the operator at.
type Action struct {
	Label string `json:"label"`
	Route string `json:"route"`
}

// CachedAnswer is a previously generated answer retrieved from the response cache.
type CachedAnswer struct {
	Text        string    `json:"text"`
	Suggestions []string  `json:"suggestions,omitempty"`
	Actions     []Action  `json:"actions,omitempty"`
	Tier        Tier      `json:"tier"`
	Usage       Usage     `json:"usage"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// CacheStats reports response-cache performance metrics.
type CacheStats struct {
	Entries int64 `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}
