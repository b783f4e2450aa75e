package models

import "time"

// Usage holds token counts reported by the model endpoint for one invocation.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Total returns combined input and output tokens.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// UsageRecord tracks one completed model invocation.
type UsageRecord struct {
	ID           int64     `json:"id"`
	Tier         string    `json:"tier"`
	Model        string    `json:"model"`
	QueryType    string    `json:"query_type"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	TotalTokens  int       `json:"total_tokens"`
	CreatedAt    time.Time `json:"created_at"`
}

// UsageSummary aggregates usage by tier.
type UsageSummary struct {
	Tier         string `json:"tier"`
	RequestCount int    `json:"request_count"`
	TotalInput   int64  `json:"total_input"`
	TotalOutput  int64  `json:"total_output"`
	TotalTokens  int64  `json:"total_tokens"`
}
