package models

// SSE event payloads for the assistant answer stream.

// MetaEvent is emitted once, first, before any text.
type MetaEvent struct {
	Tier      string `json:"tier"`
	TierLabel string `json:"tierLabel"`
	Cached    bool   `json:"cached"`
}

// TextEvent carries one incremental chunk of answer text.
type TextEvent struct {
	Text string `json:"text"`
}

// DoneEvent is emitted exactly once on success, after all text.
type DoneEvent struct {
	Tier        string   `json:"tier"`
	TierLabel   string   `json:"tierLabel"`
	Cached      bool     `json:"cached"`
	Usage       *Usage   `json:"usage,omitempty"`
	Remaining   int64    `json:"remaining"`
	Warning     string   `json:"warning,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	Actions     []Action `json:"actions,omitempty"`
}

// ErrorEvent replaces DoneEvent when the answer could not be produced.
type ErrorEvent struct {
	Error string `json:"error"`
}
