package models

// BudgetStatus shows daily token consumption against the configured ceiling.
type BudgetStatus struct {
	UsedToday  int64   `json:"used_today"`
	DailyLimit int64   `json:"daily_limit"`
	Pct        float64 `json:"pct"`
	TierCap    string  `json:"tier_cap"`
	Warning    string  `json:"warning,omitempty"`
}
