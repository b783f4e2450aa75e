package models

// Tier is a model cost/capability level. Ordered by cost.
type Tier int

const (
	TierCheap Tier = iota
	TierStandard
	TierDeep
)

// String returns the canonical lowercase name.
func (t Tier) String() string {
	switch t {
	case TierCheap:
		return "cheap"
	case TierStandard:
		return "standard"
	case TierDeep:
		return "deep"
	}
	return "unknown"
}

// Label returns the operator-facing tier label.
func (t Tier) Label() string {
	switch t {
	case TierCheap:
		return "Quick answer"
	case TierStandard:
		return "Standard analysis"
	case TierDeep:
		return "Deep analysis"
	}
	return "Unknown"
}

// ParseTier maps a stored tier name back to a Tier. Unknown names parse as standard.
func ParseTier(s string) Tier {
	switch s {
	case "cheap":
		return TierCheap
	case "deep":
		return TierDeep
	default:
		return TierStandard
	}
}

// Classification is the result of routing a question to a tier.
type Classification struct {
	Tier      Tier   `json:"tier"`
	QueryType string `json:"query_type"`
}
