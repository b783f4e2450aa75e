// Package classifier routes operator questions to a model tier using ordered
// pattern rules. Escalation rules run first: under-powering a strategic question
// costs more than over-spending on a simple one.
package classifier

import (
	"regexp"

	"github.com/dg-workos/opsassist/pkg/models"
)

// rule pairs a compiled pattern with the query-type label it assigns.
type rule struct {
	pattern   *regexp.Regexp
	queryType string
}

// deepRules escalate to the deep tier. Any match wins immediately, even if a
// cheap rule would also match.
var deepRules = []rule{
	{regexp.MustCompile(`(?i)\b(compare|comparison|across (all )?(agencies|entities|domains)|all (agencies|entities) (together|combined))\b`), "comparison"},
	{regexp.MustCompile(`(?i)\bwhy\b.*\b(happen|happened|dropped|fell|rose|increased|decreased|failed|changed)\b`), "causal"},
	// "project"/"projects" alone is the capital-project portfolio, not a
	// forecasting request; only projection vocabulary escalates.
	{regexp.MustCompile(`(?i)\b(forecast|projection(s)?|project(ed)? (growth|demand|trend)|predict|trend|next (month|quarter|year)|trajectory)\b`), "forecast"},
	{regexp.MustCompile(`(?i)\b(recommend|recommendation|priorit(y|ies|ize)|should (we|i|the ministry)|strategy|strategic)\b`), "recommendation"},
	{regexp.MustCompile(`(?i)\b(risk|scenario|what if|worst case|exposure|contingency)\b`), "risk"},
	{regexp.MustCompile(`(?i)\b(comprehensive|in[- ]depth|detailed analysis|full (review|assessment|picture))\b`), "comprehensive"},
}

// cheapRules match single-metric lookups answerable from the grounding context.
var cheapRules = []rule{
	{regexp.MustCompile(`(?i)\bhealth\b.*\b(score|rating|status)\b|\b(score|rating)\b.*\bhealth\b`), "health_score"},
	{regexp.MustCompile(`(?i)\bhow many\b|\b(count|number) of\b`), "count"},
	{regexp.MustCompile(`(?i)\b(kpi|on[- ]time|collection rate|non[- ]revenue|spare capacity|passenger(s)? (count|total)|compliance (rate|pct|percentage))\b`), "kpi"},
	{regexp.MustCompile(`(?i)\b(today'?s|what('?s| is) on) (schedule|calendar|agenda)\b|\bmeetings? today\b`), "schedule"},
}

// Classify maps question text to a tier and query-type label. Pure, cannot fail:
// questions matching no rule default to standard.
func Classify(question string) models.Classification {
	for _, r := range deepRules {
		if r.pattern.MatchString(question) {
			return models.Classification{Tier: models.TierDeep, QueryType: r.queryType}
		}
	}
	for _, r := range cheapRules {
		if r.pattern.MatchString(question) {
			return models.Classification{Tier: models.TierCheap, QueryType: r.queryType}
		}
	}
	return models.Classification{Tier: models.TierStandard, QueryType: "general"}
}
