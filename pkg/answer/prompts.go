package answer

import (
	"fmt"

	"github.com/dg-workos/opsassist/pkg/models"
)

// instructionsFor builds the tier-specific system instructions. Instruction
// depth scales with tier cost: a quick lookup gets a terse prompt, a deep
// analysis gets the full analyst framing and output conventions.
func instructionsFor(tier models.Tier, queryType string) string {
	switch tier {
	case models.TierCheap:
		return "You are the ministry operations assistant. Answer the question in one or two " +
			"sentences using only the operational context below. State the specific number or " +
			"fact asked for. If the context lacks the data, say so plainly."
	case models.TierDeep:
		return fmt.Sprintf("You are a senior operations analyst for the ministry, answering a %s "+
			"question. Ground every claim in the operational context below; name the agency and "+
			"figure you are drawing on. Structure the answer with short headed sections where it "+
			"helps. Where data gaps are listed, state how they limit your conclusions.\n\n"+
			"After the answer, emit a line containing exactly %s followed by up to three "+
			"follow-up questions, each on its own line prefixed with \"- \". Where a specific "+
			"dashboard page would help the reader, embed an action marker of the form "+
			"[[action:Label|/route]] (valid routes: /home, /tasks, /projects, /budget, "+
			"/calendar, /documents).", queryType, suggestionsMarker)
	default:
		return "You are the ministry operations assistant. Answer using only the operational " +
			"context below. Be concrete: cite the figures and agencies the context provides, and " +
			"note when a relevant source is listed under data gaps. Keep the answer under roughly " +
			"two hundred words."
	}
}

// buildPrompt appends the assembled context verbatim to the tier instructions.
func buildPrompt(tier models.Tier, queryType, contextText string) string {
	return instructionsFor(tier, queryType) + "\n\n--- OPERATIONAL CONTEXT ---\n" + contextText
}
