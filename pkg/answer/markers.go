package answer

import (
	"regexp"
	"strings"

	"github.com/dg-workos/opsassist/pkg/models"
)

// Trailing annotation conventions the deep-tier instructions ask the model to
// emit. They are parsed out of the finished text, never mid-stream.
const suggestionsMarker = "===FOLLOW-UPS==="

var actionPattern = regexp.MustCompile(`\[\[action:([^|\]]*)\|([^\]]*)\]\]`)

// maxSuggestions caps follow-up questions surfaced to the operator.
const maxSuggestions = 3

// ExtractMarkers runs the one-shot marker decode over a completed answer.
// It returns the display text with markers removed plus the structured fields.
// Malformed or absent markers yield empty fields, never an error.
func ExtractMarkers(full string) (text string, suggestions []string, actions []models.Action) {
	text = full

	for _, m := range actionPattern.FindAllStringSubmatch(text, -1) {
		label := strings.TrimSpace(m[1])
		route := strings.TrimSpace(m[2])
		if label == "" || route == "" {
			continue
		}
		actions = append(actions, models.Action{Label: label, Route: route})
	}
	text = actionPattern.ReplaceAllString(text, "")

	if idx := strings.Index(text, suggestionsMarker); idx >= 0 {
		block := text[idx+len(suggestionsMarker):]
		text = text[:idx]
		for _, line := range strings.Split(block, "\n") {
			line = strings.TrimSpace(line)
			if !strings.HasPrefix(line, "- ") {
				continue
			}
			if s := strings.TrimSpace(strings.TrimPrefix(line, "- ")); s != "" {
				suggestions = append(suggestions, s)
			}
			if len(suggestions) == maxSuggestions {
				break
			}
		}
	}

	return strings.TrimSpace(text), suggestions, actions
}
