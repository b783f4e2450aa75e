package answer

import "testing"

func TestExtractMarkersFull(t *testing.T) {
	raw := "GPL's margin is thin. See [[action:View projects|/projects]] for detail.\n" +
		"===FOLLOW-UPS===\n" +
		"- What caused the outage increase?\n" +
		"- How does GWI compare?\n"

	text, suggestions, actions := ExtractMarkers(raw)

	if text != "GPL's margin is thin. See  for detail." {
		t.Errorf("markers not stripped from text: %q", text)
	}
	if len(suggestions) != 2 || suggestions[0] != "What caused the outage increase?" {
		t.Errorf("unexpected suggestions: %v", suggestions)
	}
	if len(actions) != 1 || actions[0].Label != "View projects" || actions[0].Route != "/projects" {
		t.Errorf("unexpected actions: %v", actions)
	}
}

func TestExtractMarkersAbsent(t *testing.T) {
	text, suggestions, actions := ExtractMarkers("Just a plain answer.")
	if text != "Just a plain answer." {
		t.Errorf("plain text altered: %q", text)
	}
	if suggestions != nil || actions != nil {
		t.Error("absent markers must yield empty structured fields")
	}
}

func TestExtractMarkersMalformed(t *testing.T) {
	raw := "Answer. [[action:|/nowhere]] [[action:No route|]]\n===FOLLOW-UPS===\nnot a bullet line\n"
	text, suggestions, actions := ExtractMarkers(raw)
	if len(actions) != 0 {
		t.Errorf("malformed actions should be dropped, got %v", actions)
	}
	if len(suggestions) != 0 {
		t.Errorf("non-bullet lines should be ignored, got %v", suggestions)
	}
	if text != "Answer." {
		t.Errorf("unexpected cleaned text: %q", text)
	}
}

func TestExtractMarkersCapsSuggestions(t *testing.T) {
	raw := "A.\n===FOLLOW-UPS===\n- one\n- two\n- three\n- four\n"
	_, suggestions, _ := ExtractMarkers(raw)
	if len(suggestions) != 3 {
		t.Errorf("expected at most 3 suggestions, got %d", len(suggestions))
	}
}
