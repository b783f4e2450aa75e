package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dg-workos/opsassist/pkg/answer"
	"github.com/dg-workos/opsassist/pkg/budget"
	cachesqlite "github.com/dg-workos/opsassist/pkg/cache/sqlite"
	"github.com/dg-workos/opsassist/pkg/config"
	"github.com/dg-workos/opsassist/pkg/models"
	"github.com/dg-workos/opsassist/pkg/snapshot"
)

type stubModel struct {
	calls  int
	chunks []string
}

func (m *stubModel) Stream(ctx context.Context, model, system, user string, maxTokens int, onDelta func(string)) (*models.Usage, error) {
	m.calls++
	for _, c := range m.chunks {
		onDelta(c)
	}
	return &models.Usage{InputTokens: 200, OutputTokens: 25}, nil
}

type sseEvent struct {
	name string
	data map[string]any
}

func parseSSE(t *testing.T, body []byte) []sseEvent {
	t.Helper()
	var events []sseEvent
	for _, block := range strings.Split(strings.TrimSpace(string(body)), "\n\n") {
		var ev sseEvent
		for _, line := range strings.Split(block, "\n") {
			if name, ok := strings.CutPrefix(line, "event: "); ok {
				ev.name = name
			}
			if data, ok := strings.CutPrefix(line, "data: "); ok {
				if err := json.Unmarshal([]byte(data), &ev.data); err != nil {
					t.Fatalf("bad event data %q: %v", data, err)
				}
			}
		}
		if ev.name != "" {
			events = append(events, ev)
		}
	}
	return events
}

func newTestServer(t *testing.T, model answer.ModelClient) (*httptest.Server, *budget.Budget) {
	t.Helper()
	cfg := config.Default()

	cache, err := cachesqlite.New(filepath.Join(t.TempDir(), "cache.db"), time.Hour, time.Hour, 500)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = cache.Close() })

	b := budget.New(1_000_000, 0.80, 0.95, nil, nil)
	asm := snapshot.New(nil, cfg.Scoring, cfg.Snapshot, nil)
	streamer := answer.New(cache, b, asm, model, nil, cfg.Model.Tiers, nil)

	srv := httptest.NewServer(New(cfg, streamer, b, cache, nil))
	t.Cleanup(srv.Close)
	return srv, b
}

func ask(t *testing.T, srv *httptest.Server, question, page string) []sseEvent {
	t.Helper()
	payload, _ := json.Marshal(map[string]string{"question": question, "currentPage": page})
	resp, err := http.Post(srv.URL+"/api/assistant/ask", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return parseSSE(t, body)
}

func TestAskStreamsEvents(t *testing.T) {
	model := &stubModel{chunks: []string{"There are ", "4 overdue tasks."}}
	srv, b := newTestServer(t, model)

	events := ask(t, srv, "how many tasks are overdue", "home")
	if len(events) < 3 {
		t.Fatalf("expected meta, text, done; got %d events", len(events))
	}
	if events[0].name != "meta" {
		t.Fatalf("first event = %s, want meta", events[0].name)
	}
	if events[0].data["tier"] != "cheap" || events[0].data["cached"] != false {
		t.Errorf("unexpected meta: %v", events[0].data)
	}

	var text strings.Builder
	for _, ev := range events {
		if ev.name == "text" {
			text.WriteString(ev.data["text"].(string))
		}
	}
	if text.String() != "There are 4 overdue tasks." {
		t.Errorf("relayed text mismatch: %q", text.String())
	}

	last := events[len(events)-1]
	if last.name != "done" {
		t.Fatalf("last event = %s, want done", last.name)
	}
	if last.data["cached"] != false {
		t.Error("first ask should not be cached")
	}
	wantRemaining := float64(b.Remaining())
	if last.data["remaining"].(float64) != wantRemaining {
		t.Errorf("remaining = %v, want %v", last.data["remaining"], wantRemaining)
	}
}

func TestAskRepeatServedFromCache(t *testing.T) {
	model := &stubModel{chunks: []string{"Answer."}}
	srv, _ := newTestServer(t, model)

	_ = ask(t, srv, "what is the GPL health score", "home")
	events := ask(t, srv, "what is the GPL health score", "home")

	if model.calls != 1 {
		t.Errorf("expected 1 model call across repeat, got %d", model.calls)
	}
	if events[0].data["cached"] != true {
		t.Error("repeat ask should be flagged cached")
	}
}

func TestAskValidation(t *testing.T) {
	srv, _ := newTestServer(t, &stubModel{})

	resp, err := http.Post(srv.URL+"/api/assistant/ask", "application/json", strings.NewReader(`{"currentPage":"home"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing question should 400, got %d", resp.StatusCode)
	}
}

func TestBudgetEndpoint(t *testing.T) {
	srv, b := newTestServer(t, &stubModel{})
	b.RecordUsage(models.UsageRecord{TotalTokens: 1234})

	resp, err := http.Get(srv.URL + "/api/assistant/budget")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var st models.BudgetStatus
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	if st.UsedToday != 1234 {
		t.Errorf("used = %d, want 1234", st.UsedToday)
	}
	if st.TierCap != "deep" {
		t.Errorf("tier cap = %s, want deep (no pressure)", st.TierCap)
	}
}

func TestSweepEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, &stubModel{})

	resp, err := http.Post(srv.URL+"/api/assistant/cache/sweep", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("sweep status = %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"removed"`) {
		t.Errorf("unexpected sweep body: %s", body)
	}
}
