package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"habitforge/internal/config"
	"habitforge/internal/serverapp"
)

func TestServer_HealthAndReadinessExposeRequestID(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		res := app.request(http.MethodGet, path, nil, "")
		if res.Code != http.StatusOK {
			t.Fatalf("%s expected 200, got %d body=%s", path, res.Code, res.Body.String())
		}
		if rid := strings.TrimSpace(res.Header().Get("X-Request-Id")); rid == "" {
			t.Fatalf("%s missing X-Request-Id header", path)
		}
	}
}

func TestServer_GoalHabitRoundTrip(t *testing.T) {
	app := newTestApp(t)

	goalRes := app.json(http.MethodPost, "/api/goals", map[string]any{
		"name":        "Read more",
		"description": "Twelve books this year",
	})
	if goalRes.Code != http.StatusCreated {
		t.Fatalf("create goal expected 201, got %d body=%s", goalRes.Code, goalRes.Body.String())
	}
	goalID := asString(t, decodeBodyMap(t, goalRes)["id"])

	habitRes := app.json(http.MethodPost, "/api/habits", map[string]any{
		"name":      "Read 20 pages",
		"frequency": "daily",
		"goal_ids":  []string{goalID},
	})
	if habitRes.Code != http.StatusCreated {
		t.Fatalf("create habit expected 201, got %d body=%s", habitRes.Code, habitRes.Body.String())
	}
	habitBody := decodeBodyMap(t, habitRes)
	habitID := asString(t, habitBody["id"])

	// Link is mirrored on both sides.
	if got := asStrings(t, habitBody["goal_ids"]); len(got) != 1 || got[0] != goalID {
		t.Fatalf("expected habit goal_ids [%s], got %v", goalID, got)
	}
	goalGet := app.request(http.MethodGet, "/api/goals/"+goalID, nil, "")
	if goalGet.Code != http.StatusOK {
		t.Fatalf("get goal expected 200, got %d body=%s", goalGet.Code, goalGet.Body.String())
	}
	if got := asStrings(t, decodeBodyMap(t, goalGet)["habit_ids"]); len(got) != 1 || got[0] != habitID {
		t.Fatalf("expected goal habit_ids [%s], got %v", habitID, got)
	}

	// First toggle: daily points, FIRST_HABIT unlocks.
	toggleRes := app.json(http.MethodPost, "/api/habits/"+habitID+"/toggle", map[string]any{})
	if toggleRes.Code != http.StatusOK {
		t.Fatalf("toggle expected 200, got %d body=%s", toggleRes.Code, toggleRes.Body.String())
	}
	toggleBody := decodeBodyMap(t, toggleRes)
	if added, _ := toggleBody["added"].(bool); !added {
		t.Fatalf("first toggle should add a completion, body=%s", toggleRes.Body.String())
	}
	if delta := asNumber(t, toggleBody["points_delta"]); delta != 10 {
		t.Fatalf("daily toggle expected +10 points, got %v", delta)
	}
	if !strings.Contains(toggleRes.Body.String(), "FIRST_HABIT") {
		t.Fatalf("expected FIRST_HABIT unlock on first completion, body=%s", toggleRes.Body.String())
	}

	gamRes := app.request(http.MethodGet, "/api/gamification", nil, "")
	if gamRes.Code != http.StatusOK {
		t.Fatalf("gamification expected 200, got %d body=%s", gamRes.Code, gamRes.Body.String())
	}
	gam := decodeBodyMap(t, gamRes)
	if pts := asNumber(t, gam["points"]); pts != 10 {
		t.Fatalf("expected 10 points after one daily completion, got %v", pts)
	}

	// Second toggle on the same day undoes the first.
	untoggleRes := app.json(http.MethodPost, "/api/habits/"+habitID+"/toggle", map[string]any{})
	if untoggleRes.Code != http.StatusOK {
		t.Fatalf("untoggle expected 200, got %d body=%s", untoggleRes.Code, untoggleRes.Body.String())
	}
	untoggleBody := decodeBodyMap(t, untoggleRes)
	if added, _ := untoggleBody["added"].(bool); added {
		t.Fatalf("second toggle should remove the completion, body=%s", untoggleRes.Body.String())
	}
	if delta := asNumber(t, untoggleBody["points_delta"]); delta != -10 {
		t.Fatalf("untoggle expected -10 points, got %v", delta)
	}

	gamRes = app.request(http.MethodGet, "/api/gamification", nil, "")
	gam = decodeBodyMap(t, gamRes)
	if pts := asNumber(t, gam["points"]); pts != 0 {
		t.Fatalf("expected points back to 0 after untoggle, got %v", pts)
	}
	// Unlocks are permanent even when the triggering completion is undone.
	achRes := app.request(http.MethodGet, "/api/achievements", nil, "")
	if !strings.Contains(achRes.Body.String(), "FIRST_HABIT") {
		t.Fatalf("expected FIRST_HABIT to stay unlocked, body=%s", achRes.Body.String())
	}
}

func TestServer_GoalCompletionBonusFiresOncePerCrossing(t *testing.T) {
	app := newTestApp(t)

	goalRes := app.json(http.MethodPost, "/api/goals", map[string]any{"name": "Ship the thing"})
	goalID := asString(t, decodeBodyMap(t, goalRes)["id"])

	res := app.json(http.MethodPost, "/api/goals/"+goalID+"/progress", map[string]any{"progress": 150})
	if res.Code != http.StatusOK {
		t.Fatalf("set progress expected 200, got %d body=%s", res.Code, res.Body.String())
	}
	body := decodeBodyMap(t, res)
	if completed, _ := body["completed_now"].(bool); !completed {
		t.Fatalf("crossing 100 should report completed_now, body=%s", res.Body.String())
	}
	if g := asMap(t, body["goal"]); asNumber(t, g["progress"]) != 100 {
		t.Fatalf("progress should clamp to 100, body=%s", res.Body.String())
	}
	gam := asMap(t, body["gamification"])
	if lvl := asNumber(t, gam["level"]); lvl != 2 {
		t.Fatalf("250 bonus XP should reach level 2, got level %v", lvl)
	}
	if exp := asNumber(t, gam["experience"]); exp != 150 {
		t.Fatalf("expected 150 experience after level-up, got %v", exp)
	}
	if !strings.Contains(res.Body.String(), "GOAL_CRUSHER") {
		t.Fatalf("expected GOAL_CRUSHER unlock, body=%s", res.Body.String())
	}

	// Re-setting 100 on a complete goal awards nothing.
	again := app.json(http.MethodPost, "/api/goals/"+goalID+"/progress", map[string]any{"progress": 100})
	againBody := decodeBodyMap(t, again)
	if completed, _ := againBody["completed_now"].(bool); completed {
		t.Fatalf("re-completing should not report completed_now, body=%s", again.Body.String())
	}

	gamRes := app.request(http.MethodGet, "/api/gamification", nil, "")
	if pts := asNumber(t, decodeBodyMap(t, gamRes)["points"]); pts != 250 {
		t.Fatalf("expected exactly one 250-point bonus, got %v points", pts)
	}
}

func TestServer_DeleteGoalLeavesHabitIntact(t *testing.T) {
	app := newTestApp(t)

	goalRes := app.json(http.MethodPost, "/api/goals", map[string]any{"name": "Temporary"})
	goalID := asString(t, decodeBodyMap(t, goalRes)["id"])
	habitRes := app.json(http.MethodPost, "/api/habits", map[string]any{
		"name": "Standalone", "frequency": "weekly", "goal_ids": []string{goalID},
	})
	habitID := asString(t, decodeBodyMap(t, habitRes)["id"])

	delRes := app.request(http.MethodDelete, "/api/goals/"+goalID, nil, "")
	if delRes.Code != http.StatusOK {
		t.Fatalf("delete goal expected 200, got %d body=%s", delRes.Code, delRes.Body.String())
	}
	if deleted, _ := decodeBodyMap(t, delRes)["deleted"].(bool); !deleted {
		t.Fatalf("expected deleted=true, body=%s", delRes.Body.String())
	}

	habitGet := app.request(http.MethodGet, "/api/habits/"+habitID, nil, "")
	if habitGet.Code != http.StatusOK {
		t.Fatalf("habit should survive goal delete, got %d body=%s", habitGet.Code, habitGet.Body.String())
	}
	if got := asStrings(t, decodeBodyMap(t, habitGet)["goal_ids"]); len(got) != 0 {
		t.Fatalf("expected dangling link cleaned up, got goal_ids=%v", got)
	}

	// Deleting again is an idempotent no-op.
	delAgain := app.request(http.MethodDelete, "/api/goals/"+goalID, nil, "")
	if delAgain.Code != http.StatusOK {
		t.Fatalf("second delete expected 200, got %d", delAgain.Code)
	}
	if deleted, _ := decodeBodyMap(t, delAgain)["deleted"].(bool); deleted {
		t.Fatalf("second delete should report deleted=false")
	}
}

func TestServer_SuggestionsAndQuote(t *testing.T) {
	app := newTestApp(t)

	res := app.json(http.MethodPost, "/api/suggest/habits", map[string]any{
		"goal_name": "Learn guitar",
	})
	if res.Code != http.StatusOK {
		t.Fatalf("suggest expected 200, got %d body=%s", res.Code, res.Body.String())
	}
	var suggested struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &suggested); err != nil {
		t.Fatalf("decode suggestions: %v", err)
	}
	if len(suggested.Suggestions) == 0 {
		t.Fatalf("expected at least one suggestion, body=%s", res.Body.String())
	}

	missing := app.json(http.MethodPost, "/api/suggest/habits", map[string]any{})
	if missing.Code != http.StatusBadRequest {
		t.Fatalf("missing goal_name expected 400, got %d", missing.Code)
	}

	quoteRes := app.request(http.MethodGet, "/api/quote", nil, "")
	if quoteRes.Code != http.StatusOK {
		t.Fatalf("quote expected 200, got %d body=%s", quoteRes.Code, quoteRes.Body.String())
	}
	if q := asString(t, decodeBodyMap(t, quoteRes)["quote"]); strings.TrimSpace(q) == "" {
		t.Fatalf("quote should never be empty")
	}
}

func TestServer_StatsCountActivity(t *testing.T) {
	app := newTestApp(t)

	goalRes := app.json(http.MethodPost, "/api/goals", map[string]any{"name": "Stats goal"})
	goalID := asString(t, decodeBodyMap(t, goalRes)["id"])
	habitRes := app.json(http.MethodPost, "/api/habits", map[string]any{
		"name": "Stats habit", "frequency": "daily", "goal_ids": []string{goalID},
	})
	habitID := asString(t, decodeBodyMap(t, habitRes)["id"])
	app.json(http.MethodPost, "/api/habits/"+habitID+"/toggle", map[string]any{})

	statsRes := app.request(http.MethodGet, "/api/stats", nil, "")
	if statsRes.Code != http.StatusOK {
		t.Fatalf("stats expected 200, got %d body=%s", statsRes.Code, statsRes.Body.String())
	}
	stats := decodeBodyMap(t, statsRes)
	if n := asNumber(t, stats["habit_completions"]); n != 1 {
		t.Fatalf("expected 1 habit completion in stats, got %v", n)
	}
	counts := asMap(t, stats["event_counts"])
	if n := asNumber(t, counts["goal_created"]); n != 1 {
		t.Fatalf("expected 1 goal_created event in stats, got %v", n)
	}
	byFreq := asMap(t, stats["points_by_frequency"])
	if n := asNumber(t, byFreq["daily"]); n != 10 {
		t.Fatalf("expected 10 daily points in stats, got %v", n)
	}
}

type testApp struct {
	handler http.Handler
	logs    *bytes.Buffer
}

// fakeSuggester keeps integration tests off the network.
type fakeSuggester struct{}

func (fakeSuggester) SuggestForGoal(ctx context.Context, goalName, goalDescription string) ([]string, error) {
	_ = ctx
	_ = goalDescription
	return []string{"Practice " + goalName + " daily", "Track progress weekly"}, nil
}

func (fakeSuggester) SuggestFromExisting(ctx context.Context, existing []string) ([]string, error) {
	_ = ctx
	_ = existing
	return []string{"Stretch after workouts"}, nil
}

func (fakeSuggester) DailyQuote(ctx context.Context) (string, error) {
	_ = ctx
	return "Small steps, every day.", nil
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := &config.Config{}
	cfg.ApplyDefaults()

	var logs bytes.Buffer
	logger := log.New(&logs, "", 0)

	h, err := serverapp.NewHandler(serverapp.Options{
		Config:    cfg,
		Logger:    logger,
		Suggester: fakeSuggester{},
	})
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}

	return &testApp{handler: h, logs: &logs}
}

func (a *testApp) json(method, path string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	return a.request(method, path, bytes.NewReader(b), "application/json")
}

func (a *testApp) request(method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBodyMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode json body failed: %v body=%s", err, rec.Body.String())
	}
	return out
}

func asMap(t *testing.T, v any) map[string]any {
	t.Helper()
	out, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("expected map[string]any, got %T (%v)", v, v)
	}
	return out
}

func asString(t *testing.T, v any) string {
	t.Helper()
	s, ok := v.(string)
	if !ok {
		t.Fatalf("expected string, got %T (%v)", v, v)
	}
	return s
}

func asNumber(t *testing.T, v any) float64 {
	t.Helper()
	n, ok := v.(float64)
	if !ok {
		t.Fatalf("expected number, got %T (%v)", v, v)
	}
	return n
}

func asStrings(t *testing.T, v any) []string {
	t.Helper()
	if v == nil {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		t.Fatalf("expected array, got %T (%v)", v, v)
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		out = append(out, asString(t, item))
	}
	return out
}
