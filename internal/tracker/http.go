package tracker

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"habitforge/internal/gamification"
	"habitforge/internal/goal"
	"habitforge/internal/habit"
	"habitforge/internal/telemetry"
)

type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

// GoalsRoot handles /api/goals (list, create).
func (h *Handler) GoalsRoot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		goals, err := h.engine.ListGoals(ctx)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, goals)

	case http.MethodPost:
		var in CreateGoalInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json body")
			return
		}
		if strings.TrimSpace(in.Name) == "" {
			writeErr(w, http.StatusBadRequest, "name is required")
			return
		}
		g, err := h.engine.CreateGoal(ctx, in)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, g)

	default:
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// GoalsSub handles /api/goals/{id} and /api/goals/{id}/progress.
func (h *Handler) GoalsSub(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rest := strings.TrimPrefix(r.URL.Path, "/api/goals/")
	parts := strings.SplitN(rest, "/", 2)
	id := parts[0]
	if id == "" {
		writeErr(w, http.StatusNotFound, "goal id required")
		return
	}

	if len(parts) == 2 {
		if parts[1] == "progress" && r.Method == http.MethodPost {
			h.setProgress(w, r, id)
			return
		}
		writeErr(w, http.StatusNotFound, "unknown goal action")
		return
	}

	switch r.Method {
	case http.MethodGet:
		g, ok, err := h.engine.Goal(ctx, id)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !ok {
			writeErr(w, http.StatusNotFound, "goal not found")
			return
		}
		writeJSON(w, http.StatusOK, g)

	case http.MethodPatch:
		var p goal.Patch
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json body")
			return
		}
		g, ok, err := h.engine.UpdateGoal(ctx, id, p)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !ok {
			writeErr(w, http.StatusNotFound, "goal not found")
			return
		}
		writeJSON(w, http.StatusOK, g)

	case http.MethodDelete:
		deleted, err := h.engine.DeleteGoal(ctx, id)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		// Unknown ids are a no-op, not a failure; deletes stay idempotent.
		writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})

	default:
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

type setProgressRequest struct {
	Progress int `json:"progress"`
}

func (h *Handler) setProgress(w http.ResponseWriter, r *http.Request, id string) {
	var req setProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}

	res, err := h.engine.SetGoalProgress(r.Context(), id, req.Progress)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !res.Found {
		writeErr(w, http.StatusNotFound, "goal not found")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HabitsRoot handles /api/habits (list, create).
func (h *Handler) HabitsRoot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		habits, err := h.engine.ListHabits(ctx)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, habits)

	case http.MethodPost:
		var in CreateHabitInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json body")
			return
		}
		if strings.TrimSpace(in.Name) == "" {
			writeErr(w, http.StatusBadRequest, "name is required")
			return
		}
		created, err := h.engine.CreateHabit(ctx, in)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, created)

	default:
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// HabitsSub handles /api/habits/{id} and /api/habits/{id}/toggle.
func (h *Handler) HabitsSub(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rest := strings.TrimPrefix(r.URL.Path, "/api/habits/")
	parts := strings.SplitN(rest, "/", 2)
	id := parts[0]
	if id == "" {
		writeErr(w, http.StatusNotFound, "habit id required")
		return
	}

	if len(parts) == 2 {
		if parts[1] == "toggle" && r.Method == http.MethodPost {
			h.toggle(w, r, id)
			return
		}
		writeErr(w, http.StatusNotFound, "unknown habit action")
		return
	}

	switch r.Method {
	case http.MethodGet:
		hb, ok, err := h.engine.Habit(ctx, id)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !ok {
			writeErr(w, http.StatusNotFound, "habit not found")
			return
		}
		writeJSON(w, http.StatusOK, hb)

	case http.MethodPatch:
		var p habit.Patch
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json body")
			return
		}
		hb, ok, err := h.engine.UpdateHabit(ctx, id, p)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !ok {
			writeErr(w, http.StatusNotFound, "habit not found")
			return
		}
		writeJSON(w, http.StatusOK, hb)

	case http.MethodDelete:
		deleted, err := h.engine.DeleteHabit(ctx, id)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})

	default:
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

type toggleRequest struct {
	// Date is optional RFC3339; empty means "now".
	Date string `json:"date,omitempty"`
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request, id string) {
	var req toggleRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json body")
			return
		}
	}

	var at time.Time
	if req.Date != "" {
		parsed, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "date must be RFC3339")
			return
		}
		at = parsed
	}

	res, err := h.engine.ToggleCompletion(r.Context(), id, at)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !res.Found {
		writeErr(w, http.StatusNotFound, "habit not found")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Gamification handles GET /api/gamification.
func (h *Handler) Gamification(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	st, err := h.engine.Gamification(r.Context())
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Achievements handles GET /api/achievements: the full catalog plus
// which ids the session has unlocked.
func (h *Handler) Achievements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	st, err := h.engine.Gamification(r.Context())
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"achievements": gamification.All,
		"unlocked":     st.Unlocked,
	})
}

// Stats handles GET /api/stats over the telemetry event log.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.engine.Events == nil {
		writeErr(w, http.StatusServiceUnavailable, "telemetry disabled")
		return
	}

	since := time.Now().AddDate(0, 0, -30)
	events, err := h.engine.Events.GetEvents(r.Context(), since, nil)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	stats, err := telemetry.CalculateStats(events, since)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
