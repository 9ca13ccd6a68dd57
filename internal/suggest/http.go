package suggest

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"habitforge/internal/telemetry"
)

type Handler struct {
	svc   Suggester
	quote *QuoteCache

	// habitNames lists existing habit names for the from-existing call.
	habitNames func(ctx context.Context) ([]string, error)

	events telemetry.Repository
}

func NewHandler(svc Suggester, habitNames func(ctx context.Context) ([]string, error), events telemetry.Repository) *Handler {
	return &Handler{
		svc:        svc,
		quote:      NewQuoteCache(svc),
		habitNames: habitNames,
		events:     events,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func (h *Handler) record(ctx context.Context, t telemetry.EventType, md telemetry.EventMetadata) {
	if h.events == nil {
		return
	}
	_ = h.events.RecordEvent(ctx, t, md)
}

type forGoalRequest struct {
	GoalName        string `json:"goal_name"`
	GoalDescription string `json:"goal_description"`
}

// ForGoal handles POST /api/suggest/habits.
func (h *Handler) ForGoal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req forGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.GoalName) == "" {
		writeErr(w, http.StatusBadRequest, "goal_name is required")
		return
	}

	h.record(r.Context(), telemetry.EventSuggestionRequested, telemetry.EventMetadata{"kind": "for_goal"})

	suggestions, err := h.svc.SuggestForGoal(r.Context(), req.GoalName, req.GoalDescription)
	if err != nil {
		// Internals stay in the server log; the wire carries the single
		// user-facing failure string with its retry affordance.
		writeErr(w, http.StatusBadGateway, ErrUnavailable.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

// FromExisting handles POST /api/suggest/from-existing.
func (h *Handler) FromExisting(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	names, err := h.habitNames(r.Context())
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.record(r.Context(), telemetry.EventSuggestionRequested, telemetry.EventMetadata{"kind": "from_existing"})

	suggestions, err := h.svc.SuggestFromExisting(r.Context(), names)
	if err != nil {
		writeErr(w, http.StatusBadGateway, ErrUnavailable.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

// Quote handles GET /api/quote. Never fails: upstream errors fall back
// to the default quote, cached per calendar day.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	quote := h.quote.Get(r.Context(), time.Now())
	h.record(r.Context(), telemetry.EventQuoteServed, telemetry.EventMetadata{})
	writeJSON(w, http.StatusOK, map[string]any{"quote": quote})
}
