package serverapp

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"habitforge/internal/config"
	"habitforge/internal/gamification"
	"habitforge/internal/goal"
	"habitforge/internal/habit"
	"habitforge/internal/httpmw"
	"habitforge/internal/suggest"
	"habitforge/internal/telemetry"
	"habitforge/internal/tracker"
)

type Options struct {
	Config *config.Config
	Logger *log.Logger

	// Suggester overrides the default pick (Anthropic client when
	// ANTHROPIC_API_KEY is set, Static otherwise). Tests inject fakes here.
	Suggester suggest.Suggester
}

// NewHandler wires the full API surface and returns the root handler.
func NewHandler(opts Options) (http.Handler, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	events := telemetry.NewMemoryRepository()
	engine := tracker.NewEngine(
		goal.NewMemoryRepo(),
		habit.NewMemoryRepo(),
		gamification.NewMemoryStateRepo(opts.Config.Balance.XPPerLevel),
		events,
		opts.Config.Balance,
	)

	if opts.Config.Server.Seed {
		if err := engine.Seed(context.Background()); err != nil {
			return nil, err
		}
		opts.Logger.Printf("seeded starter goals and habits")
	}

	svc := opts.Suggester
	if svc == nil {
		client, err := suggest.NewClient(opts.Config.Suggest)
		if err != nil {
			opts.Logger.Printf("suggestions running in static mode: %v", err)
			svc = suggest.Static{}
		} else {
			svc = client
		}
	}

	trackerHandler := tracker.NewHandler(engine)
	suggestHandler := suggest.NewHandler(svc, func(ctx context.Context) ([]string, error) {
		habits, err := engine.ListHabits(ctx)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(habits))
		for _, hb := range habits {
			names = append(names, hb.Name)
		}
		return names, nil
	}, events)

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "habitforge",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if _, err := engine.ListHabits(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "habit storage unavailable",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "habitforge",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/api/goals", trackerHandler.GoalsRoot)
	mux.HandleFunc("/api/goals/", trackerHandler.GoalsSub)
	mux.HandleFunc("/api/habits", trackerHandler.HabitsRoot)
	mux.HandleFunc("/api/habits/", trackerHandler.HabitsSub)
	mux.HandleFunc("/api/gamification", trackerHandler.Gamification)
	mux.HandleFunc("/api/achievements", trackerHandler.Achievements)
	mux.HandleFunc("/api/stats", trackerHandler.Stats)

	mux.HandleFunc("/api/suggest/habits", suggestHandler.ForGoal)
	mux.HandleFunc("/api/suggest/from-existing", suggestHandler.FromExisting)
	mux.HandleFunc("/api/quote", suggestHandler.Quote)

	mux.HandleFunc("/api/config", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(opts.Config); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})

	return httpmw.Chain(
		mux,
		httpmw.WithAccessLog(opts.Logger),
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
	), nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
