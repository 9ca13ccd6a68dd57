package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Operator CLI for a running habitforge server. Read-mostly: inspection
// commands plus the suggestion calls, nothing that mutates tracker state.

var addr string

func main() {
	root := &cobra.Command{
		Use:           "habitforge-ops",
		Short:         "inspect a running habitforge server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&addr, "addr", "http://localhost:8484", "base URL of the server")

	root.AddCommand(statusCmd(), statsCmd(), quoteCmd(), goalsCmd(), habitsCmd(), suggestCmd())

	if err := root.Execute(); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

func client() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

func getJSON(path string, out any) error {
	res, err := client().Get(addr + path)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %s", path, res.Status)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func postJSON(path string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	res, err := client().Post(addr+path, "application/json", bytes.NewReader(b))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %s", path, res.Status)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "health, readiness and gamification snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			var health struct {
				OK      bool   `json:"ok"`
				Service string `json:"service"`
			}
			if err := getJSON("/healthz", &health); err != nil {
				return err
			}
			color.Green("%s is up", health.Service)

			var state struct {
				Level      int      `json:"level"`
				Points     int      `json:"points"`
				Experience int      `json:"experience"`
				ToNext     int      `json:"experience_to_next_level"`
				Unlocked   []string `json:"unlocked_achievements"`
			}
			if err := getJSON("/api/gamification", &state); err != nil {
				return err
			}
			fmt.Printf("level %d  points %d  xp %d/%d\n", state.Level, state.Points, state.Experience, state.ToNext)
			if len(state.Unlocked) > 0 {
				fmt.Printf("achievements: %s\n", strings.Join(state.Unlocked, ", "))
			}
			return nil
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "30-day activity summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			var stats struct {
				Period            string         `json:"period"`
				HabitCompletions  int            `json:"habit_completions"`
				HabitUncompletes  int            `json:"habit_uncompletes"`
				GoalsCompleted    int            `json:"goals_completed"`
				LevelUps          int            `json:"level_ups"`
				Achievements      int            `json:"achievements"`
				SuggestionCalls   int            `json:"suggestion_calls"`
				PointsByFrequency map[string]int `json:"points_by_frequency"`
			}
			if err := getJSON("/api/stats", &stats); err != nil {
				return err
			}
			color.Cyan("since %s", stats.Period)
			fmt.Printf("completions  %d (undone %d)\n", stats.HabitCompletions, stats.HabitUncompletes)
			fmt.Printf("goals done   %d\n", stats.GoalsCompleted)
			fmt.Printf("level-ups    %d\n", stats.LevelUps)
			fmt.Printf("achievements %d\n", stats.Achievements)
			fmt.Printf("ai calls     %d\n", stats.SuggestionCalls)
			for freq, pts := range stats.PointsByFrequency {
				fmt.Printf("  %-8s %+d points\n", freq, pts)
			}
			return nil
		},
	}
}

func quoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quote",
		Short: "print the quote of the day",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Quote string `json:"quote"`
			}
			if err := getJSON("/api/quote", &out); err != nil {
				return err
			}
			color.Yellow("%q", out.Quote)
			return nil
		},
	}
}

func goalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "goals",
		Short: "list goals with progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			var goals []struct {
				ID       string   `json:"id"`
				Name     string   `json:"name"`
				Progress int      `json:"progress"`
				DueDate  *string  `json:"due_date"`
				HabitIDs []string `json:"habit_ids"`
			}
			if err := getJSON("/api/goals", &goals); err != nil {
				return err
			}
			for _, g := range goals {
				line := fmt.Sprintf("%3d%%  %s", g.Progress, g.Name)
				if g.DueDate != nil {
					line += "  (due " + *g.DueDate + ")"
				}
				if g.Progress >= 100 {
					color.Green("%s", line)
				} else {
					fmt.Println(line)
				}
				fmt.Printf("      %s  habits:%d\n", g.ID, len(g.HabitIDs))
			}
			return nil
		},
	}
}

func habitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "habits",
		Short: "list habits with streaks",
		RunE: func(cmd *cobra.Command, args []string) error {
			var habits []struct {
				ID            string `json:"id"`
				Name          string `json:"name"`
				Frequency     string `json:"frequency"`
				CurrentStreak int    `json:"current_streak"`
				Completions   []any  `json:"completions"`
			}
			if err := getJSON("/api/habits", &habits); err != nil {
				return err
			}
			for _, h := range habits {
				line := fmt.Sprintf("%-8s %s  (%d check-ins)", h.Frequency, h.Name, len(h.Completions))
				if h.CurrentStreak > 0 {
					line += fmt.Sprintf("  streak:%d", h.CurrentStreak)
					color.Green("%s", line)
				} else {
					fmt.Println(line)
				}
				fmt.Printf("  %s\n", h.ID)
			}
			return nil
		},
	}
}

func suggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest [goal name]",
		Short: "ask for habit suggestions",
		Long:  "With a goal name, suggests habits for that goal. Without arguments, suggests habits complementing the existing ones.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Suggestions []string `json:"suggestions"`
			}
			if len(args) > 0 {
				body := map[string]any{"goal_name": strings.Join(args, " ")}
				if err := postJSON("/api/suggest/habits", body, &out); err != nil {
					return err
				}
			} else {
				if err := postJSON("/api/suggest/from-existing", map[string]any{}, &out); err != nil {
					return err
				}
			}
			for _, s := range out.Suggestions {
				fmt.Printf("  - %s\n", s)
			}
			return nil
		},
	}
	return cmd
}
