package habit

import (
	"sort"
	"time"
)

// Streak computes the current consecutive-day streak: the length of the
// maximal run of back-to-back calendar days ending at the most recent
// completion. Only daily habits chain; weekly and monthly cadences
// always report 0. Pure, no side effects.
func Streak(freq Frequency, completions []Completion) int {
	if freq != FrequencyDaily || len(completions) == 0 {
		return 0
	}

	seen := make(map[string]time.Time, len(completions))
	for _, c := range completions {
		day := c.CompletedAt.UTC().Truncate(24 * time.Hour)
		seen[DayKey(c.CompletedAt)] = day
	}

	days := make([]time.Time, 0, len(seen))
	for _, d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	streak := 1
	anchor := days[0]
	for _, day := range days[1:] {
		if day.Equal(anchor.AddDate(0, 0, -1)) {
			streak++
			anchor = day
			continue
		}
		// A gap breaks the run; older history does not count.
		break
	}
	return streak
}
