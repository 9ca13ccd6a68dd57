package suggest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// ErrUnavailable is the single user-facing failure of the suggestion
// collaborator. It never corrupts tracker state: suggestions only become
// habits when the caller explicitly creates one.
var ErrUnavailable = errors.New("failed to get AI suggestions, please try again")

// DefaultQuote is served whenever the quote call fails.
const DefaultQuote = "A journey of a thousand miles begins with a single step."

// Suggester produces habit-name suggestions and a daily quote.
type Suggester interface {
	// SuggestForGoal returns 3-5 small, practical habit names for a goal.
	SuggestForGoal(ctx context.Context, goalName, goalDescription string) ([]string, error)

	// SuggestFromExisting returns complementary habit names, already
	// deduplicated case-insensitively against the provided names.
	SuggestFromExisting(ctx context.Context, existing []string) ([]string, error)

	// DailyQuote returns a short motivational quote.
	DailyQuote(ctx context.Context) (string, error)
}

// dedupe filters suggestions that case-insensitively match an existing
// habit name.
func dedupe(suggestions, existing []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, name := range existing {
		seen[strings.ToLower(strings.TrimSpace(name))] = true
	}

	out := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		s = strings.TrimSpace(s)
		if s == "" || seen[strings.ToLower(s)] {
			continue
		}
		out = append(out, s)
	}
	return out
}

// QuoteCache serves at most one upstream quote call per calendar day.
type QuoteCache struct {
	mu    sync.Mutex
	src   Suggester
	day   string
	quote string
}

func NewQuoteCache(src Suggester) *QuoteCache {
	return &QuoteCache{src: src}
}

// Get returns the cached quote for now's day, fetching once per day.
// Upstream failures fall back to DefaultQuote; the fallback is cached
// too so a flaky upstream is not hammered.
func (c *QuoteCache) Get(ctx context.Context, now time.Time) string {
	key := now.UTC().Format("2006-01-02")

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.day == key && c.quote != "" {
		return c.quote
	}

	quote, err := c.src.DailyQuote(ctx)
	quote = strings.TrimSpace(strings.Trim(strings.TrimSpace(quote), `"`))
	if err != nil || quote == "" {
		quote = DefaultQuote
	}

	c.day = key
	c.quote = quote
	return quote
}

// Static is the no-API-key fallback: canned suggestions and the default
// quote, same shape the real collaborator returns.
type Static struct{}

func (Static) SuggestForGoal(ctx context.Context, goalName, goalDescription string) ([]string, error) {
	_ = ctx
	_ = goalDescription
	return []string{
		"Review progress on '" + goalName + "' weekly",
		"Break '" + goalName + "' into smaller tasks",
		"Spend 1 hour a day on '" + goalName + "'",
	}, nil
}

func (Static) SuggestFromExisting(ctx context.Context, existing []string) ([]string, error) {
	_ = ctx
	return dedupe([]string{
		"Post-run stretching",
		"Strength training twice a week",
		"Drink 2L of water a day",
	}, existing), nil
}

func (Static) DailyQuote(ctx context.Context) (string, error) {
	_ = ctx
	return DefaultQuote, nil
}
