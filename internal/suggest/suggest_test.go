package suggest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDedupe(t *testing.T) {
	existing := []string{"Morning run", "  read 20 pages "}

	out := dedupe([]string{
		"MORNING RUN",
		"Read 20 pages",
		"Stretching",
		"",
		"  ",
	}, existing)

	assert.Equal(t, []string{"Stretching"}, out)
}

func TestParseHabits(t *testing.T) {
	t.Run("plain json", func(t *testing.T) {
		habits, err := parseHabits(`{"habits": ["a", "b"]}`)
		assert.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, habits)
	})

	t.Run("fenced json", func(t *testing.T) {
		habits, err := parseHabits("```json\n{\"habits\": [\"a\"]}\n```")
		assert.NoError(t, err)
		assert.Equal(t, []string{"a"}, habits)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := parseHabits("sorry, I cannot help with that")
		assert.Error(t, err)
	})
}

type countingSuggester struct {
	quote    string
	err      error
	quoteCnt int
}

func (c *countingSuggester) SuggestForGoal(ctx context.Context, name, desc string) ([]string, error) {
	return nil, nil
}

func (c *countingSuggester) SuggestFromExisting(ctx context.Context, existing []string) ([]string, error) {
	return nil, nil
}

func (c *countingSuggester) DailyQuote(ctx context.Context) (string, error) {
	c.quoteCnt++
	return c.quote, c.err
}

func TestQuoteCache(t *testing.T) {
	ctx := context.Background()
	day1 := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	t.Run("one upstream call per day", func(t *testing.T) {
		src := &countingSuggester{quote: "Keep going."}
		cache := NewQuoteCache(src)

		assert.Equal(t, "Keep going.", cache.Get(ctx, day1))
		assert.Equal(t, "Keep going.", cache.Get(ctx, day1.Add(6*time.Hour)))
		assert.Equal(t, 1, src.quoteCnt)

		cache.Get(ctx, day1.AddDate(0, 0, 1))
		assert.Equal(t, 2, src.quoteCnt, "new day fetches again")
	})

	t.Run("failure falls back and is cached", func(t *testing.T) {
		src := &countingSuggester{err: errors.New("upstream down")}
		cache := NewQuoteCache(src)

		assert.Equal(t, DefaultQuote, cache.Get(ctx, day1))
		assert.Equal(t, DefaultQuote, cache.Get(ctx, day1))
		assert.Equal(t, 1, src.quoteCnt, "fallback must not retry within the day")
	})

	t.Run("surrounding quotes are stripped", func(t *testing.T) {
		src := &countingSuggester{quote: `"Be bold."`}
		cache := NewQuoteCache(src)

		assert.Equal(t, "Be bold.", cache.Get(ctx, day1))
	})
}

func TestStaticFallback(t *testing.T) {
	ctx := context.Background()
	s := Static{}

	forGoal, err := s.SuggestForGoal(ctx, "Learn piano", "")
	assert.NoError(t, err)
	assert.NotEmpty(t, forGoal)

	fromExisting, err := s.SuggestFromExisting(ctx, []string{"Post-run stretching"})
	assert.NoError(t, err)
	for _, sugg := range fromExisting {
		assert.NotEqual(t, "Post-run stretching", sugg, "existing names are filtered")
	}

	quote, err := s.DailyQuote(ctx)
	assert.NoError(t, err)
	assert.Equal(t, DefaultQuote, quote)
}
