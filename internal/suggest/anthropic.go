package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"habitforge/internal/config"
)

// Client is the Anthropic-backed Suggester.
type Client struct {
	client    anthropic.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

// NewClient builds a Client from config. Returns an error when
// ANTHROPIC_API_KEY is unset; callers fall back to Static.
func NewClient(cfg config.SuggestConfig) (*Client, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
	}

	return &Client{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   time.Duration(cfg.TimeoutS) * time.Second,
	}, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	response, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("AI API call failed: %w", err)
	}

	var text string
	for _, block := range response.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	return text, nil
}

// habitList is the JSON shape the model is asked to answer with.
type habitList struct {
	Habits []string `json:"habits"`
}

// parseHabits tolerates code fences around the JSON payload.
func parseHabits(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var out habitList
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, err
	}
	return out.Habits, nil
}

func (c *Client) SuggestForGoal(ctx context.Context, goalName, goalDescription string) ([]string, error) {
	prompt := fmt.Sprintf(
		`Based on the following goal, suggest 3 to 5 small, practical habits. The goal is: %q. Description: %q. Habits should be concise and easy to start. Answer with JSON only, in the shape {"habits": ["..."]}.`,
		goalName, goalDescription,
	)

	text, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	habits, err := parseHabits(text)
	if err != nil {
		return nil, fmt.Errorf("%w: bad response shape", ErrUnavailable)
	}
	return habits, nil
}

func (c *Client) SuggestFromExisting(ctx context.Context, existing []string) ([]string, error) {
	prompt := fmt.Sprintf(
		`Based on the user's current habit list, suggest 3 to 5 new, complementary habits that fit their routine.
Existing habits: %q.
Suggestions must be distinct from the existing habits, concise and practical.
For example, if a user has "Run 5k", suggest "Post-run stretching" or "Strength training for runners".
Answer with JSON only, in the shape {"habits": ["..."]}.`,
		strings.Join(existing, ", "),
	)

	text, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	habits, err := parseHabits(text)
	if err != nil {
		return nil, fmt.Errorf("%w: bad response shape", ErrUnavailable)
	}
	return dedupe(habits, existing), nil
}

func (c *Client) DailyQuote(ctx context.Context) (string, error) {
	prompt := "Generate a short, unique and striking motivational quote of at most 20 words. Avoid common cliches. Answer with the quote only, no surrounding quotes or extra text."

	text, err := c.complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
