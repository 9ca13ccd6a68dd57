package config

import (
	"os"
	"strconv"
	"strings"
)

// FromEnv applies HABITFORGE_* environment overrides on top of the
// loaded config. Unset variables leave the config untouched.
func FromEnv(c *Config) {
	if addr := strings.TrimSpace(os.Getenv("HABITFORGE_ADDR")); addr != "" {
		c.Server.Addr = addr
	}
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("HABITFORGE_SEED"))); v != "" {
		c.Server.Seed = v == "1" || v == "true" || v == "yes"
	}
	if model := strings.TrimSpace(os.Getenv("HABITFORGE_SUGGEST_MODEL")); model != "" {
		c.Suggest.Model = model
	}
	if val := getEnvInt("HABITFORGE_SUGGEST_MAX_TOKENS"); val > 0 {
		c.Suggest.MaxTokens = val
	}

	if val := getEnvInt("HABITFORGE_POINTS_DAILY"); val > 0 {
		c.Balance.PointsDaily = val
	}
	if val := getEnvInt("HABITFORGE_POINTS_WEEKLY"); val > 0 {
		c.Balance.PointsWeekly = val
	}
	if val := getEnvInt("HABITFORGE_POINTS_MONTHLY"); val > 0 {
		c.Balance.PointsMonthly = val
	}
	if val := getEnvInt("HABITFORGE_GOAL_BONUS"); val > 0 {
		c.Balance.GoalCompletionBonus = val
	}
	if val := getEnvInt("HABITFORGE_XP_PER_LEVEL"); val > 0 {
		c.Balance.XPPerLevel = val
	}
}

func getEnvInt(key string) int {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return num
}
