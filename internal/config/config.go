package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Version string        `yaml:"version" json:"version"`
	Server  ServerConfig  `yaml:"server" json:"server"`
	Suggest SuggestConfig `yaml:"suggest" json:"suggest"`
	Balance Balance       `yaml:"balance" json:"balance"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
	// Seed loads the starter goals/habits on boot when no data exists yet.
	Seed bool `yaml:"seed" json:"seed"`
}

type SuggestConfig struct {
	Model     string `yaml:"model" json:"model"`
	MaxTokens int    `yaml:"max_tokens" json:"max_tokens"`
	TimeoutS  int    `yaml:"timeout_s" json:"timeout_s"`
}

func (s *ServerConfig) ApplyDefaults() {
	if s.Addr == "" {
		s.Addr = ":8484"
	}
}

func (s *SuggestConfig) ApplyDefaults() {
	if s.Model == "" {
		s.Model = "claude-sonnet-4-5-20250929"
	}
	if s.MaxTokens == 0 {
		s.MaxTokens = 1024
	}
	if s.TimeoutS == 0 {
		s.TimeoutS = 20
	}
}

func (c *Config) ApplyDefaults() {
	c.Server.ApplyDefaults()
	c.Suggest.ApplyDefaults()
	c.Balance.ApplyDefaults()
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	return &c, nil
}

// LoadOrDefault returns defaults when the config file is absent,
// so the server can boot with zero setup.
func LoadOrDefault(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			out := &Config{}
			out.ApplyDefaults()
			return out, nil
		}
		return nil, err
	}
	return c, nil
}
