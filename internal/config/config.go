// Package config holds topiary configuration: defaults, YAML loading, and
// environment overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all topiary configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	LLM      LLMConfig      `yaml:"llm"`
	Merge    MergeConfig    `yaml:"merge"`
	Scoring  ScoringConfig  `yaml:"scoring"`
}

type ServerConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type LLMConfig struct {
	Provider       string `yaml:"provider"` // "anthropic", "ollama"
	Model          string `yaml:"model"`
	OllamaURL      string `yaml:"ollama_url"`
	OllamaModel    string `yaml:"ollama_model"`
	EmbeddingModel string `yaml:"embedding_model"` // e.g. "nomic-embed-text"
	AnthropicKey   string `yaml:"anthropic_key"`
}

type MergeConfig struct {
	Threshold float64 `yaml:"threshold"` // cosine threshold for merge suggestions
}

type ScoringConfig struct {
	DefaultScore       float64            `yaml:"default_score"` // score for newly added topics
	HalfLifeDays       float64            `yaml:"half_life_days"`
	SpeakerWeights     map[string]float64 `yaml:"speaker_weights"`
	MeetingTypeWeights map[string]float64 `yaml:"meeting_type_weights"`
}

// Default returns a Config with sensible defaults. Weight tables are left
// nil so the scorer's built-in tables apply.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 37780,
		},
		Database: DatabaseConfig{
			Path: "", // resolved at runtime via store.DefaultDBPath()
		},
		LLM: LLMConfig{
			Provider: "anthropic",
			Model:    "claude-haiku-4-5-20251001",
		},
		Merge: MergeConfig{
			Threshold: 0.85,
		},
		Scoring: ScoringConfig{
			DefaultScore: 0.5,
			HalfLifeDays: 7,
		},
	}
}

// Load reads a YAML config file over the defaults. A missing path returns
// the defaults unchanged. Environment overrides (ANTHROPIC_API_KEY,
// TOPIARY_DB) are applied last.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		c.LLM.AnthropicKey = key
	}
	if path := os.Getenv("TOPIARY_DB"); path != "" {
		c.Database.Path = path
	}
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
