package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Merge.Threshold != 0.85 {
		t.Errorf("merge threshold = %f, want 0.85", cfg.Merge.Threshold)
	}
	if cfg.Scoring.DefaultScore != 0.5 {
		t.Errorf("default score = %f, want 0.5", cfg.Scoring.DefaultScore)
	}
	if cfg.ListenAddr() != "127.0.0.1:37780" {
		t.Errorf("listen addr = %q", cfg.ListenAddr())
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "topiary.yaml")
	doc := `
server:
  port: 9000
llm:
  provider: ollama
  ollama_model: llama3.2
merge:
  threshold: 0.9
scoring:
  half_life_days: 14
  meeting_type_weights:
    customer_call: 1.4
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Server.Bind != "127.0.0.1" {
		t.Errorf("bind default lost: %q", cfg.Server.Bind)
	}
	if cfg.LLM.Provider != "ollama" {
		t.Errorf("provider = %q", cfg.LLM.Provider)
	}
	if cfg.Merge.Threshold != 0.9 {
		t.Errorf("threshold = %f", cfg.Merge.Threshold)
	}
	if cfg.Scoring.HalfLifeDays != 14 {
		t.Errorf("half life = %f", cfg.Scoring.HalfLifeDays)
	}
	if cfg.Scoring.MeetingTypeWeights["customer_call"] != 1.4 {
		t.Errorf("weights = %v", cfg.Scoring.MeetingTypeWeights)
	}
}

func TestLoadMissingPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.Provider != "anthropic" {
		t.Errorf("provider = %q, want anthropic default", cfg.LLM.Provider)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("TOPIARY_DB", "/tmp/test.db")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.AnthropicKey != "sk-test" {
		t.Errorf("anthropic key = %q", cfg.LLM.AnthropicKey)
	}
	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("db path = %q", cfg.Database.Path)
	}
}
