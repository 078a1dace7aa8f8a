package llm

import (
	"strings"
	"testing"

	"github.com/lazypower/topiary/internal/config"
)

func TestNewClientAnthropicRequiresKey(t *testing.T) {
	_, err := NewClient(config.LLMConfig{Provider: "anthropic"})
	if err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestNewClientAnthropic(t *testing.T) {
	c, err := NewClient(config.LLMConfig{Provider: "anthropic", AnthropicKey: "sk-test"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, ok := c.(*Anthropic); !ok {
		t.Errorf("client type = %T, want *Anthropic", c)
	}
}

func TestNewClientOllamaDefaults(t *testing.T) {
	c, err := NewClient(config.LLMConfig{Provider: "ollama"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	o, ok := c.(*Ollama)
	if !ok {
		t.Fatalf("client type = %T, want *Ollama", c)
	}
	if o.url != "http://localhost:11434" || o.model != "llama3.2" {
		t.Errorf("defaults = %q, %q", o.url, o.model)
	}
}

func TestNewClientUnknownProvider(t *testing.T) {
	if _, err := NewClient(config.LLMConfig{Provider: "carrier-pigeon"}); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestDecodeJSONPlain(t *testing.T) {
	var out struct {
		NewTopics []struct {
			Label string `json:"label"`
		} `json:"new_topics"`
	}
	err := DecodeJSON(`{"new_topics": [{"label": "SSO Issues"}]}`, &out)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if len(out.NewTopics) != 1 || out.NewTopics[0].Label != "SSO Issues" {
		t.Errorf("decoded = %+v", out)
	}
}

func TestDecodeJSONFenced(t *testing.T) {
	content := "```json\n{\"mentions\": []}\n```"
	var out map[string]any
	if err := DecodeJSON(content, &out); err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if _, ok := out["mentions"]; !ok {
		t.Errorf("decoded = %v", out)
	}
}

func TestDecodeJSONWithProse(t *testing.T) {
	content := `Here is the result you asked for:
{"mentions": [{"chunk_id": "00000001", "topic_label": "sso-issues", "evidence": "q"}]}
Hope that helps!`
	var out struct {
		Mentions []struct {
			ChunkID string `json:"chunk_id"`
		} `json:"mentions"`
	}
	if err := DecodeJSON(content, &out); err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if len(out.Mentions) != 1 || out.Mentions[0].ChunkID != "00000001" {
		t.Errorf("decoded = %+v", out)
	}
}

func TestDecodeJSONGarbage(t *testing.T) {
	var out map[string]any
	if err := DecodeJSON("no json here at all", &out); err == nil {
		t.Fatal("expected error for non-JSON content")
	}
}

func TestDetectTopicsPrompt(t *testing.T) {
	p := DetectTopicsPrompt("Weekly sync", "internal", []string{"onboarding", "billing"}, "we talked")
	for _, want := range []string{"Weekly sync", "internal", "- onboarding", "- billing", "we talked", "new_topics"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	empty := DetectTopicsPrompt("t", "m", nil, "x")
	if !strings.Contains(empty, "(none yet)") {
		t.Error("prompt should note an empty taxonomy")
	}
}
