package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hetulpatel/appealdigest/internal/pipeline"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	for _, key := range []string{"DOCS_DIR", "RESPONSES_DIR", "OPENAI_INITIAL_MODEL", "OPENAI_IMPROVED_MODEL", "PDF_EXTRACTOR", "PROMPTS_FILE", "KAFKA_BROKERS", "ECHO_RESPONSES"} {
		t.Setenv(key, "")
	}

	cfg, err := Load(ProviderOpenAI)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DocsDir != "docs" || cfg.ResponsesDir != "responses" {
		t.Errorf("dirs = %q, %q", cfg.DocsDir, cfg.ResponsesDir)
	}
	if got := cfg.Models(); got.Initial != "gpt-4o-mini" || got.Improved != "o3-mini" {
		t.Errorf("models = %+v", got)
	}
	if cfg.OpenAI.Timeout != 120*time.Second || cfg.OpenAI.ReasoningEffort != "low" {
		t.Errorf("openai = %+v", cfg.OpenAI)
	}
	if cfg.Extractor != ExtractorNative || !cfg.Preflight || !cfg.Echo {
		t.Errorf("extractor=%q preflight=%v echo=%v", cfg.Extractor, cfg.Preflight, cfg.Echo)
	}
	if cfg.Prompts != pipeline.DefaultPrompts() {
		t.Error("expected default prompts")
	}
	if len(cfg.KafkaBrokers) != 0 {
		t.Errorf("brokers = %v", cfg.KafkaBrokers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadGemini(t *testing.T) {
	t.Setenv("GEMINI_PROJECT_ID", "proj")
	t.Setenv("GEMINI_INITIAL_MODEL", "")
	t.Setenv("GEMINI_IMPROVED_MODEL", "")
	t.Setenv("GEMINI_TIMEOUT", "30s")

	cfg, err := Load(ProviderGemini)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	models := cfg.Models()
	if models.Initial != "gemini-2.0-flash-lite" || models.Improved != "gemini-2.0-pro-exp-02-05" {
		t.Errorf("models = %+v", models)
	}
	if cfg.Gemini.TopK[models.Initial] != 40 || cfg.Gemini.TopK[models.Improved] != 64 {
		t.Errorf("topK = %v", cfg.Gemini.TopK)
	}
	if cfg.Gemini.Timeout != 30*time.Second || cfg.Gemini.MaxOutputTokens != 8192 {
		t.Errorf("gemini = %+v", cfg.Gemini)
	}
	if cfg.Provider.DisplayName() != "Gemini" {
		t.Errorf("display name = %q", cfg.Provider.DisplayName())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Provider:     ProviderOpenAI,
			DocsDir:      "docs",
			ResponsesDir: "responses",
			OpenAIModels: pipeline.Models{Initial: "a", Improved: "b"},
			Extractor:    ExtractorNative,
		}
	}
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing key", func(c *Config) {}, "OPENAI_API_KEY"},
		{"gemini without project", func(c *Config) {
			c.Provider = ProviderGemini
			c.GeminiModels = pipeline.Models{Initial: "a", Improved: "b"}
		}, "GEMINI_PROJECT_ID"},
		{"unknown provider", func(c *Config) { c.Provider = "claude" }, "unknown provider"},
		{"bad extractor", func(c *Config) { c.OpenAI.APIKey = "k"; c.Extractor = "ocr" }, "PDF_EXTRACTOR"},
		{"negative pages", func(c *Config) { c.OpenAI.APIKey = "k"; c.MaxPages = -1 }, "PDF_MAX_PAGES"},
		{"empty dirs", func(c *Config) { c.OpenAI.APIKey = "k"; c.DocsDir = " " }, "DOCS_DIR"},
		{"missing model", func(c *Config) { c.OpenAI.APIKey = "k"; c.OpenAIModels.Improved = "" }, "model names"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tc.want)
			}
		})
	}
}

func TestLoadPromptsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	content := "initial: |\n  Resuma o recurso.\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OPENAI_API_KEY", "k")
	t.Setenv("PROMPTS_FILE", path)

	cfg, err := Load(ProviderOpenAI)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Prompts.Initial != "Resuma o recurso.\n" {
		t.Errorf("initial = %q", cfg.Prompts.Initial)
	}
	if cfg.Prompts.Improved != pipeline.DefaultImprovedPrompt {
		t.Error("improved prompt should keep its default")
	}

	t.Setenv("PROMPTS_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(ProviderOpenAI); err == nil {
		t.Error("expected error for a missing prompts file")
	}
}
