// Package config loads the digest settings once from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hetulpatel/appealdigest/internal/kafka"
	"github.com/hetulpatel/appealdigest/internal/llm"
	"github.com/hetulpatel/appealdigest/internal/pipeline"
)

// Provider selects the AI backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// DisplayName is the provider name shown in console banners.
func (p Provider) DisplayName() string {
	switch p {
	case ProviderOpenAI:
		return "OpenAI"
	case ProviderGemini:
		return "Gemini"
	default:
		return string(p)
	}
}

const (
	ExtractorNative    = "native"
	ExtractorPdftotext = "pdftotext"
)

type Config struct {
	Provider     Provider
	DocsDir      string
	ResponsesDir string

	OpenAI       llm.OpenAIConfig
	OpenAIModels pipeline.Models
	Gemini       llm.GeminiConfig
	GeminiModels pipeline.Models

	Extractor    string
	PdftotextBin string
	MaxPages     int
	Preflight    bool

	PromptsFile string
	Prompts     pipeline.Prompts
	Echo        bool

	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	StatusTTL     time.Duration
	KafkaBrokers  []string
	OutcomesTopic string
	SummaryXLSX   string
}

// Load reads .env (if present) and the process environment.
func Load(provider Provider) (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Provider:     provider,
		DocsDir:      envString("DOCS_DIR", "docs"),
		ResponsesDir: envString("RESPONSES_DIR", "responses"),
		OpenAI: llm.OpenAIConfig{
			APIKey:          os.Getenv("OPENAI_API_KEY"),
			Organization:    os.Getenv("OPENAI_ORGANIZATION"),
			Project:         os.Getenv("OPENAI_PROJECT"),
			BaseURL:         os.Getenv("OPENAI_BASE_URL"),
			ReasoningEffort: envString("OPENAI_REASONING_EFFORT", "low"),
			Timeout:         envDuration("OPENAI_TIMEOUT", 120*time.Second),
			MaxTokens:       envInt("OPENAI_MAX_TOKENS", 0),
		},
		OpenAIModels: pipeline.Models{
			Initial:  envString("OPENAI_INITIAL_MODEL", "gpt-4o-mini"),
			Improved: envString("OPENAI_IMPROVED_MODEL", "o3-mini"),
		},
		GeminiModels: pipeline.Models{
			Initial:  envString("GEMINI_INITIAL_MODEL", "gemini-2.0-flash-lite"),
			Improved: envString("GEMINI_IMPROVED_MODEL", "gemini-2.0-pro-exp-02-05"),
		},
		Extractor:     strings.ToLower(envString("PDF_EXTRACTOR", ExtractorNative)),
		PdftotextBin:  os.Getenv("PDFTOTEXT_BIN"),
		MaxPages:      envInt("PDF_MAX_PAGES", 0),
		Preflight:     envBool("PDF_PREFLIGHT", true),
		PromptsFile:   os.Getenv("PROMPTS_FILE"),
		Prompts:       pipeline.DefaultPrompts(),
		Echo:          envBool("ECHO_RESPONSES", true),
		SQLitePath:    os.Getenv("SQLITE_PATH"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),
		StatusTTL:     envDuration("STATUS_TTL", 720*time.Hour),
		KafkaBrokers:  kafka.ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		OutcomesTopic: envString("OUTCOMES_KAFKA_TOPIC", kafka.DefaultOutcomeTopic),
		SummaryXLSX:   os.Getenv("SUMMARY_XLSX"),
	}
	cfg.Gemini = llm.GeminiConfig{
		ProjectID:       os.Getenv("GEMINI_PROJECT_ID"),
		Region:          envString("GEMINI_REGION", "us-central1"),
		Temperature:     1,
		TopP:            0.95,
		DefaultTopK:     40,
		TopK:            map[string]int32{cfg.GeminiModels.Initial: 40, cfg.GeminiModels.Improved: 64},
		MaxOutputTokens: 8192,
		Timeout:         envDuration("GEMINI_TIMEOUT", 120*time.Second),
	}

	if cfg.PromptsFile != "" {
		prompts, err := loadPrompts(cfg.PromptsFile)
		if err != nil {
			return Config{}, err
		}
		cfg.Prompts = prompts
	}
	return cfg, nil
}

// Models returns the model pair of the selected provider.
func (c Config) Models() pipeline.Models {
	if c.Provider == ProviderGemini {
		return c.GeminiModels
	}
	return c.OpenAIModels
}

// Validate reports every setting that would stop the run.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DocsDir) == "" {
		errs = append(errs, errors.New("DOCS_DIR is empty"))
	}
	if strings.TrimSpace(c.ResponsesDir) == "" {
		errs = append(errs, errors.New("RESPONSES_DIR is empty"))
	}
	switch c.Provider {
	case ProviderOpenAI:
		if strings.TrimSpace(c.OpenAI.APIKey) == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required"))
		}
	case ProviderGemini:
		if strings.TrimSpace(c.Gemini.ProjectID) == "" {
			errs = append(errs, errors.New("GEMINI_PROJECT_ID is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown provider %q", c.Provider))
	}
	models := c.Models()
	if strings.TrimSpace(models.Initial) == "" || strings.TrimSpace(models.Improved) == "" {
		errs = append(errs, errors.New("both initial and improved model names are required"))
	}
	switch c.Extractor {
	case ExtractorNative, ExtractorPdftotext:
	default:
		errs = append(errs, fmt.Errorf("PDF_EXTRACTOR must be %q or %q, got %q", ExtractorNative, ExtractorPdftotext, c.Extractor))
	}
	if c.MaxPages < 0 {
		errs = append(errs, errors.New("PDF_MAX_PAGES must not be negative"))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config: %w", errors.Join(errs...))
}

type promptFile struct {
	Initial  string `yaml:"initial"`
	Improved string `yaml:"improved"`
}

// loadPrompts reads prompt overrides; a key left out keeps its default.
func loadPrompts(path string) (pipeline.Prompts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pipeline.Prompts{}, fmt.Errorf("config: read prompts: %w", err)
	}
	var pf promptFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return pipeline.Prompts{}, fmt.Errorf("config: parse prompts %s: %w", path, err)
	}
	prompts := pipeline.DefaultPrompts()
	if strings.TrimSpace(pf.Initial) != "" {
		prompts.Initial = pf.Initial
	}
	if strings.TrimSpace(pf.Improved) != "" {
		prompts.Improved = pf.Improved
	}
	return prompts, nil
}

func envString(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func envInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return def
}
