package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenAITimeout = 120 * time.Second

// OpenAIConfig holds client settings.
type OpenAIConfig struct {
	APIKey       string
	Organization string
	Project      string
	BaseURL      string
	// ReasoningEffort is only sent to reasoning models (o-series, gpt-5).
	ReasoningEffort string
	Timeout         time.Duration
	MaxTokens       int
}

// OpenAIClient wraps the OpenAI chat completions API.
type OpenAIClient struct {
	api             *openai.Client
	reasoningEffort string
	maxTokens       int
	timeout         time.Duration
}

// NewOpenAI creates a client from config.
func NewOpenAI(cfg OpenAIConfig) (*OpenAIClient, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("llm: API key is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultOpenAITimeout
	}
	maxTokens := cfg.MaxTokens
	if maxTokens < 0 {
		maxTokens = 0
	}

	openaiCfg := openai.DefaultConfig(apiKey)
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		openaiCfg.BaseURL = baseURL
	}
	openaiCfg.OrgID = strings.TrimSpace(cfg.Organization)
	if project := strings.TrimSpace(cfg.Project); project != "" {
		openaiCfg.HTTPClient = &http.Client{
			Transport: projectTransport{project: project, base: http.DefaultTransport},
		}
	}

	return &OpenAIClient{
		api:             openai.NewClientWithConfig(openaiCfg),
		reasoningEffort: strings.TrimSpace(cfg.ReasoningEffort),
		maxTokens:       maxTokens,
		timeout:         timeout,
	}, nil
}

// Complete sends a single user message and returns the first choice verbatim.
func (c *OpenAIClient) Complete(ctx context.Context, prompt, model string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("llm: client is nil")
	}
	if prompt == "" || model == "" {
		return "", fmt.Errorf("llm: prompt and model must be provided")
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxCompletionTokens: c.maxTokens,
	}
	if isReasoningModel(model) {
		req.ReasoningEffort = c.reasoningEffort
	}

	resp, err := c.api.CreateChatCompletion(ctxWithTimeout, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func isReasoningModel(model string) bool {
	m := strings.ToLower(model)
	for _, prefix := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(m, prefix) {
			return true
		}
	}
	return false
}

// projectTransport adds the OpenAI-Project header, which go-openai does not expose.
type projectTransport struct {
	project string
	base    http.RoundTripper
}

func (t projectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("OpenAI-Project", t.project)
	return t.base.RoundTrip(req)
}
