package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/iterator"
)

const (
	defaultGeminiRegion  = "us-central1"
	defaultGeminiTimeout = 120 * time.Second
)

// GeminiConfig holds Vertex AI Gemini settings. Sampling values apply to every
// model; TopK can differ per model name.
type GeminiConfig struct {
	ProjectID       string
	Region          string
	Temperature     float32
	TopP            float32
	DefaultTopK     int32
	TopK            map[string]int32
	MaxOutputTokens int32
	Timeout         time.Duration
}

// GeminiClient streams completions from Gemini on Vertex AI.
type GeminiClient struct {
	client          *genai.Client
	temperature     float32
	topP            float32
	defaultTopK     int32
	topK            map[string]int32
	maxOutputTokens int32
	timeout         time.Duration
}

// NewGemini connects to Vertex AI with application default credentials.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	projectID := strings.TrimSpace(cfg.ProjectID)
	if projectID == "" {
		return nil, fmt.Errorf("llm: gemini project id is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = defaultGeminiRegion
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultGeminiTimeout
	}

	client, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("llm: genai.NewClient: %w", err)
	}
	return &GeminiClient{
		client:          client,
		temperature:     cfg.Temperature,
		topP:            cfg.TopP,
		defaultTopK:     cfg.DefaultTopK,
		topK:            cfg.TopK,
		maxOutputTokens: cfg.MaxOutputTokens,
		timeout:         timeout,
	}, nil
}

// Complete streams the response for prompt and returns the concatenated chunks.
func (c *GeminiClient) Complete(ctx context.Context, prompt, model string) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("llm: client is nil")
	}
	if prompt == "" || model == "" {
		return "", fmt.Errorf("llm: prompt and model must be provided")
	}

	m := c.client.GenerativeModel(model)
	m.SetTemperature(c.temperature)
	if c.topP > 0 {
		m.SetTopP(c.topP)
	}
	if k := c.topKFor(model); k > 0 {
		m.SetTopK(k)
	}
	if c.maxOutputTokens > 0 {
		m.SetMaxOutputTokens(c.maxOutputTokens)
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var b strings.Builder
	iter := m.GenerateContentStream(ctxWithTimeout, genai.Text(prompt))
	for {
		resp, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return "", fmt.Errorf("llm: gemini stream: %w", err)
		}
		appendCandidateText(&b, resp)
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}

func (c *GeminiClient) topKFor(model string) int32 {
	if k, ok := c.topK[model]; ok {
		return k
	}
	return c.defaultTopK
}

// appendCandidateText writes the text parts of the first candidate; chunks may carry none.
func appendCandidateText(b *strings.Builder, resp *genai.GenerateContentResponse) {
	if resp == nil || len(resp.Candidates) == 0 {
		return
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return
	}
	for _, part := range content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
}

// Close releases the underlying Vertex AI connection.
func (c *GeminiClient) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
