package llm

import (
	"context"
	"errors"
	"sync"

	"google.golang.org/genai"

	"github.com/JMRMEDEV/amazon-q-gpt-mcp-server/internal/agent"
)

// GeminiClient calls the Gemini generateContent API.
//
// The SDK client is created on first use: genai refuses to build a client
// without a key, and a missing key must not stop the server from starting.
type GeminiClient struct {
	apiKey  string
	baseURL string

	mu     sync.Mutex
	client *genai.Client
}

// NewGemini creates a Gemini-backed Completer.
func NewGemini(apiKey, baseURL string) *GeminiClient {
	return &GeminiClient{apiKey: apiKey, baseURL: baseURL}
}

func (c *GeminiClient) sdk(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client, nil
	}
	cfg := &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if c.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		// No key or unusable configuration: report it as an auth failure.
		return nil, &Error{Provider: ProviderGemini, Status: 401, Message: err.Error(), Err: err}
	}
	c.client = client
	return client, nil
}

// Complete implements agent.Completer.
func (c *GeminiClient) Complete(ctx context.Context, req agent.CompletionRequest) (string, error) {
	client, err := c.sdk(ctx)
	if err != nil {
		return "", err
	}

	system, contents := toGeminiContents(req.Messages)
	temperature := float32(req.Temperature)
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(req.MaxTokens), //nolint:gosec // fixed small value
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	result, err := client.Models.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		return "", geminiError(err)
	}
	if result == nil {
		return "", &Error{Provider: ProviderGemini, Message: "empty response from generateContent API"}
	}
	return result.Text(), nil
}

// toGeminiContents maps turns to Gemini contents. Gemini names the
// assistant role "model".
func toGeminiContents(turns []agent.Turn) (string, []*genai.Content) {
	system, rest := splitSystem(turns)
	contents := make([]*genai.Content, 0, len(rest))
	for _, t := range rest {
		role := "user"
		if t.Role == agent.RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: t.Content}},
		})
	}
	return system, contents
}

// geminiError normalises SDK failures. genai returns APIError by value.
func geminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &Error{
			Provider: ProviderGemini,
			Status:   apiErr.Code,
			Message:  apiErr.Message,
			Err:      err,
		}
	}
	return wrapTransport(ProviderGemini, err)
}
