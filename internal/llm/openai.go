package llm

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/JMRMEDEV/amazon-q-gpt-mcp-server/internal/agent"
)

// OpenAIClient calls the OpenAI Chat Completions API.
type OpenAIClient struct {
	client openai.Client
}

// NewOpenAI creates an OpenAI-backed Completer. baseURL may point at any
// OpenAI-compatible endpoint; empty uses the SDK default.
func NewOpenAI(apiKey, baseURL string) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIClient{client: openai.NewClient(opts...)}
}

// Complete implements agent.Completer.
func (c *OpenAIClient) Complete(ctx context.Context, req agent.CompletionRequest) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(req.Model),
		Messages:    toOpenAIMessages(req.Messages),
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
		Temperature: openai.Float(req.Temperature),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", openAIError(err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", &Error{Provider: ProviderOpenAI, Message: "empty response from chat completions API"}
	}
	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(turns []agent.Turn) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case agent.RoleSystem:
			out = append(out, openai.SystemMessage(t.Content))
		case agent.RoleAssistant:
			out = append(out, openai.AssistantMessage(t.Content))
		default:
			out = append(out, openai.UserMessage(t.Content))
		}
	}
	return out
}

func openAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &Error{
			Provider: ProviderOpenAI,
			Status:   apiErr.StatusCode,
			Message:  apiErr.Message,
			Err:      err,
		}
	}
	return wrapTransport(ProviderOpenAI, err)
}
