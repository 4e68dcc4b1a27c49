package openai

import (
	"context"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/privacy-prism/internal/domain/ai"
)

// Defaults carried over from the original chat settings.
const (
	DefaultTemperature = 0.35
	DefaultMaxTokens   = 700
)

type Options struct {
	APIKey      string
	BaseURL     string
	HTTPClient  *http.Client
	Temperature float32
	MaxTokens   int
}

// Client adapts go-openai to ai.Client. It holds no per-request state.
type Client struct {
	api         *openai.Client
	apiKey      string
	temperature float32
	maxTokens   int
}

func NewClient(opts Options) *Client {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}
	temp := opts.Temperature
	if temp == 0 {
		temp = DefaultTemperature
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Client{
		api:         openai.NewClientWithConfig(cfg),
		apiKey:      opts.APIKey,
		temperature: temp,
		maxTokens:   maxTokens,
	}
}

func (c *Client) Ready() error {
	if c.apiKey == "" {
		return &ai.ConfigurationError{Setting: "OPENAI_API_KEY"}
	}
	return nil
}

func (c *Client) Complete(ctx context.Context, model string, messages []ai.Message) (ai.Completion, error) {
	if err := c.Ready(); err != nil {
		return ai.Completion{}, &ai.CompletionError{Model: model, Msg: err.Error(), Err: err}
	}
	if model == "" {
		return ai.Completion{}, &ai.CompletionError{Msg: "missing model for completion request"}
	}

	req := openai.ChatCompletionRequest{
		Model:    model,
		Messages: toChatMessages(messages),
	}
	// reasoning models reject max_tokens and custom temperature
	if isReasoningModel(model) {
		req.MaxCompletionTokens = c.maxTokens
	} else {
		req.MaxTokens = c.maxTokens
		req.Temperature = c.temperature
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return ai.Completion{}, &ai.CompletionError{Model: model, Msg: err.Error(), Err: err}
	}
	if len(resp.Choices) == 0 {
		return ai.Completion{}, &ai.CompletionError{Model: model, Msg: "completion response had no choices"}
	}

	return ai.Completion{
		Text: strings.TrimSpace(resp.Choices[0].Message.Content),
		Usage: ai.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

func toChatMessages(messages []ai.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		if m.Role == ai.RoleSystem {
			role = openai.ChatMessageRoleSystem
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}

func isReasoningModel(model string) bool {
	for _, prefix := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}
