package anthropic

import (
	"context"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/bryanwahyu/privacy-prism/internal/domain/ai"
)

const (
	DefaultTemperature = 0.35
	DefaultMaxTokens   = 700
)

type Options struct {
	APIKey      string
	BaseURL     string
	HTTPClient  *http.Client
	Temperature float64
	MaxTokens   int
}

// Client adapts the Anthropic Messages API to ai.Client.
type Client struct {
	api         anthropic.Client
	apiKey      string
	temperature float64
	maxTokens   int64
}

func NewClient(opts Options) *Client {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		// retry policy belongs to the caller
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(opts.HTTPClient))
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
		api:         anthropic.NewClient(reqOpts...),
		apiKey:      opts.APIKey,
		temperature: temp,
		maxTokens:   int64(maxTokens),
	}
}

func (c *Client) Ready() error {
	if c.apiKey == "" {
		return &ai.ConfigurationError{Setting: "ANTHROPIC_API_KEY"}
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

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(c.temperature),
	}
	for _, m := range messages {
		if m.Role == ai.RoleSystem {
			params.System = append(params.System, anthropic.TextBlockParam{Text: m.Content})
			continue
		}
		params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
	}

	resp, err := c.api.Messages.New(ctx, params)
	if err != nil {
		return ai.Completion{}, &ai.CompletionError{Model: model, Msg: err.Error(), Err: err}
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(variant.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return ai.Completion{}, &ai.CompletionError{Model: model, Msg: "completion response had no text content"}
	}

	in, out := int(resp.Usage.InputTokens), int(resp.Usage.OutputTokens)
	return ai.Completion{
		Text:  text,
		Usage: ai.Usage{PromptTokens: in, CompletionTokens: out, TotalTokens: in + out},
	}, nil
}
