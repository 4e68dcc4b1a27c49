package ai

import "context"

// Chat roles understood by every completion adapter.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one entry of an ordered chat exchange.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage reports token accounting returned by the provider.
type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// Completion is the result of a single successful exchange.
type Completion struct {
	Text  string
	Usage Usage
}

// Client executes one prompt/response exchange against a model.
// Implementations never retry; any failure is returned as *CompletionError.
type Client interface {
	Complete(ctx context.Context, model string, messages []Message) (Completion, error)
	// Ready reports a *ConfigurationError when the client cannot possibly succeed,
	// e.g. because no credential was configured.
	Ready() error
}
