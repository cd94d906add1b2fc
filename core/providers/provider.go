package providers

import (
	"context"
)

// Provider performs a single completion call under a persona's system
// instruction and sampling parameters.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req *Request) (*Response, error)
	ValidateConfig() error
	Close() error
}

type ProviderModelSupporter interface {
	SupportsModel(model string) bool
}

// Request is one completion call. Thread and AssistantID are only honored by
// providers that keep conversation state remotely.
type Request struct {
	Messages     []Message      `json:"messages"`
	Model        string         `json:"model,omitempty"`
	MaxTokens    int            `json:"max_tokens,omitempty"`
	Temperature  *float64       `json:"temperature,omitempty"`
	SystemPrompt string         `json:"system_prompt,omitempty"`
	AssistantID  string         `json:"assistant_id,omitempty"`
	Thread       string         `json:"thread,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// NewTextRequest builds a request with a single user message.
func NewTextRequest(systemPrompt, prompt string) *Request {
	return &Request{
		SystemPrompt: systemPrompt,
		Messages:     []Message{{Role: RoleUser, Content: prompt}},
	}
}

// LastUserMessage returns the content of the last user message.
func (r *Request) LastUserMessage() string {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == RoleUser {
			return r.Messages[i].Content
		}
	}
	return ""
}

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

type Response struct {
	Content          string         `json:"content"`
	Model            string         `json:"model"`
	StopReason       StopReason     `json:"stop_reason"`
	Usage            Usage          `json:"usage"`
	Thread           string         `json:"thread,omitempty"`
	ProviderMetadata map[string]any `json:"provider_metadata,omitempty"`
}

type StopReason string

const (
	StopReasonEndTurn      StopReason = "end_turn"
	StopReasonMaxTokens    StopReason = "max_tokens"
	StopReasonStopSequence StopReason = "stop_sequence"
	StopReasonError        StopReason = "error"
)

type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}
