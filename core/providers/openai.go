package providers

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
)

// OpenAIProvider implements Provider on OpenAI's Responses API
type OpenAIProvider struct {
	client *openai.Client
	config OpenAIConfig
	errs   sdkErrors
}

type OpenAIModel string

const (
	GPT4   OpenAIModel = "gpt-4"
	GPT4o  OpenAIModel = "gpt-4o"
	GPT41  OpenAIModel = "gpt-4.1"
	GPT4oM OpenAIModel = "gpt-4o-mini"
)

// Supported OpenAI models
var openaiModels = map[string]bool{
	string(GPT4):   true,
	string(GPT4o):  true,
	string(GPT41):  true,
	string(GPT4oM): true,
}

// NewOpenAIProvider creates a new OpenAI provider with the given configuration
func NewOpenAIProvider(config OpenAIConfig, opts ...ProviderOption) (*OpenAIProvider, error) {
	if config.Model == "" {
		config.Model = DefaultOpenAIConfig().Model
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = DefaultOpenAIConfig().MaxTokens
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	client := openai.NewClient(openAIRequestOptions(config)...)

	return &OpenAIProvider{
		client: &client,
		config: config,
		errs:   newSDKErrors(opts),
	}, nil
}

// openAIRequestOptions is shared with the assistants provider. SDK retries
// are disabled; Retrying owns retry policy.
func openAIRequestOptions(config OpenAIConfig) []option.RequestOption {
	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(0),
	}

	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(config.Timeout))
	}

	if config.Organization != "" {
		opts = append(opts, option.WithHeader("OpenAI-Organization", config.Organization))
	}

	if config.Project != "" {
		opts = append(opts, option.WithHeader("OpenAI-Project", config.Project))
	}

	return opts
}

// Name returns the provider identifier
func (p *OpenAIProvider) Name() string {
	return string(ProviderTypeOpenAI)
}

// Complete performs a single Responses API call
func (p *OpenAIProvider) Complete(ctx context.Context, req *Request) (*Response, error) {
	params := p.buildResponseParams(req)

	result, err := p.client.Responses.New(ctx, params)
	if err != nil {
		return nil, p.errs.classify("openai responses", err)
	}

	return p.convertResponse(result), nil
}

// ValidateConfig checks if the provider configuration is valid
func (p *OpenAIProvider) ValidateConfig() error {
	return p.config.Validate()
}

// SupportsModel checks if the provider supports the given model
func (p *OpenAIProvider) SupportsModel(model string) bool {
	return openaiModels[model]
}

// DefaultModel returns the provider's default model
func (p *OpenAIProvider) DefaultModel() string {
	return p.config.Model
}

// Close cleans up any resources
func (p *OpenAIProvider) Close() error {
	return nil
}

// buildResponseParams constructs Responses API parameters from a Request
func (p *OpenAIProvider) buildResponseParams(req *Request) responses.ResponseNewParams {
	model := req.Model
	if model == "" {
		model = p.config.Model
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(model),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: p.convertResponseMessages(req.Messages),
		},
		MaxOutputTokens: openai.Int(int64(maxTokens)),
	}

	if req.SystemPrompt != "" {
		params.Instructions = openai.String(req.SystemPrompt)
	}

	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	} else if p.config.Temperature > 0 {
		params.Temperature = openai.Float(p.config.Temperature)
	}

	return params
}

func (p *OpenAIProvider) convertResponseMessages(messages []Message) responses.ResponseInputParam {
	result := make(responses.ResponseInputParam, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			result = append(result, responses.ResponseInputItemParamOfMessage(msg.Content, responses.EasyInputMessageRoleSystem))
		case RoleUser:
			result = append(result, responses.ResponseInputItemParamOfMessage(msg.Content, responses.EasyInputMessageRoleUser))
		case RoleAssistant:
			result = append(result, responses.ResponseInputItemParamOfMessage(msg.Content, responses.EasyInputMessageRoleAssistant))
		}
	}

	return result
}

func (p *OpenAIProvider) convertResponse(result *responses.Response) *Response {
	if result == nil {
		return &Response{StopReason: StopReasonError}
	}

	usage := result.Usage
	return &Response{
		Content:    result.OutputText(),
		Model:      string(result.Model),
		StopReason: p.convertResponseStopReason(*result),
		Usage: Usage{
			InputTokens:  int(usage.InputTokens),
			OutputTokens: int(usage.OutputTokens),
			TotalTokens:  int(usage.TotalTokens),
		},
		ProviderMetadata: map[string]any{
			"id": result.ID,
		},
	}
}

func (p *OpenAIProvider) convertResponseStopReason(result responses.Response) StopReason {
	switch result.IncompleteDetails.Reason {
	case "max_output_tokens":
		return StopReasonMaxTokens
	case "content_filter":
		return StopReasonError
	}
	if result.Error.Message != "" {
		return StopReasonError
	}
	return StopReasonEndTurn
}
