package providers

import (
	"context"
	"strings"

	"google.golang.org/genai"

	coreerrors "github.com/adalundhe/floyd/core/errors"
)

// GoogleProvider implements Provider on the Gemini API
type GoogleProvider struct {
	client *genai.Client
	config GoogleConfig
	errs   sdkErrors
}

type GoogleModel string

const (
	GeminiFlash GoogleModel = "gemini-2.5-flash"
	GeminiPro   GoogleModel = "gemini-2.5-pro"
)

// NewGoogleProvider creates a new Google provider with the given configuration
func NewGoogleProvider(ctx context.Context, config GoogleConfig, opts ...ProviderOption) (*GoogleProvider, error) {
	if config.Model == "" {
		config.Model = DefaultGoogleConfig().Model
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = DefaultGoogleConfig().MaxTokens
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.UseVertexAI {
		clientConfig.Backend = genai.BackendVertexAI
		clientConfig.Project = config.ProjectID
		clientConfig.Location = config.Location
	}
	if config.BaseURL != "" {
		clientConfig.HTTPOptions.BaseURL = config.BaseURL
	}

	errs := newSDKErrors(opts)
	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, errs.classify("google client", err)
	}

	return &GoogleProvider{
		client: client,
		config: config,
		errs:   errs,
	}, nil
}

// Name returns the provider identifier
func (p *GoogleProvider) Name() string {
	return string(ProviderTypeGoogle)
}

// Complete performs a single GenerateContent call
func (p *GoogleProvider) Complete(ctx context.Context, req *Request) (*Response, error) {
	model, contents, config := p.buildParams(req)

	res, err := p.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, p.errs.classify("google generate", err)
	}

	response := p.convertResponse(model, res)
	if response.StopReason == StopReasonError {
		return nil, coreerrors.ErrMalformedResponse.WithContext("provider", p.Name())
	}
	return response, nil
}

// ValidateConfig checks if the provider configuration is valid
func (p *GoogleProvider) ValidateConfig() error {
	return p.config.Validate()
}

// SupportsModel checks if the provider supports the given model
func (p *GoogleProvider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "gemini-")
}

// DefaultModel returns the provider's default model
func (p *GoogleProvider) DefaultModel() string {
	return p.config.Model
}

// Close cleans up any resources
func (p *GoogleProvider) Close() error {
	return nil
}

func (p *GoogleProvider) buildParams(req *Request) (string, []*genai.Content, *genai.GenerateContentConfig) {
	model := p.config.Model
	if p.SupportsModel(req.Model) {
		model = req.Model
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
	}

	if req.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}

	if req.Temperature != nil {
		config.Temperature = genai.Ptr(float32(*req.Temperature))
	} else if p.config.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(p.config.Temperature))
	}

	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleUser:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		}
	}

	return model, contents, config
}

func (p *GoogleProvider) convertResponse(model string, res *genai.GenerateContentResponse) *Response {
	response := &Response{
		Model:      model,
		StopReason: StopReasonEndTurn,
	}

	// Blocked prompts come back without candidates.
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		response.StopReason = StopReasonError
		return response
	}

	candidate := res.Candidates[0]
	var content strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			content.WriteString(part.Text)
		}
	}
	response.Content = content.String()

	if candidate.FinishReason == genai.FinishReasonMaxTokens {
		response.StopReason = StopReasonMaxTokens
	}

	if res.UsageMetadata != nil {
		response.Usage = Usage{
			InputTokens:  int(res.UsageMetadata.PromptTokenCount),
			OutputTokens: int(res.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int(res.UsageMetadata.TotalTokenCount),
		}
	}

	return response
}
