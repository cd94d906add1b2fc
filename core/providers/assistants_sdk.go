package providers

import (
	"context"

	"github.com/openai/openai-go"
)

// sdkAssistants implements AssistantsAPI with the OpenAI beta threads API.
type sdkAssistants struct {
	client *openai.Client
}

func newSDKAssistants(config OpenAIConfig) *sdkAssistants {
	client := openai.NewClient(openAIRequestOptions(config)...)
	return &sdkAssistants{client: &client}
}

func (s *sdkAssistants) CreateThread(ctx context.Context) (string, error) {
	thread, err := s.client.Beta.Threads.New(ctx, openai.BetaThreadNewParams{})
	if err != nil {
		return "", err
	}
	return thread.ID, nil
}

func (s *sdkAssistants) AddMessage(ctx context.Context, thread, content string) error {
	_, err := s.client.Beta.Threads.Messages.New(ctx, thread, openai.BetaThreadMessageNewParams{
		Role: openai.BetaThreadMessageNewParamsRoleUser,
		Content: openai.BetaThreadMessageNewParamsContentUnion{
			OfString: openai.String(content),
		},
	})
	return err
}

func (s *sdkAssistants) CreateRun(ctx context.Context, thread, assistantID, instructions string) (*Run, error) {
	params := openai.BetaThreadRunNewParams{
		AssistantID: assistantID,
	}
	if instructions != "" {
		params.Instructions = openai.String(instructions)
	}

	run, err := s.client.Beta.Threads.Runs.New(ctx, thread, params)
	if err != nil {
		return nil, err
	}
	return convertRun(run), nil
}

func (s *sdkAssistants) GetRun(ctx context.Context, thread, runID string) (*Run, error) {
	run, err := s.client.Beta.Threads.Runs.Get(ctx, thread, runID)
	if err != nil {
		return nil, err
	}
	return convertRun(run), nil
}

func (s *sdkAssistants) CancelRun(ctx context.Context, thread, runID string) error {
	_, err := s.client.Beta.Threads.Runs.Cancel(ctx, thread, runID)
	return err
}

// LatestAssistantMessage returns the text of the newest assistant message.
// The list endpoint returns newest first.
func (s *sdkAssistants) LatestAssistantMessage(ctx context.Context, thread string) (string, bool, error) {
	page, err := s.client.Beta.Threads.Messages.List(ctx, thread, openai.BetaThreadMessageListParams{})
	if err != nil {
		return "", false, err
	}

	for _, msg := range page.Data {
		if string(msg.Role) != string(RoleAssistant) {
			continue
		}
		for _, content := range msg.Content {
			if content.Type == "text" {
				return content.Text.Value, true, nil
			}
		}
	}
	return "", false, nil
}

func convertRun(run *openai.Run) *Run {
	return &Run{
		ID:        run.ID,
		Status:    RunStatus(run.Status),
		LastError: run.LastError.Message,
	}
}
