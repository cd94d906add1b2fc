package providers

import (
	"context"
	"log/slog"
	"time"

	coreerrors "github.com/adalundhe/floyd/core/errors"
)

// RunStatus is the status of a run on a remote assistant thread.
type RunStatus string

const (
	RunQueued         RunStatus = "queued"
	RunInProgress     RunStatus = "in_progress"
	RunCancelling     RunStatus = "cancelling"
	RunCompleted      RunStatus = "completed"
	RunFailed         RunStatus = "failed"
	RunCancelled      RunStatus = "cancelled"
	RunExpired        RunStatus = "expired"
	RunRequiresAction RunStatus = "requires_action"
	RunIncomplete     RunStatus = "incomplete"
)

// Terminal reports whether the run will not change status again without
// caller action.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunCompleted, RunFailed, RunCancelled, RunExpired, RunRequiresAction, RunIncomplete:
		return true
	}
	return false
}

// NoResponse is returned when a completed run left no assistant message.
const NoResponse = "No response generated"

// Run is a snapshot of a remote run.
type Run struct {
	ID        string
	Status    RunStatus
	LastError string
}

// AssistantsAPI is the subset of the remote assistants endpoints used by
// AssistantsProvider.
type AssistantsAPI interface {
	CreateThread(ctx context.Context) (string, error)
	AddMessage(ctx context.Context, thread, content string) error
	CreateRun(ctx context.Context, thread, assistantID, instructions string) (*Run, error)
	GetRun(ctx context.Context, thread, runID string) (*Run, error)
	LatestAssistantMessage(ctx context.Context, thread string) (string, bool, error)
	CancelRun(ctx context.Context, thread, runID string) error
}

// cancelTimeout bounds the cancellation of an abandoned run.
const cancelTimeout = 10 * time.Second

// AssistantsProvider serves personas bound to remote assistants. Each call
// appends the prompt to a thread, starts a run and waits for it to finish.
type AssistantsProvider struct {
	api      AssistantsAPI
	config   AssistantsConfig
	errs     sdkErrors
	executor *coreerrors.RetryExecutor
	logger   *slog.Logger
}

// NewAssistantsProvider creates a provider backed by the OpenAI SDK.
func NewAssistantsProvider(config AssistantsConfig, opts ...ProviderOption) (*AssistantsProvider, error) {
	config = withAssistantsDefaults(config)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return NewAssistantsProviderWithAPI(config, newSDKAssistants(config.OpenAIConfig), opts...), nil
}

// NewAssistantsProviderWithAPI creates a provider on top of api.
func NewAssistantsProviderWithAPI(config AssistantsConfig, api AssistantsAPI, opts ...ProviderOption) *AssistantsProvider {
	return &AssistantsProvider{
		api:    api,
		config: withAssistantsDefaults(config),
		errs:   newSDKErrors(opts),
		logger: slog.Default().With("provider", string(ProviderTypeAssistants)),
	}
}

// UseRetryExecutor makes Complete retry its run step with e. Appending the
// prompt is never retried, so a retry cannot duplicate it on the thread.
// It must be called before the provider serves requests.
func (p *AssistantsProvider) UseRetryExecutor(e *coreerrors.RetryExecutor) {
	p.executor = e
}

func withAssistantsDefaults(config AssistantsConfig) AssistantsConfig {
	defaults := DefaultAssistantsConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.MaxPolls <= 0 {
		config.MaxPolls = defaults.MaxPolls
	}
	return config
}

// Name returns the provider identifier
func (p *AssistantsProvider) Name() string {
	return string(ProviderTypeAssistants)
}

// Complete sends the last user message of req to the persona's assistant.
// A persona bound to its own assistant runs with that assistant's stored
// instructions; the fallback assistant runs with the persona's instruction.
// The message is appended once; only the run is retried.
func (p *AssistantsProvider) Complete(ctx context.Context, req *Request) (*Response, error) {
	assistantID := req.AssistantID
	instructions := ""
	if assistantID == "" {
		assistantID = p.config.DefaultAssistantID
		instructions = req.SystemPrompt
	}
	if assistantID == "" {
		return nil, coreerrors.ErrAssistantNotBound
	}

	thread := req.Thread
	if thread == "" {
		var err error
		if thread, err = p.CreateConversation(ctx); err != nil {
			return nil, err
		}
	}

	if err := p.AppendMessage(ctx, thread, req.LastUserMessage()); err != nil {
		return nil, err
	}

	var content string
	run := func(ctx context.Context) error {
		var err error
		content, _, err = p.RunAndAwait(ctx, thread, assistantID, instructions)
		return err
	}
	var err error
	if p.executor != nil {
		err = p.executor.Execute(ctx, run)
	} else {
		err = run(ctx)
	}
	if err != nil {
		return nil, err
	}

	return &Response{
		Content:    content,
		StopReason: StopReasonEndTurn,
		Thread:     thread,
		ProviderMetadata: map[string]any{
			"assistant_id": assistantID,
		},
	}, nil
}

// CreateConversation opens a new remote thread.
func (p *AssistantsProvider) CreateConversation(ctx context.Context) (string, error) {
	thread, err := p.api.CreateThread(ctx)
	if err != nil {
		return "", p.errs.classify("create thread", err)
	}
	return thread, nil
}

// AppendMessage adds a user message to thread.
func (p *AssistantsProvider) AppendMessage(ctx context.Context, thread, text string) error {
	if err := p.api.AddMessage(ctx, thread, text); err != nil {
		return p.errs.classify("add message", err)
	}
	return nil
}

// RunAndAwait starts a run of assistantID on thread and polls until the run
// reaches a terminal status. A completed run yields the latest assistant
// message, or NoResponse when there is none. Any other terminal status is
// an upstream error carrying the status. A run still active when polling
// gives up is cancelled.
func (p *AssistantsProvider) RunAndAwait(ctx context.Context, thread, assistantID, instructions string) (string, RunStatus, error) {
	run, err := p.api.CreateRun(ctx, thread, assistantID, instructions)
	if err != nil {
		return "", "", p.errs.classify("create run", err)
	}

	poll := coreerrors.PollConfig{Interval: p.config.PollInterval, MaxAttempts: p.config.MaxPolls}
	err = coreerrors.Poll(ctx, poll, func(ctx context.Context) (bool, error) {
		if run.Status.Terminal() {
			return true, nil
		}
		next, err := p.api.GetRun(ctx, thread, run.ID)
		if err != nil {
			return false, p.errs.classify("get run", err)
		}
		run = next
		return run.Status.Terminal(), nil
	})
	if err != nil {
		if !run.Status.Terminal() {
			p.cancel(ctx, thread, run.ID)
		}
		return "", run.Status, err
	}

	if run.Status != RunCompleted {
		p.logger.Warn("run ended without completing",
			"thread", thread, "run", run.ID, "status", run.Status, "last_error", run.LastError)
		runErr := coreerrors.ErrRunNotCompleted.WithContext("status", string(run.Status))
		if run.LastError != "" {
			runErr = runErr.WithContext("last_error", run.LastError)
		}
		return "", run.Status, runErr
	}

	content, ok, err := p.api.LatestAssistantMessage(ctx, thread)
	if err != nil {
		return "", run.Status, p.errs.classify("list messages", err)
	}
	if !ok {
		return NoResponse, run.Status, nil
	}
	return content, run.Status, nil
}

// cancel stops an abandoned run so it does not later post a reply to the
// thread. It runs even when ctx is already done.
func (p *AssistantsProvider) cancel(ctx context.Context, thread, runID string) {
	ctx, done := context.WithTimeout(context.WithoutCancel(ctx), cancelTimeout)
	defer done()

	if err := p.api.CancelRun(ctx, thread, runID); err != nil {
		p.logger.Warn("cancel run failed", "thread", thread, "run", runID, "error", err)
		return
	}
	p.logger.Debug("cancelled run", "thread", thread, "run", runID)
}

// ValidateConfig checks if the provider configuration is valid
func (p *AssistantsProvider) ValidateConfig() error {
	return p.config.Validate()
}

// Close cleans up any resources
func (p *AssistantsProvider) Close() error {
	return nil
}
