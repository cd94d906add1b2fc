package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/adalundhe/floyd/core/llm"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
	"google.golang.org/genai"

	coreerrors "github.com/adalundhe/floyd/core/errors"
)

// defaultClassifier is never modified after init.
var defaultClassifier = mustClassifier()

func mustClassifier() *coreerrors.ErrorClassifier {
	c, err := coreerrors.NewErrorClassifierFromConfig(nil)
	if err != nil {
		panic(err)
	}
	return c
}

// sdkErrors tiers SDK errors with the classifier its provider was built
// with.
type sdkErrors struct {
	classifier *coreerrors.ErrorClassifier
}

// ProviderOption configures an SDK-backed provider.
type ProviderOption func(*sdkErrors)

// WithErrorClassifier tiers the provider's errors with c instead of the
// default classifier.
func WithErrorClassifier(c *coreerrors.ErrorClassifier) ProviderOption {
	return func(e *sdkErrors) {
		if c != nil {
			e.classifier = c
		}
	}
}

func newSDKErrors(opts []ProviderOption) sdkErrors {
	e := sdkErrors{classifier: defaultClassifier}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// classify tiers an SDK error using its HTTP status and Retry-After header
// when the SDK exposes them.
func (e sdkErrors) classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return coreerrors.Upstream(op, err)
	}

	status, headers := apiErrorDetails(err)
	return e.classifier.Wrap(op, status, llm.ParseRetryAfter(headers), err)
}

func apiErrorDetails(err error) (int, http.Header) {
	var oaErr *openai.Error
	if errors.As(err, &oaErr) {
		return oaErr.StatusCode, responseHeaders(oaErr.Response)
	}

	var anErr *anthropic.Error
	if errors.As(err, &anErr) {
		return anErr.StatusCode, responseHeaders(anErr.Response)
	}

	var gErr genai.APIError
	if errors.As(err, &gErr) {
		return gErr.Code, nil
	}

	return 0, nil
}

func responseHeaders(resp *http.Response) http.Header {
	if resp == nil {
		return nil
	}
	return resp.Header
}
