// Package gateway exposes the dispatcher over HTTP and AWS Lambda.
package gateway

import (
	"bytes"
	"encoding/base64"
	"encoding/json"

	"github.com/adalundhe/floyd/core/dialogue"
	coreerrors "github.com/adalundhe/floyd/core/errors"
)

// Payload is an inbound request. Assistant and Selector are synonyms.
type Payload struct {
	Assistant string `json:"assistant,omitempty"`
	Selector  string `json:"selector,omitempty"`
	Prompt    string `json:"prompt"`
	ThreadID  string `json:"thread_id,omitempty"`
}

// Request converts the payload to a dispatcher request.
func (p Payload) Request() dialogue.Request {
	selector := p.Selector
	if selector == "" {
		selector = p.Assistant
	}
	return dialogue.Request{Selector: selector, Prompt: p.Prompt, Thread: p.ThreadID}
}

// Envelope is the success body.
type Envelope struct {
	Results Results `json:"results"`
}

type Results struct {
	SingleMessage string    `json:"single_message"`
	Metadata      *Metadata `json:"metadata,omitempty"`
	ThreadID      string    `json:"thread_id,omitempty"`
}

type Metadata struct {
	AssistantType string         `json:"assistant_type"`
	Parameters    map[string]any `json:"parameters,omitempty"`
}

// ErrorBody is the failure body.
type ErrorBody struct {
	Error string `json:"error"`
}

// NewEnvelope wraps a dispatcher result. Metadata is present when the
// request was routed or the reply carried parameters.
func NewEnvelope(r *dialogue.Result) Envelope {
	env := Envelope{Results: Results{SingleMessage: r.Message, ThreadID: r.Thread}}
	if r.Routed || r.Parameters != nil {
		env.Results.Metadata = &Metadata{AssistantType: r.AssistantType, Parameters: r.Parameters}
	}
	return env
}

// DecodePayload reads a request body. Lambda events may wrap the payload as
// a JSON string in "body", base64 encoded when isBase64Encoded is set;
// otherwise the event itself is the payload.
func DecodePayload(data []byte) (Payload, error) {
	var event struct {
		Payload
		Body            *string `json:"body"`
		IsBase64Encoded bool    `json:"isBase64Encoded"`
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Payload{}, nil
	}
	if err := json.Unmarshal(data, &event); err != nil {
		return Payload{}, coreerrors.ErrInvalidRequest
	}
	if event.Body == nil || *event.Body == "" {
		return event.Payload, nil
	}

	body := []byte(*event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(*event.Body)
		if err != nil {
			return Payload{}, coreerrors.ErrInvalidRequest
		}
		body = decoded
	}

	var inner Payload
	if err := json.Unmarshal(body, &inner); err != nil {
		return Payload{}, coreerrors.ErrInvalidRequest
	}
	return inner, nil
}
