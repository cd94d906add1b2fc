package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

// LambdaHandler answers API Gateway proxy events and direct invocations.
type LambdaHandler struct {
	backend *Backend
}

func NewLambdaHandler(backend *Backend) *LambdaHandler {
	return &LambdaHandler{backend: backend}
}

// Handle never returns an error; failures are reported in the response.
func (h *LambdaHandler) Handle(ctx context.Context, event json.RawMessage) (events.APIGatewayProxyResponse, error) {
	payload, err := DecodePayload(event)
	if err != nil {
		status, body := h.backend.failure(err)
		return proxyResponse(status, body), nil
	}

	status, body := h.backend.Serve(ctx, payload)
	return proxyResponse(status, body), nil
}

func proxyResponse(status int, body any) events.APIGatewayProxyResponse {
	data, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		data, _ = json.Marshal(ErrorBody{Error: http.StatusText(status)})
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(data),
	}
}
