package curiosity

import (
	"encoding/json"
	"fmt"

	"github.com/fkgudeta/curio/internal/domain"
)

// dataEnvelope is the {"data": ...} wrapper used by every read endpoint
type dataEnvelope[T any] struct {
	Data *T `json:"data"`
}

// pageEnvelope is a list endpoint response
type pageEnvelope[T any] struct {
	Data      *[]T             `json:"data"`
	Paginator domain.Paginator `json:"paginator"`
}

// sectionEnvelope carries the paginator beside the section data
type sectionEnvelope struct {
	Data      *domain.Section  `json:"data"`
	Paginator domain.Paginator `json:"paginator"`
}

// loginRequest is the POST /v1/login/ body
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Platform string `json:"platform"`
}

// loginResponse is the successful POST /v1/login/ body
type loginResponse struct {
	Message struct {
		AuthToken string `json:"auth_token"`
	} `json:"message"`
}

func decodeData[T any](body []byte) (T, error) {
	var zero T
	var env dataEnvelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return zero, fmt.Errorf("failed to parse response: %w", err)
	}
	if env.Data == nil {
		return zero, fmt.Errorf("%w: missing data", domain.ErrMalformedResponse)
	}
	return *env.Data, nil
}

func decodePage[T any](body []byte) (domain.Page[T], error) {
	var env pageEnvelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return domain.Page[T]{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if env.Data == nil {
		return domain.Page[T]{}, fmt.Errorf("%w: missing data", domain.ErrMalformedResponse)
	}
	return domain.Page[T]{Data: *env.Data, Paginator: env.Paginator}, nil
}

// apiError inspects a body for a top-level "error" key. The message is
// read from error.message.base[0]; any other shape yields an empty
// message rather than a decoding failure.
func apiError(body []byte, status int) *domain.APIError {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil
	}
	raw, ok := top["error"]
	if !ok {
		return nil
	}

	var payload any
	_ = json.Unmarshal(raw, &payload)
	return &domain.APIError{Message: errorMessage(payload), Status: status}
}

func errorMessage(payload any) string {
	obj, ok := payload.(map[string]any)
	if !ok {
		return ""
	}
	msg, ok := obj["message"].(map[string]any)
	if !ok {
		return ""
	}
	base, ok := msg["base"].([]any)
	if !ok || len(base) == 0 {
		return ""
	}
	s, _ := base[0].(string)
	return s
}
