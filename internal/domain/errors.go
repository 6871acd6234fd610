package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrServerOffline indicates the API is unreachable
	ErrServerOffline = errors.New("curiositystream api is unreachable")

	// ErrMalformedResponse indicates a response lacked a required field
	ErrMalformedResponse = errors.New("malformed api response")

	// ErrInputRequired indicates a route needed user input that was not given
	ErrInputRequired = errors.New("input required")
)

// APIError is an error reported by the API in the response body.
// Message is empty when the error payload did not carry the expected shape.
type APIError struct {
	Message string
	Status  int
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return "api error"
	}
	return "api error: " + e.Message
}

// CategoryNotFoundError is returned when a category id is not in the tree
type CategoryNotFoundError struct {
	ID string
}

func (e *CategoryNotFoundError) Error() string {
	return fmt.Sprintf("category not found: %s", e.ID)
}
