package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mcoot/circle-go/internal/model"
)

// APIError is a non-2xx response from the service
type APIError struct {
	StatusCode int
	// Detail is the human-readable message from the error body, if any
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// Is lets callers match status-derived sentinels with errors.Is
func (e *APIError) Is(target error) bool {
	return target == model.ErrUnauthenticated && e.StatusCode == http.StatusUnauthorized
}

// errorBody is the error envelope the service returns
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return apiErr
	}
	// detail is usually a string; validation errors may send a structure,
	// which is not something to show verbatim.
	var detail string
	if err := json.Unmarshal(eb.Detail, &detail); err == nil {
		apiErr.Detail = detail
	}
	return apiErr
}

// Detail returns the server's detail message carried by err, or fallback
func Detail(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
