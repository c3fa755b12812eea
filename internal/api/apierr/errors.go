package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/circle-go/internal/model"
	"github.com/mcoot/circle-go/internal/services/auth"
)

// ErrorResponse is the body of every error response. Clients surface Detail
// verbatim.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// httpError combines an HTTP status code with a detail message
type httpError struct {
	status int
	detail string
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.detail
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Detail: he.detail})
}

// Status returns the HTTP status an error would be written with
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, "Invalid username or password"}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, "Invalid or expired token"}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusBadRequest, "Username already exists"}

	// Contest errors
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, "User not found"}
	case errors.Is(err, model.ErrContestNotFound):
		return &httpError{http.StatusNotFound, "Contest not found"}
	case errors.Is(err, model.ErrContestAlreadyActive):
		return &httpError{http.StatusBadRequest, "You already have an active contest. Complete or abandon it first."}
	case errors.Is(err, model.ErrNoActiveContest):
		return &httpError{http.StatusBadRequest, "No active contest found"}
	case errors.Is(err, model.ErrQuestionNotFound):
		return &httpError{http.StatusNotFound, "Question not found in this contest"}
	case errors.Is(err, model.ErrAlreadySolved):
		return &httpError{http.StatusBadRequest, "Question already marked as solved"}
	case errors.Is(err, model.ErrNoEligibleProblems):
		return &httpError{http.StatusBadRequest, "No problems available for your rating"}
	case errors.Is(err, model.ErrCatalogNotLoaded):
		return &httpError{http.StatusServiceUnavailable, "Problem catalog not loaded"}

	default:
		return &httpError{http.StatusInternalServerError, "Internal server error"}
	}
}

// New creates an error with an explicit status and detail
func New(status int, detail string) error {
	return &httpError{status, detail}
}

// NewInvalidRequestError creates a request validation error
func NewInvalidRequestError(detail string) error {
	return &httpError{http.StatusUnprocessableEntity, detail}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, "Not authenticated"}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, "Internal server error"}
}
