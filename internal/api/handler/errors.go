package handler

import (
	"net/http"

	"github.com/mcoot/circle-go/internal/api/apierr"
)

// WriteError writes err as a {"detail": ...} body with its mapped status
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates a 422 request validation error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}
