package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/circle-go/internal/middleware"
)

// Logging creates access-log middleware for the API
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger)
}
