package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/circle-go/internal/api/apierr"
	"github.com/mcoot/circle-go/internal/middleware"
)

// Recovery answers a panicking API handler with the JSON 500 body
func Recovery(logger *slog.Logger, metrics *middleware.Metrics) func(http.Handler) http.Handler {
	return middleware.Recovery(middleware.RecoveryConfig{
		Logger:  logger,
		Handler: writeInternalError,
		Metrics: metrics,
	})
}

func writeInternalError(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}
