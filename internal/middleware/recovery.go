package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// PanicHandler writes the response for a recovered panic
type PanicHandler func(w http.ResponseWriter, r *http.Request, recovered any)

// RecoveryConfig configures the recovery middleware
type RecoveryConfig struct {
	Logger *slog.Logger
	// Handler writes the error response; DefaultPanicHandler if nil
	Handler PanicHandler
	// Metrics counts recovered panics when set
	Metrics *Metrics
}

// Recovery turns a panicking handler into an error response instead of a
// dropped connection
func Recovery(cfg RecoveryConfig) func(http.Handler) http.Handler {
	handler := cfg.Handler
	if handler == nil {
		handler = DefaultPanicHandler
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				logger.Error("panic recovered",
					slog.Any("error", recovered),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("route", RouteTemplate(r)),
				)
				cfg.Metrics.Panic()

				handler(w, r, recovered)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// DefaultPanicHandler returns a plain 500
func DefaultPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
