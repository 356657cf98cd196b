package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/alcoholemia/alcoholemia/internal/api/models"
)

// Recovery returns a middleware that turns a handler panic into an
// internal-error problem. The panic is logged with the matched route and
// recorded on the request span. http.ErrAbortHandler is re-raised.
func Recovery(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				ctx := r.Context()
				requestID := GetRequestID(ctx)
				route := routePattern(r)

				span := trace.SpanFromContext(ctx)
				span.RecordError(fmt.Errorf("panic: %v", rec), trace.WithStackTrace(true))
				span.SetStatus(codes.Error, "panic")
				Annotate(ctx, LogOutcome, "panic")

				log.Error().
					Str("request_id", requestID).
					Str("method", r.Method).
					Str("route", route).
					Interface("error", rec).
					Str("stack", string(debug.Stack())).
					Msg("panic recovered")

				models.NewInternalError(requestID, "an unexpected error occurred while handling "+r.Method+" "+route).
					WithInstance(r.URL.Path).
					Write(w)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
