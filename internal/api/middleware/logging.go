package middleware

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// Access log annotation keys set by handlers.
const (
	LogOutcome   = "outcome"
	LogEdition   = "edition"
	LogOverLimit = "over_limit"
	LogOperator  = "operator"
)

type accessLogKey struct{}

// accessLog collects handler annotations shared by the access log, metrics
// and the server span.
type accessLog struct {
	mu     sync.Mutex
	fields map[string]string
}

// Annotate attaches key=value to the access log line of the current request.
// It is a no-op when no request middleware installed an annotation set.
func Annotate(ctx context.Context, key, value string) {
	entry, ok := ctx.Value(accessLogKey{}).(*accessLog)
	if !ok {
		return
	}
	entry.mu.Lock()
	entry.fields[key] = value
	entry.mu.Unlock()
}

// withAccessLog returns r carrying an annotation set, reusing the one an
// outer middleware already installed.
func withAccessLog(r *http.Request) (*http.Request, *accessLog) {
	if entry, ok := r.Context().Value(accessLogKey{}).(*accessLog); ok {
		return r, entry
	}
	entry := &accessLog{fields: make(map[string]string)}
	return r.WithContext(context.WithValue(r.Context(), accessLogKey{}, entry)), entry
}

// snapshot copies the annotations collected so far.
func (l *accessLog) snapshot() map[string]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]string, len(l.fields))
	for k, v := range l.fields {
		out[k] = v
	}
	return out
}

func (l *accessLog) value(key string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fields[key]
}

// Logger returns a middleware that writes one access log line per request.
// Server errors log at error level and client errors at warn level.
func Logger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			r, entry := withAccessLog(r)
			wrapped := newStatusRecorder(w)
			next.ServeHTTP(wrapped, r)

			event := log.Info()
			switch {
			case wrapped.statusCode >= http.StatusInternalServerError:
				event = log.Error()
			case wrapped.statusCode >= http.StatusBadRequest:
				event = log.Warn()
			}

			if spanCtx := trace.SpanContextFromContext(r.Context()); spanCtx.IsValid() {
				event = event.
					Str("trace_id", spanCtx.TraceID().String()).
					Str("span_id", spanCtx.SpanID().String())
			}

			fields := entry.snapshot()
			keys := make([]string, 0, len(fields))
			for k := range fields {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				event = event.Str(k, fields[k])
			}

			event.
				Str("request_id", GetRequestID(r.Context())).
				Str("method", r.Method).
				Str("route", routePattern(r)).
				Str("path", r.URL.Path).
				Int("status", wrapped.statusCode).
				Int64("bytes", wrapped.written).
				Dur("duration", time.Since(start)).
				Str("remote_addr", r.RemoteAddr).
				Msg("request completed")
		})
	}
}
