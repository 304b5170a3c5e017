package middleware

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/billed/internal"
	"github.com/google/uuid"
)

const TraceHeader = "X-Trace-ID"

// TraceTransport stamps every outgoing request with a trace id, reusing the one in the request context if any.
type TraceTransport struct {
	Base http.RoundTripper
}

func NewTraceTransport(base http.RoundTripper) *TraceTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &TraceTransport{Base: base}
}

func (t *TraceTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	traceID := internal.TraceIDFromContext(r.Context())
	if traceID == "" {
		traceID = uuid.NewString()
	}

	r = r.Clone(r.Context())
	r.Header.Set(TraceHeader, traceID)

	return t.Base.RoundTrip(r)
}

// NewClientTransport stamps trace ids first so the logging transport sees them.
func NewClientTransport(base http.RoundTripper, logger *slog.Logger) http.RoundTripper {
	return NewTraceTransport(NewLoggingTransport(base, logger))
}
