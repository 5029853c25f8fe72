package shared

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"go.opentelemetry.io/otel/trace"
)

// ContextKey is the type of request context keys set by the API layer.
type ContextKey string

const (
	// AccountContextKey holds the *domain.Account resolved from the bearer token.
	AccountContextKey ContextKey = "account"

	// TraceIDKey holds the trace ID reported in error responses.
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the number of random bytes in a generated trace ID.
	TraceIDLength = 16
)

// WithAccount returns a copy of ctx carrying the acting account.
func WithAccount(ctx context.Context, acct *domain.Account) context.Context {
	return context.WithValue(ctx, AccountContextKey, acct)
}

// AccountFromContext returns the acting account, or nil for a guest request.
func AccountFromContext(ctx context.Context) *domain.Account {
	acct, _ := ctx.Value(AccountContextKey).(*domain.Account)
	return acct
}

// SetTraceID stores a trace ID in ctx. The ID of the active OpenTelemetry
// span is used when there is one, so responses and exported traces agree.
func SetTraceID(ctx context.Context) context.Context {
	traceID := generateTraceID()
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		traceID = sc.TraceID().String()
	}
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID returns the trace ID stored in ctx, or "".
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// generateTraceID returns 32 random hex characters.
func generateTraceID() string {
	b := make([]byte, TraceIDLength)
	n, err := rand.Read(b)
	if err != nil || n != TraceIDLength {
		slog.Error("failed to generate random trace ID",
			"error", err,
			"bytes_read", n,
			"fallback", "time-based generation")
		return generateFallbackTraceID()
	}
	return hex.EncodeToString(b)
}

func generateFallbackTraceID() string {
	b := make([]byte, TraceIDLength)
	now := time.Now()
	binary.BigEndian.PutUint64(b[:8], uint64(now.UnixNano()))
	binary.BigEndian.PutUint32(b[8:12], uint32(now.Nanosecond()))
	binary.BigEndian.PutUint32(b[12:16], uint32(now.Unix()))
	return hex.EncodeToString(b)
}
