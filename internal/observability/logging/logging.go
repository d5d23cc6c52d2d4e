package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// NewLogger builds the service logger. Output is JSON with a
// configurable level; every record carries the service identity and
// trace correlation attrs are appended per platform.
func NewLogger(info ServiceInfo, env Environment, module Module, level, projectID string) *slog.Logger {
	inner := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})

	attrs := info.Attrs()
	attrs = append(attrs,
		slog.String("env", string(env)),
		slog.String("module", module.String()),
	)

	handler := &contextHandler{
		inner:     inner.WithAttrs(attrs),
		projectID: projectID,
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// contextHandler enriches records with the request ID and platform
// trace attrs carried in the context.
type contextHandler struct {
	inner     slog.Handler
	projectID string
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, record slog.Record) error {
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		record.AddAttrs(slog.String("request_id", requestID))
	}
	if attrs := gcpTraceAttrs(ctx, h.projectID); len(attrs) > 0 {
		record.AddAttrs(attrs...)
	}
	return h.inner.Handle(ctx, record)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{inner: h.inner.WithAttrs(attrs), projectID: h.projectID}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{inner: h.inner.WithGroup(name), projectID: h.projectID}
}

// WithRequestID returns a context carrying the given request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the request ID carried by the context,
// or empty.
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// ValidateAndExtractRequestID returns the given ID when it is a valid
// UUID, otherwise a freshly generated one. Inbound IDs are untrusted.
func ValidateAndExtractRequestID(requestID string) string {
	if _, err := uuid.Parse(requestID); err == nil {
		return requestID
	}
	return uuid.New().String()
}
