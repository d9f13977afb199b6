package requestctx

import "context"

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	actorKey     ctxKey = "actor"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}

// WithActor stores the authenticated caller identity used for change
// attribution (modified_by on contract history rows).
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// GetActor returns the caller identity, or "system" when the request carried
// no usable credentials.
func GetActor(ctx context.Context) string {
	if value, ok := ctx.Value(actorKey).(string); ok && value != "" {
		return value
	}
	return "system"
}
