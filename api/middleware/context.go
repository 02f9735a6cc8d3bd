package middleware

import "context"

type contextKey string

const (
	ctxClientID contextKey = "client_id"
	ctxScopes   contextKey = "scopes"
)

func ClientIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxClientID).(string); ok {
		return v
	}
	return ""
}

func ScopesFromContext(ctx context.Context) []string {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxScopes).([]string); ok {
		return v
	}
	return nil
}

// WithClientID injects the calling service identifier into the context.
func WithClientID(ctx context.Context, clientID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxClientID, clientID)
}
