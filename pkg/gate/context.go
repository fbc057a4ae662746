package gate

import (
	"context"
	"log/slog"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// WithPrincipal adds a principal to the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext retrieves the principal from the context.
// Returns a zero principal and false if none is present.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}

// MustFromContext retrieves the principal from the context.
// Panics if no principal is found. Use this only in handlers that
// run strictly behind the principal middleware.
func MustFromContext(ctx context.Context) Principal {
	p, ok := FromContext(ctx)
	if !ok {
		panic("gate: no principal in context")
	}
	return p
}

// LoggerExtractor returns a context extractor for the logger that adds
// the principal's user and organization IDs to every log record.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		p, ok := FromContext(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		return slog.Group("principal",
			slog.String("user_id", p.UserID.String()),
			slog.String("org_id", p.OrgID.String()),
			slog.String("role", string(p.Role)),
		), true
	}
}
