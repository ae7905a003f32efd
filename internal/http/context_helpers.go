package httpx

import (
	"context"

	"github.com/OrderOfTheOverflow/globalsiteselector/internal/domain/federation"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
type sessionKey struct{}

// SetSessionInContext returns a child context that carries the given session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *federation.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext returns the session from context and a boolean indicating presence.
func GetSessionFromContext(ctx context.Context) (*federation.Session, bool) {
	if session, ok := ctx.Value(sessionKey{}).(*federation.Session); ok && session != nil {
		return session, true
	}
	return nil, false
}
