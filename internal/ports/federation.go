package ports

// Package ports defines interfaces (hexagonal ports) for the slave gateway's
// collaborators. Implementations live in internal/data and internal/adapters;
// orchestration in internal/service.

import (
	"context"

	"github.com/OrderOfTheOverflow/globalsiteselector/internal/domain/federation"
)

// AccountStore is the local user directory. Create must fail with the
// store's uniqueness error when the uid already exists; it never silently
// overwrites an existing account.
type AccountStore interface {
	Exists(ctx context.Context, uid string) (bool, error)
	Create(ctx context.Context, account federation.Account, placeholderPassword string) error
}

// Authenticator verifies a uid/password pair against the credential backend.
// A false result with nil error means the credentials were simply wrong.
type Authenticator interface {
	Login(ctx context.Context, uid, password string) (bool, error)
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess federation.Session) error
	Get(ctx context.Context, id string) (federation.Session, error)
	Delete(ctx context.Context, id string) error
}

// AppTokenStore persists issued application tokens so the API-auth
// machinery can later look them up.
type AppTokenStore interface {
	Save(ctx context.Context, token federation.AppToken) error
}

// TokenDecoder decodes and validates an inbound SSO token.
type TokenDecoder interface {
	Decode(tokenString string) (federation.ResolvedIdentity, error)
}
