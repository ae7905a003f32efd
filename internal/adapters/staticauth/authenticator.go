package staticauth

// Package staticauth provides a config-driven Authenticator for local
// development: a fixed uid/password table instead of a real credential
// backend.

import (
	"context"
	"crypto/subtle"
	"errors"
)

// Authenticator implements ports.Authenticator against a static table.
type Authenticator struct {
	credentials map[string]string
}

// New constructs a static authenticator. The map keys are uids, values are
// plaintext passwords; dev use only.
func New(credentials map[string]string) (*Authenticator, error) {
	if len(credentials) == 0 {
		return nil, errors.New("staticauth: at least one credential is required")
	}
	copied := make(map[string]string, len(credentials))
	for uid, pw := range credentials {
		copied[uid] = pw
	}
	return &Authenticator{credentials: copied}, nil
}

// Login verifies the uid/password pair in constant time per entry.
func (a *Authenticator) Login(_ context.Context, uid, password string) (bool, error) {
	expected, ok := a.credentials[uid]
	if !ok {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(password)) == 1, nil
}
