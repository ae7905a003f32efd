package federation

// Package federation contains simple hand-written test doubles for the
// gateway ports. These are lightweight and suitable for unit tests without
// codegen.

import (
	"context"
	"errors"
	"sync"

	"github.com/OrderOfTheOverflow/globalsiteselector/internal/data"
	domainfed "github.com/OrderOfTheOverflow/globalsiteselector/internal/domain/federation"
	"github.com/OrderOfTheOverflow/globalsiteselector/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AccountStore  = (*MemoryAccountStore)(nil)
	_ ports.SessionStore  = (*MemorySessionStore)(nil)
	_ ports.AppTokenStore = (*MemoryAppTokenStore)(nil)
	_ ports.Authenticator = (FuncAuthenticator)(nil)
	_ ports.TokenDecoder  = (*StubDecoder)(nil)
)

// MemoryAccountStore is an in-memory AccountStore with optional error
// injection. Create mirrors the production uniqueness semantics by
// returning data.ErrAccountExists on duplicate uids.
type MemoryAccountStore struct {
	mu        sync.Mutex
	accounts  map[string]domainfed.Account
	passwords map[string]string

	ExistsErr error
	CreateErr error
}

// NewMemoryAccountStore creates an empty in-memory account store.
func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{
		accounts:  make(map[string]domainfed.Account),
		passwords: make(map[string]string),
	}
}

func (s *MemoryAccountStore) Exists(_ context.Context, uid string) (bool, error) {
	if s.ExistsErr != nil {
		return false, s.ExistsErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.accounts[uid]
	return ok, nil
}

func (s *MemoryAccountStore) Create(_ context.Context, account domainfed.Account, placeholderPassword string) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.UID]; ok {
		return data.ErrAccountExists
	}
	s.accounts[account.UID] = account
	s.passwords[account.UID] = placeholderPassword
	return nil
}

// Get returns the stored account and whether it exists.
func (s *MemoryAccountStore) Get(uid string) (domainfed.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[uid]
	return acct, ok
}

// Len returns the number of stored accounts.
func (s *MemoryAccountStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accounts)
}

// MemorySessionStore is an in-memory SessionStore.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainfed.Session

	SaveErr error
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domainfed.Session)}
}

// ErrSessionNotFound is returned by Get when no session matches.
var ErrSessionNotFound = errors.New("session not found")

func (s *MemorySessionStore) Save(_ context.Context, sess domainfed.Session) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (domainfed.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || sess.Expired() {
		return domainfed.Session{}, ErrSessionNotFound
	}
	return sess, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len returns the number of stored sessions.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// MemoryAppTokenStore is an in-memory AppTokenStore.
type MemoryAppTokenStore struct {
	mu     sync.Mutex
	tokens []domainfed.AppToken

	SaveErr error
}

// NewMemoryAppTokenStore creates an empty in-memory app token store.
func NewMemoryAppTokenStore() *MemoryAppTokenStore {
	return &MemoryAppTokenStore{}
}

func (s *MemoryAppTokenStore) Save(_ context.Context, token domainfed.AppToken) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = append(s.tokens, token)
	return nil
}

// Tokens returns a copy of the saved tokens.
func (s *MemoryAppTokenStore) Tokens() []domainfed.AppToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domainfed.AppToken(nil), s.tokens...)
}

// FuncAuthenticator adapts a function to the Authenticator port.
type FuncAuthenticator func(ctx context.Context, uid, password string) (bool, error)

func (f FuncAuthenticator) Login(ctx context.Context, uid, password string) (bool, error) {
	return f(ctx, uid, password)
}

// StubDecoder returns a fixed identity or error from Decode.
type StubDecoder struct {
	Identity domainfed.ResolvedIdentity
	Err      error
}

func (d *StubDecoder) Decode(string) (domainfed.ResolvedIdentity, error) {
	if d.Err != nil {
		return domainfed.ResolvedIdentity{}, d.Err
	}
	return d.Identity, nil
}
