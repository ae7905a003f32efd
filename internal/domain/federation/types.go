package federation

// Package federation contains domain-level types for the global site selector
// slave gateway. It is pure and free of framework/adapter concerns.

import "time"

// Mode represents the operating mode of this node within the federation.
// It is fixed at deploy time; a master node never accepts slave-side tokens.
type Mode string

const (
	ModeMaster Mode = "master"
	ModeSlave  Mode = "slave"
)

// IsMaster reports whether the node operates as the federation master.
func (m Mode) IsMaster() bool { return m == ModeMaster }

// ResolvedIdentity is the outcome of decoding an SSO token.
// It is transient and scoped to a single request.
type ResolvedIdentity struct {
	UID string

	// Password is the decrypted one-time password. Empty on the
	// federated-identity path, where the token signature alone asserts
	// the identity.
	Password string

	// Federated marks the token as carrying a federated-identity flow.
	Federated bool

	// SAMLProvider is the provider hint from the token options. Only
	// meaningful when Federated is true.
	SAMLProvider string
}

// Account is the durable user record in the local directory.
// UID is globally unique across the federation.
type Account struct {
	UID           string    `json:"uid"`
	DisplayName   string    `json:"displayname"`
	ProvisionedBy string    `json:"provisioned_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// Session is the server-side record persisted for an authenticated user.
// ID is an opaque session identifier.
type Session struct {
	ID        string    `json:"id"`
	UID       string    `json:"uid"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session's validity window has elapsed.
func (s Session) Expired() bool { return time.Now().After(s.ExpiresAt) }

// AppToken is a short-lived credential bound to one uid, minted for
// programmatic API access. Distinct from the session-establishing SSO token.
type AppToken struct {
	ID        string    `json:"id"`
	UID       string    `json:"uid"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
