package config

import (
	"fmt"
	"strings"
	"time"
)

// OperatingMode represents the role of this node within the federation.
type OperatingMode string

const (
	// ModeMaster marks the node that issues SSO tokens and owns the
	// canonical account directory lookup.
	ModeMaster OperatingMode = "master"
	// ModeSlave marks a node that accepts master-issued tokens and hosts
	// the actual user sessions and data.
	ModeSlave OperatingMode = "slave"
)

// UnmarshalText implements encoding.TextUnmarshaler for OperatingMode.
func (m *OperatingMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "master", "slave":
		*m = OperatingMode(v)
		return nil
	default:
		return fmt.Errorf("invalid OperatingMode: %q (valid options: master, slave)", v)
	}
}

// FederationConfig groups the federation-wide settings shared between the
// master and its slaves.
type FederationConfig struct {
	// Mode determines which endpoints are active on this node.
	Mode OperatingMode `env:"MODE" envDefault:"slave"`

	// MasterURL is the address of the federation master. Failed auto-login
	// attempts are redirected here.
	MasterURL string `env:"MASTER_URL,required"`

	// JWTKey is the shared secret used for both token signature
	// verification and symmetric decryption of the embedded password.
	JWTKey string `env:"JWT_KEY,required"`

	// SessionTTL is the lifetime of sessions created by auto-login.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// AppTokenTTL is the lifetime of issued application tokens.
	AppTokenTTL time.Duration `env:"APP_TOKEN_TTL" envDefault:"72h"`
}

const minTokenTTL = time.Minute

// Sanitize applies guardrails to federation configuration values.
func (f *FederationConfig) Sanitize() {
	if f.SessionTTL < minTokenTTL {
		f.SessionTTL = minTokenTTL
	}
	if f.AppTokenTTL < minTokenTTL {
		f.AppTokenTTL = minTokenTTL
	}
	f.MasterURL = strings.TrimRight(f.MasterURL, "/")
}
