package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/OrderOfTheOverflow/globalsiteselector/internal/domain/federation"
	"github.com/OrderOfTheOverflow/globalsiteselector/internal/ports"
	"github.com/OrderOfTheOverflow/globalsiteselector/internal/token"
)

// Provisioner creates the local account for a federated identity when it
// does not exist yet.
type Provisioner interface {
	EnsureProvisioned(ctx context.Context, uid, provider string) error
}

// AutoLoginOptions groups dependencies for AutoLoginService.
type AutoLoginOptions struct {
	Mode        federation.Mode
	MasterURL   string
	HomeURL     string
	Codec       ports.TokenDecoder
	Provisioner Provisioner
	Auth        ports.Authenticator
	Sessions    ports.SessionStore
	SessionTTL  time.Duration
	Logger      *slog.Logger
}

// AutoLoginService converts an inbound SSO token into a local session.
// Every call terminates in exactly one of two outcomes: a session plus a
// redirect to the application root, or a redirect to the master node. No
// failure ever surfaces to the caller as an error page, and no partial
// session is created on a failure path.
type AutoLoginService struct {
	mode        federation.Mode
	masterURL   string
	homeURL     string
	codec       ports.TokenDecoder
	provisioner Provisioner
	auth        ports.Authenticator
	sessions    ports.SessionStore
	sessionTTL  time.Duration
	logger      *slog.Logger
}

// AutoLoginResult is the terminal outcome of an auto-login attempt.
// Session is nil on every failure path.
type AutoLoginResult struct {
	RedirectURL string
	Session     *federation.Session
}

// NewAutoLoginService constructs a new AutoLoginService.
func NewAutoLoginService(opts AutoLoginOptions) *AutoLoginService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AutoLoginService{
		mode:        opts.Mode,
		masterURL:   opts.MasterURL,
		homeURL:     opts.HomeURL,
		codec:       opts.Codec,
		provisioner: opts.Provisioner,
		auth:        opts.Auth,
		sessions:    opts.Sessions,
		sessionTTL:  opts.SessionTTL,
		logger:      logger,
	}
}

// AutoLogin runs the token-to-session flow. An expired token is an
// expected condition and logs at info level; every other failure logs at
// error level. Both redirect to the master.
func (s *AutoLoginService) AutoLogin(ctx context.Context, tokenString string) AutoLoginResult {
	failed := AutoLoginResult{RedirectURL: s.masterURL}

	// Masters never consume auto-login tokens, and an empty token is not
	// worth decoding. Neither case is exceptional.
	if s.mode.IsMaster() || tokenString == "" {
		return failed
	}

	identity, err := s.codec.Decode(tokenString)
	if err != nil {
		if token.IsExpired(err) {
			s.logger.InfoContext(ctx, "auto-login token expired")
		} else {
			s.logger.ErrorContext(ctx, "auto-login token rejected", "error", err)
		}
		return failed
	}

	if identity.Federated {
		// Identity was asserted by the token signature; provision the
		// account if needed and skip the password check.
		if provErr := s.provisioner.EnsureProvisioned(ctx, identity.UID, identity.SAMLProvider); provErr != nil {
			s.logger.ErrorContext(ctx, "auto-login provisioning failed", "uid", identity.UID, "error", provErr)
			return failed
		}
	} else {
		ok, loginErr := s.auth.Login(ctx, identity.UID, identity.Password)
		if loginErr != nil {
			s.logger.ErrorContext(ctx, "auto-login credential check failed", "uid", identity.UID, "error", loginErr)
			return failed
		}
		if !ok {
			s.logger.ErrorContext(ctx, "auto-login rejected: wrong username or password", "uid", identity.UID)
			return failed
		}
	}

	now := time.Now().UTC()
	sess := federation.Session{
		ID:        uuid.New().String(),
		UID:       identity.UID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if saveErr := s.sessions.Save(ctx, sess); saveErr != nil {
		s.logger.ErrorContext(ctx, "auto-login session save failed", "uid", identity.UID, "error", saveErr)
		return failed
	}

	return AutoLoginResult{RedirectURL: s.homeURL, Session: &sess}
}

// GetSession retrieves and validates a session by ID. Used by the HTTP
// layer to resolve the session cookie.
func (s *AutoLoginService) GetSession(ctx context.Context, id string) (*federation.Session, error) {
	if id == "" {
		return nil, nil
	}
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Expired() {
		return nil, nil
	}
	return &sess, nil
}
