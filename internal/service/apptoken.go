package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/OrderOfTheOverflow/globalsiteselector/internal/domain/federation"
	apperrors "github.com/OrderOfTheOverflow/globalsiteselector/internal/errors"
	"github.com/OrderOfTheOverflow/globalsiteselector/internal/ports"
)

// appTokenSecretBytes is the entropy of the generated token secret.
const appTokenSecretBytes = 32

// AppTokenOptions groups dependencies for AppTokenService.
type AppTokenOptions struct {
	Mode   federation.Mode
	Tokens ports.AppTokenStore
	TTL    time.Duration
}

// AppTokenService issues short-lived application credentials to
// session-authenticated users. Only slave nodes issue app tokens.
type AppTokenService struct {
	mode   federation.Mode
	tokens ports.AppTokenStore
	ttl    time.Duration
}

// NewAppTokenService constructs a new AppTokenService.
func NewAppTokenService(opts AppTokenOptions) *AppTokenService {
	return &AppTokenService{
		mode:   opts.Mode,
		tokens: opts.Tokens,
		ttl:    opts.TTL,
	}
}

// Issue generates a fresh token bound to uid and persists it. On a master
// node the request is a client error, not a redirect: there is no
// token-bearing flow to redirect.
func (s *AppTokenService) Issue(ctx context.Context, uid string) (federation.AppToken, error) {
	if s.mode.IsMaster() {
		return federation.AppToken{}, apperrors.WrongMode("app tokens are issued by slave nodes only")
	}
	if uid == "" {
		return federation.AppToken{}, apperrors.Validation("uid is required")
	}

	secret, err := randomSecret(appTokenSecretBytes)
	if err != nil {
		return federation.AppToken{}, fmt.Errorf("generate app token secret: %w", err)
	}

	now := time.Now().UTC()
	token := federation.AppToken{
		ID:        uuid.New().String(),
		UID:       uid,
		Token:     secret,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if saveErr := s.tokens.Save(ctx, token); saveErr != nil {
		return federation.AppToken{}, fmt.Errorf("save app token: %w", saveErr)
	}
	return token, nil
}
