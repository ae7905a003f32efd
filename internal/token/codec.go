package token

// Package token implements the SSO token codec shared between the federation
// master and its slaves: an HS256-signed JWT whose password claim is
// symmetrically encrypted with the shared federation key. Decoding is pure;
// it has no side effects beyond validating and translating the token.

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/OrderOfTheOverflow/globalsiteselector/internal/domain/federation"
)

// signingAlg is the single accepted signing algorithm. Any other algorithm
// in the token header is rejected as a signature failure, never negotiated.
const signingAlg = "HS256"

// Claim names on the token payload.
const (
	claimUID      = "uid"
	claimPassword = "password"
	claimOptions  = "options"
	optionSAML    = "saml"
)

// Codec decodes and encodes SSO tokens with a shared federation key.
type Codec struct {
	signingKey []byte
	cipher     *PasswordCipher
	parser     *jwt.Parser
}

// NewCodec constructs a Codec from the shared federation key. The raw key
// bytes sign the token envelope; the password cipher derives its own AES
// key from the same secret.
func NewCodec(sharedKey string) (*Codec, error) {
	if sharedKey == "" {
		return nil, errors.New("shared key is required")
	}
	cipher, err := NewPasswordCipher(sharedKey)
	if err != nil {
		return nil, fmt.Errorf("derive password cipher: %w", err)
	}
	return &Codec{
		signingKey: []byte(sharedKey),
		cipher:     cipher,
		parser:     jwt.NewParser(jwt.WithValidMethods([]string{signingAlg})),
	}, nil
}

// Decode verifies the token signature and expiry, extracts the uid, and
// decrypts the embedded password unless the options mark a
// federated-identity flow. All failures are *DecodeError values.
func (c *Codec) Decode(tokenString string) (federation.ResolvedIdentity, error) {
	if tokenString == "" {
		return federation.ResolvedIdentity{}, decodeErr(KindMalformed, errors.New("empty token"))
	}

	parsed, err := c.parser.Parse(tokenString, func(*jwt.Token) (any, error) {
		return c.signingKey, nil
	})
	if err != nil {
		return federation.ResolvedIdentity{}, classifyParseError(err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return federation.ResolvedIdentity{}, decodeErr(KindMalformed, errors.New("unexpected claims type"))
	}

	uid, ok := claims[claimUID].(string)
	if !ok || uid == "" {
		return federation.ResolvedIdentity{}, decodeErr(KindMalformed, errors.New(`"uid" not set in token`))
	}

	identity := federation.ResolvedIdentity{UID: uid}

	if options, optsOk := claims[claimOptions].(map[string]any); optsOk {
		if provider, samlOk := options[optionSAML].(string); samlOk {
			identity.Federated = true
			identity.SAMLProvider = provider
		}
	}

	// The federated-identity path authenticates by signature alone; the
	// password claim is required everywhere else.
	if identity.Federated {
		return identity, nil
	}

	encrypted, ok := claims[claimPassword].(string)
	if !ok || encrypted == "" {
		return federation.ResolvedIdentity{}, decodeErr(KindMalformed, errors.New(`"password" not set in token`))
	}

	password, err := c.cipher.Decrypt(encrypted)
	if err != nil {
		return federation.ResolvedIdentity{}, decodeErr(KindDecryptFailed, err)
	}
	identity.Password = password

	return identity, nil
}

// EncodeInput groups the claims for Encode.
type EncodeInput struct {
	UID      string
	Password string
	// SAMLProvider, when set, marks the token as a federated-identity flow
	// and makes the password optional.
	SAMLProvider string
	ExpiresAt    time.Time
}

// Encode mints a signed SSO token. This is the master-side counterpart of
// Decode; slaves use it only in tests and mixed-mode deployments.
func (c *Codec) Encode(in EncodeInput) (string, error) {
	if in.UID == "" {
		return "", errors.New("uid is required")
	}
	if in.SAMLProvider == "" && in.Password == "" {
		return "", errors.New("password is required for non-federated tokens")
	}

	claims := jwt.MapClaims{
		claimUID: in.UID,
		"exp":    jwt.NewNumericDate(in.ExpiresAt),
	}
	if in.Password != "" {
		encrypted, err := c.cipher.Encrypt(in.Password)
		if err != nil {
			return "", fmt.Errorf("encrypt password: %w", err)
		}
		claims[claimPassword] = encrypted
	}
	if in.SAMLProvider != "" {
		claims[claimOptions] = map[string]any{optionSAML: in.SAMLProvider}
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.signingKey)
}

// classifyParseError maps jwt parse failures onto decode error kinds.
// Expiry is checked by the parser only after the signature verifies, so an
// expired result implies a valid signature.
func classifyParseError(err error) *DecodeError {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return decodeErr(KindExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return decodeErr(KindBadSignature, err)
	default:
		return decodeErr(KindMalformed, err)
	}
}
