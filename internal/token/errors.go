package token

import "errors"

// Kind classifies a token decode failure. The auto-login flow boundary
// branches on it: expired tokens are expected and logged quietly, everything
// else is an exception-level event.
type Kind int

const (
	// KindMalformed covers structurally invalid tokens and tokens missing
	// required claims.
	KindMalformed Kind = iota + 1
	// KindExpired marks a token whose signature verified but whose
	// validity window has elapsed.
	KindExpired
	// KindBadSignature marks a signature that failed verification, or a
	// signing algorithm other than the single accepted one.
	KindBadSignature
	// KindDecryptFailed marks an embedded password that could not be
	// decrypted with the shared key.
	KindDecryptFailed
)

func (k Kind) String() string {
	switch k {
	case KindMalformed:
		return "malformed token"
	case KindExpired:
		return "token expired"
	case KindBadSignature:
		return "invalid signature"
	case KindDecryptFailed:
		return "decryption failure"
	default:
		return "unknown token error"
	}
}

// DecodeError is the error type returned by Codec.Decode.
type DecodeError struct {
	Kind  Kind
	Cause error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return e.Kind.String() + ": " + e.Cause.Error()
	}
	return e.Kind.String()
}

func (e *DecodeError) Unwrap() error { return e.Cause }

func decodeErr(kind Kind, cause error) *DecodeError {
	return &DecodeError{Kind: kind, Cause: cause}
}

func isKind(err error, kind Kind) bool {
	var de *DecodeError
	return errors.As(err, &de) && de.Kind == kind
}

// IsExpired reports whether err is an expired-token decode error.
func IsExpired(err error) bool { return isKind(err, KindExpired) }

// IsMalformed reports whether err is a malformed-token decode error.
func IsMalformed(err error) bool { return isKind(err, KindMalformed) }

// IsBadSignature reports whether err is a signature-verification decode error.
func IsBadSignature(err error) bool { return isKind(err, KindBadSignature) }

// IsDecryptFailed reports whether err is a password-decryption decode error.
func IsDecryptFailed(err error) bool { return isKind(err, KindDecryptFailed) }
