package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "shared-federation-key"

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	codec, err := NewCodec(testKey)
	require.NoError(t, err)
	return codec
}

func TestNewCodec_RequiresKey(t *testing.T) {
	_, err := NewCodec("")
	require.Error(t, err)
}

func TestCodec_DecodeValidToken(t *testing.T) {
	codec := newTestCodec(t)

	tokenString, err := codec.Encode(EncodeInput{
		UID:       "alice",
		Password:  "secret123",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	identity, err := codec.Decode(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "alice", identity.UID)
	assert.Equal(t, "secret123", identity.Password)
	assert.False(t, identity.Federated)
	assert.Empty(t, identity.SAMLProvider)
}

func TestCodec_DecodeFederatedToken(t *testing.T) {
	codec := newTestCodec(t)

	tokenString, err := codec.Encode(EncodeInput{
		UID:          "bob",
		SAMLProvider: "idp1",
		ExpiresAt:    time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	identity, err := codec.Decode(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "bob", identity.UID)
	assert.True(t, identity.Federated)
	assert.Equal(t, "idp1", identity.SAMLProvider)
	assert.Empty(t, identity.Password)
}

func TestCodec_DecodeEmptyToken(t *testing.T) {
	codec := newTestCodec(t)

	_, err := codec.Decode("")
	require.Error(t, err)
	assert.True(t, IsMalformed(err))
}

func TestCodec_DecodeExpiredToken(t *testing.T) {
	codec := newTestCodec(t)

	tokenString, err := codec.Encode(EncodeInput{
		UID:       "alice",
		Password:  "secret123",
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)

	_, err = codec.Decode(tokenString)
	require.Error(t, err)
	assert.True(t, IsExpired(err))
	assert.False(t, IsBadSignature(err))
}

func TestCodec_DecodeWrongKey(t *testing.T) {
	codec := newTestCodec(t)
	other, err := NewCodec("a-different-key")
	require.NoError(t, err)

	tokenString, err := other.Encode(EncodeInput{
		UID:       "alice",
		Password:  "secret123",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	_, err = codec.Decode(tokenString)
	require.Error(t, err)
	assert.True(t, IsBadSignature(err))
}

func TestCodec_DecodeRejectsForeignAlgorithm(t *testing.T) {
	codec := newTestCodec(t)

	// HS384-signed token with the right key: algorithm confusion must be a
	// hard signature failure, not a fallback.
	tok := jwt.NewWithClaims(jwt.SigningMethodHS384, jwt.MapClaims{
		"uid": "alice",
		"exp": jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	tokenString, err := tok.SignedString([]byte(testKey))
	require.NoError(t, err)

	_, err = codec.Decode(tokenString)
	require.Error(t, err)
	assert.True(t, IsBadSignature(err))
}

func TestCodec_DecodeMissingUID(t *testing.T) {
	codec := newTestCodec(t)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"password": "irrelevant",
		"exp":      jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	tokenString, err := tok.SignedString([]byte(testKey))
	require.NoError(t, err)

	_, err = codec.Decode(tokenString)
	require.Error(t, err)
	assert.True(t, IsMalformed(err))
}

func TestCodec_DecodeMissingPassword(t *testing.T) {
	codec := newTestCodec(t)

	// No password and no saml option: required claim is absent.
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": "alice",
		"exp": jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	tokenString, err := tok.SignedString([]byte(testKey))
	require.NoError(t, err)

	_, err = codec.Decode(tokenString)
	require.Error(t, err)
	assert.True(t, IsMalformed(err))
}

func TestCodec_DecodeUndecryptablePassword(t *testing.T) {
	codec := newTestCodec(t)

	// Password encrypted under a different key fails decryption even though
	// the envelope signature verifies.
	foreignCipher, err := NewPasswordCipher("another-secret")
	require.NoError(t, err)
	encrypted, err := foreignCipher.Encrypt("secret123")
	require.NoError(t, err)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":      "alice",
		"password": encrypted,
		"exp":      jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	tokenString, err := tok.SignedString([]byte(testKey))
	require.NoError(t, err)

	_, err = codec.Decode(tokenString)
	require.Error(t, err)
	assert.True(t, IsDecryptFailed(err))
}

func TestCodec_DecodeGarbage(t *testing.T) {
	codec := newTestCodec(t)

	_, err := codec.Decode("not.a.jwt")
	require.Error(t, err)
	assert.True(t, IsMalformed(err))
}

func TestCodec_EncodeValidation(t *testing.T) {
	codec := newTestCodec(t)

	_, err := codec.Encode(EncodeInput{Password: "x", ExpiresAt: time.Now().Add(time.Hour)})
	require.Error(t, err)

	_, err = codec.Encode(EncodeInput{UID: "alice", ExpiresAt: time.Now().Add(time.Hour)})
	require.Error(t, err, "non-federated tokens require a password")
}

func TestPasswordCipher_RoundTrip(t *testing.T) {
	cipher, err := NewPasswordCipher(testKey)
	require.NoError(t, err)

	encrypted, err := cipher.Encrypt("secret123")
	require.NoError(t, err)
	assert.NotContains(t, encrypted, "secret123")

	decrypted, err := cipher.Decrypt(encrypted)
	require.NoError(t, err)
	assert.Equal(t, "secret123", decrypted)
}

func TestPasswordCipher_HexKeyDecodedDirectly(t *testing.T) {
	hexKey := "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	cipher, err := NewPasswordCipher(hexKey)
	require.NoError(t, err)

	encrypted, err := cipher.Encrypt("pw")
	require.NoError(t, err)
	decrypted, err := cipher.Decrypt(encrypted)
	require.NoError(t, err)
	assert.Equal(t, "pw", decrypted)
}

func TestPasswordCipher_RejectsUnknownVersion(t *testing.T) {
	cipher, err := NewPasswordCipher(testKey)
	require.NoError(t, err)

	_, err = cipher.Decrypt("v9:abcdef")
	require.Error(t, err)

	_, err = cipher.Decrypt("v1:%%%not-base64%%%")
	require.Error(t, err)

	_, err = cipher.Decrypt("v1:" + "c2hvcnQ=") // decodes to fewer bytes than a nonce
	require.Error(t, err)
}

func TestDecodeError_KindStrings(t *testing.T) {
	assert.Equal(t, "token expired", KindExpired.String())
	assert.Equal(t, "malformed token", KindMalformed.String())
	assert.Equal(t, "invalid signature", KindBadSignature.String())
	assert.Equal(t, "decryption failure", KindDecryptFailed.String())
}
