package token

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

// PasswordCipher encrypts and decrypts the password claim embedded in SSO
// tokens using AES-256-GCM. The master encrypts with the shared federation
// key before signing; slaves decrypt after signature verification.
type PasswordCipher struct {
	key []byte // 32 bytes
}

// Versioned prefix to allow future key/algorithm rotations without
// invalidating tokens already in flight.
const cipherPrefixV1 = "v1:"

// NewPasswordCipher derives an AES-256 key from the shared federation
// secret. A 64-character hex secret is decoded directly; anything else is
// hashed to 32 bytes.
func NewPasswordCipher(secret string) (*PasswordCipher, error) {
	if secret == "" {
		return nil, errors.New("shared key is required")
	}

	var key []byte
	if decoded, err := hex.DecodeString(secret); err == nil && len(decoded) == 32 {
		key = decoded
	} else {
		hash := sha256.Sum256([]byte(secret))
		key = hash[:]
	}

	return &PasswordCipher{key: key}, nil
}

// Encrypt encrypts plaintext with a random nonce and returns a versioned
// base64 string (nonce||ciphertext).
func (c *PasswordCipher) Encrypt(plaintext string) (string, error) {
	gcm, err := c.gcm()
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, readErr := io.ReadFull(rand.Reader, nonce); readErr != nil {
		return "", readErr
	}
	ct := gcm.Seal(nil, nonce, []byte(plaintext), nil)
	buf := make([]byte, 0, len(nonce)+len(ct))
	buf = append(buf, nonce...)
	buf = append(buf, ct...)
	return cipherPrefixV1 + base64.StdEncoding.EncodeToString(buf), nil
}

// Decrypt decrypts a versioned base64 string created by Encrypt.
func (c *PasswordCipher) Decrypt(ciphertext string) (string, error) {
	if !strings.HasPrefix(ciphertext, cipherPrefixV1) {
		return "", fmt.Errorf("unknown ciphertext version (prefix: %s)", shortPrefix(ciphertext))
	}
	data, err := base64.StdEncoding.DecodeString(ciphertext[len(cipherPrefixV1):])
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}
	gcm, err := c.gcm()
	if err != nil {
		return "", err
	}
	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}
	nonce, ct := data[:nonceSize], data[nonceSize:]
	pt, err := gcm.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", fmt.Errorf("open ciphertext: %w", err)
	}
	return string(pt), nil
}

func (c *PasswordCipher) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func shortPrefix(s string) string {
	const maxLen = 10
	if len(s) > maxLen {
		return s[:maxLen]
	}
	return s
}
