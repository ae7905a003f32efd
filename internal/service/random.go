package service

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// randomSecret returns a URL-safe random string from n bytes of entropy.
// Used for placeholder passwords and app token secrets.
func randomSecret(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
