package helpers

import (
	"crypto/rand"
	"encoding/base64"
)

// Redis keys shared by the session, verification and reset flows.

func KeySession(uid string) string          { return "user:session:" + uid }
func KeyVerifyToken(tok string) string      { return "email:verify:token:" + tok }
func KeyResetToken(tok string) string       { return "pwd:reset:token:" + tok }
func KeyVerified(uid string) string         { return "user:verified:" + uid }
func KeyCatalog(name string) string         { return "catalog:" + name }
func ChannelVaultChanges(uid string) string { return "vault:changes:" + uid }

// GenToken returns n random bytes encoded as unpadded base64url.
func GenToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
