package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign returns the lowercase hex HMAC-SHA256 of payload under secret.
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether provided is a valid signature for payload.
// Comparison is constant-time; callers must not reveal which part mismatched.
func Verify(secret string, payload []byte, provided string) bool {
	expected := Sign(secret, payload)
	return hmac.Equal([]byte(expected), []byte(provided))
}
