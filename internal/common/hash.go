package common

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sha256Hex returns the SHA-256 digest of the input encoded as lowercase hex.
func Sha256Hex(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// HmacSha256Hex computes an HMAC-SHA256 signature encoded as lowercase hex.
func HmacSha256Hex(secret, payload []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// HmacEqual compares two hex signatures in constant time.
func HmacEqual(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}
