package routes

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignatureHeader is the webhook header carrying the HMAC digest.
const SignatureHeader = "X-Hub-Signature-256"

// ExpectedSignature computes the signature GitHub sends for a raw webhook
// body: "sha256=" + hex(HMAC-SHA256(secret, body)). The raw bytes must be
// used as delivered; re-serializing the payload changes the byte layout and
// breaks verification.
func ExpectedSignature(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares the received signature header against the
// expected digest in constant time.
func VerifySignature(secret string, body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	return hmac.Equal([]byte(signature), []byte(ExpectedSignature(secret, body)))
}
