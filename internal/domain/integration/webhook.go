package integration

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// SignatureHeader is the request header carrying the webhook HMAC signature
const SignatureHeader = "X-Webhook-Hmac-Sha256"

// ShopDomainHeader identifies the originating store on webhook deliveries.
// The tenant is resolved from this header plus signature verification, never
// from a fixed identifier.
const ShopDomainHeader = "X-Shop-Domain"

// ComputeSignature returns the base64 HMAC-SHA256 digest of body under secret
func ComputeSignature(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a webhook delivery's authenticity. The body must be
// the raw request bytes, captured before any JSON decoding: parsing and
// re-serializing would not reproduce the exact bytes the sender signed.
// A tenant without a configured secret, or a missing signature, is invalid.
// The comparison is constant-time.
func VerifySignature(body []byte, signature, secret string) bool {
	if secret == "" || signature == "" {
		return false
	}
	expected := ComputeSignature(body, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
