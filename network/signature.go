package network

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// VerifySignature checks the X-Hub-Signature-256 header against an
// HMAC-SHA256 of the raw body. Any malformed input counts as a failed
// verification; this never errors or panics. Callers log the outcome —
// a failure does not block processing (see DESIGN.md).
func VerifySignature(payload []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	sig := strings.TrimPrefix(signature, "sha256=")
	got, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hmac.Equal(got, mac.Sum(nil))
}

// SignaturePreview truncates a signature header for display in webhook
// event records, so the full value never leaves the process.
func SignaturePreview(signature string) string {
	if len(signature) > 20 {
		return signature[:20] + "..."
	}
	return signature + "..."
}
