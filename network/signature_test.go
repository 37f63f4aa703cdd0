package network

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	payload := []byte(`{"entry":[]}`)
	secret := "top-secret"

	assert.True(t, VerifySignature(payload, sign(payload, secret), secret))
	assert.True(t, VerifySignature(payload, "sha256="+sign(payload, secret), secret),
		"sha256= prefix must be stripped before comparing")
}

func TestVerifySignatureRejects(t *testing.T) {
	payload := []byte(`{"entry":[]}`)

	assert.False(t, VerifySignature(payload, sign(payload, "wrong-secret"), "top-secret"))
	assert.False(t, VerifySignature(payload, sign([]byte("tampered"), "top-secret"), "top-secret"))
	assert.False(t, VerifySignature(payload, "", "top-secret"), "missing header")
	assert.False(t, VerifySignature(payload, sign(payload, "top-secret"), ""), "missing secret")
	assert.False(t, VerifySignature(payload, "sha256=not-hex-at-all", "top-secret"),
		"decode failures count as verification failures, never panic")
}

func TestSignaturePreview(t *testing.T) {
	assert.Equal(t, "sha256=0123456789abc...", SignaturePreview("sha256=0123456789abcdef0123456789abcdef"))
	assert.Equal(t, "short...", SignaturePreview("short"))
}
