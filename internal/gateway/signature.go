package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// VerifySignature checks the HMAC-SHA256 signature of a raw webhook body.
// The header value may carry a "sha256=" prefix. Verification must run over
// the unparsed request bytes; re-serializing decoded JSON breaks the hash.
func VerifySignature(payload []byte, signatureHeader, secret string) bool {
	if len(payload) == 0 || signatureHeader == "" {
		return false
	}

	clean := strings.TrimPrefix(signatureHeader, "sha256=")

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(clean), []byte(expected))
}
