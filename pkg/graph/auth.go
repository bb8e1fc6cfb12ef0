package graph

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// AppSecretProof returns the appsecret_proof for accessToken: the hex encoded
// HMAC-SHA256 of the token keyed with the app secret.
func AppSecretProof(accessToken, appSecret string) string {
	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write([]byte(accessToken))

	return hex.EncodeToString(mac.Sum(nil))
}
