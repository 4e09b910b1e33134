package meeting

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
)

// Sign computes the provider's request signature: HMAC-SHA256 over the
// method, the key/nonce/timestamp header string, the request URI (path plus
// query) and the body, keyed by the secret key. The hex digest is then
// base64-encoded, per the provider's documented scheme.
func Sign(secretID, secretKey, method, nonce, timestamp, uri, body string) string {
	headerString := "X-TC-Key=" + secretID + "&X-TC-Nonce=" + nonce + "&X-TC-Timestamp=" + timestamp
	payload := method + "\n" + headerString + "\n" + uri + "\n" + body

	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(payload))
	hexDigest := hex.EncodeToString(mac.Sum(nil))

	return base64.StdEncoding.EncodeToString([]byte(hexDigest))
}

// newNonce returns a random numeric nonce for the signature headers.
func newNonce() string {
	n, err := rand.Int(rand.Reader, big.NewInt(100000000))
	if err != nil {
		// crypto/rand only fails if the platform source is broken
		panic(err)
	}
	return fmt.Sprintf("%d", n)
}
