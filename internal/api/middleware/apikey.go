package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"os"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/btcledger/Bitcoin-Ledger-Backend/internal/api/response"
)

const (
	apiKeyHeader    = "X-API-Key"
	timeTokenHeader = "X-Time-Token"

	// timeTokenTTL bounds replay of a captured token.
	timeTokenTTL = 60 * time.Second
)

// APIKeyMiddleware guards internal endpoints with a static API key plus a
// short-lived time token. The key comes from the INTERNAL_API_KEY
// environment variable; the time token is a fernet token minted with a key
// derived from the API key, so possession of the API key is required to
// mint one and captured tokens expire within timeTokenTTL.
func APIKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expected := os.Getenv("INTERNAL_API_KEY")
		if expected == "" {
			response.RespondError(w, http.StatusInternalServerError, "internal error", "Authentication not loaded")
			return
		}

		provided := r.Header.Get(apiKeyHeader)
		if provided == "" {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing API key")
			return
		}
		if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key")
			return
		}

		token := r.Header.Get(timeTokenHeader)
		if token == "" {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing Time token")
			return
		}
		if msg := fernet.VerifyAndDecrypt([]byte(token), timeTokenTTL, []*fernet.Key{deriveKey(expected)}); msg == nil {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Time token is invalid or expired")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GenerateTimeToken mints a time token for the given API key. Exposed for
// clients and tests.
func GenerateTimeToken(apiKey string) string {
	token, err := fernet.EncryptAndSign([]byte(time.Now().UTC().Format(time.RFC3339)), deriveKey(apiKey))
	if err != nil {
		return ""
	}
	return string(token)
}

// deriveKey turns the API key into a fernet key deterministically.
func deriveKey(apiKey string) *fernet.Key {
	sum := sha256.Sum256([]byte(apiKey))
	var key fernet.Key
	copy(key[:], sum[:])
	return &key
}
