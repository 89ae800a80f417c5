// Package authguard extracts and verifies the per-workspace manage key
// that gates mutating requests.
package authguard

import (
	"net/http"
	"strings"

	"github.com/Humans-Not-Required/agent-docs/internal/cryptox"
)

// ExtractKey returns the manage key carried by r, checking in order:
// Authorization: Bearer, X-API-Key, then the ?key= query parameter. The
// empty string means no key was supplied.
func ExtractKey(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			if token = strings.TrimSpace(token); token != "" {
				return token
			}
		}
	}
	if key := strings.TrimSpace(r.Header.Get("X-API-Key")); key != "" {
		return key
	}
	if key := strings.TrimSpace(r.URL.Query().Get("key")); key != "" {
		return key
	}
	return ""
}

// Verify reports whether key matches the workspace's stored, salted hash.
// A missing key never matches, regardless of the stored hash.
func Verify(key, storedHash string) bool {
	if key == "" {
		return false
	}
	return cryptox.VerifySecret(key, storedHash)
}
