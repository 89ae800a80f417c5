// Package idgen generates identifiers for workspaces, documents, versions,
// and comments.
package idgen

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// WorkspaceID returns a fresh opaque 128-bit identifier rendered as a
// 32-character lowercase hex string, per the data model's "opaque 128-bit
// identifier" requirement.
func WorkspaceID() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("idgen: generate workspace id: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}

// EntityID returns a fresh hyphenated UUID string, used for documents,
// versions, and comments.
func EntityID() string {
	return uuid.New().String()
}

// RandomHex returns n random bytes rendered as a hex string of length 2n,
// used for the manage key secret and as the slug of a title that yields no
// slug characters.
func RandomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("idgen: generate random hex: %w", err)
	}
	return hex.EncodeToString(b), nil
}
