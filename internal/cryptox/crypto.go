// Package cryptox provides the cryptographic primitives shared by the
// server: salted secret hashing and constant-time comparison for the
// per-workspace manage key.
package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	saltSize    = 16
	argon2Time  = 1
	argon2Mem   = 64 * 1024
	argon2Lanes = 4
	argon2KeyLn = 32
)

// DeriveKey runs argon2id over secret with the given salt, returning a fixed
// 32-byte key. Same (secret, salt) always yields the same key.
func DeriveKey(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, argon2Time, argon2Mem, argon2Lanes, argon2KeyLn)
}

// NewSalt returns a fresh random salt suitable for DeriveKey.
func NewSalt() ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("cryptox: generate salt: %w", err)
	}
	return salt, nil
}

// HashSecret generates a random salt, derives a key from secret, and returns
// a single "<salt-hex>:<key-hex>" string suitable for persistence.
func HashSecret(secret string) (string, error) {
	salt, err := NewSalt()
	if err != nil {
		return "", err
	}
	key := DeriveKey([]byte(secret), salt)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

// VerifySecret reports whether secret matches a hash produced by HashSecret,
// using a constant-time comparison of the derived key bytes.
func VerifySecret(secret, stored string) bool {
	saltHex, keyHex, ok := splitHash(stored)
	if !ok {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(keyHex)
	if err != nil {
		return false
	}
	got := DeriveKey([]byte(secret), salt)
	return subtle.ConstantTimeCompare(got, want) == 1
}

func splitHash(stored string) (salt, key string, ok bool) {
	for i := 0; i < len(stored); i++ {
		if stored[i] == ':' {
			return stored[:i], stored[i+1:], true
		}
	}
	return "", "", false
}
