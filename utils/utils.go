package utils

import (
	"crypto/rand"
	"encoding/hex"
	"slices"

	"github.com/google/uuid"
)

// --- ID and secret generators ---

// NewID returns a fresh opaque identifier for matches and share tokens.
func NewID() string {
	return uuid.NewString()
}

// NewSecret returns a random hex string with n bytes of entropy. Share token
// secrets substitute for login, so this must come from crypto/rand.
func NewSecret(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}

// --- Slice helpers ---

func Contains(slice []string, value string) bool {
	return slices.Contains(slice, value)
}
