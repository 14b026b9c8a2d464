package id

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// SessionID returns a new random (v4) UUID for a stream session.
func SessionID() string {
	return uuid.NewString()
}

// Short generates a 16 character random hex ID.
func Short() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ClientID returns "<prefix>-<short>", or just the short ID for an empty prefix.
func ClientID(prefix string) string {
	if prefix == "" {
		return Short()
	}
	return prefix + "-" + Short()
}

// IsSessionID reports whether s parses as a UUID.
func IsSessionID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
