// Package security provides the id generation and password hashing the
// domain layer depends on through interfaces (registry.IDGenerator,
// registry.PasswordHasher) without importing concrete crypto libraries
// itself.
package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/oklog/ulid/v2"
)

// nanoidAlphabet is the URL-safe alphabet §9 specifies for session
// tokens, town ids, and area labels: 64 symbols, so each character carries
// 6 bits of entropy.
const nanoidAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"

// nanoidLength of 21 characters gives ~126 bits of entropy, matching the
// teacher corpus's "21-character URL-safe random ids" convention.
const nanoidLength = 21

// NanoidGenerator mints opaque identifiers from nanoidAlphabet. It
// implements registry.IDGenerator.
type NanoidGenerator struct{}

// NewID returns a fresh 21-character URL-safe random identifier.
func (NanoidGenerator) NewID() string {
	id, err := newID(nanoidLength)
	if err != nil {
		// crypto/rand failing is an unrecoverable host problem, not a
		// condition callers can meaningfully handle.
		panic(fmt.Sprintf("security: failed to generate id: %v", err))
	}
	return id
}

func newID(length int) (string, error) {
	raw := make([]byte, length)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("security: crypto/rand read failed: %w", err)
	}
	out := make([]byte, length)
	for i, b := range raw {
		out[i] = nanoidAlphabet[int(b)%len(nanoidAlphabet)]
	}
	return string(out), nil
}

// GenerateULID mints a ULID string. It is not used for domain
// identifiers, and no code in the server calls it or attaches its
// output to log lines.
func GenerateULID() string {
	return ulid.Make().String()
}

// GenerateSecureKey creates a cryptographically secure random key and
// returns it as a hex string. Used to mint an ephemeral JWT signing
// secret at startup when none is configured.
func GenerateSecureKey(length int) (string, error) {
	raw := make([]byte, length/2)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("security: failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(raw), nil
}
