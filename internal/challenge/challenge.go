// Package challenge implements the account-free edit authorization scheme.
//
// A pair is a random 256-bit secret (hex) and the sha-512 hex digest of that
// secret. Only the digest is ever stored server-side; the submitting client
// keeps the plaintext and presents it later as proof of authorship.
package challenge

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
)

// SecretLen is the length of a plaintext secret in hex characters.
const SecretLen = 64

// HashLen is the length of a challenge hash in hex characters.
const HashLen = 128

// Pair is a freshly issued secret and its digest.
type Pair struct {
	Secret string `json:"secret"`
	Hash   string `json:"hash"`
}

// Generate issues a new challenge pair from the system CSPRNG.
func Generate() (Pair, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return Pair{}, err
	}
	secret := hex.EncodeToString(buf)
	return Pair{Secret: secret, Hash: Hash(secret)}, nil
}

// Hash returns the sha-512 hex digest of a secret. The digest, not the
// secret, is what gets persisted with each message.
func Hash(secret string) string {
	sum := sha512.Sum512([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether guess is the secret behind storedHash. It fails
// closed on empty input and compares in constant time so mismatched
// prefixes leak nothing.
func Verify(guess, storedHash string) bool {
	if guess == "" || len(storedHash) != HashLen {
		return false
	}
	guessHash := Hash(guess)
	return subtle.ConstantTimeCompare([]byte(guessHash), []byte(storedHash)) == 1
}
