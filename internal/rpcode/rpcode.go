// Package rpcode allocates the short, human-typable codes that address rooms.
package rpcode

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"strings"
)

// ErrExhausted is returned when the allocator gives up after maxAttempts
// candidates. With any sane alphabet/length this is unreachable; the cap
// exists so a misconfigured tiny code space fails instead of spinning.
var ErrExhausted = errors.New("rpcode: could not allocate an unused code")

// ExistsFunc reports whether a room with the given code already exists.
// It must only read the code index; the allocator holds no locks.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// Generator produces unique room codes from a restricted alphabet.
type Generator struct {
	length      int
	chars       string
	maxAttempts int
	rand        io.Reader
}

// New creates a Generator for the given code length and alphabet.
func New(length int, chars string) *Generator {
	return &Generator{
		length:      length,
		chars:       chars,
		maxAttempts: 5000,
		rand:        rand.Reader,
	}
}

// candidate derives one well-formed code from fresh randomness, or "" if the
// filtered output came up short. Random bytes are base64-encoded and filtered
// through the alphabet; drawing 2x the needed bytes keeps short reads rare.
func (g *Generator) candidate() (string, error) {
	buf := make([]byte, g.length*2)
	if _, err := io.ReadFull(g.rand, buf); err != nil {
		return "", err
	}

	token := base64.StdEncoding.EncodeToString(buf)
	var b strings.Builder
	for _, c := range token {
		if strings.ContainsRune(g.chars, c) {
			b.WriteRune(c)
			if b.Len() == g.length {
				return b.String(), nil
			}
		}
	}
	return "", nil
}

// Generate allocates a code not currently in use according to exists.
// Collisions and short candidates are retried with fresh randomness,
// up to the attempt cap.
func (g *Generator) Generate(ctx context.Context, exists ExistsFunc) (string, error) {
	for i := 0; i < g.maxAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		code, err := g.candidate()
		if err != nil {
			return "", err
		}
		if code == "" {
			continue
		}

		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrExhausted
}
