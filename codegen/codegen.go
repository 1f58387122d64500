// Package codegen mints the random short codes that registry records are
// keyed by. Generators should be safe for concurrent use.
package codegen

import (
	"crypto/rand"
	"errors"
	"fmt"
)

const (
	// Alphabet is the 62-character set short codes are drawn from.
	Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// maxUsableByte is the largest multiple of len(Alphabet) that fits in a
	// byte; values at or above it are discarded to keep selection uniform.
	maxUsableByte = 248
)

// ErrRandomSource reports that the system entropy source could not be read.
// Codes double as unguessable access tokens, so there is no weaker fallback.
var ErrRandomSource = errors.New("random source unavailable")

// Generator produces candidate short codes. It does not check uniqueness;
// collision handling belongs to the caller.
// Implementations should be safe for concurrent use.
type Generator interface {
	Generate(length int) (string, error)
}

// alphanumericGenerator implements Generator over the base62 alphabet using
// crypto/rand. It is stateless and safe for concurrent use.
type alphanumericGenerator struct{}

var _ Generator = (*alphanumericGenerator)(nil)

// NewAlphanumeric returns a generator drawing uniformly from Alphabet.
func NewAlphanumeric() Generator {
	return &alphanumericGenerator{}
}

// Generate returns a random code of the given length. Every position is an
// independent uniform draw from Alphabet.
func (g *alphanumericGenerator) Generate(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("length must be positive")
	}

	code := make([]byte, 0, length)
	buf := make([]byte, length)

	for len(code) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("%w: %v", ErrRandomSource, err)
		}

		for _, b := range buf {
			if b >= maxUsableByte {
				continue
			}
			code = append(code, Alphabet[int(b)%len(Alphabet)])
			if len(code) == length {
				break
			}
		}
	}

	return string(code), nil
}
