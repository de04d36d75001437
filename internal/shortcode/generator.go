package shortcode

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

const (
	// Alphabet is the base62 symbol set codes are drawn from.
	Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	DefaultLength = 7
	MaxLength     = 32

	// attemptsPerLength candidates are tried at the requested length before
	// moving to length+1.
	attemptsPerLength = 10
	// maxAttempts bounds the whole search so a broken store cannot spin forever.
	maxAttempts = 1000
)

var ErrExhausted = errors.New("no free short code found")

var alphabetSize = big.NewInt(int64(len(Alphabet)))

// ExistenceChecker reports whether a code is already taken.
type ExistenceChecker interface {
	Exists(ctx context.Context, code string) (bool, error)
}

// Generator produces random codes that were free at the time of the check.
// It does not reserve them, the caller still has to persist the code.
type Generator struct {
	checker ExistenceChecker
}

func NewGenerator(checker ExistenceChecker) *Generator {
	return &Generator{checker: checker}
}

// Generate returns a code of the given length (DefaultLength when <= 0). After
// ten collisions it switches to length+1 for the remaining attempts.
func (g *Generator) Generate(ctx context.Context, length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}
	if length > MaxLength {
		length = MaxLength
	}

	current := length
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt == attemptsPerLength && length < MaxLength {
			current = length + 1
		}

		code, err := Random(current)
		if err != nil {
			return "", err
		}

		taken, err := g.checker.Exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check short code availability: %w", err)
		}
		if !taken {
			return code, nil
		}
	}

	return "", fmt.Errorf("%w after %d attempts", ErrExhausted, maxAttempts)
}

// Random draws length symbols uniformly from Alphabet using crypto/rand.
func Random(length int) (string, error) {
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("failed to generate random bytes: %w", err)
		}
		code[i] = Alphabet[n.Int64()]
	}
	return string(code), nil
}

// Valid reports whether code is 1 to MaxLength base62 symbols.
func Valid(code string) bool {
	if len(code) == 0 || len(code) > MaxLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
