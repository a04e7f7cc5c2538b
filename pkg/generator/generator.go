// Package generator builds random passwords from a character-class policy and
// scores arbitrary passwords with a simple heuristic.
//
// Characters are drawn uniformly from the policy alphabet using crypto/rand.
// The generator is a convenience for the vault UI; it makes no entropy
// guarantee beyond uniform sampling over the chosen alphabet.
package generator

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Length bounds accepted from callers. Generate itself only rejects lengths <= 0.
const (
	MinLength = 4
	MaxLength = 100
)

// Character sets, concatenated in this order.
const (
	uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowercase = "abcdefghijklmnopqrstuvwxyz"
	digits    = "0123456789"
	symbols   = "!@#$%^&*()_+-=[]{}|;:,.<>?"
	similar   = "il1Lo0O"
)

// ErrInvalidPolicy is returned when a policy cannot produce any password.
var ErrInvalidPolicy = errors.New("invalid generator policy")

// Policy configures password generation
type Policy struct {
	Length         int  `json:"length"`
	Uppercase      bool `json:"uppercase"`
	Lowercase      bool `json:"lowercase"`
	Digits         bool `json:"digits"`
	Symbols        bool `json:"symbols"`
	ExcludeSimilar bool `json:"exclude_similar"`
}

// DefaultPolicy returns the policy the vault UI starts with
func DefaultPolicy() Policy {
	return Policy{
		Length:    16,
		Uppercase: true,
		Lowercase: true,
		Digits:    true,
		Symbols:   true,
	}
}

// Validate checks the caller-facing length bounds.
func (p Policy) Validate() error {
	if p.Length < MinLength || p.Length > MaxLength {
		return fmt.Errorf("%w: length must be between %d and %d", ErrInvalidPolicy, MinLength, MaxLength)
	}
	return nil
}

// Alphabet returns the characters a policy draws from.
func Alphabet(p Policy) string {
	var b strings.Builder
	if p.Uppercase {
		b.WriteString(uppercase)
	}
	if p.Lowercase {
		b.WriteString(lowercase)
	}
	if p.Digits {
		b.WriteString(digits)
	}
	if p.Symbols {
		b.WriteString(symbols)
	}
	chars := b.String()
	if !p.ExcludeSimilar {
		return chars
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(similar, r) {
			return -1
		}
		return r
	}, chars)
}

// Generate creates a random password of exactly p.Length characters.
func Generate(p Policy) (string, error) {
	if p.Length <= 0 {
		return "", fmt.Errorf("%w: length must be positive", ErrInvalidPolicy)
	}
	chars := Alphabet(p)
	if chars == "" {
		return "", fmt.Errorf("%w: no characters available", ErrInvalidPolicy)
	}

	out := make([]byte, p.Length)
	for i := range out {
		idx, err := randomInt(len(chars))
		if err != nil {
			return "", err
		}
		out[i] = chars[idx]
	}
	return string(out), nil
}

// randomInt returns a uniform int in [0, max)
func randomInt(max int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}
