package vaultcrypto

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// Character pools for password generation. These exact alphabets are a
// contract, not a style choice: existing vault exports embed passwords
// generated from them.
const (
	lowerLetters   = "qwertyuiopasdfghjklzxcvbnm"
	upperLetters   = "QWERTYUIOPASDFGHJKLZXCVBNM"
	digitChars     = "1234567890"
	specialSymbols = "!@#$%^&*()_+-={}[];:|,.<>?~"
)

// PasswordMinLength and PasswordMaxLength bound the generator's length input.
const (
	PasswordMinLength = 3
	PasswordMaxLength = 32
)

// PasswordOptions configures bulk password generation.
type PasswordOptions struct {
	Lowercase bool
	Uppercase bool
	Digits    bool
	Special   bool
	Length    int
}

// DefaultPasswordOptions mirrors the legacy default: 16 characters drawn from
// lowercase, uppercase, and digits.
func DefaultPasswordOptions() PasswordOptions {
	return PasswordOptions{
		Lowercase: true,
		Uppercase: true,
		Digits:    true,
		Length:    16,
	}
}

// GeneratePassword draws length characters from a weighted pool: letter
// classes are tripled and digits doubled relative to symbols, biasing toward
// readable output. An empty inclusion set falls back to lowercase only.
func GeneratePassword(opts PasswordOptions) (string, error) {
	var pool strings.Builder

	if opts.Lowercase {
		pool.WriteString(lowerLetters)
		pool.WriteString(lowerLetters)
		pool.WriteString(lowerLetters)
	}
	if opts.Uppercase {
		pool.WriteString(upperLetters)
		pool.WriteString(upperLetters)
		pool.WriteString(upperLetters)
	}
	if opts.Digits {
		pool.WriteString(digitChars)
		pool.WriteString(digitChars)
	}
	if opts.Special {
		pool.WriteString(specialSymbols)
	}

	if pool.Len() == 0 {
		pool.WriteString(lowerLetters)
	}

	chars := []rune(pool.String())
	return randomString(chars, opts.Length)
}

// GenerateCleverPassword replaces each character of pattern with a random
// character of the same class (lowercase, uppercase, digit, symbol);
// characters outside all four classes draw from the full combined pool.
func GenerateCleverPassword(pattern string) (string, error) {
	allChars := []rune(lowerLetters + upperLetters + digitChars + specialSymbols)
	lowerRunes := []rune(lowerLetters)
	upperRunes := []rune(upperLetters)
	digitRunes := []rune(digitChars)
	specialRunes := []rune(specialSymbols)

	var out strings.Builder
	for _, ch := range pattern {
		var pool []rune
		switch {
		case strings.ContainsRune(lowerLetters, ch):
			pool = lowerRunes
		case strings.ContainsRune(upperLetters, ch):
			pool = upperRunes
		case strings.ContainsRune(digitChars, ch):
			pool = digitRunes
		case strings.ContainsRune(specialSymbols, ch):
			pool = specialRunes
		default:
			pool = allChars
		}

		r, err := randomRune(pool)
		if err != nil {
			return "", err
		}
		out.WriteRune(r)
	}

	return out.String(), nil
}

func randomString(pool []rune, length int) (string, error) {
	out := make([]rune, length)
	for i := range out {
		r, err := randomRune(pool)
		if err != nil {
			return "", err
		}
		out[i] = r
	}
	return string(out), nil
}

func randomRune(pool []rune) (rune, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(pool))))
	if err != nil {
		return 0, err
	}
	return pool[n.Int64()], nil
}
