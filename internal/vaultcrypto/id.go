package vaultcrypto

import (
	"strings"

	"github.com/google/uuid"
)

// idChars is the opaque alphabet used for item/field/label identifiers.
const idChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// ID length contracts for the three short identifier kinds.
const (
	ItemIDLength  = 8
	FieldIDLength = 4
	LabelIDLength = 4
)

// GenerateID returns a random opaque identifier of the given length drawn
// from the 62-character alphanumeric alphabet.
func GenerateID(length int) (string, error) {
	pool := []rune(idChars)
	return randomString(pool, length)
}

// GenerateItemID returns a fresh 8-character item identifier.
func GenerateItemID() (string, error) { return GenerateID(ItemIDLength) }

// GenerateFieldID returns a fresh 4-character field identifier.
func GenerateFieldID() (string, error) { return GenerateID(FieldIDLength) }

// GenerateLabelID returns a fresh 4-character label identifier.
func GenerateLabelID() (string, error) { return GenerateID(LabelIDLength) }

// GenerateDatabaseID returns a 32-character lowercase-hex database identifier
// derived from a version-4 UUID with its dashes stripped.
func GenerateDatabaseID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
