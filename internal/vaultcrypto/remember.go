package vaultcrypto

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"filippo.io/age"
)

// rememberWorkFactor is deliberately low relative to age's own default
// (18): the passphrase protecting a remembered master password is a
// high-entropy, machine-generated value, not something an attacker can
// feasibly brute force, so the extra scrypt cost buys nothing and only
// slows down every CLI invocation that reads it back.
const rememberWorkFactor = 12

// GenerateRememberKey returns a fresh, high-entropy passphrase suitable for
// protecting a remembered master password at rest. It is stored in the
// application config file and never transmitted anywhere.
func GenerateRememberKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating remember key: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// EncryptRemembered encrypts a master password under key using age's
// scrypt-based password recipient, producing the bytes written to the
// remembered-password file. This is a distinct use from the vault's own
// AES-CBC envelope (§4.1): the envelope's byte-exact format is an on-disk
// compatibility contract, while this file is purely local convenience
// state the application owns end to end.
func EncryptRemembered(password, key string) ([]byte, error) {
	recipient, err := age.NewScryptRecipient(key)
	if err != nil {
		return nil, fmt.Errorf("creating remember recipient: %w", err)
	}
	recipient.SetWorkFactor(rememberWorkFactor)

	buf := &bytes.Buffer{}
	w, err := age.Encrypt(buf, recipient)
	if err != nil {
		return nil, fmt.Errorf("initializing remember encryption: %w", err)
	}
	if _, err := w.Write([]byte(password)); err != nil {
		return nil, fmt.Errorf("writing remembered password: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing remember encryption: %w", err)
	}
	return buf.Bytes(), nil
}

// DecryptRemembered reverses EncryptRemembered.
func DecryptRemembered(ciphertext []byte, key string) (string, error) {
	identity, err := age.NewScryptIdentity(key)
	if err != nil {
		return "", fmt.Errorf("creating remember identity: %w", err)
	}
	identity.SetMaxWorkFactor(rememberWorkFactor)

	r, err := age.Decrypt(bytes.NewReader(ciphertext), identity)
	if err != nil {
		return "", fmt.Errorf("decrypting remembered password: %w", err)
	}
	plaintext, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading remembered password: %w", err)
	}
	return string(plaintext), nil
}
