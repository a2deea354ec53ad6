package vaultcrypto_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsvault/nsvault/internal/vaultcrypto"
)

func TestEncrypt_RegressionVector(t *testing.T) {
	t.Parallel()

	want, err := hex.DecodeString(
		"03ded58a00cf2215766b575dbedbf2d2" +
			"0f84ec9b684159b3056f7545e71be49d" +
			"1defa5b29dcd4a06a118a8a691291300",
	)
	require.NoError(t, err)

	got, err := vaultcrypto.Encrypt("Test Item", "Sun001!", 0, "")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Len(t, got, 48)
}

func TestEncrypt_BlockAlignedPlaintextAppendsFullPaddingBlock(t *testing.T) {
	t.Parallel()

	ciphertext, err := vaultcrypto.Encrypt("ABCDEFGHIJKLMNOP", "TestVector2025!", 0, "")
	require.NoError(t, err)
	assert.Len(t, ciphertext, 64)
}

func TestRoundTrip_VariousLengthsAndScripts(t *testing.T) {
	t.Parallel()

	plaintexts := []string{
		"",
		"a",
		"Test Item",
		"Пароль от почты",
		"パスワード",
		"symbols !@#$%^&*()_+-={}[]",
	}

	for _, pt := range plaintexts {
		ciphertext, err := vaultcrypto.Encrypt(pt, "correct horse battery staple", 0, "")
		require.NoError(t, err)

		got, err := vaultcrypto.Decrypt(ciphertext, "correct horse battery staple", 0, "")
		require.NoError(t, err)
		assert.Equal(t, pt, got)
	}
}

func TestDecrypt_WrongPasswordFails(t *testing.T) {
	t.Parallel()

	ciphertext, err := vaultcrypto.Encrypt("secret value", "right-password", 0, "")
	require.NoError(t, err)

	_, err = vaultcrypto.Decrypt(ciphertext, "wrong-password", 0, "")
	assert.ErrorIs(t, err, vaultcrypto.ErrDecryptionFailed)
}

func TestDecrypt_WithIterationCount(t *testing.T) {
	t.Parallel()

	ciphertext, err := vaultcrypto.Encrypt("iterated key material", "MyWallet#99", 200, "")
	require.NoError(t, err)

	got, err := vaultcrypto.Decrypt(ciphertext, "MyWallet#99", 200, "")
	require.NoError(t, err)
	assert.Equal(t, "iterated key material", got)
}
