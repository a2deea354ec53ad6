package vaultcrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
)

// MD5HexLength is the length in bytes of the lowercase-hex MD5 integrity
// prefix prepended to every plaintext before encryption.
const MD5HexLength = 32

const blockSize = 16

// zeroIV is the fixed, all-zero 16-byte initialization vector. This is a
// documented weakness retained deliberately for on-disk compatibility with
// existing vaults; it must never be parameterized.
var zeroIV = make([]byte, blockSize)

// ErrDecryptionFailed indicates the ciphertext did not decrypt to a plaintext
// whose embedded MD5 prefix matches, even after the iOS-key fallback retry.
var ErrDecryptionFailed = errors.New("decryption failed: integrity check mismatch")

// Encrypt derives a key from password/count/hash, prepends the lowercase-hex
// MD5 of plaintext, and encrypts the envelope with AES-256-CBC/PKCS7 under
// the fixed zero IV. hash is the optional precomputed key-derivation bypass;
// pass "" when not applicable.
func Encrypt(plaintext, password string, count uint32, hash string) ([]byte, error) {
	key := prepareKey(password, hash, count)

	checksum := md5Hex(plaintext)
	full := checksum + plaintext
	data := []byte(full)

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}

	padded := pkcs7Pad(data, blockSize)
	out := make([]byte, len(padded))

	mode := cipher.NewCBCEncrypter(block, zeroIV)
	mode.CryptBlocks(out, padded)

	return out, nil
}

// Decrypt reverses Encrypt. On an integrity mismatch it retries once with the
// iOS-key fallback (first key byte forced to zero) before returning
// ErrDecryptionFailed.
func Decrypt(ciphertext []byte, password string, count uint32, hash string) (string, error) {
	key := prepareKey(password, hash, count)

	if plaintext, err := decryptWithKey(ciphertext, key); err == nil {
		return plaintext, nil
	}

	fallback := iosFallbackKey(key)
	plaintext, err := decryptWithKey(ciphertext, fallback)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return plaintext, nil
}

func decryptWithKey(ciphertext []byte, key [KeyLength]byte) (string, error) {
	if len(ciphertext) == 0 || len(ciphertext)%blockSize != 0 {
		return "", ErrDecryptionFailed
	}

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return "", err
	}

	buf := make([]byte, len(ciphertext))
	mode := cipher.NewCBCDecrypter(block, zeroIV)
	mode.CryptBlocks(buf, ciphertext)

	unpadded, err := pkcs7Unpad(buf, blockSize)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	if len(unpadded) < MD5HexLength {
		return "", ErrDecryptionFailed
	}

	prefix, plaintext := string(unpadded[:MD5HexLength]), string(unpadded[MD5HexLength:])
	if md5Hex(plaintext) != prefix {
		return "", ErrDecryptionFailed
	}

	return plaintext, nil
}

func pkcs7Pad(data []byte, size int) []byte {
	padLen := size - (len(data) % size)
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

func pkcs7Unpad(data []byte, size int) ([]byte, error) {
	n := len(data)
	if n == 0 || n%size != 0 {
		return nil, errors.New("vaultcrypto: invalid padded length")
	}

	padLen := int(data[n-1])
	if padLen == 0 || padLen > size || padLen > n {
		return nil, errors.New("vaultcrypto: invalid padding")
	}

	for _, b := range data[n-padLen:] {
		if int(b) != padLen {
			return nil, errors.New("vaultcrypto: invalid padding")
		}
	}

	return data[:n-padLen], nil
}
