package vaultcrypto

// KeyLength is the AES-256 key size in bytes.
const KeyLength = 32

// prepareKey derives a 32-byte AES-256 key, replicating the legacy
// prepareKey algorithm bit-for-bit so existing ciphertexts keep decrypting:
//
//  1. If hash is non-empty and count > 0, use the hash string directly.
//  2. Otherwise, repeat password until its rune length is >= 32, truncate to
//     exactly 32 runes, then apply lowercase-hex MD5 count times.
//  3. UTF-8 encode the result and zero-pad or truncate to exactly 32 bytes.
func prepareKey(password, hash string, count uint32) [KeyLength]byte {
	var keyString string
	if hash != "" && count > 0 {
		keyString = hash
	} else {
		keyString = deriveKeyFromPassword(password, count)
	}

	var key [KeyLength]byte
	b := []byte(keyString)
	n := len(b)
	if n > KeyLength {
		n = KeyLength
	}
	copy(key[:n], b[:n])
	return key
}

func deriveKeyFromPassword(password string, count uint32) string {
	padded := password
	for len([]rune(padded)) < KeyLength {
		padded += password
	}

	runes := []rune(padded)
	truncated := string(runes[:KeyLength])

	if count == 0 {
		return truncated
	}
	return applyMD5Iterations(truncated, count)
}

func applyMD5Iterations(input string, count uint32) string {
	result := input
	for i := uint32(0); i < count; i++ {
		result = md5Hex(result)
	}
	return result
}

// iosFallbackKey returns a copy of key with its first byte forced to zero,
// recovering ciphertext written by a historical mobile defect. Decrypt-only:
// it must never be used to produce new ciphertext.
func iosFallbackKey(key [KeyLength]byte) [KeyLength]byte {
	key[0] = 0
	return key
}

