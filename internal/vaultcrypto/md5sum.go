package vaultcrypto

import (
	"crypto/md5" //nolint:gosec // legacy integrity prefix, not a security boundary; byte-exact compatibility required
	"encoding/hex"
)

// md5Hex returns the lowercase hex MD5 digest of s, matching the legacy
// checksum format used throughout the on-disk envelope.
func md5Hex(s string) string {
	sum := md5.Sum([]byte(s)) //nolint:gosec // see package comment
	return hex.EncodeToString(sum[:])
}
