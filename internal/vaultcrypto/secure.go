// Package vaultcrypto implements the vault's encryption envelope: key
// derivation, the MD5 integrity prefix, AES-256-CBC encode/decode with the
// legacy zero IV, the iOS-key fallback, and the bulk/pattern password
// generators. Nothing in this package performs I/O.
package vaultcrypto

import (
	"runtime"
	"sync"
)

// SecureBytes wraps a sensitive byte slice with mlock and explicit zeroing
// so a secret's lifetime in process memory is bounded and auditable.
type SecureBytes struct {
	data   []byte
	locked bool
	mu     sync.Mutex
}

// NewSecureBytes allocates a zeroed SecureBytes of the given size.
// Memory locking is attempted but never required to succeed.
func NewSecureBytes(size int) *SecureBytes {
	data := make([]byte, size)

	sb := &SecureBytes{data: data}
	sb.locked = mlock(data)

	runtime.SetFinalizer(sb, func(s *SecureBytes) {
		s.Destroy()
	})

	return sb
}

// SecureBytesFromSlice copies data into a new SecureBytes.
func SecureBytesFromSlice(data []byte) *SecureBytes {
	sb := NewSecureBytes(len(data))
	copy(sb.data, data)
	return sb
}

// Bytes returns the underlying slice, or nil once destroyed.
func (s *SecureBytes) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// IsLocked reports whether the backing memory is mlocked.
func (s *SecureBytes) IsLocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

// Len returns the length of the held data.
func (s *SecureBytes) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Destroy zeros and unlocks the memory. Safe to call more than once.
func (s *SecureBytes) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return
	}

	for i := range s.data {
		s.data[i] = 0
	}

	if s.locked {
		munlock(s.data)
		s.locked = false
	}

	s.data = nil
	runtime.SetFinalizer(s, nil)
}

// ZeroBytes overwrites a plain byte slice in place. Used at call sites that
// hold a password or plaintext as a bare []byte rather than SecureBytes.
func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
