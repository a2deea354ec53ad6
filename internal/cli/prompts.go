package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/nsvault/nsvault/internal/vaultcrypto"
	vaulterrors "github.com/nsvault/nsvault/pkg/errors"
)

// out is a helper for CLI output that ignores write errors (standard pattern for CLI tools).
//
//nolint:errcheck // CLI output writes to stdout are intentionally unchecked
func out(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format, args...)
}

// outln is a helper for CLI output with newline.
//
//nolint:errcheck // CLI output writes to stdout are intentionally unchecked
func outln(w io.Writer, args ...interface{}) {
	fmt.Fprintln(w, args...)
}

// promptPasswordFn, promptNewPasswordFn, and promptConfirmFn are
// package-level indirections over the terminal-reading implementations
// below, swapped out in tests.
//
//nolint:gochecknoglobals // swappable for testing
var (
	promptPasswordFn    = promptPassword
	promptNewPasswordFn = promptNewPassword
	promptConfirmFn     = promptConfirmation
)

// promptPassword prompts for a password with hidden input.
// The caller is responsible for zeroing the returned bytes after use.
func promptPassword(prompt string) ([]byte, error) {
	out(os.Stderr, "%s", prompt)

	password, err := term.ReadPassword(syscall.Stdin)
	outln(os.Stderr) // Add newline after hidden input

	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}

	return password, nil
}

// promptNewPassword prompts for a new master password with confirmation.
// The caller is responsible for zeroing the returned bytes after use.
func promptNewPassword() ([]byte, error) {
	password, err := promptPasswordFn("Enter master password: ")
	if err != nil {
		return nil, err
	}

	if len(password) < 8 {
		vaultcrypto.ZeroBytes(password)
		return nil, vaulterrors.WithSuggestion(
			vaulterrors.ErrInvalidOperation,
			"password must be at least 8 characters",
		)
	}

	confirm, err := promptPasswordFn("Confirm password: ")
	if err != nil {
		vaultcrypto.ZeroBytes(password)
		return nil, err
	}
	defer vaultcrypto.ZeroBytes(confirm)

	if string(password) != string(confirm) {
		vaultcrypto.ZeroBytes(password)
		return nil, vaulterrors.WithSuggestion(
			vaulterrors.ErrInvalidOperation,
			"passwords do not match",
		)
	}

	return password, nil
}

// promptConfirmation asks the user to confirm a destructive action.
func promptConfirmation() bool {
	out(os.Stderr, "Are you sure? [y/N]: ")

	var response string
	_, err := fmt.Scanln(&response)
	if err != nil {
		return false
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
