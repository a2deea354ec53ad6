// Package errors provides the structured error taxonomy for the vault core.
// It defines sentinel errors, CLI exit codes, and helpers for adding
// context, details, and suggestions to an error without discarding its kind
// or cause chain.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"sort"
)

// Exit codes returned by the CLI collaborator.
const (
	ExitSuccess    = 0
	ExitGeneral    = 1
	ExitInput      = 2
	ExitAuth       = 3
	ExitNotFound   = 4
	ExitPermission = 5
)

// VaultError is the structured error type for the vault core. One type
// carries every taxonomy kind via its Code field rather than eleven
// distinct Go error types.
type VaultError struct {
	Code       string            // Machine-readable error kind, e.g. "LOCKED"
	Message    string            // Human-readable message
	Details    map[string]string // Additional structured context
	Suggestion string            // Actionable suggestion for the CLI to surface
	Cause      error             // Underlying error, if any
	ExitCode   int               // Exit code for the CLI collaborator
}

func (e *VaultError) Error() string {
	msg := e.Message

	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap exposes the underlying cause to errors.Is/errors.As.
func (e *VaultError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is by comparing taxonomy codes.
func (e *VaultError) Is(target error) bool {
	var t *VaultError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors, one per taxonomy kind.
var (
	ErrDatabaseNotFound = &VaultError{
		Code:     "DATABASE_NOT_FOUND",
		Message:  "wallet database not found",
		ExitCode: ExitNotFound,
	}

	ErrInvalidPassword = &VaultError{
		Code:     "INVALID_PASSWORD",
		Message:  "invalid password",
		ExitCode: ExitAuth,
	}

	ErrLocked = &VaultError{
		Code:     "LOCKED",
		Message:  "wallet is locked",
		ExitCode: ExitAuth,
	}

	ErrEncryption = &VaultError{
		Code:     "ENCRYPTION_ERROR",
		Message:  "encryption failed",
		ExitCode: ExitGeneral,
	}

	ErrDecryption = &VaultError{
		Code:     "DECRYPTION_ERROR",
		Message:  "decryption failed",
		ExitCode: ExitAuth,
	}

	ErrDatabase = &VaultError{
		Code:     "DATABASE_ERROR",
		Message:  "database operation failed",
		ExitCode: ExitGeneral,
	}

	ErrBackup = &VaultError{
		Code:     "BACKUP_ERROR",
		Message:  "backup operation failed",
		ExitCode: ExitGeneral,
	}

	ErrItemNotFound = &VaultError{
		Code:     "ITEM_NOT_FOUND",
		Message:  "item not found",
		ExitCode: ExitNotFound,
	}

	ErrFieldNotFound = &VaultError{
		Code:     "FIELD_NOT_FOUND",
		Message:  "field not found",
		ExitCode: ExitNotFound,
	}

	ErrLabelNotFound = &VaultError{
		Code:     "LABEL_NOT_FOUND",
		Message:  "label not found",
		ExitCode: ExitNotFound,
	}

	ErrInvalidVersion = &VaultError{
		Code:     "INVALID_VERSION",
		Message:  "incompatible database version",
		ExitCode: ExitInput,
	}

	ErrInvalidOperation = &VaultError{
		Code:     "INVALID_OPERATION",
		Message:  "invalid operation",
		ExitCode: ExitInput,
	}

	ErrIO = &VaultError{
		Code:     "IO_ERROR",
		Message:  "I/O error",
		ExitCode: ExitGeneral,
	}

	ErrLocalization = &VaultError{
		Code:     "LOCALIZATION_ERROR",
		Message:  "localization error",
		ExitCode: ExitGeneral,
	}
)

// New creates a VaultError with the given code and message.
func New(code, message string) *VaultError {
	return &VaultError{Code: code, Message: message, ExitCode: ExitGeneral}
}

// Wrap attaches additional context to err while preserving its taxonomy code,
// details, suggestion, and exit code when err is (or wraps) a *VaultError.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)

	var ve *VaultError
	if errors.As(err, &ve) {
		return &VaultError{
			Code:       ve.Code,
			Message:    fmt.Sprintf("%s: %s", msg, ve.Message),
			Details:    ve.Details,
			Suggestion: ve.Suggestion,
			Cause:      err,
			ExitCode:   ve.ExitCode,
		}
	}

	return &VaultError{Code: "GENERAL_ERROR", Message: msg, Cause: err, ExitCode: ExitGeneral}
}

// WithDetails attaches structured context to an error.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}

	var ve *VaultError
	if errors.As(err, &ve) {
		return &VaultError{
			Code:       ve.Code,
			Message:    ve.Message,
			Details:    details,
			Suggestion: ve.Suggestion,
			Cause:      ve.Cause,
			ExitCode:   ve.ExitCode,
		}
	}

	return &VaultError{Code: "GENERAL_ERROR", Message: err.Error(), Details: details, Cause: err, ExitCode: ExitGeneral}
}

// WithSuggestion attaches an actionable suggestion to an error.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}

	var ve *VaultError
	if errors.As(err, &ve) {
		return &VaultError{
			Code:       ve.Code,
			Message:    ve.Message,
			Details:    ve.Details,
			Suggestion: suggestion,
			Cause:      ve.Cause,
			ExitCode:   ve.ExitCode,
		}
	}

	return &VaultError{Code: "GENERAL_ERROR", Message: err.Error(), Suggestion: suggestion, Cause: err, ExitCode: ExitGeneral}
}

// ExitCode returns the CLI exit code associated with err.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ve *VaultError
	if errors.As(err, &ve) {
		return ve.ExitCode
	}
	return ExitGeneral
}

// Code returns the taxonomy code associated with err.
func Code(err error) string {
	var ve *VaultError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return "GENERAL_ERROR"
}

// Is wraps errors.Is for convenience at call sites that already import this
// package for VaultError construction.
func Is(err, target error) bool { return errors.Is(err, target) }

// As wraps errors.As for convenience.
func As(err error, target any) bool { return errors.As(err, target) }
