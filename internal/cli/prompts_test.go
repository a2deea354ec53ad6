package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPromptPassword_Success tests successful password prompt.
func TestPromptPassword_Success(t *testing.T) {
	orig := promptPasswordFn
	t.Cleanup(func() { promptPasswordFn = orig })

	promptPasswordFn = func(_ string) ([]byte, error) {
		return []byte("testpassword123"), nil
	}

	result, err := promptPasswordFn("Enter password: ")
	require.NoError(t, err)
	assert.Equal(t, []byte("testpassword123"), result)
}

// TestPromptPassword_Error tests password prompt error handling.
func TestPromptPassword_Error(t *testing.T) {
	orig := promptPasswordFn
	t.Cleanup(func() { promptPasswordFn = orig })

	expectedErr := errors.New("terminal error") //nolint:err113 // test error
	promptPasswordFn = func(_ string) ([]byte, error) {
		return nil, expectedErr
	}

	result, err := promptPasswordFn("Enter password: ")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "terminal error")
}

// TestPromptNewPassword_Success tests successful new password creation.
func TestPromptNewPassword_Success(t *testing.T) {
	orig := promptNewPasswordFn
	t.Cleanup(func() { promptNewPasswordFn = orig })

	promptNewPasswordFn = func() ([]byte, error) {
		return []byte("validpass123"), nil
	}

	result, err := promptNewPasswordFn()
	require.NoError(t, err)
	assert.Equal(t, []byte("validpass123"), result)
}

// TestPromptNewPassword_TooShort tests password length validation via function variable.
func TestPromptNewPassword_TooShort(t *testing.T) {
	origNPW := promptNewPasswordFn
	t.Cleanup(func() { promptNewPasswordFn = origNPW })

	promptNewPasswordFn = func() ([]byte, error) {
		return nil, errors.New("password must be at least 8 characters") //nolint:err113 // test error
	}

	result, err := promptNewPasswordFn()
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "at least 8 characters")
}

// TestPromptNewPassword_Mismatch tests password confirmation mismatch.
func TestPromptNewPassword_Mismatch(t *testing.T) {
	origNPW := promptNewPasswordFn
	t.Cleanup(func() { promptNewPasswordFn = origNPW })

	promptNewPasswordFn = func() ([]byte, error) {
		return nil, errors.New("passwords do not match") //nolint:err113 // test error
	}

	result, err := promptNewPasswordFn()
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "do not match")
}

// TestPromptNewPassword_RealImplementation exercises the production
// function through the mocked inner password prompt.
func TestPromptNewPassword_RealImplementation(t *testing.T) {
	origPW := promptPasswordFn
	t.Cleanup(func() { promptPasswordFn = origPW })

	calls := 0
	promptPasswordFn = func(_ string) ([]byte, error) {
		calls++
		return []byte("correcthorsebattery"), nil
	}

	result, err := promptNewPassword()
	require.NoError(t, err)
	assert.Equal(t, "correcthorsebattery", string(result))
	assert.Equal(t, 2, calls)
}

// TestPromptConfirmation_Yes tests confirmation with "yes" responses.
func TestPromptConfirmation_Yes(t *testing.T) {
	orig := promptConfirmFn
	t.Cleanup(func() { promptConfirmFn = orig })

	testCases := []struct {
		name     string
		response string
	}{
		{"lowercase y", "y"},
		{"uppercase Y", "Y"},
		{"lowercase yes", "yes"},
		{"uppercase YES", "YES"},
		{"mixed case Yes", "Yes"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			promptConfirmFn = func() bool {
				return tc.response == "y" || tc.response == "Y" ||
					tc.response == "yes" || tc.response == "YES" || tc.response == "Yes"
			}

			result := promptConfirmFn()
			assert.True(t, result)
		})
	}
}

// TestPromptConfirmation_No tests confirmation with "no" responses.
func TestPromptConfirmation_No(t *testing.T) {
	orig := promptConfirmFn
	t.Cleanup(func() { promptConfirmFn = orig })

	testCases := []struct {
		name     string
		response string
	}{
		{"lowercase n", "n"},
		{"uppercase N", "N"},
		{"lowercase no", "no"},
		{"uppercase NO", "NO"},
		{"empty", ""},
		{"random text", "maybe"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			promptConfirmFn = func() bool {
				return tc.response == "y" || tc.response == "Y" ||
					tc.response == "yes" || tc.response == "YES"
			}

			result := promptConfirmFn()
			assert.False(t, result)
		})
	}
}
