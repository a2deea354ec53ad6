package cli

import (
	"github.com/spf13/cobra"

	"github.com/nsvault/nsvault/internal/output"
	"github.com/nsvault/nsvault/internal/vaultcrypto"
)

// passwordCmd groups password generation and the vault's own master
// password rotation.
var passwordCmd = &cobra.Command{
	Use:     "password",
	Short:   "Generate passwords and change the vault master password",
	Long:    `Generate random or "clever" pattern passwords, and rotate the vault's own master password.`,
	GroupID: "security",
}

var (
	passwordGenLength    int
	passwordGenLower     bool
	passwordGenUpper     bool
	passwordGenDigits    bool
	passwordGenSpecial   bool
	passwordGenClever    bool
	passwordGenCleverPat string
)

var passwordGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a random password",
	Long:  `Generate a random password drawn from the requested character classes, or a memorable "clever" pattern password.`,
	Example: `  nsvault password generate --length 24 --special
  nsvault password generate --clever`,
	RunE: func(_ *cobra.Command, _ []string) error {
		if passwordGenClever {
			pw, err := vaultcrypto.GenerateCleverPassword(passwordGenCleverPat)
			if err != nil {
				return err
			}
			return Formatter().Print(map[string]string{"password": pw})
		}

		opts := vaultcrypto.PasswordOptions{
			Lowercase: passwordGenLower,
			Uppercase: passwordGenUpper,
			Digits:    passwordGenDigits,
			Special:   passwordGenSpecial,
			Length:    passwordGenLength,
		}
		pw, err := vaultcrypto.GeneratePassword(opts)
		if err != nil {
			return err
		}
		return Formatter().Print(map[string]string{"password": pw})
	},
}

var passwordChangeCmd = &cobra.Command{
	Use:   "change",
	Short: "Change the vault master password",
	Long: `Re-encrypt every active item and field under a new master password.
This is a transactional operation: either every row moves to the new
password or none do.`,
	Example: `  nsvault password change`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		w, err := openUnlockedWallet(ctx, walletDir(cmd))
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()

		newPassword, err := promptNewPasswordFn()
		if err != nil {
			return err
		}
		defer vaultcrypto.ZeroBytes(newPassword)

		if err := w.ChangePassword(ctx, string(newPassword)); err != nil {
			return err
		}
		return output.FormatSuccess(Formatter().Writer(), "master password changed", Formatter().Format())
	},
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for flag/command registration
func init() {
	defaults := vaultcrypto.DefaultPasswordOptions()
	passwordGenerateCmd.Flags().IntVar(&passwordGenLength, "length", defaults.Length, "password length")
	passwordGenerateCmd.Flags().BoolVar(&passwordGenLower, "lower", true, "include lowercase letters")
	passwordGenerateCmd.Flags().BoolVar(&passwordGenUpper, "upper", true, "include uppercase letters")
	passwordGenerateCmd.Flags().BoolVar(&passwordGenDigits, "digits", true, "include digits")
	passwordGenerateCmd.Flags().BoolVar(&passwordGenSpecial, "special", false, "include special symbols")
	passwordGenerateCmd.Flags().BoolVar(&passwordGenClever, "clever", false, "generate a memorable pattern password instead")
	passwordGenerateCmd.Flags().StringVar(&passwordGenCleverPat, "pattern", "", "clever-password pattern (empty uses the default)")

	passwordChangeCmd.Flags().String("wallet-dir", "", "override the configured wallet directory")

	passwordCmd.AddCommand(passwordGenerateCmd, passwordChangeCmd)
	rootCmd.AddCommand(passwordCmd)
}
