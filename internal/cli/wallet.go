package cli

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nsvault/nsvault/internal/config"
	"github.com/nsvault/nsvault/internal/fileutil"
	"github.com/nsvault/nsvault/internal/output"
	"github.com/nsvault/nsvault/internal/vault"
	"github.com/nsvault/nsvault/internal/vaultcrypto"
	vaulterrors "github.com/nsvault/nsvault/pkg/errors"
)

// walletDir resolves the directory a wallet lives in, from either the
// --wallet-dir flag or the active configuration's WalletDir.
func walletDir(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("wallet-dir"); dir != "" {
		return dir
	}
	if c := Config(); c != nil {
		return c.WalletDir
	}
	return filepath.Join(".", "wallet")
}

// openWallet opens the wallet at dir without unlocking it.
func openWallet(ctx context.Context, dir string) (*vault.Wallet, error) {
	return vault.Open(ctx, dir)
}

// rememberedPasswordPath returns the path of the optional remembered-password
// file, or "" if no configuration (and so no application home) is active.
func rememberedPasswordPath() string {
	c := Config()
	if c == nil || c.Home == "" || c.RememberKey == "" {
		return ""
	}
	return config.RememberedPasswordPath(c.Home)
}

// rememberedPassword reads and decrypts the remembered master password, if
// one has been saved. A missing file or any decryption failure is treated
// as "no remembered password" rather than an error: the caller falls back
// to prompting.
func rememberedPassword() (string, bool) {
	c := Config()
	path := rememberedPasswordPath()
	if path == "" {
		return "", false
	}
	data, err := os.ReadFile(path) //nolint:gosec // path is derived from trusted config, not user input
	if err != nil {
		return "", false
	}
	password, err := vaultcrypto.DecryptRemembered(data, c.RememberKey)
	if err != nil {
		return "", false
	}
	return password, true
}

// rememberPassword persists password, encrypted under a freshly generated
// remember key, so subsequent CLI invocations can skip the prompt. The key
// is saved into the in-memory config only; callers that want it to survive
// across processes must also persist the config (the create/unlock flows
// here do so via config.Save through the root command's config path).
func rememberPassword(password string) error {
	c := Config()
	if c == nil || c.Home == "" {
		return vaulterrors.New("INVALID_OPERATION", "no active configuration to remember a password under")
	}
	if c.RememberKey == "" {
		key, err := vaultcrypto.GenerateRememberKey()
		if err != nil {
			return err
		}
		c.RememberKey = key
	}
	ciphertext, err := vaultcrypto.EncryptRemembered(password, c.RememberKey)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.Home, 0o750); err != nil {
		return err
	}
	if err := fileutil.WriteAtomic(config.RememberedPasswordPath(c.Home), ciphertext, 0o600); err != nil {
		return err
	}
	return config.Save(c, config.Path(c.Home))
}

// forgetPassword removes any remembered master password.
func forgetPassword() error {
	c := Config()
	if c == nil || c.Home == "" {
		return nil
	}
	if err := os.Remove(config.RememberedPasswordPath(c.Home)); err != nil && !os.IsNotExist(err) {
		return err
	}
	c.RememberKey = ""
	return config.Save(c, config.Path(c.Home))
}

// openUnlockedWallet opens and unlocks the wallet at dir. A remembered
// master password is tried first; if none is saved or it no longer
// unlocks the wallet, the caller is prompted interactively.
func openUnlockedWallet(ctx context.Context, dir string) (*vault.Wallet, error) {
	w, err := openWallet(ctx, dir)
	if err != nil {
		return nil, err
	}

	if remembered, ok := rememberedPassword(); ok {
		unlocked, err := w.Unlock(ctx, remembered)
		vaultcrypto.ZeroBytes([]byte(remembered))
		if err == nil && unlocked {
			return w, nil
		}
	}

	password, err := promptPasswordFn("Master password: ")
	if err != nil {
		_ = w.Close()
		return nil, err
	}
	defer vaultcrypto.ZeroBytes(password)

	ok, err := w.Unlock(ctx, string(password))
	if err != nil {
		_ = w.Close()
		return nil, err
	}
	if !ok {
		_ = w.Close()
		return nil, vaulterrors.ErrInvalidPassword
	}
	return w, nil
}

// walletCmd groups operations on the wallet as a whole: creation and
// summary information. Item, field, and label management live under their
// own top-level commands.
var walletCmd = &cobra.Command{
	Use:     "wallet",
	Short:   "Create and inspect the vault database",
	Long:    `Create a new vault database or inspect the currently configured one.`,
	GroupID: "wallet",
}

var walletCreateLang string

var walletCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new, empty vault database",
	Long: `Create a new vault database at the configured wallet directory,
protected by a master password you will be prompted to set.`,
	Example: `  nsvault wallet create --lang en`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dir := walletDir(cmd)

		password, err := promptNewPasswordFn()
		if err != nil {
			return err
		}
		defer vaultcrypto.ZeroBytes(password)

		ctx := cmd.Context()
		w, err := vault.Create(ctx, dir, string(password), walletCreateLang)
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()

		return Formatter().Print(map[string]string{
			"status": "created",
			"dir":    dir,
		})
	},
}

var walletInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show vault properties and content statistics",
	Long:  `Unlock the vault and display its schema version, language, and item/field counts.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		w, err := openUnlockedWallet(ctx, walletDir(cmd))
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()

		props, err := w.Properties(ctx)
		if err != nil {
			return err
		}
		stats, err := w.Stats(ctx)
		if err != nil {
			return err
		}

		if Formatter().IsJSON() {
			return Formatter().Print(map[string]any{
				"database_id":    props.DatabaseID,
				"language":       props.Lang,
				"version":        props.Version,
				"active_items":   stats.ActiveItems,
				"active_folders": stats.ActiveFolders,
				"active_fields":  stats.ActiveFields,
				"labels":         stats.Labels,
				"custom_labels":  stats.CustomLabels,
				"deleted_items":  stats.DeletedItems,
				"deleted_fields": stats.DeletedFields,
				"file_size":      stats.FileSizeBytes,
			})
		}

		table := output.NewTable("Property", "Value")
		table.AddRow("Database ID", props.DatabaseID)
		table.AddRow("Language", props.Lang)
		table.AddRow("Schema Version", props.Version)
		table.AddRow("Active Items", itoa(stats.ActiveItems))
		table.AddRow("Active Folders", itoa(stats.ActiveFolders))
		table.AddRow("Active Fields", itoa(stats.ActiveFields))
		table.AddRow("Labels (custom)", itoa(stats.Labels)+" ("+itoa(stats.CustomLabels)+")")
		table.AddRow("Deleted Items", itoa(stats.DeletedItems))
		table.AddRow("Deleted Fields", itoa(stats.DeletedFields))
		table.AddRow("File Size (bytes)", itoa(int(stats.FileSizeBytes)))
		return table.Render(Formatter().Writer())
	},
}

var walletCheckPasswordCmd = &cobra.Command{
	Use:   "check-password",
	Short: "Check whether a password unlocks the vault",
	Long:  `Verify a candidate password against the vault without unlocking it for other operations.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		w, err := openWallet(ctx, walletDir(cmd))
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()

		password, err := promptPasswordFn("Password to check: ")
		if err != nil {
			return err
		}
		defer vaultcrypto.ZeroBytes(password)

		ok, err := w.CheckPassword(ctx, string(password))
		if err != nil {
			return err
		}
		return Formatter().Print(map[string]bool{"valid": ok})
	},
}

var walletUnlockRemember bool

var walletUnlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Verify the master password and optionally remember it",
	Long: `Prompt for the master password, confirm it unlocks the vault, and exit.
With --remember, the password is saved locally (encrypted) so later commands
in this CLI skip the prompt until "wallet lock" is run.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		w, err := openWallet(ctx, walletDir(cmd))
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()

		password, err := promptPasswordFn("Master password: ")
		if err != nil {
			return err
		}
		defer vaultcrypto.ZeroBytes(password)

		ok, err := w.Unlock(ctx, string(password))
		if err != nil {
			return err
		}
		if !ok {
			return vaulterrors.ErrInvalidPassword
		}

		if walletUnlockRemember {
			if err := rememberPassword(string(password)); err != nil {
				return err
			}
		}
		return Formatter().Print(map[string]bool{"unlocked": true})
	},
}

var walletLockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Forget any remembered master password",
	Long: `Every CLI invocation opens and closes the vault on its own, so there is no
persistent "unlocked" process state to drop. What "lock" actually undoes is
a previous "wallet unlock --remember": it deletes the locally encrypted
password so subsequent commands prompt again.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := forgetPassword(); err != nil {
			return err
		}
		return Formatter().Print(map[string]bool{"locked": true})
	},
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: "wallet", Title: "Wallet Operations:"},
		&cobra.Group{ID: "security", Title: "Security & Access:"},
		&cobra.Group{ID: "config", Title: "Configuration:"},
	)

	walletCreateCmd.Flags().StringVar(&walletCreateLang, "lang", "en", "vault UI language code")
	walletCmd.PersistentFlags().String("wallet-dir", "", "override the configured wallet directory")
	walletUnlockCmd.Flags().BoolVar(&walletUnlockRemember, "remember", false, "remember the password locally (encrypted) for later commands")

	walletCmd.AddCommand(walletCreateCmd, walletInfoCmd, walletCheckPasswordCmd, walletUnlockCmd, walletLockCmd)
	rootCmd.AddCommand(walletCmd)
}
