package cli

import (
	"github.com/spf13/cobra"

	"github.com/nsvault/nsvault/internal/config"
	"github.com/nsvault/nsvault/internal/output"
	vaulterrors "github.com/nsvault/nsvault/pkg/errors"
)

// configCmd groups inspection and initialization of the on-disk
// configuration file.
var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Inspect and initialize nsvault configuration",
	GroupID: "config",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active configuration",
	RunE: func(_ *cobra.Command, _ []string) error {
		return Formatter().Print(Config())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file to the home directory",
	RunE: func(cmd *cobra.Command, _ []string) error {
		home := homeDir
		if home == "" {
			home = config.DefaultHome()
		}
		defaults := config.Defaults()
		defaults.Home = home

		if err := config.Save(defaults, config.Path(home)); err != nil {
			return err
		}
		return output.FormatSuccess(cmd.OutOrStdout(), "configuration written to "+config.Path(home), Formatter().Format())
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a single configuration value",
	Long:  `Print one of: home, wallet_dir, backup_dir, language, logging.level, logging.file.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		c := Config()
		var value string
		switch args[0] {
		case "home":
			value = c.GetHome()
		case "wallet_dir":
			value = c.WalletDir
		case "backup_dir":
			value = c.BackupDir
		case "language":
			value = c.Language
		case "logging.level":
			value = c.GetLoggingLevel()
		case "logging.file":
			value = c.GetLoggingFile()
		default:
			return vaulterrors.WithDetails(vaulterrors.ErrInvalidOperation, map[string]string{"key": args[0]})
		}
		return Formatter().Print(map[string]string{args[0]: value})
	},
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	configCmd.AddCommand(configShowCmd, configInitCmd, configGetCmd)
	rootCmd.AddCommand(configCmd)
}
