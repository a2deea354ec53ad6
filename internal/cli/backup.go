package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nsvault/nsvault/internal/backup"
	"github.com/nsvault/nsvault/internal/output"
	"github.com/nsvault/nsvault/internal/vault"
)

// backupCmd groups backup snapshot, listing, verification, restore, and
// retention cleanup.
var backupCmd = &cobra.Command{
	Use:     "backup",
	Short:   "Create, inspect, and restore vault backups",
	Long:    `Create, list, verify, restore, and prune ZIP-archived snapshots of the vault database.`,
	GroupID: "security",
}

// backupDir resolves the directory backups are written to and read from.
func backupDir(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("backup-dir"); dir != "" {
		return dir
	}
	if c := Config(); c != nil {
		return c.BackupDir
	}
	return filepath.Join(".", "backups")
}

var backupCreateManual bool

var backupCreateCmd = &cobra.Command{
	Use:     "create",
	Short:   "Snapshot the vault database into the backup directory",
	Long:    `Write a ZIP-archived snapshot of the vault database into the backup directory.`,
	Example: `  nsvault backup create --manual`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dbPath := filepath.Join(walletDir(cmd), vault.DatabaseFileName)
		kind := backup.KindAuto
		if backupCreateManual {
			kind = backup.KindManual
		}

		path, err := backup.SnapshotFile(dbPath, backupDir(cmd), kind)
		if err != nil {
			return err
		}
		return Formatter().Print(map[string]string{"backup": path})
	},
}

var backupListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List backups, newest first",
	Long:    `List the backup archives present in the backup directory, newest first.`,
	Example: `  nsvault backup list`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		infos, err := backup.List(backupDir(cmd))
		if err != nil {
			return err
		}

		if Formatter().IsJSON() {
			return Formatter().Print(infos)
		}

		table := output.NewTable("Path", "Kind", "Created")
		for _, info := range infos {
			table.AddRow(info.Path, string(info.Kind), info.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return table.Render(Formatter().Writer())
	},
}

var backupVerifyCmd = &cobra.Command{
	Use:     "verify <path>",
	Short:   "Verify a backup archive's integrity",
	Long:    `Verify that a backup archive is well-formed and holds a readable database.`,
	Example: `  nsvault backup verify ./backups/nswallet-20260101-120000.zip`,
	Args:    cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if err := backup.Verify(args[0]); err != nil {
			return err
		}
		return output.FormatSuccess(Formatter().Writer(), "backup is valid", Formatter().Format())
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <path>",
	Short: "Restore a backup archive over the configured wallet",
	Long:    `Overwrite the configured wallet directory's database with the archived copy at path.`,
	Example: `  nsvault backup restore ./backups/nswallet-20260101-120000.zip`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := backup.Verify(args[0]); err != nil {
			return err
		}
		if !promptConfirmFn() {
			return output.FormatSuccess(Formatter().Writer(), "cancelled", Formatter().Format())
		}
		if err := backup.Extract(args[0], walletDir(cmd)); err != nil {
			return err
		}
		return output.FormatSuccess(Formatter().Writer(), "backup restored", Formatter().Format())
	},
}

var (
	backupCleanupKeep       int
	backupCleanupMaxAgeDays int
)

var backupCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Prune old automatic backups",
	Long:    `Keep the newest auto backups and remove the rest past the configured retention age. Manual and imported backups are never touched.`,
	Example: `  nsvault backup cleanup --keep 5 --max-age-days 30`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		keep := backupCleanupKeep
		maxAge := backupCleanupMaxAgeDays
		if c := Config(); c != nil {
			if !cmd.Flags().Changed("keep") {
				keep = c.Retention.MinKeep
			}
			if !cmd.Flags().Changed("max-age-days") {
				maxAge = c.Retention.MaxAgeDays
			}
		}

		removed, err := backup.CleanupAutoBackups(backupDir(cmd), keep, maxAge)
		if err != nil {
			return err
		}
		return Formatter().Print(map[string]int{"removed": removed})
	},
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for flag/command registration
func init() {
	backupCreateCmd.Flags().BoolVar(&backupCreateManual, "manual", false, "mark this snapshot as manual (exempt from auto-cleanup)")
	backupCleanupCmd.Flags().IntVar(&backupCleanupKeep, "keep", 5, "minimum number of auto backups to keep")
	backupCleanupCmd.Flags().IntVar(&backupCleanupMaxAgeDays, "max-age-days", 30, "remove auto backups older than this many days, beyond the minimum kept")

	backupCmd.PersistentFlags().String("wallet-dir", "", "override the configured wallet directory")
	backupCmd.PersistentFlags().String("backup-dir", "", "override the configured backup directory")
	backupCmd.AddCommand(backupCreateCmd, backupListCmd, backupVerifyCmd, backupRestoreCmd, backupCleanupCmd)
	rootCmd.AddCommand(backupCmd)
}
