package cli

import (
	"github.com/spf13/cobra"

	"github.com/nsvault/nsvault/internal/output"
)

// fieldCmd groups field (label/value pair) management within an item.
var fieldCmd = &cobra.Command{
	Use:     "field",
	Short:   "Manage the fields attached to a vault item",
	Long:    `Add, update, delete, and undelete the typed fields attached to a vault item.`,
	GroupID: "wallet",
}

var fieldAddCmd = &cobra.Command{
	Use:   "add <item-id> <field-type> <value>",
	Short: "Add a field to an item",
	Long:  `Add a field of the given label type (for example PASS, USER, URL) to an item.`,
	Args:  cobra.ExactArgs(3),
	Example: `  nsvault field add <item-id> USER "jane@example.com"
  nsvault field add <item-id> PASS "correct horse battery staple"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		w, err := openUnlockedWallet(ctx, walletDir(cmd))
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()

		id, err := w.AddField(ctx, args[0], args[1], args[2], nil)
		if err != nil {
			return err
		}
		return Formatter().Print(map[string]string{"field_id": id})
	},
}

var fieldUpdateCmd = &cobra.Command{
	Use:   "update <item-id> <field-id> <new-value>",
	Short: "Update a field's value",
	Long: `Update a field's value. This versions the field: the old ciphertext moves to
the deleted pool under a fresh id rather than being overwritten in place.`,
	Example: `  nsvault field update <item-id> <field-id> "new-password"`,
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		w, err := openUnlockedWallet(ctx, walletDir(cmd))
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()

		newID, err := w.UpdateField(ctx, args[0], args[1], args[2], nil)
		if err != nil {
			return err
		}
		return Formatter().Print(map[string]string{"field_id": newID})
	},
}

var fieldDeleteCmd = &cobra.Command{
	Use:     "delete <item-id> <field-id>",
	Short:   "Soft-delete a field",
	Long:    `Soft-delete a field. It can be restored later with "field undelete".`,
	Example: `  nsvault field delete <item-id> <field-id>`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		w, err := openUnlockedWallet(ctx, walletDir(cmd))
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()

		if err := w.DeleteField(ctx, args[0], args[1]); err != nil {
			return err
		}
		return output.FormatSuccess(Formatter().Writer(), "field deleted", Formatter().Format())
	},
}

var fieldUndeleteCmd = &cobra.Command{
	Use:     "undelete <item-id> <field-id>",
	Short:   "Restore a soft-deleted field",
	Long:    `Restore a soft-deleted field so it is active again.`,
	Example: `  nsvault field undelete <item-id> <field-id>`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		w, err := openUnlockedWallet(ctx, walletDir(cmd))
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()

		if err := w.UndeleteField(ctx, args[0], args[1]); err != nil {
			return err
		}
		return output.FormatSuccess(Formatter().Writer(), "field restored", Formatter().Format())
	},
}

var fieldListCmd = &cobra.Command{
	Use:     "list <item-id>",
	Short:   "List the active fields of an item",
	Long:    `List the active, decrypted fields attached to an item.`,
	Example: `  nsvault field list <item-id>`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		w, err := openUnlockedWallet(ctx, walletDir(cmd))
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()

		fields, err := w.FieldsForItem(ctx, args[0])
		if err != nil {
			return err
		}

		if Formatter().IsJSON() {
			return Formatter().Print(fields)
		}

		table := output.NewTable("ID", "Label", "Value", "Expired")
		for _, f := range fields {
			expired := ""
			if f.Expired {
				expired = "yes"
			} else if f.Expiring {
				expired = "soon"
			}
			table.AddRow(f.FieldID, f.Label, f.Value, expired)
		}
		return table.Render(Formatter().Writer())
	},
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	fieldCmd.PersistentFlags().String("wallet-dir", "", "override the configured wallet directory")
	fieldCmd.AddCommand(fieldAddCmd, fieldUpdateCmd, fieldDeleteCmd, fieldUndeleteCmd, fieldListCmd)
	rootCmd.AddCommand(fieldCmd)
}
