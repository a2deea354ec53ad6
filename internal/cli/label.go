package cli

import (
	"github.com/spf13/cobra"

	"github.com/nsvault/nsvault/internal/output"
	vaulterrors "github.com/nsvault/nsvault/pkg/errors"
)

// labelCmd groups management of the field-type label catalog.
var labelCmd = &cobra.Command{
	Use:     "label",
	Short:   "Manage the field-type label catalog",
	Long:    `List, add, and delete the field-type labels fields are typed with.`,
	GroupID: "wallet",
}

var labelListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List every label, system and custom",
	Long:    `List every field-type label, including its usage count across active fields.`,
	Example: `  nsvault label list`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		w, err := openWallet(ctx, walletDir(cmd))
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()

		labels, err := w.ListLabels(ctx)
		if err != nil {
			return err
		}

		if Formatter().IsJSON() {
			return Formatter().Print(labels)
		}

		table := output.NewTable("Type", "Name", "Value Type", "System", "Usage")
		for _, l := range labels {
			system := "no"
			if l.System {
				system = "yes"
			}
			table.AddRow(l.FieldType, l.Name, l.ValueType, system, itoa(l.Usage))
		}
		return table.Render(Formatter().Writer())
	},
}

var (
	labelAddValueType string
	labelAddIcon      string
)

var labelAddCmd = &cobra.Command{
	Use:     "add <field-type> <name>",
	Short:   "Register a custom label",
	Long:    `Register a custom field-type label, usable on fields the way the built-in system labels are.`,
	Example: `  nsvault label add CRYPTO "Crypto Wallet Seed" --value-type text`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		w, err := openWallet(ctx, walletDir(cmd))
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()

		if err := w.AddLabel(ctx, args[0], args[1], labelAddValueType, labelAddIcon); err != nil {
			return err
		}
		return output.FormatSuccess(Formatter().Writer(), "label added", Formatter().Format())
	},
}

var labelDeleteCmd = &cobra.Command{
	Use:   "delete <field-type>",
	Short: "Remove a custom label, if unused",
	Long:    `Soft-delete a label. Fails with the in-use count if any active field still uses it.`,
	Example: `  nsvault label delete CRYPTO`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		w, err := openWallet(ctx, walletDir(cmd))
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()

		usage, err := w.DeleteLabel(ctx, args[0])
		if err != nil {
			return err
		}
		if usage != 0 {
			return vaulterrors.WithDetails(vaulterrors.ErrInvalidOperation, map[string]string{
				"field_type": args[0],
				"usage":      itoa(usage),
			})
		}
		return output.FormatSuccess(Formatter().Writer(), "label deleted", Formatter().Format())
	},
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for flag/command registration
func init() {
	labelAddCmd.Flags().StringVar(&labelAddValueType, "value-type", "text", "value type hint (text, password, url, date, ...)")
	labelAddCmd.Flags().StringVar(&labelAddIcon, "icon", "", "icon tag for the label")

	labelCmd.PersistentFlags().String("wallet-dir", "", "override the configured wallet directory")
	labelCmd.AddCommand(labelListCmd, labelAddCmd, labelDeleteCmd)
	rootCmd.AddCommand(labelCmd)
}
