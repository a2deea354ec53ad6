package cli

import (
	"github.com/spf13/cobra"

	"github.com/nsvault/nsvault/internal/export"
	"github.com/nsvault/nsvault/internal/output"
)

// exportCmd groups export of the vault's contents into renderer-ready
// models. No PDF-rendering library lives in this module's stack; the
// command stops at the ordered model list a renderer would consume next.
var exportCmd = &cobra.Command{
	Use:     "export",
	Short:   "Export the vault's contents as an ordered model list",
	Long:    `Assemble the vault's active items and fields into renderer-ready model lists.`,
	GroupID: "wallet",
}

var exportModelsCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Build the ordered \"password book\" model list",
	Long: `Assemble every non-deleted, non-folder item into a flat, alphabetically
sorted list of entries with their breadcrumb path and active fields, the
same shape a PDF-rendering collaborator would walk to lay out a document.`,
	Example: `  nsvault export pdf`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		w, err := openUnlockedWallet(ctx, walletDir(cmd))
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()

		items, err := w.Items(ctx)
		if err != nil {
			return err
		}
		fields, err := w.Fields(ctx)
		if err != nil {
			return err
		}

		entries := export.BuildEntries(items, fields)
		models := export.ToModels(entries)

		if Formatter().IsJSON() {
			return Formatter().Print(models)
		}

		table := output.NewTable("Type", "Path", "Name")
		for _, m := range models {
			table.AddRow(m.ItemType.String(), m.Path, m.Name)
		}
		return table.Render(Formatter().Writer())
	},
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	exportCmd.PersistentFlags().String("wallet-dir", "", "override the configured wallet directory")
	exportCmd.AddCommand(exportModelsCmd)
	rootCmd.AddCommand(exportCmd)
}
