package cli

import (
	"github.com/spf13/cobra"

	"github.com/nsvault/nsvault/internal/output"
	"github.com/nsvault/nsvault/internal/vault"
)

// searchCmd is a leaf command: it matches item names and field values.
var searchCmd = &cobra.Command{
	Use:     "search <query>",
	Short:   "Search item names and field values",
	Long:    `Search non-root item names and active field values, with a Levenshtein fuzzy fallback for near misses.`,
	Example: `  nsvault search banking`,
	Args:    cobra.ExactArgs(1),
	GroupID: "wallet",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		w, err := openUnlockedWallet(ctx, walletDir(cmd))
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()

		results, err := w.Search(ctx, args[0])
		if err != nil {
			return err
		}

		if Formatter().IsJSON() {
			return Formatter().Print(results)
		}

		table := output.NewTable("Item", "ID", "Match")
		for _, r := range results {
			table.AddRow(r.Item.Name, r.Item.ItemID, matchKind(r))
		}
		return table.Render(Formatter().Writer())
	},
}

func matchKind(r vault.SearchResult) string {
	switch {
	case r.Fuzzy:
		return "fuzzy"
	case r.MatchName && r.MatchField:
		return "name+field"
	case r.MatchName:
		return "name"
	case r.MatchField:
		return "field"
	default:
		return ""
	}
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	searchCmd.Flags().String("wallet-dir", "", "override the configured wallet directory")
	rootCmd.AddCommand(searchCmd)
}
