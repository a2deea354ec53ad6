package cli

import (
	"github.com/spf13/cobra"

	"github.com/nsvault/nsvault/internal/output"
)

var (
	itemAddIcon   string
	itemAddFolder bool
	itemAddParent string
)

// itemCmd groups item (entry/folder) management.
var itemCmd = &cobra.Command{
	Use:     "item",
	Short:   "Manage vault items (entries and folders)",
	Long:    `Add, rename, move, delete, undelete, and list the items in the vault tree.`,
	GroupID: "wallet",
}

var itemAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a new item or folder",
	Long:  `Add a new item or folder under the given parent (the tree root by default).`,
	Args:  cobra.ExactArgs(1),
	Example: `  nsvault item add "Banking" --folder
  nsvault item add "Chase Checking" --parent <folder-id>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		w, err := openUnlockedWallet(ctx, walletDir(cmd))
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()

		id, err := w.AddItem(ctx, args[0], itemAddIcon, itemAddFolder, itemAddParent)
		if err != nil {
			return err
		}
		return Formatter().Print(map[string]string{"item_id": id})
	},
}

var itemRenameCmd = &cobra.Command{
	Use:     "rename <item-id> <new-name>",
	Short:   "Rename an item",
	Long:    `Rename an item or folder in place without changing its position in the tree.`,
	Example: `  nsvault item rename <item-id> "Chase Savings"`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		w, err := openUnlockedWallet(ctx, walletDir(cmd))
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()

		if err := w.UpdateItemName(ctx, args[0], args[1]); err != nil {
			return err
		}
		return output.FormatSuccess(Formatter().Writer(), "item renamed", Formatter().Format())
	},
}

var itemMoveCmd = &cobra.Command{
	Use:     "move <item-id> <new-parent-id>",
	Short:   "Move an item to a new parent folder",
	Long:    `Move an item, and its subtree if it is a folder, under a different parent folder.`,
	Example: `  nsvault item move <item-id> <folder-id>`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		w, err := openUnlockedWallet(ctx, walletDir(cmd))
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()

		if err := w.MoveItem(ctx, args[0], args[1]); err != nil {
			return err
		}
		return output.FormatSuccess(Formatter().Writer(), "item moved", Formatter().Format())
	},
}

var itemDeleteCmd = &cobra.Command{
	Use:     "delete <item-id>",
	Short:   "Soft-delete an item (and its subtree, if a folder)",
	Long:    `Soft-delete an item. If it is a folder, every descendant item and field is deleted with it. Deleted items can be restored with "item undelete".`,
	Example: `  nsvault item delete <item-id>`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		w, err := openUnlockedWallet(ctx, walletDir(cmd))
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()

		if !promptConfirmFn() {
			return output.FormatSuccess(Formatter().Writer(), "cancelled", Formatter().Format())
		}
		if err := w.DeleteItem(ctx, args[0]); err != nil {
			return err
		}
		return output.FormatSuccess(Formatter().Writer(), "item deleted", Formatter().Format())
	},
}

var itemUndeleteCmd = &cobra.Command{
	Use:     "undelete <item-id>",
	Short:   "Restore a soft-deleted item",
	Long:    `Restore a soft-deleted item to the tree root. It does not restore the parent it was deleted from.`,
	Example: `  nsvault item undelete <item-id>`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		w, err := openUnlockedWallet(ctx, walletDir(cmd))
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()

		if err := w.UndeleteItem(ctx, args[0]); err != nil {
			return err
		}
		return output.FormatSuccess(Formatter().Writer(), "item restored", Formatter().Format())
	},
}

var itemListParent string

var itemListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List the direct children of a folder",
	Long:    `List the direct children of the given parent folder (the tree root by default).`,
	Example: `  nsvault item list --parent <folder-id>`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		w, err := openUnlockedWallet(ctx, walletDir(cmd))
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()

		items, err := w.ListChildren(ctx, itemListParent)
		if err != nil {
			return err
		}

		if Formatter().IsJSON() {
			return Formatter().Print(items)
		}

		table := output.NewTable("ID", "Name", "Folder", "Icon")
		for _, it := range items {
			folder := "no"
			if it.Folder {
				folder = "yes"
			}
			table.AddRow(it.ItemID, it.Name, folder, it.Icon)
		}
		return table.Render(Formatter().Writer())
	},
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for flag/command registration
func init() {
	itemAddCmd.Flags().StringVar(&itemAddIcon, "icon", "", "icon tag for the new item")
	itemAddCmd.Flags().BoolVar(&itemAddFolder, "folder", false, "create a folder instead of a leaf item")
	itemAddCmd.Flags().StringVar(&itemAddParent, "parent", "", "parent item id (tree root by default)")
	itemListCmd.Flags().StringVar(&itemListParent, "parent", "", "parent item id to list (tree root by default)")

	itemCmd.PersistentFlags().String("wallet-dir", "", "override the configured wallet directory")
	itemCmd.AddCommand(itemAddCmd, itemRenameCmd, itemMoveCmd, itemDeleteCmd, itemUndeleteCmd, itemListCmd)
	rootCmd.AddCommand(itemCmd)
}
