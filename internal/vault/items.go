package vault

import (
	"context"

	"github.com/nsvault/nsvault/internal/storage"
	"github.com/nsvault/nsvault/internal/vaultcrypto"
	vaulterrors "github.com/nsvault/nsvault/pkg/errors"
)

// items returns the cached decrypted view of every active item, rebuilding
// it from storage on a cold cache. Requires an unlocked wallet.
func (w *Wallet) items(ctx context.Context) ([]Item, error) {
	if w.itemsCache != nil {
		return w.itemsCache, nil
	}
	if err := w.requireUnlocked(); err != nil {
		return nil, err
	}

	rows, err := w.db.ActiveItems(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Item, 0, len(rows))
	for _, row := range rows {
		name, err := w.decrypt(row.Name)
		if err != nil {
			return nil, err
		}
		out = append(out, itemFromRow(row, name))
	}

	w.itemsCache = out
	return out, nil
}

// Items returns the full decrypted set of active items, non-root included.
// Exported for collaborators (the PDF exporter) that need the whole tree
// rather than one level of ListChildren at a time.
func (w *Wallet) Items(ctx context.Context) ([]Item, error) {
	return w.items(ctx)
}

func itemFromRow(row storage.ItemRow, name string) Item {
	return Item{
		ItemID:          row.ItemID,
		ParentID:        row.ParentID,
		Name:            name,
		Icon:            row.Icon,
		Folder:          row.Folder,
		CreateTimestamp: parseTimestamp(row.CreateTimestamp),
		ChangeTimestamp: parseTimestamp(row.ChangeTimestamp),
		Deleted:         row.Deleted,
	}
}

// AddItem creates a new item under parentID (the root sentinel if empty) and
// returns its fresh id.
func (w *Wallet) AddItem(ctx context.Context, name, icon string, folder bool, parentID string) (string, error) {
	if parentID == "" {
		parentID = storage.RootID
	}

	cipher, err := w.encrypt(name)
	if err != nil {
		return "", err
	}

	id, err := vaultcrypto.GenerateItemID()
	if err != nil {
		return "", vaulterrors.Wrap(vaulterrors.ErrEncryption, "generate item id")
	}

	now := storage.Now()
	row := storage.ItemRow{
		ItemID:          id,
		ParentID:        parentID,
		Name:            cipher,
		Icon:            icon,
		Folder:          folder,
		CreateTimestamp: now,
		ChangeTimestamp: now,
	}
	if err := w.db.InsertItem(ctx, row); err != nil {
		return "", err
	}

	w.invalidateItems()
	return id, nil
}

// GetItem returns the decrypted active item with the given id.
func (w *Wallet) GetItem(ctx context.Context, itemID string) (Item, error) {
	items, err := w.items(ctx)
	if err != nil {
		return Item{}, err
	}
	for _, it := range items {
		if it.ItemID == itemID {
			return it, nil
		}
	}
	return Item{}, vaulterrors.ErrItemNotFound
}

// ListChildren returns the active, direct children of parentID (the root
// sentinel if empty).
func (w *Wallet) ListChildren(ctx context.Context, parentID string) ([]Item, error) {
	if parentID == "" {
		parentID = storage.RootID
	}
	items, err := w.items(ctx)
	if err != nil {
		return nil, err
	}
	var out []Item
	for _, it := range items {
		if it.ParentID == parentID {
			out = append(out, it)
		}
	}
	return out, nil
}

// UpdateItemName re-encrypts and stores a new item name.
func (w *Wallet) UpdateItemName(ctx context.Context, itemID, name string) error {
	if _, err := w.GetItem(ctx, itemID); err != nil {
		return err
	}
	cipher, err := w.encrypt(name)
	if err != nil {
		return err
	}
	if err := w.db.UpdateItemName(ctx, itemID, cipher, storage.Now()); err != nil {
		return err
	}
	w.invalidateItems()
	return nil
}

// UpdateItemIcon changes an item's plaintext icon tag.
func (w *Wallet) UpdateItemIcon(ctx context.Context, itemID, icon string) error {
	if _, err := w.GetItem(ctx, itemID); err != nil {
		return err
	}
	if err := w.db.UpdateItemIcon(ctx, itemID, icon, storage.Now()); err != nil {
		return err
	}
	w.invalidateItems()
	return nil
}

// MoveItem reparents an item.
func (w *Wallet) MoveItem(ctx context.Context, itemID, newParentID string) error {
	if _, err := w.GetItem(ctx, itemID); err != nil {
		return err
	}
	if newParentID == "" {
		newParentID = storage.RootID
	}
	if err := w.db.MoveItem(ctx, itemID, newParentID, storage.Now()); err != nil {
		return err
	}
	w.invalidateItems()
	return nil
}

// DeleteItem soft-deletes itemID. If it is a folder, every transitive
// descendant and all of their fields are soft-deleted in the same atomic
// cascade.
func (w *Wallet) DeleteItem(ctx context.Context, itemID string) error {
	if _, err := w.GetItem(ctx, itemID); err != nil {
		return err
	}
	if err := w.db.DeleteItemCascade(ctx, itemID, storage.Now()); err != nil {
		return err
	}
	w.invalidateItems()
	w.invalidateFields()
	return nil
}

// UndeleteItem restores a soft-deleted item and resets its parent to the
// root sentinel. Children are never auto-restored. Returns
// ErrInvalidOperation if the item is not currently deleted.
func (w *Wallet) UndeleteItem(ctx context.Context, itemID string) error {
	row, err := w.db.Item(ctx, itemID)
	if err != nil {
		return vaulterrors.ErrItemNotFound
	}
	if !row.Deleted {
		return vaulterrors.Wrap(vaulterrors.ErrInvalidOperation, "item %s is not deleted", itemID)
	}
	if err := w.db.UndeleteItem(ctx, itemID, storage.Now()); err != nil {
		return err
	}
	w.invalidateItems()
	return nil
}

// CopyItem clones the top-level item under the same parent. Per the
// original implementation's behavior (preserved rather than generalized,
// see DESIGN.md), a folder's subtree is never cloned; a non-folder item's
// direct fields are copied alongside it. The source item's ciphertext is
// reused verbatim since the copy lives under the same password.
func (w *Wallet) CopyItem(ctx context.Context, itemID string) (string, error) {
	src, err := w.db.Item(ctx, itemID)
	if err != nil || src.Deleted {
		return "", vaulterrors.ErrItemNotFound
	}

	newID, err := vaultcrypto.GenerateItemID()
	if err != nil {
		return "", vaulterrors.Wrap(vaulterrors.ErrEncryption, "generate item id")
	}

	now := storage.Now()
	copyRow := storage.ItemRow{
		ItemID:          newID,
		ParentID:        src.ParentID,
		Name:            src.Name,
		Icon:            src.Icon,
		Folder:          src.Folder,
		CreateTimestamp: now,
		ChangeTimestamp: now,
	}
	if err := w.db.InsertItem(ctx, copyRow); err != nil {
		return "", err
	}
	w.invalidateItems()

	if !src.Folder {
		fields, err := w.db.ActiveFieldsForItem(ctx, itemID)
		if err != nil {
			return "", err
		}
		for _, f := range fields {
			fieldID, err := vaultcrypto.GenerateFieldID()
			if err != nil {
				return "", vaulterrors.Wrap(vaulterrors.ErrEncryption, "generate field id")
			}
			newField := storage.FieldRow{
				ItemID:          newID,
				FieldID:         fieldID,
				Type:            f.Type,
				Value:           f.Value,
				ChangeTimestamp: now,
				SortWeight:      f.SortWeight,
			}
			if err := w.db.InsertField(ctx, newField); err != nil {
				return "", err
			}
		}
		w.invalidateFields()
	}

	return newID, nil
}

// GetDeletedItems returns the full deleted pool. Rows whose ciphertext no
// longer decrypts under the current password (legacy or post-rotation
// orphans) are skipped silently rather than failing the whole read.
func (w *Wallet) GetDeletedItems(ctx context.Context) ([]Item, error) {
	if err := w.requireUnlocked(); err != nil {
		return nil, err
	}
	rows, err := w.db.DeletedItems(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Item, 0, len(rows))
	for _, row := range rows {
		name, err := w.decrypt(row.Name)
		if err != nil {
			continue
		}
		out = append(out, itemFromRow(row, name))
	}
	return out, nil
}
