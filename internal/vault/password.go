package vault

import (
	"context"

	"github.com/nsvault/nsvault/internal/storage"
	"github.com/nsvault/nsvault/internal/vaultcrypto"
	vaulterrors "github.com/nsvault/nsvault/pkg/errors"
)

// ChangePassword transactionally re-encrypts every active item name and
// field value under newPassword, bumping no timestamps. Soft-deleted rows
// are left untouched — legacy undecryptable rows in the deleted pool are
// tolerated by design (see GetDeletedItems/GetDeletedFields). On any
// failure the transaction rolls back and the wallet's in-memory password
// and caches are left exactly as they were, so the old password still
// opens every active record.
func (w *Wallet) ChangePassword(ctx context.Context, newPassword string) error {
	if err := w.requireUnlocked(); err != nil {
		return err
	}

	items, err := w.items(ctx)
	if err != nil {
		return err
	}
	fields, err := w.fields(ctx)
	if err != nil {
		return err
	}

	tx, err := w.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	for _, it := range items {
		cipher, err := vaultcrypto.Encrypt(it.Name, newPassword, w.encCount, "")
		if err != nil {
			return vaulterrors.Wrap(vaulterrors.ErrEncryption, "re-encrypt item %s", it.ItemID)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE `+storage.TableItems+` SET name = ? WHERE item_id = ?`,
			cipher, it.ItemID); err != nil {
			return vaulterrors.Wrap(vaulterrors.ErrDatabase, "update item %s", it.ItemID)
		}
	}

	for _, f := range fields {
		cipher, err := vaultcrypto.Encrypt(f.Value, newPassword, w.encCount, "")
		if err != nil {
			return vaulterrors.Wrap(vaulterrors.ErrEncryption, "re-encrypt field %s/%s", f.ItemID, f.FieldID)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE `+storage.TableFields+` SET value = ? WHERE item_id = ? AND field_id = ?`,
			cipher, f.ItemID, f.FieldID); err != nil {
			return vaulterrors.Wrap(vaulterrors.ErrDatabase, "update field %s/%s", f.ItemID, f.FieldID)
		}
	}

	if err := tx.Commit(); err != nil {
		return vaulterrors.Wrap(vaulterrors.ErrDatabase, "commit password change")
	}
	committed = true

	if err := w.db.Checkpoint(ctx); err != nil {
		return err
	}

	w.password.Destroy()
	w.password = vaultcrypto.SecureBytesFromSlice([]byte(newPassword))
	w.invalidateItems()
	w.invalidateFields()
	return nil
}
