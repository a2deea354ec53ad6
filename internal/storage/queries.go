package storage

import (
	"context"
	"database/sql"

	vaulterrors "github.com/nsvault/nsvault/pkg/errors"
)

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// InsertProperties writes the single properties row for a freshly created
// database. The encryption iteration count rides in the email column.
func (db *DB) InsertProperties(ctx context.Context, p PropertiesRow) error {
	_, err := db.Exec(ctx, `INSERT INTO `+TableProperties+`
		(database_id, lang, version, email, sync_timestamp, update_timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.DatabaseID, p.Lang, p.Version, formatEncryptionCount(p.EncryptionCount),
		p.SyncTimestamp, p.UpdateTimestamp)
	if err != nil {
		return vaulterrors.Wrap(err, "insert properties")
	}
	return nil
}

// Properties reads the single properties row.
func (db *DB) Properties(ctx context.Context) (PropertiesRow, error) {
	var p PropertiesRow
	var email string
	row := db.conn.QueryRowContext(ctx, `SELECT database_id, lang, version, email,
		COALESCE(sync_timestamp, ''), COALESCE(update_timestamp, '') FROM `+TableProperties+` LIMIT 1`)
	if err := row.Scan(&p.DatabaseID, &p.Lang, &p.Version, &email, &p.SyncTimestamp, &p.UpdateTimestamp); err != nil {
		return PropertiesRow{}, vaulterrors.Wrap(vaulterrors.ErrDatabase, "read properties: %v", err)
	}
	p.EncryptionCount = parseEncryptionCount(email)
	return p, nil
}

// SetVersion updates the stored schema version.
func (db *DB) SetVersion(ctx context.Context, version string) error {
	_, err := db.Exec(ctx, `UPDATE `+TableProperties+` SET version = ?`, version)
	return err
}

// InsertItem inserts a new item row.
func (db *DB) InsertItem(ctx context.Context, it ItemRow) error {
	_, err := db.Exec(ctx, `INSERT INTO `+TableItems+`
		(item_id, parent_id, name, icon, field_id, folder, create_timestamp, change_timestamp, deleted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.ItemID, it.ParentID, it.Name, it.Icon, it.FieldID, boolToInt(it.Folder),
		it.CreateTimestamp, it.ChangeTimestamp, boolToInt(it.Deleted))
	if err != nil {
		return vaulterrors.Wrap(err, "insert item %s", it.ItemID)
	}
	return nil
}

// Item reads a single item row by id, regardless of its deleted state.
func (db *DB) Item(ctx context.Context, itemID string) (ItemRow, error) {
	return db.scanItem(db.conn.QueryRowContext(ctx, `SELECT item_id, COALESCE(parent_id,''), name,
		COALESCE(icon,''), COALESCE(field_id,''), folder, COALESCE(create_timestamp,''),
		COALESCE(change_timestamp,''), deleted FROM `+TableItems+` WHERE item_id = ?`, itemID))
}

// ActiveItems returns all non-deleted item rows.
func (db *DB) ActiveItems(ctx context.Context) ([]ItemRow, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT item_id, COALESCE(parent_id,''), name,
		COALESCE(icon,''), COALESCE(field_id,''), folder, COALESCE(create_timestamp,''),
		COALESCE(change_timestamp,''), deleted FROM `+TableItems+` WHERE deleted = 0`)
	if err != nil {
		return nil, vaulterrors.Wrap(err, "list active items")
	}
	defer rows.Close()
	return scanItems(rows)
}

// DeletedItems returns all soft-deleted item rows (the "deleted pool").
func (db *DB) DeletedItems(ctx context.Context) ([]ItemRow, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT item_id, COALESCE(parent_id,''), name,
		COALESCE(icon,''), COALESCE(field_id,''), folder, COALESCE(create_timestamp,''),
		COALESCE(change_timestamp,''), deleted FROM `+TableItems+` WHERE deleted = 1`)
	if err != nil {
		return nil, vaulterrors.Wrap(err, "list deleted items")
	}
	defer rows.Close()
	return scanItems(rows)
}

// UpdateItemName re-encrypts and stores a new name, bumping change_timestamp.
func (db *DB) UpdateItemName(ctx context.Context, itemID string, name []byte, changeTimestamp string) error {
	_, err := db.Exec(ctx, `UPDATE `+TableItems+` SET name = ?, change_timestamp = ? WHERE item_id = ?`,
		name, changeTimestamp, itemID)
	return err
}

// UpdateItemIcon changes the plaintext icon tag.
func (db *DB) UpdateItemIcon(ctx context.Context, itemID, icon, changeTimestamp string) error {
	_, err := db.Exec(ctx, `UPDATE `+TableItems+` SET icon = ?, change_timestamp = ? WHERE item_id = ?`,
		icon, changeTimestamp, itemID)
	return err
}

// MoveItem reparents an item.
func (db *DB) MoveItem(ctx context.Context, itemID, newParentID, changeTimestamp string) error {
	_, err := db.Exec(ctx, `UPDATE `+TableItems+` SET parent_id = ?, change_timestamp = ? WHERE item_id = ?`,
		newParentID, changeTimestamp, itemID)
	return err
}

// DeleteItemCascade soft-deletes itemID and, when it is a folder, every
// transitive descendant and all of their fields in one recursive-CTE-driven
// statement set, so the cascade is atomic under a single WAL checkpoint.
func (db *DB) DeleteItemCascade(ctx context.Context, itemID, changeTimestamp string) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const descendants = `
WITH RECURSIVE subtree(id) AS (
	SELECT item_id FROM ` + TableItems + ` WHERE item_id = ?
	UNION ALL
	SELECT i.item_id FROM ` + TableItems + ` i JOIN subtree s ON i.parent_id = s.id
)
SELECT id FROM subtree`

	rows, err := tx.QueryContext(ctx, descendants, itemID)
	if err != nil {
		return vaulterrors.Wrap(err, "resolve subtree for %s", itemID)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return vaulterrors.Wrap(err, "scan subtree row")
		}
		ids = append(ids, id)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return vaulterrors.Wrap(err, "iterate subtree rows")
	}

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, `UPDATE `+TableItems+` SET deleted = 1, change_timestamp = ? WHERE item_id = ?`,
			changeTimestamp, id); err != nil {
			return vaulterrors.Wrap(err, "soft-delete item %s", id)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE `+TableFields+` SET deleted = 1, change_timestamp = ? WHERE item_id = ?`,
			changeTimestamp, id); err != nil {
			return vaulterrors.Wrap(err, "soft-delete fields of %s", id)
		}
	}

	if err := tx.Commit(); err != nil {
		return vaulterrors.Wrap(err, "commit cascade delete")
	}
	return db.Checkpoint(ctx)
}

// UndeleteItem clears the deleted flag and resets parent_id to the root
// sentinel. Descendants are never auto-restored.
func (db *DB) UndeleteItem(ctx context.Context, itemID, changeTimestamp string) error {
	_, err := db.Exec(ctx, `UPDATE `+TableItems+` SET deleted = 0, parent_id = ?, change_timestamp = ? WHERE item_id = ?`,
		RootID, changeTimestamp, itemID)
	return err
}

// InsertField inserts a new field row.
func (db *DB) InsertField(ctx context.Context, f FieldRow) error {
	_, err := db.Exec(ctx, `INSERT INTO `+TableFields+`
		(item_id, field_id, type, value, change_timestamp, deleted, sort_weight)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.ItemID, f.FieldID, f.Type, f.Value, f.ChangeTimestamp, boolToInt(f.Deleted), f.SortWeight)
	if err != nil {
		return vaulterrors.Wrap(err, "insert field %s/%s", f.ItemID, f.FieldID)
	}
	return nil
}

// ActiveFieldsForItem returns the non-deleted fields of one item, ordered by
// sort weight.
func (db *DB) ActiveFieldsForItem(ctx context.Context, itemID string) ([]FieldRow, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT item_id, field_id, COALESCE(type,''), value,
		COALESCE(change_timestamp,''), deleted, COALESCE(sort_weight,0) FROM `+TableFields+`
		WHERE item_id = ? AND deleted = 0 ORDER BY sort_weight ASC`, itemID)
	if err != nil {
		return nil, vaulterrors.Wrap(err, "list active fields for %s", itemID)
	}
	defer rows.Close()
	return scanFields(rows)
}

// DeletedFields returns every soft-deleted field row across the whole
// wallet (the field deleted pool), in no particular order; callers skip
// rows that fail to decrypt.
func (db *DB) DeletedFields(ctx context.Context) ([]FieldRow, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT item_id, field_id, COALESCE(type,''), value,
		COALESCE(change_timestamp,''), deleted, COALESCE(sort_weight,0) FROM `+TableFields+` WHERE deleted = 1`)
	if err != nil {
		return nil, vaulterrors.Wrap(err, "list deleted fields")
	}
	defer rows.Close()
	return scanFields(rows)
}

// Field reads a single field row by composite id, regardless of its deleted
// state.
func (db *DB) Field(ctx context.Context, itemID, fieldID string) (FieldRow, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT item_id, field_id, COALESCE(type,''), value,
		COALESCE(change_timestamp,''), deleted, COALESCE(sort_weight,0) FROM `+TableFields+`
		WHERE item_id = ? AND field_id = ?`, itemID, fieldID)

	var f FieldRow
	var deleted int
	if err := row.Scan(&f.ItemID, &f.FieldID, &f.Type, &f.Value, &f.ChangeTimestamp, &deleted, &f.SortWeight); err != nil {
		return FieldRow{}, vaulterrors.Wrap(vaulterrors.ErrFieldNotFound, "read field %s/%s: %v", itemID, fieldID, err)
	}
	f.Deleted = deleted != 0
	return f, nil
}

// ActiveFields returns every non-deleted field row across the whole wallet,
// ordered by item then sort weight, for the data engine's whole-wallet
// field cache.
func (db *DB) ActiveFields(ctx context.Context) ([]FieldRow, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT item_id, field_id, COALESCE(type,''), value,
		COALESCE(change_timestamp,''), deleted, COALESCE(sort_weight,0) FROM `+TableFields+`
		WHERE deleted = 0 ORDER BY item_id ASC, sort_weight ASC`)
	if err != nil {
		return nil, vaulterrors.Wrap(err, "list active fields")
	}
	defer rows.Close()
	return scanFields(rows)
}

// UpdateFieldValue overwrites a field's ciphertext in place without
// versioning it. Used only for the OLDP sibling update inside the
// password-history rule, where the prior PASS ciphertext is copied across
// verbatim rather than decrypted and re-encrypted.
func (db *DB) UpdateFieldValue(ctx context.Context, itemID, fieldID string, value []byte, changeTimestamp string) error {
	_, err := db.Exec(ctx, `UPDATE `+TableFields+` SET value = ?, change_timestamp = ?
		WHERE item_id = ? AND field_id = ?`, value, changeTimestamp, itemID, fieldID)
	return err
}

// PurgeDeleted permanently removes every soft-deleted field (including
// fields whose owning item is soft-deleted, i.e. orphans) and then every
// soft-deleted item, atomically. Fields are purged first so the "owning
// item is deleted" condition can still be evaluated.
func (db *DB) PurgeDeleted(ctx context.Context) (purgedItems, purgedFields int64, err error) {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = tx.Rollback() }()

	fieldsRes, err := tx.ExecContext(ctx, `DELETE FROM `+TableFields+` WHERE deleted = 1
		OR item_id IN (SELECT item_id FROM `+TableItems+` WHERE deleted = 1)`)
	if err != nil {
		return 0, 0, vaulterrors.Wrap(err, "purge deleted fields")
	}
	purgedFields, _ = fieldsRes.RowsAffected()

	itemsRes, err := tx.ExecContext(ctx, `DELETE FROM `+TableItems+` WHERE deleted = 1`)
	if err != nil {
		return 0, 0, vaulterrors.Wrap(err, "purge deleted items")
	}
	purgedItems, _ = itemsRes.RowsAffected()

	if err := tx.Commit(); err != nil {
		return 0, 0, vaulterrors.Wrap(err, "commit compact")
	}
	return purgedItems, purgedFields, db.Checkpoint(ctx)
}

// MaxSortWeight returns the highest sort_weight among active fields of an
// item, or 0 if it has none.
func (db *DB) MaxSortWeight(ctx context.Context, itemID string) (int, error) {
	var max sql.NullInt64
	err := db.conn.QueryRowContext(ctx, `SELECT MAX(sort_weight) FROM `+TableFields+`
		WHERE item_id = ? AND deleted = 0`, itemID).Scan(&max)
	if err != nil {
		return 0, vaulterrors.Wrap(err, "max sort weight for %s", itemID)
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64), nil
}

// SoftDeleteField marks one field as deleted, leaving its ciphertext intact
// for the deleted pool.
func (db *DB) SoftDeleteField(ctx context.Context, itemID, fieldID, changeTimestamp string) error {
	_, err := db.Exec(ctx, `UPDATE `+TableFields+` SET deleted = 1, change_timestamp = ?
		WHERE item_id = ? AND field_id = ?`, changeTimestamp, itemID, fieldID)
	return err
}

// UndeleteField clears the deleted flag on one field.
func (db *DB) UndeleteField(ctx context.Context, itemID, fieldID, changeTimestamp string) error {
	_, err := db.Exec(ctx, `UPDATE `+TableFields+` SET deleted = 0, change_timestamp = ?
		WHERE item_id = ? AND field_id = ?`, changeTimestamp, itemID, fieldID)
	return err
}

// Labels returns the label catalog joined with live usage counts, mirroring
// wallet_labels_view.
func (db *DB) Labels(ctx context.Context) ([]LabelRow, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT field_type, COALESCE(label_name,''),
		COALESCE(value_type,''), COALESCE(icon,''), system, COALESCE(change_timestamp,''),
		deleted, usage FROM `+ViewLabels)
	if err != nil {
		return nil, vaulterrors.Wrap(err, "list labels")
	}
	defer rows.Close()

	var out []LabelRow
	for rows.Next() {
		var l LabelRow
		var system, deleted int
		if err := rows.Scan(&l.FieldType, &l.LabelName, &l.ValueType, &l.Icon, &system,
			&l.ChangeTimestamp, &deleted, &l.Usage); err != nil {
			return nil, vaulterrors.Wrap(err, "scan label row")
		}
		l.System = system != 0
		l.Deleted = deleted != 0
		out = append(out, l)
	}
	return out, rows.Err()
}

// InsertLabel inserts a new label definition.
func (db *DB) InsertLabel(ctx context.Context, l LabelRow) error {
	_, err := db.Exec(ctx, `INSERT INTO `+TableLabels+`
		(field_type, label_name, value_type, icon, system, change_timestamp, deleted)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.FieldType, l.LabelName, l.ValueType, l.Icon, boolToInt(l.System), l.ChangeTimestamp, boolToInt(l.Deleted))
	if err != nil {
		return vaulterrors.Wrap(err, "insert label %s", l.FieldType)
	}
	return nil
}

// LabelUsage counts non-deleted fields of the given type.
func (db *DB) LabelUsage(ctx context.Context, fieldType string) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+TableFields+`
		WHERE type = ? AND deleted = 0`, fieldType).Scan(&n)
	if err != nil {
		return 0, vaulterrors.Wrap(err, "count usage for label %s", fieldType)
	}
	return n, nil
}

// SoftDeleteLabel marks a label deleted. Callers must check LabelUsage == 0
// first; this method does not enforce that invariant itself.
func (db *DB) SoftDeleteLabel(ctx context.Context, fieldType, changeTimestamp string) error {
	_, err := db.Exec(ctx, `UPDATE `+TableLabels+` SET deleted = 1, change_timestamp = ?
		WHERE field_type = ?`, changeTimestamp, fieldType)
	return err
}

func (db *DB) scanItem(row *sql.Row) (ItemRow, error) {
	var it ItemRow
	var folder, deleted int
	if err := row.Scan(&it.ItemID, &it.ParentID, &it.Name, &it.Icon, &it.FieldID, &folder,
		&it.CreateTimestamp, &it.ChangeTimestamp, &deleted); err != nil {
		return ItemRow{}, vaulterrors.Wrap(vaulterrors.ErrItemNotFound, "read item: %v", err)
	}
	it.Folder = folder != 0
	it.Deleted = deleted != 0
	return it, nil
}

func scanItems(rows *sql.Rows) ([]ItemRow, error) {
	var out []ItemRow
	for rows.Next() {
		var it ItemRow
		var folder, deleted int
		if err := rows.Scan(&it.ItemID, &it.ParentID, &it.Name, &it.Icon, &it.FieldID, &folder,
			&it.CreateTimestamp, &it.ChangeTimestamp, &deleted); err != nil {
			return nil, vaulterrors.Wrap(err, "scan item row")
		}
		it.Folder = folder != 0
		it.Deleted = deleted != 0
		out = append(out, it)
	}
	return out, rows.Err()
}

func scanFields(rows *sql.Rows) ([]FieldRow, error) {
	var out []FieldRow
	for rows.Next() {
		var f FieldRow
		var deleted int
		if err := rows.Scan(&f.ItemID, &f.FieldID, &f.Type, &f.Value, &f.ChangeTimestamp,
			&deleted, &f.SortWeight); err != nil {
			return nil, vaulterrors.Wrap(err, "scan field row")
		}
		f.Deleted = deleted != 0
		out = append(out, f)
	}
	return out, rows.Err()
}
