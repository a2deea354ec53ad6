package vault

import (
	"context"
	"time"

	"github.com/nsvault/nsvault/internal/storage"
	"github.com/nsvault/nsvault/internal/vaultcrypto"
	vaulterrors "github.com/nsvault/nsvault/pkg/errors"
)

// expiryFieldType is the field type whose value is treated as an expiry
// date for the Expired/Expiring derived flags.
const expiryFieldType = "EXPD"

// passwordFieldType and oldPasswordFieldType drive the password-history
// rule inside UpdateField.
const (
	passwordFieldType    = "PASS"
	oldPasswordFieldType = "OLDP"
)

// fields returns the cached, decrypted, label-joined view of every active
// field in the wallet, rebuilding it from storage on a cold cache.
func (w *Wallet) fields(ctx context.Context) ([]Field, error) {
	if w.fieldsCache != nil {
		return w.fieldsCache, nil
	}
	if err := w.requireUnlocked(); err != nil {
		return nil, err
	}

	rows, err := w.db.ActiveFields(ctx)
	if err != nil {
		return nil, err
	}

	labels, err := w.labels(ctx)
	if err != nil {
		return nil, err
	}
	byType := make(map[string]Label, len(labels))
	for _, l := range labels {
		byType[l.FieldType] = l
	}

	out := make([]Field, 0, len(rows))
	for _, row := range rows {
		value, err := w.decrypt(row.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, fieldFromRow(row, value, byType))
	}

	w.fieldsCache = out
	return out, nil
}

// Fields returns the full decrypted set of active fields across every item.
// Exported for collaborators (the PDF exporter) that need the whole set
// rather than one item's fields at a time.
func (w *Wallet) Fields(ctx context.Context) ([]Field, error) {
	return w.fields(ctx)
}

func fieldFromRow(row storage.FieldRow, value string, labels map[string]Label) Field {
	f := Field{
		ItemID:          row.ItemID,
		FieldID:         row.FieldID,
		Type:            row.Type,
		Value:           value,
		SortWeight:      row.SortWeight,
		ChangeTimestamp: parseTimestamp(row.ChangeTimestamp),
		Deleted:         row.Deleted,
	}

	if l, ok := labels[row.Type]; ok {
		f.Label = l.Name
		f.Icon = l.Icon
		f.ValueType = l.ValueType
	} else {
		f.Label = unknownLabelPlaceholder
		f.ValueType = unknownLabelPlaceholder
	}

	if row.Type == expiryFieldType {
		if expiry, err := time.Parse(expiryDateLayout, value); err == nil {
			now := time.Now().UTC()
			f.Expired = expiry.Before(now)
			f.Expiring = !f.Expired && expiry.Before(now.Add(expiringWindow))
		}
	}

	return f
}

// FieldsForItem returns the active fields of a single item, ordered by sort
// weight, from the whole-wallet cache.
func (w *Wallet) FieldsForItem(ctx context.Context, itemID string) ([]Field, error) {
	fields, err := w.fields(ctx)
	if err != nil {
		return nil, err
	}
	var out []Field
	for _, f := range fields {
		if f.ItemID == itemID {
			out = append(out, f)
		}
	}
	return out, nil
}

// AddField creates a new field on itemID. When weight is nil the new field's
// sort_weight is max(existing active weights on the item) + 100.
func (w *Wallet) AddField(ctx context.Context, itemID, fieldType, value string, weight *int) (string, error) {
	cipher, err := w.encrypt(value)
	if err != nil {
		return "", err
	}

	sortWeight := 0
	if weight != nil {
		sortWeight = *weight
	} else {
		max, err := w.db.MaxSortWeight(ctx, itemID)
		if err != nil {
			return "", err
		}
		sortWeight = max + 100
	}

	id, err := vaultcrypto.GenerateFieldID()
	if err != nil {
		return "", vaulterrors.Wrap(vaulterrors.ErrEncryption, "generate field id")
	}

	row := storage.FieldRow{
		ItemID:          itemID,
		FieldID:         id,
		Type:            fieldType,
		Value:           cipher,
		ChangeTimestamp: storage.Now(),
		SortWeight:      sortWeight,
	}
	if err := w.db.InsertField(ctx, row); err != nil {
		return "", err
	}

	w.invalidateFields()
	return id, nil
}

// UpdateField is a versioning operation, not an in-place mutation: it
// soft-deletes the current row and inserts a fresh one carrying the new
// value under a new field id, preserving the prior ciphertext in the
// deleted pool. For a PASS field with a sibling OLDP field on the same
// item, the OLDP row's value is first overwritten in place with the
// pre-update PASS ciphertext — no decrypt/re-encrypt needed, since the
// envelope is reused byte-for-byte.
func (w *Wallet) UpdateField(ctx context.Context, itemID, fieldID, newValue string, weight *int) (string, error) {
	current, err := w.db.Field(ctx, itemID, fieldID)
	if err != nil || current.Deleted {
		return "", vaulterrors.ErrFieldNotFound
	}

	now := storage.Now()

	if current.Type == passwordFieldType {
		if oldp, err := w.findActiveSibling(ctx, itemID, oldPasswordFieldType); err == nil {
			if updateErr := w.db.UpdateFieldValue(ctx, itemID, oldp.FieldID, current.Value, now); updateErr != nil {
				return "", updateErr
			}
		}
	}

	newCipher, err := w.encrypt(newValue)
	if err != nil {
		return "", err
	}

	sortWeight := current.SortWeight
	if weight != nil {
		sortWeight = *weight
	}

	newID, err := vaultcrypto.GenerateFieldID()
	if err != nil {
		return "", vaulterrors.Wrap(vaulterrors.ErrEncryption, "generate field id")
	}

	if err := w.db.SoftDeleteField(ctx, itemID, fieldID, now); err != nil {
		return "", err
	}

	newRow := storage.FieldRow{
		ItemID:          itemID,
		FieldID:         newID,
		Type:            current.Type,
		Value:           newCipher,
		ChangeTimestamp: now,
		SortWeight:      sortWeight,
	}
	if err := w.db.InsertField(ctx, newRow); err != nil {
		return "", err
	}

	w.invalidateFields()
	return newID, nil
}

func (w *Wallet) findActiveSibling(ctx context.Context, itemID, fieldType string) (storage.FieldRow, error) {
	siblings, err := w.db.ActiveFieldsForItem(ctx, itemID)
	if err != nil {
		return storage.FieldRow{}, err
	}
	for _, f := range siblings {
		if f.Type == fieldType {
			return f, nil
		}
	}
	return storage.FieldRow{}, vaulterrors.ErrFieldNotFound
}

// DeleteField soft-deletes one field.
func (w *Wallet) DeleteField(ctx context.Context, itemID, fieldID string) error {
	if err := w.db.SoftDeleteField(ctx, itemID, fieldID, storage.Now()); err != nil {
		return err
	}
	w.invalidateFields()
	return nil
}

// UndeleteField restores a soft-deleted field. Returns ErrInvalidOperation
// if the field is not currently deleted.
func (w *Wallet) UndeleteField(ctx context.Context, itemID, fieldID string) error {
	row, err := w.db.Field(ctx, itemID, fieldID)
	if err != nil {
		return vaulterrors.ErrFieldNotFound
	}
	if !row.Deleted {
		return vaulterrors.Wrap(vaulterrors.ErrInvalidOperation, "field %s/%s is not deleted", itemID, fieldID)
	}
	if err := w.db.UndeleteField(ctx, itemID, fieldID, storage.Now()); err != nil {
		return err
	}
	w.invalidateFields()
	return nil
}

// CopyField creates a fresh field on dstItemID carrying the same ciphertext
// and type as the source field. It composes with DeleteField at the
// application level to implement MoveField.
func (w *Wallet) CopyField(ctx context.Context, srcItemID, srcFieldID, dstItemID string) (string, error) {
	src, err := w.db.Field(ctx, srcItemID, srcFieldID)
	if err != nil || src.Deleted {
		return "", vaulterrors.ErrFieldNotFound
	}

	max, err := w.db.MaxSortWeight(ctx, dstItemID)
	if err != nil {
		return "", err
	}

	newID, err := vaultcrypto.GenerateFieldID()
	if err != nil {
		return "", vaulterrors.Wrap(vaulterrors.ErrEncryption, "generate field id")
	}

	newRow := storage.FieldRow{
		ItemID:          dstItemID,
		FieldID:         newID,
		Type:            src.Type,
		Value:           src.Value,
		ChangeTimestamp: storage.Now(),
		SortWeight:      max + 100,
	}
	if err := w.db.InsertField(ctx, newRow); err != nil {
		return "", err
	}

	w.invalidateFields()
	return newID, nil
}

// MoveField copies the source field to dstItemID and soft-deletes the
// source, composing CopyField and DeleteField at the application level.
func (w *Wallet) MoveField(ctx context.Context, srcItemID, srcFieldID, dstItemID string) (string, error) {
	newID, err := w.CopyField(ctx, srcItemID, srcFieldID, dstItemID)
	if err != nil {
		return "", err
	}
	if err := w.DeleteField(ctx, srcItemID, srcFieldID); err != nil {
		return "", err
	}
	return newID, nil
}

// GetDeletedFields returns the full field deleted pool. Rows that fail to
// decrypt under the current password are skipped silently.
func (w *Wallet) GetDeletedFields(ctx context.Context) ([]Field, error) {
	if err := w.requireUnlocked(); err != nil {
		return nil, err
	}
	rows, err := w.db.DeletedFields(ctx)
	if err != nil {
		return nil, err
	}

	labels, err := w.labels(ctx)
	if err != nil {
		return nil, err
	}
	byType := make(map[string]Label, len(labels))
	for _, l := range labels {
		byType[l.FieldType] = l
	}

	out := make([]Field, 0, len(rows))
	for _, row := range rows {
		value, err := w.decrypt(row.Value)
		if err != nil {
			continue
		}
		out = append(out, fieldFromRow(row, value, byType))
	}
	return out, nil
}
