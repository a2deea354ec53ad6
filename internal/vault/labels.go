package vault

import (
	"context"

	"github.com/nsvault/nsvault/internal/storage"
)

// labels returns the cached label catalog, joined with live usage counts,
// rebuilding it from storage on a cold cache. Labels carry no ciphertext so
// this cache never requires an unlocked wallet.
func (w *Wallet) labels(ctx context.Context) ([]Label, error) {
	if w.labelsCache != nil {
		return w.labelsCache, nil
	}

	rows, err := w.db.Labels(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Label, 0, len(rows))
	for _, row := range rows {
		out = append(out, Label{
			FieldType: row.FieldType,
			Name:      row.LabelName,
			ValueType: row.ValueType,
			Icon:      row.Icon,
			System:    row.System,
			Deleted:   row.Deleted,
			Usage:     row.Usage,
		})
	}

	w.labelsCache = out
	return out, nil
}

// ListLabels returns the full label catalog.
func (w *Wallet) ListLabels(ctx context.Context) ([]Label, error) {
	return w.labels(ctx)
}

// AddLabel registers a new custom label.
func (w *Wallet) AddLabel(ctx context.Context, fieldType, name, valueType, icon string) error {
	row := storage.LabelRow{
		FieldType:       fieldType,
		LabelName:       name,
		ValueType:       valueType,
		Icon:            icon,
		System:          false,
		ChangeTimestamp: storage.Now(),
	}
	if err := w.db.InsertLabel(ctx, row); err != nil {
		return err
	}
	w.invalidateLabels()
	return nil
}

// DeleteLabel soft-deletes fieldType only when no non-deleted field uses it,
// returning the usage count either way. The caller decides whether a
// nonzero count should be surfaced as an error.
func (w *Wallet) DeleteLabel(ctx context.Context, fieldType string) (int, error) {
	usage, err := w.db.LabelUsage(ctx, fieldType)
	if err != nil {
		return 0, err
	}
	if usage != 0 {
		return usage, nil
	}
	if err := w.db.SoftDeleteLabel(ctx, fieldType, storage.Now()); err != nil {
		return 0, err
	}
	w.invalidateLabels()
	return 0, nil
}
