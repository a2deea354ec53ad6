package vault

import (
	"context"
	"os"

	"github.com/nsvault/nsvault/internal/storage"
)

// Compact permanently removes every soft-deleted row: fields first (so
// orphans of soft-deleted items can still be identified), then items.
// Idempotent — a second call returns (0, 0).
func (w *Wallet) Compact(ctx context.Context) (purgedItems, purgedFields int, err error) {
	pi, pf, err := w.db.PurgeDeleted(ctx)
	if err != nil {
		return 0, 0, err
	}
	w.invalidateItems()
	w.invalidateFields()
	return int(pi), int(pf), nil
}

// Stats computes a point-in-time summary of the wallet's contents. It reads
// only plaintext columns (no decryption), so it works while locked. It
// never mutates state.
func (w *Wallet) Stats(ctx context.Context) (Stats, error) {
	items, err := w.db.ActiveItems(ctx)
	if err != nil {
		return Stats{}, err
	}
	fields, err := w.db.ActiveFields(ctx)
	if err != nil {
		return Stats{}, err
	}
	labels, err := w.labels(ctx)
	if err != nil {
		return Stats{}, err
	}
	deletedItems, err := w.db.DeletedItems(ctx)
	if err != nil {
		return Stats{}, err
	}
	deletedFields, err := w.db.DeletedFields(ctx)
	if err != nil {
		return Stats{}, err
	}

	var s Stats
	for _, it := range items {
		if it.ItemID == storage.RootID {
			continue
		}
		if it.Folder {
			s.ActiveFolders++
		} else {
			s.ActiveItems++
		}
	}
	s.ActiveFields = len(fields)
	s.Labels = len(labels)
	for _, l := range labels {
		if !l.System {
			s.CustomLabels++
		}
	}
	s.DeletedItems = len(deletedItems)
	s.DeletedFields = len(deletedFields)

	if fi, err := os.Stat(w.dbPath); err == nil {
		s.FileSizeBytes = fi.Size()
	}

	return s, nil
}
