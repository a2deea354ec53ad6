package vault_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vaulterrors "github.com/nsvault/nsvault/pkg/errors"
)

func TestCompact_PurgesDeletedRowsAndIsIdempotent(t *testing.T) {
	t.Parallel()

	w, _ := newTestWallet(t)
	ctx := context.Background()

	itemID, err := w.AddItem(ctx, "Item", "", false, "")
	require.NoError(t, err)
	_, err = w.AddField(ctx, itemID, "NOTE", "note", nil)
	require.NoError(t, err)
	require.NoError(t, w.DeleteItem(ctx, itemID))

	purgedItems, purgedFields, err := w.Compact(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, purgedItems)
	assert.Equal(t, 1, purgedFields)

	deleted, err := w.GetDeletedItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, deleted)

	purgedItems, purgedFields, err = w.Compact(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, purgedItems)
	assert.Equal(t, 0, purgedFields)
}

func TestStats_CountsActiveAndDeletedSeparately(t *testing.T) {
	t.Parallel()

	w, _ := newTestWallet(t)
	ctx := context.Background()

	folderID, err := w.AddItem(ctx, "Folder", "", true, "")
	require.NoError(t, err)
	itemID, err := w.AddItem(ctx, "Item", "", false, folderID)
	require.NoError(t, err)
	_, err = w.AddField(ctx, itemID, "NOTE", "note", nil)
	require.NoError(t, err)
	toDelete, err := w.AddItem(ctx, "Gone", "", false, "")
	require.NoError(t, err)
	require.NoError(t, w.DeleteItem(ctx, toDelete))

	stats, err := w.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.ActiveItems)
	assert.Equal(t, 1, stats.ActiveFolders)
	assert.Equal(t, 1, stats.ActiveFields)
	assert.Equal(t, 20, stats.Labels)
	assert.Equal(t, 0, stats.CustomLabels)
	assert.Equal(t, 1, stats.DeletedItems)
	assert.Positive(t, stats.FileSizeBytes)
}

func TestStats_WorksWhileLocked(t *testing.T) {
	t.Parallel()

	w, _ := newTestWallet(t)
	w.Lock()

	_, err := w.Stats(context.Background())
	require.NoError(t, err)
	assert.NotErrorIs(t, err, vaulterrors.ErrLocked)
}
