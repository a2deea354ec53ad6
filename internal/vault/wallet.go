// Package vault implements the wallet data engine: the item/field/label
// domain model, its soft-delete state machine, cache coherence, and
// transactional re-encryption. It is the layer that turns the raw rows
// exposed by internal/storage into the decrypted, joined views the CLI
// collaborator renders, and the only place in the program that holds a
// plaintext password in memory.
package vault

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/nsvault/nsvault/internal/storage"
	"github.com/nsvault/nsvault/internal/vaultcrypto"
	vaulterrors "github.com/nsvault/nsvault/pkg/errors"
)

// DatabaseFileName is the fixed filename of the wallet database inside its
// directory.
const DatabaseFileName = "nswallet.dat"

// Wallet owns the storage handle and the three decrypted caches exclusively.
// Decrypted values never escape it except by value. The root password lives
// in the Wallet only while unlocked.
type Wallet struct {
	db     *storage.DB
	dbPath string

	password *vaultcrypto.SecureBytes
	encCount uint32

	itemsCache  []Item
	fieldsCache []Field
	labelsCache []Label
}

// Open opens an existing wallet directory. It returns ErrDatabaseNotFound if
// the directory does not contain nswallet.dat. The returned Wallet is
// locked; call Unlock before any data operation.
func Open(ctx context.Context, dir string) (*Wallet, error) {
	path := filepath.Join(dir, DatabaseFileName)
	if _, err := os.Stat(path); err != nil {
		return nil, vaulterrors.ErrDatabaseNotFound
	}

	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, err
	}

	return &Wallet{db: db, dbPath: path}, nil
}

// Create initializes a new wallet directory: schema, properties (with a
// fresh database id and an encryption_count of 0), the root item (ciphertext
// of 32 random characters encrypted at count 0), and the twenty system
// labels. The returned Wallet is unlocked under password.
func Create(ctx context.Context, dir, password, lang string) (*Wallet, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, vaulterrors.Wrap(vaulterrors.ErrIO, "create wallet directory %s", dir)
	}

	path := filepath.Join(dir, DatabaseFileName)
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, err
	}

	now := storage.Now()
	props := storage.PropertiesRow{
		DatabaseID:      vaultcrypto.GenerateDatabaseID(),
		Lang:            lang,
		Version:         storage.CurrentVersion,
		EncryptionCount: 0,
		SyncTimestamp:   now,
		UpdateTimestamp: now,
	}
	if err := db.InsertProperties(ctx, props); err != nil {
		_ = db.Close()
		return nil, err
	}

	rootPlaintext, err := vaultcrypto.GenerateID(32)
	if err != nil {
		_ = db.Close()
		return nil, vaulterrors.Wrap(vaulterrors.ErrEncryption, "generate root secret")
	}
	rootCipher, err := vaultcrypto.Encrypt(rootPlaintext, password, 0, "")
	if err != nil {
		_ = db.Close()
		return nil, vaulterrors.Wrap(vaulterrors.ErrEncryption, "encrypt root item")
	}
	root := storage.ItemRow{
		ItemID:          storage.RootID,
		ParentID:        storage.RootParentID,
		Name:            rootCipher,
		Folder:          true,
		CreateTimestamp: now,
		ChangeTimestamp: now,
	}
	if err := db.InsertItem(ctx, root); err != nil {
		_ = db.Close()
		return nil, err
	}

	for _, sft := range storage.SystemFieldTypes {
		label := storage.LabelRow{
			FieldType:       sft.FieldType,
			LabelName:       sft.LabelKey,
			ValueType:       sft.ValueType,
			Icon:            sft.Icon,
			System:          true,
			ChangeTimestamp: now,
		}
		if err := db.InsertLabel(ctx, label); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	w := &Wallet{db: db, dbPath: path, encCount: 0}
	w.password = vaultcrypto.SecureBytesFromSlice([]byte(password))
	return w, nil
}

// Close releases the underlying database handle. It does not lock the
// wallet's in-memory secret; call Lock first if that matters to the caller.
func (w *Wallet) Close() error {
	return w.db.Close()
}

// Unlock attempts to decrypt the root item under password. Success caches
// the password and clears stale caches; failure returns false, not an
// error — only a genuine database fault is surfaced as an error.
func (w *Wallet) Unlock(ctx context.Context, password string) (bool, error) {
	props, err := w.db.Properties(ctx)
	if err != nil {
		return false, err
	}
	root, err := w.db.Item(ctx, storage.RootID)
	if err != nil {
		return false, vaulterrors.Wrap(vaulterrors.ErrDatabase, "read root item")
	}

	if _, err := vaultcrypto.Decrypt(root.Name, password, props.EncryptionCount, ""); err != nil {
		return false, nil
	}

	if w.password != nil {
		w.password.Destroy()
	}
	w.password = vaultcrypto.SecureBytesFromSlice([]byte(password))
	w.encCount = props.EncryptionCount
	w.invalidateAll()
	return true, nil
}

// Lock drops the cached password and clears every cache. It never fails.
func (w *Wallet) Lock() {
	if w.password != nil {
		w.password.Destroy()
		w.password = nil
	}
	w.invalidateAll()
}

// Locked reports whether the wallet currently holds no password.
func (w *Wallet) Locked() bool {
	return w.password == nil
}

// CheckPassword reports whether password unlocks the wallet, without
// mutating any state. It works while locked.
func (w *Wallet) CheckPassword(ctx context.Context, password string) (bool, error) {
	props, err := w.db.Properties(ctx)
	if err != nil {
		return false, err
	}
	root, err := w.db.Item(ctx, storage.RootID)
	if err != nil {
		return false, vaulterrors.Wrap(vaulterrors.ErrDatabase, "read root item")
	}
	_, err = vaultcrypto.Decrypt(root.Name, password, props.EncryptionCount, "")
	return err == nil, nil
}

// Properties returns the wallet's singleton properties row.
func (w *Wallet) Properties(ctx context.Context) (Properties, error) {
	row, err := w.db.Properties(ctx)
	if err != nil {
		return Properties{}, err
	}
	return Properties{
		DatabaseID:      row.DatabaseID,
		Lang:            row.Lang,
		Version:         row.Version,
		EncryptionCount: row.EncryptionCount,
		SyncTimestamp:   parseTimestamp(row.SyncTimestamp),
		UpdateTimestamp: parseTimestamp(row.UpdateTimestamp),
	}, nil
}

func (w *Wallet) requireUnlocked() error {
	if w.password == nil {
		return vaulterrors.ErrLocked
	}
	return nil
}

func (w *Wallet) encrypt(plaintext string) ([]byte, error) {
	if err := w.requireUnlocked(); err != nil {
		return nil, err
	}
	ct, err := vaultcrypto.Encrypt(plaintext, string(w.password.Bytes()), w.encCount, "")
	if err != nil {
		return nil, vaulterrors.Wrap(vaulterrors.ErrEncryption, "encrypt: %v", err)
	}
	return ct, nil
}

// decrypt decrypts ciphertext under the wallet's current password. Callers
// in the active-data paths propagate its error; deleted-pool readers skip
// the row instead (see ErrDecryption handling in items.go/fields.go).
func (w *Wallet) decrypt(ciphertext []byte) (string, error) {
	if err := w.requireUnlocked(); err != nil {
		return "", err
	}
	pt, err := vaultcrypto.Decrypt(ciphertext, string(w.password.Bytes()), w.encCount, "")
	if err != nil {
		return "", vaulterrors.Wrap(vaulterrors.ErrDecryption, "decrypt: %v", err)
	}
	return pt, nil
}

func (w *Wallet) invalidateAll() {
	w.itemsCache = nil
	w.fieldsCache = nil
	w.labelsCache = nil
}

func (w *Wallet) invalidateItems() {
	w.itemsCache = nil
}

func (w *Wallet) invalidateFields() {
	w.fieldsCache = nil
}

func (w *Wallet) invalidateLabels() {
	w.labelsCache = nil
}

// parseTimestamp parses an on-disk timestamp, falling back to the zero time
// for an empty or malformed column rather than failing the whole read.
func parseTimestamp(s string) time.Time {
	t, err := storage.ParseTimestamp(s)
	if err != nil {
		return time.Time{}
	}
	return t
}
