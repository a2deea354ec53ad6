// Package backup implements snapshot, listing, verification, restore, and
// retention for wallet database backups. A backup is a single-entry ZIP
// archive carrying a full copy of the wallet's SQLite file.
package backup

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"

	"github.com/nsvault/nsvault/internal/fileutil"
	"github.com/nsvault/nsvault/internal/storage"
	"github.com/nsvault/nsvault/internal/vault"
	vaulterrors "github.com/nsvault/nsvault/pkg/errors"
)

func init() {
	zip.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.DefaultCompression)
	})
	zip.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return flate.NewReader(r)
	})
}

// entryName is the fixed name of the single file stored inside a backup
// archive.
const entryName = vault.DatabaseFileName

// entryPermissions are the permission bits recorded on the archived entry.
const entryPermissions = 0o644

// Kind classifies how a backup came to exist.
type Kind string

// Backup kinds, ordered by how the filename-classification rule in List
// resolves an unrecognized suffix: anything that isn't Manual or Imported
// is Auto.
const (
	KindAuto     Kind = "auto"
	KindManual   Kind = "manual"
	KindImported Kind = "imported"
)

const (
	currentPrefix  = "iwb"
	legacyPrefix   = "nswb"
	filenameLayout = "20060102-150405"
)

// Info describes a backup archive discovered on disk.
type Info struct {
	Path      string
	Kind      Kind
	CreatedAt time.Time
}

// filename builds the canonical backup filename for the given kind and UTC
// timestamp.
func filename(kind Kind, at time.Time) string {
	return fmt.Sprintf("%s-%s-%s.zip", currentPrefix, at.UTC().Format(filenameLayout), kind)
}

// Snapshot checkpoints the live wallet's WAL, then archives its database
// file into dir under a freshly computed name. dir is created if absent.
func Snapshot(ctx context.Context, db *storage.DB, dir string, kind Kind) (string, error) {
	if err := db.Checkpoint(ctx); err != nil {
		return "", vaulterrors.Wrap(vaulterrors.ErrBackup, "checkpoint before backup: %v", err)
	}
	return SnapshotFile(db.Path(), dir, kind)
}

// SnapshotFile archives a closed (or otherwise checkpointed) database file
// at dbPath into dir, without requiring a live handle. dir is created if
// absent.
func SnapshotFile(dbPath, dir string, kind Kind) (string, error) {
	data, err := os.ReadFile(dbPath)
	if err != nil {
		return "", vaulterrors.Wrap(vaulterrors.ErrBackup, "read database file: %v", err)
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", vaulterrors.Wrap(vaulterrors.ErrBackup, "create backup directory: %v", err)
	}

	archivePath := filepath.Join(dir, filename(kind, time.Now()))
	if err := writeArchive(archivePath, data); err != nil {
		return "", err
	}
	return archivePath, nil
}

func writeArchive(archivePath string, data []byte) error {
	f, err := os.Create(archivePath)
	if err != nil {
		return vaulterrors.Wrap(vaulterrors.ErrBackup, "create archive: %v", err)
	}
	defer func() { _ = f.Close() }()

	zw := zip.NewWriter(f)
	hdr := &zip.FileHeader{
		Name:   entryName,
		Method: zip.Deflate,
	}
	hdr.SetMode(entryPermissions)

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return vaulterrors.Wrap(vaulterrors.ErrBackup, "create archive entry: %v", err)
	}
	if _, err := w.Write(data); err != nil {
		return vaulterrors.Wrap(vaulterrors.ErrBackup, "write archive entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		return vaulterrors.Wrap(vaulterrors.ErrBackup, "close archive: %v", err)
	}
	return nil
}

// List scans dir for backup archives and returns them newest first.
// Non-matching files are silently skipped.
func List(dir string) ([]Info, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, vaulterrors.Wrap(vaulterrors.ErrBackup, "list backup directory: %v", err)
	}

	var infos []Info
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, ok := parseFilename(e.Name())
		if !ok {
			continue
		}
		info.Path = filepath.Join(dir, e.Name())
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt.After(infos[j].CreatedAt)
	})
	return infos, nil
}

// parseFilename parses a backup filename of the form
// {iwb|nswb}-YYYYMMDD-HHMMSS-{kind}.zip.
func parseFilename(name string) (Info, bool) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if filepath.Ext(name) != ".zip" {
		return Info{}, false
	}

	parts := strings.SplitN(base, "-", 4)
	if len(parts) != 4 {
		return Info{}, false
	}
	if parts[0] != currentPrefix && parts[0] != legacyPrefix {
		return Info{}, false
	}

	at, err := time.Parse(filenameLayout, parts[1]+"-"+parts[2])
	if err != nil {
		return Info{}, false
	}

	kind := KindAuto
	switch Kind(parts[3]) {
	case KindManual:
		kind = KindManual
	case KindImported:
		kind = KindImported
	}

	return Info{Kind: kind, CreatedAt: at.UTC()}, true
}

// Verify opens the archive at path and confirms it carries a non-empty
// database entry.
func Verify(path string) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return vaulterrors.Wrap(vaulterrors.ErrBackup, "open archive: %v", err)
	}
	defer func() { _ = zr.Close() }()

	f, err := findEntry(&zr.Reader)
	if err != nil {
		return err
	}
	if f.UncompressedSize64 == 0 {
		return vaulterrors.Wrap(vaulterrors.ErrBackup, "archive entry %s is empty", entryName)
	}
	return nil
}

func findEntry(zr *zip.Reader) (*zip.File, error) {
	for _, f := range zr.File {
		if f.Name == entryName {
			return f, nil
		}
	}
	return nil, vaulterrors.Wrap(vaulterrors.ErrBackup, "archive missing entry %s", entryName)
}

func readEntry(path string) ([]byte, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, vaulterrors.Wrap(vaulterrors.ErrBackup, "open archive: %v", err)
	}
	defer func() { _ = zr.Close() }()

	f, err := findEntry(&zr.Reader)
	if err != nil {
		return nil, err
	}

	rc, err := f.Open()
	if err != nil {
		return nil, vaulterrors.Wrap(vaulterrors.ErrBackup, "open archive entry: %v", err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, vaulterrors.Wrap(vaulterrors.ErrBackup, "read archive entry: %v", err)
	}
	return data, nil
}

// Restore writes the archived database at path to targetPath, creating its
// parent directory if needed.
func Restore(path, targetPath string) error {
	data, err := readEntry(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(targetPath), 0o750); err != nil {
		return vaulterrors.Wrap(vaulterrors.ErrBackup, "create target directory: %v", err)
	}
	if err := fileutil.WriteAtomic(targetPath, data, entryPermissions); err != nil {
		return vaulterrors.Wrap(vaulterrors.ErrBackup, "write restored database: %v", err)
	}
	return nil
}

// Extract writes the archived database into targetDir under its standard
// filename, creating targetDir if needed.
func Extract(path, targetDir string) error {
	return Restore(path, filepath.Join(targetDir, entryName))
}

// CleanupOldBackups keeps the keep newest backups of any kind in dir and
// removes the rest.
func CleanupOldBackups(dir string, keep int) (removed int, err error) {
	infos, err := List(dir)
	if err != nil {
		return 0, err
	}
	if keep < 0 {
		keep = 0
	}
	if keep >= len(infos) {
		return 0, nil
	}
	for _, info := range infos[keep:] {
		if err := os.Remove(info.Path); err != nil {
			return removed, vaulterrors.Wrap(vaulterrors.ErrBackup, "remove %s: %v", info.Path, err)
		}
		removed++
	}
	return removed, nil
}

// CleanupAutoBackups keeps the newest minKeep auto backups in dir and, of
// the remainder, removes those older than maxAgeDays. Manual and imported
// backups are never touched.
func CleanupAutoBackups(dir string, minKeep, maxAgeDays int) (removed int, err error) {
	infos, err := List(dir)
	if err != nil {
		return 0, err
	}

	var autos []Info
	for _, info := range infos {
		if info.Kind == KindAuto {
			autos = append(autos, info)
		}
	}
	if minKeep < 0 {
		minKeep = 0
	}
	if minKeep >= len(autos) {
		return 0, nil
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -maxAgeDays)
	for _, info := range autos[minKeep:] {
		if info.CreatedAt.After(cutoff) {
			continue
		}
		if err := os.Remove(info.Path); err != nil {
			return removed, vaulterrors.Wrap(vaulterrors.ErrBackup, "remove %s: %v", info.Path, err)
		}
		removed++
	}
	return removed, nil
}

// GetBackupDBVersion extracts path to a temporary directory, opens the
// inner database read-only, and returns its recorded schema version,
// defaulting to "1" if the properties row cannot be read.
func GetBackupDBVersion(ctx context.Context, path string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "nsvault-backup-probe-*")
	if err != nil {
		return "", vaulterrors.Wrap(vaulterrors.ErrBackup, "create temp directory: %v", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	if err := Extract(path, tmpDir); err != nil {
		return "", err
	}

	db, err := storage.Open(ctx, filepath.Join(tmpDir, entryName))
	if err != nil {
		return "1", nil
	}
	defer func() { _ = db.Close() }()

	props, err := db.Properties(ctx)
	if err != nil || props.Version == "" {
		return "1", nil
	}
	return props.Version, nil
}

// IsBackupCompatible reports whether a backup at the given schema version
// can be restored against the schema this build understands.
func IsBackupCompatible(backupVersion string) bool {
	return storage.IsVersionCompatible(backupVersion)
}
