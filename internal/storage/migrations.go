package storage

import (
	"context"
	"database/sql"
	"strconv"

	vaulterrors "github.com/nsvault/nsvault/pkg/errors"
)

// migrate brings the database's properties.version up to CurrentVersion.
// Every step is idempotent: re-running it against an already-upgraded
// database must not error or change data.
func (db *DB) migrate(ctx context.Context) error {
	version, err := db.schemaVersion(ctx)
	if err != nil {
		return err
	}

	if version < 2 {
		if err := upgradeToV2(ctx, db.conn); err != nil {
			return err
		}
	}
	if version < 3 {
		if err := upgradeToV3(ctx, db.conn); err != nil {
			return err
		}
	}
	if version < 4 {
		if err := upgradeToV4(ctx, db.conn); err != nil {
			return err
		}
	}
	if version < 5 {
		if err := upgradeToV5(ctx, db.conn); err != nil {
			return err
		}
	}

	return nil
}

// schemaVersion reads properties.version, defaulting to 1 when the table is
// empty (a freshly created database with no property row yet) or the stored
// value fails to parse.
func (db *DB) schemaVersion(ctx context.Context) (int, error) {
	var raw string
	err := db.conn.QueryRowContext(ctx, "SELECT version FROM "+TableProperties+" LIMIT 1").Scan(&raw)
	if err == sql.ErrNoRows {
		return 1, nil
	}
	if err != nil {
		return 0, vaulterrors.Wrap(err, "read schema version")
	}

	v, convErr := strconv.Atoi(raw)
	if convErr != nil {
		return 1, nil
	}
	return v, nil
}

// upgradeToV2 is a no-op for databases created by this implementation: the
// icons/groups tables and system labels are already present from schema
// creation and wallet initialization respectively. The historical v1→v2
// step imported a legacy icon set that has no equivalent here.
func upgradeToV2(_ context.Context, _ *sql.DB) error {
	return nil
}

// upgradeToV3 adds is_circle/deleted columns to icons and deleted to
// groups. ALTER TABLE ADD COLUMN errors on a column that already exists;
// that error is swallowed so the step stays idempotent.
func upgradeToV3(ctx context.Context, conn *sql.DB) error {
	statements := []string{
		"ALTER TABLE " + TableIcons + " ADD COLUMN is_circle INTEGER DEFAULT 1",
		"ALTER TABLE " + TableIcons + " ADD COLUMN deleted INTEGER DEFAULT 0",
		"ALTER TABLE " + TableGroups + " ADD COLUMN deleted INTEGER DEFAULT 0",
	}
	for _, stmt := range statements {
		_, _ = conn.ExecContext(ctx, stmt)
	}
	return nil
}

// upgradeToV4 inserts the built-in 2FA label, if absent.
func upgradeToV4(ctx context.Context, conn *sql.DB) error {
	_, err := conn.ExecContext(ctx, `INSERT OR IGNORE INTO `+TableLabels+`
		(field_type, label_name, value_type, icon, system, deleted)
		VALUES ('2FAC', '2FA', 'pass', 'icon_2fa', 1, 0)`)
	if err != nil {
		return vaulterrors.Wrap(err, "migrate to v4")
	}
	return nil
}

// upgradeToV5 inserts the built-in Seed Phrase label, if absent.
func upgradeToV5(ctx context.Context, conn *sql.DB) error {
	_, err := conn.ExecContext(ctx, `INSERT OR IGNORE INTO `+TableLabels+`
		(field_type, label_name, value_type, icon, system, deleted)
		VALUES ('SEED', 'Seed Phrase', 'text', 'icon_seed', 1, 0)`)
	if err != nil {
		return vaulterrors.Wrap(err, "migrate to v5")
	}
	return nil
}

// IsVersionCompatible reports whether a database at the given version
// string can be opened by this build: v <= CurrentVersion. An unparsable
// version string is treated as 0, which is always compatible.
func IsVersionCompatible(version string) bool {
	v, err := strconv.Atoi(version)
	if err != nil {
		v = 0
	}
	current, _ := strconv.Atoi(CurrentVersion)
	return v <= current
}
