// Package storage implements the relational storage adapter: schema
// creation, idempotent migrations, and a thin connection wrapper over the
// six-table wallet database. It knows nothing about encryption or the
// domain model above rows — that lives in internal/wallet.
package storage

// CurrentVersion is the schema version a freshly created database is
// stamped with, and the upper bound a backup's version must not exceed to
// be considered compatible.
const CurrentVersion = "5"

// Table and view names, unprefixed by callers and always referenced through
// these constants so a rename only touches one file.
const (
	TableProperties = "wallet_properties"
	TableItems      = "wallet_items"
	TableFields     = "wallet_fields"
	TableLabels     = "wallet_labels"
	TableIcons      = "wallet_icons"
	TableGroups     = "wallet_groups"
	ViewLabels      = "wallet_labels_view"
)

const createPropertiesTable = `
CREATE TABLE IF NOT EXISTS ` + TableProperties + ` (
	database_id      CHAR(32) NOT NULL PRIMARY KEY,
	lang             CHAR(2),
	version          CHAR(10),
	email            CHAR(200),
	sync_timestamp   TEXT,
	update_timestamp TEXT
)`

const createItemsTable = `
CREATE TABLE IF NOT EXISTS ` + TableItems + ` (
	item_id          CHAR(8) NOT NULL PRIMARY KEY,
	parent_id        CHAR(8),
	name             BLOB,
	icon             CHAR(48),
	field_id         CHAR(4),
	folder           INTEGER,
	create_timestamp TEXT,
	change_timestamp TEXT,
	deleted          INTEGER DEFAULT 0
)`

const createFieldsTable = `
CREATE TABLE IF NOT EXISTS ` + TableFields + ` (
	item_id          CHAR(8) NOT NULL,
	field_id         CHAR(4) NOT NULL,
	type             CHAR(4),
	value            BLOB,
	change_timestamp TEXT,
	deleted          INTEGER DEFAULT 0,
	sort_weight      INTEGER,
	PRIMARY KEY (item_id, field_id)
)`

const createLabelsTable = `
CREATE TABLE IF NOT EXISTS ` + TableLabels + ` (
	field_type       VARCHAR PRIMARY KEY NOT NULL,
	label_name       VARCHAR,
	value_type       VARCHAR,
	icon             VARCHAR,
	system           INTEGER,
	change_timestamp TEXT,
	deleted          INTEGER DEFAULT 0
)`

const createIconsTable = `
CREATE TABLE IF NOT EXISTS ` + TableIcons + ` (
	icon_id   VARCHAR PRIMARY KEY NOT NULL,
	name      VARCHAR,
	icon_blob BLOB,
	group_id  INTEGER,
	is_circle INTEGER DEFAULT 1,
	deleted   INTEGER DEFAULT 0
)`

const createGroupsTable = `
CREATE TABLE IF NOT EXISTS ` + TableGroups + ` (
	group_id INTEGER PRIMARY KEY NOT NULL,
	name     VARCHAR,
	deleted  INTEGER DEFAULT 0
)`

const createLabelsView = `
CREATE VIEW IF NOT EXISTS ` + ViewLabels + ` AS
SELECT
	l.field_type,
	l.label_name,
	l.value_type,
	l.icon,
	l.system,
	l.change_timestamp,
	l.deleted,
	COUNT(f.type) AS usage
FROM ` + TableLabels + ` l
LEFT JOIN ` + TableFields + ` f ON l.field_type = f.type
WHERE l.deleted = 0
GROUP BY l.field_type
ORDER BY usage DESC`

// createAllTables lists every DDL statement executed, in order, when a new
// database file is created.
var createAllTables = []string{
	createPropertiesTable,
	createItemsTable,
	createFieldsTable,
	createLabelsTable,
	createIconsTable,
	createGroupsTable,
	createLabelsView,
}
