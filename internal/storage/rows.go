package storage

// PropertiesRow mirrors wallet_properties. The encryption iteration count
// is persisted in the email column for legacy reasons — no such data is
// ever stored there in practice, and the column is reused to avoid an
// on-disk schema change.
type PropertiesRow struct {
	DatabaseID      string
	Lang            string
	Version         string
	EncryptionCount uint32 // stored in the email column
	SyncTimestamp   string
	UpdateTimestamp string
}

// ItemRow mirrors wallet_items. Name is ciphertext; callers in the data
// engine own decryption.
type ItemRow struct {
	ItemID          string
	ParentID        string
	Name            []byte
	Icon            string
	FieldID         string
	Folder          bool
	CreateTimestamp string
	ChangeTimestamp string
	Deleted         bool
}

// FieldRow mirrors wallet_fields. Value is ciphertext.
type FieldRow struct {
	ItemID          string
	FieldID         string
	Type            string
	Value           []byte
	ChangeTimestamp string
	Deleted         bool
	SortWeight      int
}

// LabelRow mirrors wallet_labels (and, with Usage populated, wallet_labels_view).
type LabelRow struct {
	FieldType       string
	LabelName       string
	ValueType       string
	Icon            string
	System          bool
	ChangeTimestamp string
	Deleted         bool
	Usage           int
}

// IconRow mirrors wallet_icons.
type IconRow struct {
	IconID   string
	Name     string
	IconBlob []byte
	GroupID  int
	IsCircle bool
	Deleted  bool
}

// GroupRow mirrors wallet_groups.
type GroupRow struct {
	GroupID int
	Name    string
	Deleted bool
}

// SystemFieldType describes one of the 19 built-in field-type definitions
// seeded into wallet_labels when a new wallet is created.
type SystemFieldType struct {
	FieldType string
	ValueType string
	Icon      string
	LabelKey  string
}

// SystemFieldTypes is the fixed catalog of the twenty built-in field types,
// grounded on the legacy implementation's table of (field_type, value_type,
// icon, label_key) tuples. Wallet creation seeds one label row per entry.
var SystemFieldTypes = []SystemFieldType{
	{"MAIL", "mail", "icon_mail", "label_email"},
	{"PASS", "pass", "icon_pass", "label_password"},
	{"NOTE", "text", "icon_note", "label_note"},
	{"LINK", "link", "icon_link", "label_link"},
	{"ACNT", "text", "icon_account", "label_account"},
	{"CARD", "text", "icon_card", "label_card"},
	{"NAME", "text", "icon_name", "label_name"},
	{"PHON", "phon", "icon_phone", "label_phone"},
	{"PINC", "pass", "icon_pin", "label_pin"},
	{"USER", "text", "icon_user", "label_username"},
	{"OLDP", "pass", "icon_oldpass", "label_old_password"},
	{"DATE", "date", "icon_date", "label_date"},
	{"TIME", "time", "icon_time", "label_time"},
	{"EXPD", "date", "icon_expiry", "label_expiry_date"},
	{"SNUM", "text", "icon_serial", "label_serial_number"},
	{"ADDR", "text", "icon_address", "label_address"},
	{"SQUE", "text", "icon_question", "label_secret_question"},
	{"SANS", "pass", "icon_answer", "label_secret_answer"},
	{"2FAC", "pass", "icon_2fa", "label_2fa"},
	{"SEED", "text", "icon_seed", "label_seed_phrase"},
}

// RootID is the sentinel parent_id/item_id denoting the wallet's implicit
// root folder. It is never itself a row in wallet_items.
const RootID = "__ROOT__"

// RootParentID is the sentinel parent used when undeleting an item or field
// whose original ancestor chain is no longer known to be intact.
const RootParentID = "________"
