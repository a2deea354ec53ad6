package vault

import "time"

// Item is the decrypted, read-side view of a wallet_items row.
type Item struct {
	ItemID          string
	ParentID        string
	Name            string
	Icon            string
	Folder          bool
	CreateTimestamp time.Time
	ChangeTimestamp time.Time
	Deleted         bool
}

// Field is the decrypted, label-joined, read-side view of a wallet_fields
// row. Label, Icon, and ValueType are resolved from the label catalog;
// Expired/Expiring are derived only for EXPD-typed fields.
type Field struct {
	ItemID          string
	FieldID         string
	Type            string
	Value           string
	SortWeight      int
	ChangeTimestamp time.Time
	Deleted         bool

	Label     string
	Icon      string
	ValueType string
	Expired   bool
	Expiring  bool
}

// unknownLabelPlaceholder is substituted for Label/ValueType when a field's
// type has no corresponding row in the label catalog (deleted custom label,
// or legacy data referencing a type that was never registered).
const unknownLabelPlaceholder = "Unknown"

// Label is the read-side view of a wallet_labels row joined with its live
// usage count.
type Label struct {
	FieldType string
	Name      string
	ValueType string
	Icon      string
	System    bool
	Deleted   bool
	Usage     int
}

// Properties is the decrypted-adjacent (properties carries no ciphertext)
// view of the wallet's singleton properties row.
type Properties struct {
	DatabaseID      string
	Lang            string
	Version         string
	EncryptionCount uint32
	SyncTimestamp   time.Time
	UpdateTimestamp time.Time
}

// SearchResult pairs a matching item with the fields that matched and a
// classification of how it matched.
type SearchResult struct {
	Item          Item
	MatchedFields []Field
	MatchName     bool
	MatchField    bool
	Fuzzy         bool
}

// Stats summarizes the wallet's current contents for the operational
// surface. It performs no mutation.
type Stats struct {
	ActiveItems   int
	ActiveFolders int
	ActiveFields  int
	Labels        int
	CustomLabels  int
	DeletedItems  int
	DeletedFields int
	FileSizeBytes int64
}

const expiryDateLayout = "2006-01-02"

const expiringWindow = 30 * 24 * time.Hour
