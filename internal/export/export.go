package export

import (
	"sort"
	"strings"

	"github.com/nsvault/nsvault/internal/storage"
	"github.com/nsvault/nsvault/internal/vault"
)

// FieldValue is a single rendered field line under an entry.
type FieldValue struct {
	Label string
	Value string
}

// Entry is one "password book" section: a non-deleted, non-folder item with
// its breadcrumb path and its ordered, non-deleted fields.
type Entry struct {
	Path   string
	Name   string
	Icon   string
	Fields []FieldValue
}

// BuildEntries assembles the flat, alphabetically sorted list of entries a
// renderer turns into a PDF. Deleted items, folders, and deleted fields are
// excluded; each entry's fields are ordered by sort weight.
func BuildEntries(items []vault.Item, fields []vault.Field) []Entry {
	byID := make(map[string]vault.Item, len(items))
	for _, it := range items {
		byID[it.ItemID] = it
	}

	fieldsByItem := make(map[string][]vault.Field)
	for _, f := range fields {
		if f.Deleted {
			continue
		}
		fieldsByItem[f.ItemID] = append(fieldsByItem[f.ItemID], f)
	}
	for id, fs := range fieldsByItem {
		sorted := append([]vault.Field(nil), fs...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].SortWeight < sorted[j].SortWeight })
		fieldsByItem[id] = sorted
	}

	var leaves []vault.Item
	for _, it := range items {
		if it.Deleted || it.Folder {
			continue
		}
		leaves = append(leaves, it)
	}
	sort.SliceStable(leaves, func(i, j int) bool {
		return strings.ToLower(leaves[i].Name) < strings.ToLower(leaves[j].Name)
	})

	entries := make([]Entry, 0, len(leaves))
	for _, it := range leaves {
		var values []FieldValue
		for _, f := range fieldsByItem[it.ItemID] {
			values = append(values, FieldValue{Label: f.Label, Value: f.Value})
		}
		entries = append(entries, Entry{
			Path:   computePath(it, byID),
			Name:   it.Name,
			Icon:   it.Icon,
			Fields: values,
		})
	}
	return entries
}

// computePath resolves the breadcrumb of ancestor folder names above item,
// stopping at the implicit root.
func computePath(item vault.Item, byID map[string]vault.Item) string {
	var parts []string
	currentID := item.ParentID
	for currentID != "" && currentID != storage.RootID {
		parent, ok := byID[currentID]
		if !ok {
			break
		}
		parts = append(parts, parent.Name)
		currentID = parent.ParentID
	}

	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " / ")
}

// ToModels flattens entries into the renderer-facing PDFItemModel shape:
// one Item model per entry, followed by one Field model per field it
// carries.
func ToModels(entries []Entry) []PDFItemModel {
	var models []PDFItemModel
	for _, e := range entries {
		models = append(models, NewItemModel(e.Name, e.Icon, e.Path))
		for _, f := range e.Fields {
			models = append(models, NewFieldModel(f.Label, "", e.Path+" / "+e.Name))
		}
	}
	return models
}
