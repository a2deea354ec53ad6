// Package export assembles the ordered models a PDF-builder collaborator
// renders into a "password book" document. It never touches fonts, page
// layout, or glyph shaping itself — those are the renderer's job.
package export

// ItemType classifies an exportable model entry.
type ItemType int

// The three kinds of model entry a renderer can be asked to draw.
const (
	TypeItem ItemType = iota
	TypeFolder
	TypeField
)

// String renders the ItemType the way a renderer's debug output would name
// it.
func (t ItemType) String() string {
	switch t {
	case TypeItem:
		return "Item"
	case TypeFolder:
		return "Folder"
	case TypeField:
		return "Field"
	default:
		return "Unknown"
	}
}

// PDFItemModel is a single renderable row: a display name, an icon
// identifier, its kind, and the breadcrumb path it lives under (e.g.
// "Banking / Credit Cards").
type PDFItemModel struct {
	Name     string
	Image    string
	ItemType ItemType
	Path     string
}

// NewItemModel builds a model entry for a regular (non-folder) item.
func NewItemModel(name, image, path string) PDFItemModel {
	return PDFItemModel{Name: name, Image: image, ItemType: TypeItem, Path: path}
}

// NewFolderModel builds a model entry for a folder.
func NewFolderModel(name, image, path string) PDFItemModel {
	return PDFItemModel{Name: name, Image: image, ItemType: TypeFolder, Path: path}
}

// NewFieldModel builds a model entry for a single field value.
func NewFieldModel(name, image, path string) PDFItemModel {
	return PDFItemModel{Name: name, Image: image, ItemType: TypeField, Path: path}
}

// IsFolder reports whether the model represents a folder.
func (m PDFItemModel) IsFolder() bool { return m.ItemType == TypeFolder }

// IsItem reports whether the model represents a regular item.
func (m PDFItemModel) IsItem() bool { return m.ItemType == TypeItem }

// IsField reports whether the model represents a field value.
func (m PDFItemModel) IsField() bool { return m.ItemType == TypeField }
