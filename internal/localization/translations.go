// Package localization provides the eleven-language, compile-time-embedded
// key/value string tables the CLI collaborator draws its user-facing text
// from. The core never constructs translated strings itself; it only asks
// for a key and substitutes the result verbatim.
package localization

import (
	"embed"
	"encoding/json"
	"fmt"

	vaulterrors "github.com/nsvault/nsvault/pkg/errors"
)

//go:embed lang/*.json
var langFS embed.FS

// Translations holds the active language's table plus the English table it
// falls back to.
type Translations struct {
	lang    string
	strings map[string]string
	english map[string]string
}

// New loads English as the default active language.
func New() (*Translations, error) {
	english, err := loadLanguage("en")
	if err != nil {
		return nil, err
	}
	return &Translations{lang: "en", strings: english, english: english}, nil
}

func loadLanguage(code string) (map[string]string, error) {
	data, err := langFS.ReadFile(fmt.Sprintf("lang/%s.json", code))
	if err != nil {
		return nil, vaulterrors.Wrap(vaulterrors.ErrLocalization, "language %q not found", code)
	}

	var table map[string]string
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, vaulterrors.Wrap(vaulterrors.ErrLocalization, "parse language %q: %v", code, err)
	}
	return table, nil
}

// SetLanguage switches the active language. The English fallback table is
// unaffected.
func (t *Translations) SetLanguage(code string) error {
	if !IsSupported(code) {
		return vaulterrors.Wrap(vaulterrors.ErrLocalization, "language %q is not supported", code)
	}
	table, err := loadLanguage(code)
	if err != nil {
		return err
	}
	t.strings = table
	t.lang = code
	return nil
}

// Get returns the translation for key in the active language, falling back
// to English, then to the key itself if neither table has it.
func (t *Translations) Get(key string) string {
	if v, ok := t.strings[key]; ok {
		return v
	}
	if v, ok := t.english[key]; ok {
		return v
	}
	return key
}

// GetOpt returns the translation for key, or false if neither the active
// language nor English has it.
func (t *Translations) GetOpt(key string) (string, bool) {
	if v, ok := t.strings[key]; ok {
		return v, true
	}
	v, ok := t.english[key]
	return v, ok
}

// GetEnglish returns the English translation for key regardless of the
// active language, falling back to the key itself.
func (t *Translations) GetEnglish(key string) string {
	if v, ok := t.english[key]; ok {
		return v
	}
	return key
}

// Language returns the active language code.
func (t *Translations) Language() string {
	return t.lang
}

// LanguageName returns the active language's native name.
func (t *Translations) LanguageName() string {
	return languageName(t.lang)
}
