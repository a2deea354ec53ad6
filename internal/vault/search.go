package vault

import (
	"context"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/nsvault/nsvault/internal/storage"
)

// SearchMinLength is the minimum query length; shorter queries return no
// results rather than erroring.
const SearchMinLength = 3

// fuzzyMaxDistance bounds the Levenshtein edit distance accepted by the
// fuzzy fallback, scaled lightly with query length so short queries don't
// match almost anything.
func fuzzyMaxDistance(queryLen int) int {
	switch {
	case queryLen <= 4:
		return 1
	case queryLen <= 8:
		return 2
	default:
		return 3
	}
}

// Search matches non-root items by name (leaves only) and by active field
// value, case-insensitively. Ordering follows cache iteration order; there
// is no relevance ranking. A query shorter than SearchMinLength returns no
// results. When an item's lowercase name or field values contain no exact
// substring match, a fuzzy fallback compares the query against each
// whitespace-delimited word by Levenshtein distance, flagging the result as
// Fuzzy rather than an exact MatchName/MatchField.
func (w *Wallet) Search(ctx context.Context, query string) ([]SearchResult, error) {
	if len(query) < SearchMinLength {
		return nil, nil
	}
	q := strings.ToLower(query)

	items, err := w.items(ctx)
	if err != nil {
		return nil, err
	}
	fields, err := w.fields(ctx)
	if err != nil {
		return nil, err
	}

	fieldsByItem := make(map[string][]Field, len(items))
	for _, f := range fields {
		fieldsByItem[f.ItemID] = append(fieldsByItem[f.ItemID], f)
	}

	var results []SearchResult
	for _, it := range items {
		if it.ItemID == storage.RootID {
			continue
		}

		nameLower := strings.ToLower(it.Name)
		nameMatch := !it.Folder && strings.Contains(nameLower, q)

		var matched []Field
		for _, f := range fieldsByItem[it.ItemID] {
			if strings.Contains(strings.ToLower(f.Value), q) {
				matched = append(matched, f)
			}
		}

		if nameMatch || len(matched) > 0 {
			results = append(results, SearchResult{
				Item:          it,
				MatchedFields: matched,
				MatchName:     nameMatch,
				MatchField:    len(matched) > 0,
			})
			continue
		}

		if fuzzyNameMatch := !it.Folder && fuzzyWordMatch(nameLower, q); fuzzyNameMatch {
			results = append(results, SearchResult{Item: it, MatchName: true, Fuzzy: true})
			continue
		}

		var fuzzyFields []Field
		for _, f := range fieldsByItem[it.ItemID] {
			if fuzzyWordMatch(strings.ToLower(f.Value), q) {
				fuzzyFields = append(fuzzyFields, f)
			}
		}
		if len(fuzzyFields) > 0 {
			results = append(results, SearchResult{Item: it, MatchedFields: fuzzyFields, MatchField: true, Fuzzy: true})
		}
	}

	return results, nil
}

// fuzzyWordMatch reports whether any whitespace-delimited word of text is
// within fuzzyMaxDistance Levenshtein edits of query.
func fuzzyWordMatch(text, query string) bool {
	maxDist := fuzzyMaxDistance(len(query))
	for _, word := range strings.Fields(text) {
		if levenshtein.ComputeDistance(word, query) <= maxDist {
			return true
		}
	}
	return false
}
