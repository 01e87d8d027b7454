package catalog

import (
	"strings"

	"golang.org/x/text/cases"
)

// Tab selects which entries the item picker lists
type Tab string

const (
	TabAll      Tab = "all"
	TabBarcode  Tab = "barcode"
	TabProducts Tab = "products"
)

// IsValid checks if the tab is known
func (t Tab) IsValid() bool {
	switch t {
	case TabAll, TabBarcode, TabProducts:
		return true
	}
	return false
}

// ParseTab parses a tab name, defaulting to TabAll
func ParseTab(s string) Tab {
	t := Tab(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return TabAll
	}
	return t
}

func (t Tab) includes(e ResolvedCatalogEntry) bool {
	switch t {
	case TabBarcode:
		return e.IsBarcodeItem && e.Barcode != nil && e.Barcode.IsValid
	case TabProducts:
		return !e.IsBarcodeItem
	default:
		return true
	}
}

// Search returns entries on tab whose text fields contain query.
// Matching is case-insensitive; an empty query matches everything on the tab.
func (idx *Index) Search(tab Tab, query string) []ResolvedCatalogEntry {
	// Casers are stateful, so each search gets its own.
	folder := cases.Fold()
	q := folder.String(strings.TrimSpace(query))
	out := make([]ResolvedCatalogEntry, 0)
	for _, e := range idx.entries {
		if !tab.includes(e) {
			continue
		}
		if q == "" || matches(folder, e, q) {
			out = append(out, e)
		}
	}
	return out
}

func matches(folder cases.Caser, e ResolvedCatalogEntry, foldedQuery string) bool {
	fields := []string{e.Description, e.Code, e.Item.ItemID}
	if e.Barcode != nil {
		fields = append(fields, e.Barcode.Description, e.Barcode.BarcodeType)
	}
	for _, f := range fields {
		if f != "" && strings.Contains(folder.String(f), foldedQuery) {
			return true
		}
	}
	return false
}
