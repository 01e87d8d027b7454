package catalog

// BuildIndex merges items with their barcodes.
//
// An item with valid barcodes expands to one entry per valid barcode and emits
// no bare entry. An item without valid barcodes emits exactly one bare entry.
// Output follows item order, then barcode order within an item.
func BuildIndex(items []CatalogItem, barcodes []BarcodeRecord) []ResolvedCatalogEntry {
	entries := make([]ResolvedCatalogEntry, 0, len(items))
	for _, item := range items {
		expanded := false
		for _, b := range barcodes {
			if !b.IsValid || !b.References(item) {
				continue
			}
			entries = append(entries, newBarcodeEntry(item, b))
			expanded = true
		}
		if !expanded {
			entries = append(entries, newProductEntry(item))
		}
	}
	return entries
}

// ResolveByCode finds the entry for a scanned code.
//
// Lookup runs in three passes so the most specific match wins: the entry's
// effective code, then the underlying item code, then the raw barcode code.
func ResolveByCode(entries []ResolvedCatalogEntry, scannedCode string) (ResolvedCatalogEntry, bool) {
	code := normalizeCode(scannedCode)
	if code == "" {
		return ResolvedCatalogEntry{}, false
	}

	passes := []func(ResolvedCatalogEntry) string{
		func(e ResolvedCatalogEntry) string { return e.Code },
		func(e ResolvedCatalogEntry) string { return e.Item.ItemCode },
		func(e ResolvedCatalogEntry) string { return e.BarcodeCode() },
	}
	for _, key := range passes {
		for _, e := range entries {
			if normalizeCode(key(e)) == code {
				return e, true
			}
		}
	}
	return ResolvedCatalogEntry{}, false
}

// Index is an immutable snapshot of resolved entries.
// It is rebuilt wholesale whenever the source catalogs refresh.
type Index struct {
	entries  []ResolvedCatalogEntry
	byUnique map[string]int
}

// NewIndex builds an Index from raw catalog snapshots
func NewIndex(items []CatalogItem, barcodes []BarcodeRecord) *Index {
	entries := BuildIndex(items, barcodes)
	byUnique := make(map[string]int, len(entries))
	for i, e := range entries {
		if _, dup := byUnique[e.UniqueID]; !dup {
			byUnique[e.UniqueID] = i
		}
	}
	return &Index{entries: entries, byUnique: byUnique}
}

// Entries returns a copy of all entries in index order
func (idx *Index) Entries() []ResolvedCatalogEntry {
	out := make([]ResolvedCatalogEntry, len(idx.entries))
	copy(out, idx.entries)
	return out
}

// Len returns the number of entries
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Resolve looks up a scanned code
func (idx *Index) Resolve(scannedCode string) (ResolvedCatalogEntry, bool) {
	return ResolveByCode(idx.entries, scannedCode)
}

// FindByUniqueID returns the entry with the given picker id
func (idx *Index) FindByUniqueID(id string) (ResolvedCatalogEntry, bool) {
	i, ok := idx.byUnique[id]
	if !ok {
		return ResolvedCatalogEntry{}, false
	}
	return idx.entries[i], true
}
