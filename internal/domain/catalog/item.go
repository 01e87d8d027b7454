// Package catalog resolves scannable codes to purchasable materials.
//
// Catalog items and barcode records are read-only snapshots fetched from the
// upstream ERP. BuildIndex merges them into ResolvedCatalogEntry values that the
// item picker displays and the scanner resolves against.
package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CatalogItem is a purchasable or trackable material
type CatalogItem struct {
	ItemID        string
	MasterItemID  string
	ItemCode      string
	Description   string
	UnitPrice     decimal.Decimal
	UnitOfMeasure string
	StockQuantity decimal.Decimal
	Category      string
	ItemType      string
}

// EffectiveCategory returns the category, falling back to the item type
func (i CatalogItem) EffectiveCategory() string {
	if i.Category != "" {
		return i.Category
	}
	return i.ItemType
}

// BarcodeRecord is an alternate scannable identifier for a CatalogItem
type BarcodeRecord struct {
	BarcodeCode       string
	ItemID            string
	ItemCode          string
	IsValid           bool
	IsDefault         bool
	IsSupplierBarcode bool
	BarcodeType       string
	Description       string
	UnitOfMeasure     string
}

// References reports whether the barcode points at item.
// Ids match against the item id or its master id; codes match the item code.
// Comparison trims whitespace and is case-sensitive.
func (b BarcodeRecord) References(item CatalogItem) bool {
	if id := normalizeCode(b.ItemID); id != "" {
		if id == normalizeCode(item.ItemID) || id == normalizeCode(item.MasterItemID) {
			return true
		}
	}
	if code := normalizeCode(b.ItemCode); code != "" && code == normalizeCode(item.ItemCode) {
		return true
	}
	return false
}

func normalizeCode(s string) string {
	return strings.TrimSpace(s)
}
