package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItem(id, code, desc string, price int64) CatalogItem {
	return CatalogItem{
		ItemID:        id,
		ItemCode:      code,
		Description:   desc,
		UnitPrice:     decimal.NewFromInt(price),
		UnitOfMeasure: "PCS",
		StockQuantity: decimal.NewFromInt(40),
		ItemType:      "MATERIAL",
	}
}

func testBarcode(code, itemID string, valid bool) BarcodeRecord {
	return BarcodeRecord{
		BarcodeCode:   code,
		ItemID:        itemID,
		IsValid:       valid,
		BarcodeType:   "EAN13",
		UnitOfMeasure: "BOX",
	}
}

// ============================================
// BarcodeRecord Tests
// ============================================

func TestBarcodeRecord_References(t *testing.T) {
	item := CatalogItem{ItemID: "P1", MasterItemID: "M1", ItemCode: "MAT-001"}

	tests := []struct {
		name    string
		barcode BarcodeRecord
		want    bool
	}{
		{"item id", BarcodeRecord{ItemID: "P1"}, true},
		{"item id with whitespace", BarcodeRecord{ItemID: "  P1 "}, true},
		{"master id", BarcodeRecord{ItemID: "M1"}, true},
		{"item code", BarcodeRecord{ItemCode: " MAT-001"}, true},
		{"code is case-sensitive", BarcodeRecord{ItemCode: "mat-001"}, false},
		{"other item", BarcodeRecord{ItemID: "P2", ItemCode: "MAT-002"}, false},
		{"empty references", BarcodeRecord{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.barcode.References(item))
		})
	}
}

func TestBarcodeRecord_EmptyIDDoesNotMatchEmptyMaster(t *testing.T) {
	item := CatalogItem{ItemID: "P1", ItemCode: "MAT-001"}
	assert.False(t, BarcodeRecord{ItemID: " "}.References(item))
}

// ============================================
// BuildIndex Tests
// ============================================

func TestBuildIndex_ExpandsValidBarcodesOnly(t *testing.T) {
	items := []CatalogItem{testItem("P1", "MAT-001", "Cement 50kg", 12)}
	barcodes := []BarcodeRecord{
		testBarcode("B100", "P1", true),
		testBarcode("B101", "P1", false),
		testBarcode("B102", "P1", true),
	}

	entries := BuildIndex(items, barcodes)

	require.Len(t, entries, 2)
	assert.Equal(t, "barcode-B100-P1", entries[0].UniqueID)
	assert.Equal(t, "barcode-B102-P1", entries[1].UniqueID)
	for _, e := range entries {
		assert.True(t, e.IsBarcodeItem)
		assert.NotEqual(t, "product-P1", e.UniqueID)
	}
}

func TestBuildIndex_BareProductWhenNoValidBarcode(t *testing.T) {
	items := []CatalogItem{
		testItem("P1", "MAT-001", "Cement 50kg", 12),
		testItem("P2", "MAT-002", "Sand 1t", 30),
	}
	barcodes := []BarcodeRecord{testBarcode("B200", "P2", false)}

	entries := BuildIndex(items, barcodes)

	require.Len(t, entries, 2)
	assert.Equal(t, "product-P1", entries[0].UniqueID)
	assert.Equal(t, "product-P2", entries[1].UniqueID)
	assert.False(t, entries[1].IsBarcodeItem)
	assert.Equal(t, "MAT-002", entries[1].Code)
	assert.Nil(t, entries[1].Barcode)
}

func TestBuildIndex_BarcodeOverridesDisplayFields(t *testing.T) {
	items := []CatalogItem{testItem("P1", "MAT-001", "Cement 50kg", 12)}
	b := testBarcode("B100", "P1", true)
	b.Description = "Cement bag (pallet)"

	entries := BuildIndex(items, []BarcodeRecord{b})

	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "B100", e.Code)
	assert.Equal(t, "Cement bag (pallet)", e.Description)
	assert.Equal(t, "BOX", e.UnitOfMeasure)
	assert.True(t, e.Price.Equal(decimal.NewFromInt(12)))
	assert.Equal(t, "MATERIAL", e.Category)
	assert.Equal(t, "MAT-001", e.Item.ItemCode)
}

func TestBuildIndex_FallsBackToItemDescription(t *testing.T) {
	items := []CatalogItem{testItem("P1", "MAT-001", "Cement 50kg", 12)}
	b := testBarcode("B100", "P1", true)
	b.UnitOfMeasure = ""

	entries := BuildIndex(items, []BarcodeRecord{b})

	require.Len(t, entries, 1)
	assert.Equal(t, "Cement 50kg", entries[0].Description)
	assert.Equal(t, "PCS", entries[0].UnitOfMeasure)
}

func TestBuildIndex_PreservesOrder(t *testing.T) {
	items := []CatalogItem{
		testItem("P2", "MAT-002", "Sand", 30),
		testItem("P1", "MAT-001", "Cement", 12),
	}
	barcodes := []BarcodeRecord{
		testBarcode("B2", "P1", true),
		testBarcode("B1", "P1", true),
	}

	entries := BuildIndex(items, barcodes)

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.UniqueID
	}
	assert.Equal(t, []string{"product-P2", "barcode-B2-P1", "barcode-B1-P1"}, ids)
}

func TestBuildIndex_Empty(t *testing.T) {
	assert.Empty(t, BuildIndex(nil, []BarcodeRecord{testBarcode("B1", "P1", true)}))
}

// ============================================
// ResolveByCode Tests
// ============================================

func TestResolveByCode_Priority(t *testing.T) {
	items := []CatalogItem{testItem("P1", "P123", "Pipe", 5)}
	barcodes := []BarcodeRecord{testBarcode("B123", "P1", true)}
	entries := BuildIndex(items, barcodes)

	byEffective, ok := ResolveByCode(entries, "B123")
	require.True(t, ok)
	assert.Equal(t, "barcode-B123-P1", byEffective.UniqueID)

	byRaw, ok := ResolveByCode(entries, " P123 ")
	require.True(t, ok)
	assert.Equal(t, byEffective.UniqueID, byRaw.UniqueID)
}

func TestResolveByCode_EffectiveCodeBeatsItemCode(t *testing.T) {
	// "X9" is the item code of P1 and the barcode code of P2's entry.
	items := []CatalogItem{
		testItem("P1", "X9", "First", 1),
		testItem("P2", "Y9", "Second", 2),
	}
	barcodes := []BarcodeRecord{
		testBarcode("B1", "P1", true),
		testBarcode("X9", "P2", true),
	}
	entries := BuildIndex(items, barcodes)

	got, ok := ResolveByCode(entries, "X9")
	require.True(t, ok)
	assert.Equal(t, "barcode-X9-P2", got.UniqueID)
}

func TestResolveByCode_NoMatch(t *testing.T) {
	entries := BuildIndex([]CatalogItem{testItem("P1", "MAT-001", "Cement", 12)}, nil)

	_, ok := ResolveByCode(entries, "UNKNOWN")
	assert.False(t, ok)

	_, ok = ResolveByCode(entries, "   ")
	assert.False(t, ok)
}

// ============================================
// Index Tests
// ============================================

func TestIndex_FindByUniqueID(t *testing.T) {
	idx := NewIndex(
		[]CatalogItem{testItem("P1", "MAT-001", "Cement", 12)},
		[]BarcodeRecord{testBarcode("B1", "P1", true)},
	)

	e, ok := idx.FindByUniqueID("barcode-B1-P1")
	require.True(t, ok)
	assert.Equal(t, "B1", e.Code)

	_, ok = idx.FindByUniqueID("product-P1")
	assert.False(t, ok)
	assert.Equal(t, 1, idx.Len())
}

func TestIndex_EntriesReturnsCopy(t *testing.T) {
	idx := NewIndex([]CatalogItem{testItem("P1", "MAT-001", "Cement", 12)}, nil)

	entries := idx.Entries()
	entries[0].Code = "mutated"

	got, ok := idx.Resolve("MAT-001")
	require.True(t, ok)
	assert.Equal(t, "MAT-001", got.Code)
}
