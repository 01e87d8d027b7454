package catalog

import (
	"github.com/shopspring/decimal"
)

const (
	productIDPrefix = "product-"
	barcodeIDPrefix = "barcode-"
)

// ResolvedCatalogEntry is the display-ready merge of a CatalogItem with at most
// one of its barcodes
type ResolvedCatalogEntry struct {
	UniqueID      string
	IsBarcodeItem bool
	Code          string
	Description   string
	Price         decimal.Decimal
	UnitOfMeasure string
	Stock         decimal.Decimal
	Category      string
	Item          CatalogItem
	Barcode       *BarcodeRecord
}

func newProductEntry(item CatalogItem) ResolvedCatalogEntry {
	return ResolvedCatalogEntry{
		UniqueID:      productIDPrefix + item.ItemID,
		Code:          item.ItemCode,
		Description:   item.Description,
		Price:         item.UnitPrice,
		UnitOfMeasure: item.UnitOfMeasure,
		Stock:         item.StockQuantity,
		Category:      item.EffectiveCategory(),
		Item:          item,
	}
}

func newBarcodeEntry(item CatalogItem, barcode BarcodeRecord) ResolvedCatalogEntry {
	e := newProductEntry(item)
	e.UniqueID = barcodeIDPrefix + barcode.BarcodeCode + "-" + item.ItemID
	e.IsBarcodeItem = true
	e.Code = barcode.BarcodeCode
	if barcode.Description != "" {
		e.Description = barcode.Description
	}
	if barcode.UnitOfMeasure != "" {
		e.UnitOfMeasure = barcode.UnitOfMeasure
	}
	b := barcode
	e.Barcode = &b
	return e
}

// BarcodeCode returns the raw code of the backing barcode, or "" for a bare product
func (e ResolvedCatalogEntry) BarcodeCode() string {
	if e.Barcode == nil {
		return ""
	}
	return e.Barcode.BarcodeCode
}
