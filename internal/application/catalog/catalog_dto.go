package catalog

import (
	"github.com/erp/requisition/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// SearchRequest is the picker query
type SearchRequest struct {
	Tab   string `form:"tab" binding:"omitempty,oneof=all barcode products"`
	Query string `form:"q" binding:"max=100"`
}

// EntryResponse is one picker row
type EntryResponse struct {
	UniqueID      string          `json:"unique_id"`
	IsBarcodeItem bool            `json:"is_barcode_item"`
	Code          string          `json:"code"`
	ItemCode      string          `json:"item_code"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	Stock         decimal.Decimal `json:"stock"`
	Category      string          `json:"category"`
	BarcodeType   string          `json:"barcode_type,omitempty"`
	IsDefault     bool            `json:"is_default,omitempty"`
}

// ToEntryResponses projects resolved entries for the picker
func ToEntryResponses(entries []catalog.ResolvedCatalogEntry) []EntryResponse {
	out := make([]EntryResponse, len(entries))
	for i, e := range entries {
		r := EntryResponse{
			UniqueID:      e.UniqueID,
			IsBarcodeItem: e.IsBarcodeItem,
			Code:          e.Code,
			ItemCode:      e.Item.ItemCode,
			Description:   e.Description,
			Price:         e.Price,
			UnitOfMeasure: e.UnitOfMeasure,
			Stock:         e.Stock,
			Category:      e.Category,
		}
		if e.Barcode != nil {
			r.BarcodeType = e.Barcode.BarcodeType
			r.IsDefault = e.Barcode.IsDefault
		}
		out[i] = r
	}
	return out
}
