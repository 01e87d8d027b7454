package catalog

import "github.com/erp/requisition/internal/domain/shared"

// ErrItemNotFound is returned when a scanned code matches no entry
var ErrItemNotFound = shared.NewDomainError("ITEM_NOT_FOUND", "Item not found for this barcode")

// ErrEntryNotFound is returned when a picked entry id is not in the index
var ErrEntryNotFound = shared.NewDomainError("ENTRY_NOT_FOUND", "Selected item is no longer in the catalog")
