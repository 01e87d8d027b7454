package catalog

import "context"

// CatalogGateway fetches the client's catalog snapshots from the upstream.
// Results are complete snapshots; there is no pagination.
type CatalogGateway interface {
	FetchCatalogItems(ctx context.Context, clientID string) ([]CatalogItem, error)
	FetchBarcodeRecords(ctx context.Context, clientID string) ([]BarcodeRecord, error)
}
