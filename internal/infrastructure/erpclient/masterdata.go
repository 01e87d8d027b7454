package erpclient

import (
	"context"
	"fmt"

	"github.com/erp/requisition/internal/domain/catalog"
	"github.com/erp/requisition/internal/domain/requisition"
	"github.com/erp/requisition/internal/domain/shared"
)

// masterTable names a master-data list: the endpoint path and its table
type masterTable struct {
	endpoint string
	table    string
}

var (
	costCenterTable  = masterTable{endpoint: "cost_center", table: "mast_costcenter"}
	locationTable    = masterTable{endpoint: "mast_location", table: "mast_location"}
	subLocationTable = masterTable{endpoint: "mast_sub_location", table: "mast_sub_location"}
	barcodeTable     = masterTable{endpoint: "mast_barcode", table: "mast_barcode"}
	productTable     = masterTable{endpoint: "mast_product", table: "mast_product"}
)

// listMaster fetches and decodes every row of a client's master table
func listMaster[T any](ctx context.Context, c *Client, t masterTable, clientID string) ([]T, error) {
	data, err := c.fetch(ctx, c.cfg.CrudURL, t.endpoint, listRequest{
		Table:     t.table,
		Operation: requisition.OperationList,
		Filter:    clientFilter(clientID),
	})
	if err != nil {
		return nil, err
	}
	rows, err := decodeRows[T](data)
	if err != nil {
		return nil, &shared.UpstreamError{Cause: fmt.Errorf("decode %s: %w", t.table, err)}
	}
	return rows, nil
}

type locationRow struct {
	Code flexString `json:"loc_code"`
	Name flexString `json:"loc_name"`
}

type subLocationRow struct {
	Code             flexString `json:"sub_loc_code"`
	Name             flexString `json:"sub_loc_name"`
	LocationCode     flexString `json:"loc_code"`
	MasterLocationID flexString `json:"master_location_id"`
}

type costCenterRow struct {
	Code flexString `json:"cost_center_code"`
	Alt  flexString `json:"cost_center"`
	Name flexString `json:"cost_center_name"`
	Desc flexString `json:"cost_center_des"`
}

// ListLocations lists the client's locations
func (c *Client) ListLocations(ctx context.Context, clientID string) ([]requisition.Location, error) {
	rows, err := listMaster[locationRow](ctx, c, locationTable, clientID)
	if err != nil {
		return nil, err
	}
	out := make([]requisition.Location, len(rows))
	for i, r := range rows {
		out[i] = requisition.Location{Code: r.Code.String(), Name: r.Name.String()}
	}
	return out, nil
}

// ListSubLocations lists every sub-location of the client.
// The parent is loc_code, or master_location_id on older tables.
func (c *Client) ListSubLocations(ctx context.Context, clientID string) ([]requisition.SubLocation, error) {
	rows, err := listMaster[subLocationRow](ctx, c, subLocationTable, clientID)
	if err != nil {
		return nil, err
	}
	out := make([]requisition.SubLocation, len(rows))
	for i, r := range rows {
		parent := r.LocationCode
		if parent == "" {
			parent = r.MasterLocationID
		}
		out[i] = requisition.SubLocation{
			Code:         r.Code.String(),
			Name:         r.Name.String(),
			LocationCode: parent.String(),
		}
	}
	return out, nil
}

// ListCostCenters lists the client's cost centers
func (c *Client) ListCostCenters(ctx context.Context, clientID string) ([]requisition.CostCenter, error) {
	rows, err := listMaster[costCenterRow](ctx, c, costCenterTable, clientID)
	if err != nil {
		return nil, err
	}
	out := make([]requisition.CostCenter, len(rows))
	for i, r := range rows {
		code, name := r.Code, r.Name
		if code == "" {
			code = r.Alt
		}
		if name == "" {
			name = r.Desc
		}
		out[i] = requisition.CostCenter{Code: code.String(), Name: name.String()}
	}
	return out, nil
}

type productRow struct {
	ProductID       flexString  `json:"product_id"`
	MasterProductID flexString  `json:"master_product_id"`
	ProductCode     flexString  `json:"product_code"`
	Description     flexString  `json:"product_des"`
	Price           flexDecimal `json:"price1"`
	UnitOfMeasure   flexString  `json:"uom_code"`
	Stock           flexDecimal `json:"item_qty"`
	Category        flexString  `json:"product_category"`
	ItemType        flexString  `json:"item_type"`
}

type barcodeRow struct {
	ProductID         flexString `json:"product_id"`
	BarcodeCode       flexString `json:"product_code"`
	Valid             flexBool   `json:"valid"`
	BarcodeType       flexString `json:"barcode_type"`
	Description       flexString `json:"barcode_description"`
	IsDefault         flexBool   `json:"is_default"`
	IsSupplierBarcode flexBool   `json:"is_supplier_barcode"`
	UnitOfMeasure     flexString `json:"uom_code"`
}

// FetchCatalogItems fetches the client's product master
func (c *Client) FetchCatalogItems(ctx context.Context, clientID string) ([]catalog.CatalogItem, error) {
	rows, err := listMaster[productRow](ctx, c, productTable, clientID)
	if err != nil {
		return nil, err
	}
	out := make([]catalog.CatalogItem, len(rows))
	for i, r := range rows {
		out[i] = catalog.CatalogItem{
			ItemID:        r.ProductID.String(),
			MasterItemID:  r.MasterProductID.String(),
			ItemCode:      r.ProductCode.String(),
			Description:   r.Description.String(),
			UnitPrice:     r.Price.Decimal(),
			UnitOfMeasure: r.UnitOfMeasure.String(),
			StockQuantity: r.Stock.Decimal(),
			Category:      r.Category.String(),
			ItemType:      r.ItemType.String(),
		}
	}
	return out, nil
}

// FetchBarcodeRecords fetches the client's barcode master.
// The barcode table stores the scannable code in product_code. A row is
// linked to its item by product_id, or by a product_code equal to the
// item's own code.
func (c *Client) FetchBarcodeRecords(ctx context.Context, clientID string) ([]catalog.BarcodeRecord, error) {
	rows, err := listMaster[barcodeRow](ctx, c, barcodeTable, clientID)
	if err != nil {
		return nil, err
	}
	out := make([]catalog.BarcodeRecord, len(rows))
	for i, r := range rows {
		out[i] = catalog.BarcodeRecord{
			BarcodeCode:       r.BarcodeCode.String(),
			ItemID:            r.ProductID.String(),
			ItemCode:          r.BarcodeCode.String(),
			IsValid:           bool(r.Valid),
			IsDefault:         bool(r.IsDefault),
			IsSupplierBarcode: bool(r.IsSupplierBarcode),
			BarcodeType:       r.BarcodeType.String(),
			Description:       r.Description.String(),
			UnitOfMeasure:     r.UnitOfMeasure.String(),
		}
	}
	return out, nil
}

var (
	_ requisition.MasterDataGateway = (*Client)(nil)
	_ catalog.CatalogGateway        = (*Client)(nil)
)
