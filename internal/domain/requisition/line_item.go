package requisition

import (
	"time"

	"github.com/shopspring/decimal"
)

// Line defaults applied to every newly added item
const (
	DefaultCostCenter   = "001"
	DefaultItemType     = "MATERIAL"
	DefaultLineType     = "Detail"
	MaterialRequestType = "MQ"
)

// AuditStamp records who touched a record and when
type AuditStamp struct {
	CreatedAt time.Time
	CreatedBy string
	UpdatedAt time.Time
	UpdatedBy string
}

// LineItem is one row of a material request.
// It carries no presentation state; expansion and similar view flags are
// tracked by the caller keyed on LineNumber.
type LineItem struct {
	LineNumber     int
	TransactionID  string
	DocumentID     string
	DocumentNumber string
	DocumentType   string
	ItemCode       string
	Description    string
	ItemType       string
	LineType       string
	PackID         string
	UnitOfMeasure  string
	Quantity       int
	UnitPrice      decimal.Decimal
	TotalAmount    decimal.Decimal
	TaxAmount      decimal.Decimal
	NetAmount      decimal.Decimal
	ChangeTag      ChangeTag
	CostCenter     string
	ClientID       string
	Audit          AuditStamp
}

// IsPersisted reports whether the line exists upstream
func (l LineItem) IsPersisted() bool {
	return l.TransactionID != ""
}

// IsDeleted reports whether the line is soft-deleted
func (l LineItem) IsDeleted() bool {
	return l.ChangeTag == ChangeTagDelete
}

// recalculate refreshes the derived amounts from quantity and price
func (l *LineItem) recalculate() {
	l.TotalAmount = l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
	l.NetAmount = l.TotalAmount.Add(l.TaxAmount)
}
