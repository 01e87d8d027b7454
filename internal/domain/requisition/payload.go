package requisition

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Upstream table names for the material request document
const (
	HeaderTable = "MQ_HDR"
	LineTable   = "MQ_TRAN"
	TranType    = "Request"
)

// TimestampLayout formats audit timestamps on the wire
const TimestampLayout = "2006-01-02T15:04:05Z"

// Operation is the CRUD verb sent with a document
type Operation string

const (
	OperationList   Operation = "list"
	OperationRead   Operation = "read"
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// SubmissionPayload is the wire envelope for creating or updating a request
type SubmissionPayload struct {
	Table      string          `json:"table"`
	Operation  Operation       `json:"operation"`
	MasterData PayloadHeader   `json:"master_data"`
	Details    []PayloadDetail `json:"details"`
}

// PayloadDetail groups line rows under their table name
type PayloadDetail struct {
	Table string        `json:"table"`
	Data  []PayloadLine `json:"data"`
}

// PayloadHeader is the MQ_HDR row
type PayloadHeader struct {
	ClientID       string      `json:"client_id"`
	DocID          string      `json:"doc_id"`
	DocNo          string      `json:"doc_no"`
	LocCode        string      `json:"loc_code"`
	SubLocCode     string      `json:"sub_loc_code"`
	DocDate        string      `json:"doc_date"`
	DocType        string      `json:"doc_type"`
	TranType       string      `json:"tran_type"`
	Posted         string      `json:"posted"`
	Completed      string      `json:"completed"`
	Approved       string      `json:"approved"`
	Closed         string      `json:"closed"`
	Remarks        string      `json:"remarks"`
	CreatedDate    string      `json:"created_date"`
	CreatedUser    string      `json:"created_user"`
	UpdatedDate    string      `json:"updated_date"`
	UpdatedUser    string      `json:"updated_user"`
	UpdTimeStamp   string      `json:"updTimeStamp"`
	CostCenter     string      `json:"cost_center"`
	DocReqDate     string      `json:"doc_req_date"`
	DocReqTime     string      `json:"doc_req_time"`
	TotalAmount    json.Number `json:"total_amount"`
	TotalTaxAmount json.Number `json:"total_tax_amount"`
	TotalNetAmount json.Number `json:"total_net_amount"`
	Upd            string      `json:"_upd,omitempty"`
}

// PayloadLine is one MQ_TRAN row
type PayloadLine struct {
	LineNumber   int         `json:"line_number"`
	ItemCode     string      `json:"item_code"`
	ItemDesc     string      `json:"item_desc"`
	PackID       string      `json:"pack_id"`
	ItemType     string      `json:"item_type"`
	PackQty      int         `json:"pack_qty"`
	UnitPrice    json.Number `json:"unit_price"`
	TotalAmount  json.Number `json:"total_amount"`
	TaxAmount    json.Number `json:"tax_amount"`
	NetAmount    json.Number `json:"net_amount"`
	Upd          string      `json:"_upd"`
	CostCenter   string      `json:"cost_center"`
	CreatedDate  string      `json:"created_date"`
	CreatedUser  string      `json:"created_user"`
	TranID       string      `json:"tran_id"`
	DocID        string      `json:"doc_id"`
	DocNo        string      `json:"doc_no"`
	DocType      string      `json:"doc_type"`
	LineType     string      `json:"line_type"`
	UpdTimeStamp string      `json:"updTimeStamp"`
	UpdatedDate  string      `json:"updated_date"`
	UpdatedUser  string      `json:"updated_user"`
	ClientID     string      `json:"client_id"`
}

// ToSubmissionPayload projects the draft to the upstream wire format.
// It does not modify the draft.
func (d *RequestDraft) ToSubmissionPayload(isDraftSave bool, now time.Time) SubmissionPayload {
	total := d.ComputeTotal()
	stamp := FormatTimestamp(now)
	h := d.Header

	header := PayloadHeader{
		ClientID:       d.ClientID,
		DocID:          h.DocumentID,
		DocNo:          h.DocumentNumber,
		LocCode:        h.LocationCode,
		SubLocCode:     h.SubLocationCode,
		DocDate:        FormatDate(h.DocumentDate),
		DocType:        MaterialRequestType,
		TranType:       TranType,
		Posted:         FormatFlag(!isDraftSave),
		Completed:      FormatFlag(h.Completed),
		Approved:       FormatFlag(h.Approved),
		Closed:         FormatFlag(h.Closed),
		Remarks:        h.Remarks,
		CreatedDate:    FormatTimestamp(h.Audit.CreatedAt),
		CreatedUser:    h.Audit.CreatedBy,
		UpdatedDate:    stamp,
		UpdatedUser:    d.UserName,
		UpdTimeStamp:   stamp,
		CostCenter:     h.CostCenter,
		DocReqDate:     FormatDate(h.RequestedDate),
		DocReqTime:     h.RequestedTime,
		TotalAmount:    decimalNumber(total),
		TotalTaxAmount: decimalNumber(decimal.Zero),
		TotalNetAmount: decimalNumber(total),
	}

	operation := OperationUpdate
	if d.IsPersisted() {
		header.Upd = ChangeTagUpdate.String()
	} else {
		operation = OperationCreate
		header.CreatedDate = stamp
		header.CreatedUser = d.UserName
	}

	lines := make([]PayloadLine, len(d.Lines))
	for i, l := range d.Lines {
		lines[i] = toPayloadLine(l)
	}

	return SubmissionPayload{
		Table:      HeaderTable,
		Operation:  operation,
		MasterData: header,
		Details:    []PayloadDetail{{Table: LineTable, Data: lines}},
	}
}

func toPayloadLine(l LineItem) PayloadLine {
	return PayloadLine{
		LineNumber:   l.LineNumber,
		ItemCode:     l.ItemCode,
		ItemDesc:     l.Description,
		PackID:       l.PackID,
		ItemType:     l.ItemType,
		PackQty:      l.Quantity,
		UnitPrice:    decimalNumber(l.UnitPrice),
		TotalAmount:  decimalNumber(l.TotalAmount),
		TaxAmount:    decimalNumber(l.TaxAmount),
		NetAmount:    decimalNumber(l.NetAmount),
		Upd:          l.ChangeTag.String(),
		CostCenter:   l.CostCenter,
		CreatedDate:  FormatTimestamp(l.Audit.CreatedAt),
		CreatedUser:  l.Audit.CreatedBy,
		TranID:       l.TransactionID,
		DocID:        l.DocumentID,
		DocNo:        l.DocumentNumber,
		DocType:      l.DocumentType,
		LineType:     l.LineType,
		UpdTimeStamp: FormatTimestamp(l.Audit.UpdatedAt),
		UpdatedDate:  FormatTimestamp(l.Audit.UpdatedAt),
		UpdatedUser:  l.Audit.UpdatedBy,
		ClientID:     l.ClientID,
	}
}

// FormatFlag renders a boolean as the upstream "Y"/"N" flag
func FormatFlag(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}

// ParseFlag reads an upstream "Y"/"N" flag
func ParseFlag(s string) bool {
	return s == "Y" || s == "y"
}

// FormatDate renders a calendar date, or "" for the zero time
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// FormatTimestamp renders an audit timestamp in UTC, or "" for the zero time
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimestampLayout)
}

func decimalNumber(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
