package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/erp/requisition/internal/domain/requisition"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestDraftModel is the persistence model for the RequestDraft aggregate.
// The header and lines are stored as JSON documents; a draft is always read
// and written whole.
type RequestDraftModel struct {
	ClientAggregateModel
	SessionID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	UserName    string    `gorm:"type:varchar(128);not null"`
	State       string    `gorm:"type:varchar(16);not null"`
	ResumeState string    `gorm:"type:varchar(16)"`
	HeaderJSON  string    `gorm:"column:header;type:text;not null"`
	LinesJSON   string    `gorm:"column:lines;type:text;not null"`
}

// TableName returns the table name for GORM
func (RequestDraftModel) TableName() string {
	return "request_drafts"
}

type auditRecord struct {
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy string    `json:"updated_by,omitempty"`
}

type headerRecord struct {
	DocumentID      string          `json:"doc_id,omitempty"`
	DocumentNumber  string          `json:"doc_no,omitempty"`
	LocationCode    string          `json:"loc_code,omitempty"`
	SubLocationCode string          `json:"sub_loc_code,omitempty"`
	DocumentDate    time.Time       `json:"doc_date"`
	RequestedDate   time.Time       `json:"req_date"`
	RequestedTime   string          `json:"req_time,omitempty"`
	CostCenter      string          `json:"cost_center,omitempty"`
	Remarks         string          `json:"remarks,omitempty"`
	Posted          bool            `json:"posted,omitempty"`
	Approved        bool            `json:"approved,omitempty"`
	Completed       bool            `json:"completed,omitempty"`
	Closed          bool            `json:"closed,omitempty"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Audit           auditRecord     `json:"audit"`
}

type lineRecord struct {
	LineNumber     int             `json:"line_no"`
	TransactionID  string          `json:"tran_id,omitempty"`
	DocumentID     string          `json:"doc_id,omitempty"`
	DocumentNumber string          `json:"doc_no,omitempty"`
	DocumentType   string          `json:"doc_type,omitempty"`
	ItemCode       string          `json:"item_code"`
	Description    string          `json:"description,omitempty"`
	ItemType       string          `json:"item_type,omitempty"`
	LineType       string          `json:"line_type,omitempty"`
	PackID         string          `json:"pack_id,omitempty"`
	UnitOfMeasure  string          `json:"uom,omitempty"`
	Quantity       int             `json:"qty"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	NetAmount      decimal.Decimal `json:"net_amount"`
	ChangeTag      string          `json:"change_tag"`
	CostCenter     string          `json:"cost_center,omitempty"`
	ClientID       string          `json:"client_id,omitempty"`
	Audit          auditRecord     `json:"audit"`
}

func auditToRecord(a requisition.AuditStamp) auditRecord {
	return auditRecord{CreatedAt: a.CreatedAt, CreatedBy: a.CreatedBy, UpdatedAt: a.UpdatedAt, UpdatedBy: a.UpdatedBy}
}

func (r auditRecord) toDomain() requisition.AuditStamp {
	return requisition.AuditStamp{CreatedAt: r.CreatedAt, CreatedBy: r.CreatedBy, UpdatedAt: r.UpdatedAt, UpdatedBy: r.UpdatedBy}
}

// RequestDraftModelFromDomain converts a domain RequestDraft to its persistence model
func RequestDraftModelFromDomain(d *requisition.RequestDraft) (*RequestDraftModel, error) {
	h := d.Header
	header, err := json.Marshal(headerRecord{
		DocumentID:      h.DocumentID,
		DocumentNumber:  h.DocumentNumber,
		LocationCode:    h.LocationCode,
		SubLocationCode: h.SubLocationCode,
		DocumentDate:    h.DocumentDate,
		RequestedDate:   h.RequestedDate,
		RequestedTime:   h.RequestedTime,
		CostCenter:      h.CostCenter,
		Remarks:         h.Remarks,
		Posted:          h.Posted,
		Approved:        h.Approved,
		Completed:       h.Completed,
		Closed:          h.Closed,
		TotalAmount:     h.TotalAmount,
		Audit:           auditToRecord(h.Audit),
	})
	if err != nil {
		return nil, fmt.Errorf("encode draft header: %w", err)
	}

	records := make([]lineRecord, len(d.Lines))
	for i, l := range d.Lines {
		records[i] = lineRecord{
			LineNumber:     l.LineNumber,
			TransactionID:  l.TransactionID,
			DocumentID:     l.DocumentID,
			DocumentNumber: l.DocumentNumber,
			DocumentType:   l.DocumentType,
			ItemCode:       l.ItemCode,
			Description:    l.Description,
			ItemType:       l.ItemType,
			LineType:       l.LineType,
			PackID:         l.PackID,
			UnitOfMeasure:  l.UnitOfMeasure,
			Quantity:       l.Quantity,
			UnitPrice:      l.UnitPrice,
			TotalAmount:    l.TotalAmount,
			TaxAmount:      l.TaxAmount,
			NetAmount:      l.NetAmount,
			ChangeTag:      string(l.ChangeTag),
			CostCenter:     l.CostCenter,
			ClientID:       l.ClientID,
			Audit:          auditToRecord(l.Audit),
		}
	}
	lines, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode draft lines: %w", err)
	}

	m := &RequestDraftModel{
		SessionID:   d.SessionID,
		UserName:    d.UserName,
		State:       string(d.State),
		ResumeState: string(d.ResumeState),
		HeaderJSON:  string(header),
		LinesJSON:   string(lines),
	}
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	return m, nil
}

// ToDomain converts the persistence model back to a domain RequestDraft
func (m *RequestDraftModel) ToDomain() (*requisition.RequestDraft, error) {
	var h headerRecord
	if err := json.Unmarshal([]byte(m.HeaderJSON), &h); err != nil {
		return nil, fmt.Errorf("decode draft header for session %s: %w", m.SessionID, err)
	}
	var records []lineRecord
	if m.LinesJSON != "" {
		if err := json.Unmarshal([]byte(m.LinesJSON), &records); err != nil {
			return nil, fmt.Errorf("decode draft lines for session %s: %w", m.SessionID, err)
		}
	}

	lines := make([]requisition.LineItem, len(records))
	for i, r := range records {
		lines[i] = requisition.LineItem{
			LineNumber:     r.LineNumber,
			TransactionID:  r.TransactionID,
			DocumentID:     r.DocumentID,
			DocumentNumber: r.DocumentNumber,
			DocumentType:   r.DocumentType,
			ItemCode:       r.ItemCode,
			Description:    r.Description,
			ItemType:       r.ItemType,
			LineType:       r.LineType,
			PackID:         r.PackID,
			UnitOfMeasure:  r.UnitOfMeasure,
			Quantity:       r.Quantity,
			UnitPrice:      r.UnitPrice,
			TotalAmount:    r.TotalAmount,
			TaxAmount:      r.TaxAmount,
			NetAmount:      r.NetAmount,
			ChangeTag:      requisition.ChangeTag(r.ChangeTag),
			CostCenter:     r.CostCenter,
			ClientID:       r.ClientID,
			Audit:          r.Audit.toDomain(),
		}
	}

	return &requisition.RequestDraft{
		BaseAggregateRoot: m.ToAggregateRoot(),
		SessionID:         m.SessionID,
		UserName:          m.UserName,
		Header: requisition.RequestHeader{
			DocumentID:      h.DocumentID,
			DocumentNumber:  h.DocumentNumber,
			LocationCode:    h.LocationCode,
			SubLocationCode: h.SubLocationCode,
			DocumentDate:    h.DocumentDate,
			RequestedDate:   h.RequestedDate,
			RequestedTime:   h.RequestedTime,
			CostCenter:      h.CostCenter,
			Remarks:         h.Remarks,
			Posted:          h.Posted,
			Approved:        h.Approved,
			Completed:       h.Completed,
			Closed:          h.Closed,
			TotalAmount:     h.TotalAmount,
			Audit:           h.Audit.toDomain(),
		},
		Lines:       lines,
		State:       requisition.DraftState(m.State),
		ResumeState: requisition.DraftState(m.ResumeState),
	}, nil
}
