package requisition

import (
	"github.com/erp/requisition/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type constants for material requests
const (
	EventTypeMaterialRequestSubmitted = "MaterialRequestSubmitted"
	EventTypeMaterialRequestDeleted   = "MaterialRequestDeleted"
)

// AggregateTypeMaterialRequest is the aggregate type name used on events
const AggregateTypeMaterialRequest = "MaterialRequest"

// MaterialRequestSubmittedEvent is raised after the upstream accepts a request
type MaterialRequestSubmittedEvent struct {
	shared.BaseDomainEvent
	SessionID      uuid.UUID       `json:"session_id"`
	DocumentID     string          `json:"document_id"`
	DocumentNumber string          `json:"document_number"`
	Operation      Operation       `json:"operation"`
	Posted         bool            `json:"posted"`
	LineCount      int             `json:"line_count"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	SubmittedBy    string          `json:"submitted_by"`
}

// NewMaterialRequestSubmittedEvent builds the event from the pre-reset draft
func NewMaterialRequestSubmittedEvent(d *RequestDraft, payload SubmissionPayload, documentID, documentNumber string) *MaterialRequestSubmittedEvent {
	return &MaterialRequestSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMaterialRequestSubmitted, AggregateTypeMaterialRequest, d.ID, d.ClientID),
		SessionID:       d.SessionID,
		DocumentID:      documentID,
		DocumentNumber:  documentNumber,
		Operation:       payload.Operation,
		Posted:          payload.MasterData.Posted == "Y",
		LineCount:       len(d.ActiveLines()),
		TotalAmount:     d.ComputeTotal(),
		SubmittedBy:     d.UserName,
	}
}

// MaterialRequestDeletedEvent is raised after the upstream hard-deletes a request
type MaterialRequestDeletedEvent struct {
	shared.BaseDomainEvent
	DocumentID     string `json:"document_id"`
	DocumentNumber string `json:"document_number"`
	DeletedBy      string `json:"deleted_by"`
}

// NewMaterialRequestDeletedEvent builds a deletion event for the session's client
func NewMaterialRequestDeletedEvent(session shared.SessionContext, documentID, documentNumber string) *MaterialRequestDeletedEvent {
	return &MaterialRequestDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMaterialRequestDeleted, AggregateTypeMaterialRequest, session.SessionID, session.ClientID),
		DocumentID:      documentID,
		DocumentNumber:  documentNumber,
		DeletedBy:       session.UserName,
	}
}
