package requisition

import (
	"context"

	"github.com/erp/requisition/internal/domain/shared"
)

// SubmitOutcome is the upstream's answer to a create or update
type SubmitOutcome struct {
	Success        bool
	Message        string
	DocumentID     string
	DocumentNumber string
}

// StoredRequest is a material request as read back from the upstream
type StoredRequest struct {
	Header RequestHeader
	Lines  []LineItem
}

// MaterialRequestGateway is the port to the upstream document store.
// Transport failures are returned as errors; a rejected submission is an
// outcome with Success false.
type MaterialRequestGateway interface {
	SubmitMaterialRequest(ctx context.Context, session shared.SessionContext, payload SubmissionPayload) (*SubmitOutcome, error)
	ReadMaterialRequest(ctx context.Context, session shared.SessionContext, documentID, documentNumber string) (*StoredRequest, error)
	ListMaterialRequests(ctx context.Context, session shared.SessionContext) ([]RequestHeader, error)
	DeleteMaterialRequest(ctx context.Context, session shared.SessionContext, documentID, documentNumber string) error
}
