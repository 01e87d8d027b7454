package requisition

import (
	"strings"

	"github.com/erp/requisition/internal/domain/shared"
)

var (
	ErrLineIndexOutOfRange = shared.NewDomainError("LINE_INDEX_OUT_OF_RANGE", "Line item does not exist")
	ErrDraftSubmitting     = shared.NewDomainError("DRAFT_SUBMITTING", "Request is being submitted, please wait")
	ErrSubmissionInFlight  = shared.NewDomainError("SUBMISSION_IN_FLIGHT", "A submission for this request is already in progress")
	ErrUnknownHeaderField  = shared.NewDomainError("UNKNOWN_HEADER_FIELD", "Unknown request header field")
	ErrInvalidHeaderValue  = shared.NewDomainError("INVALID_HEADER_VALUE", "Invalid value for request header field")
	ErrDocumentIDRequired  = shared.NewDomainError("DOCUMENT_ID_REQUIRED", "Document id is required to edit a request")
	ErrDraftModified       = shared.NewDomainError("DRAFT_MODIFIED", "The request was changed by another action, please reload it")
)

// Fallback messages used when the upstream gives no reason
const (
	SubmitFailedMessage = "Failed to submit material request. Please try again."
	DeleteFailedMessage = "Failed to delete material request. Please try again."
)

// ValidationError lists required header fields that are missing
type ValidationError struct {
	MissingFields []string
}

func (e *ValidationError) Error() string {
	return "Please fill the required fields: " + strings.Join(e.MissingFields, ", ")
}

// Unwrap lets callers match on the shared invalid-input error
func (e *ValidationError) Unwrap() error {
	return shared.ErrInvalidInput
}

// PersistenceError wraps a failed upstream submit or delete.
// The draft is left untouched so the user can retry.
type PersistenceError struct {
	Message string
	Cause   error
}

// NewPersistenceError builds a PersistenceError, using fallback when message is empty
func NewPersistenceError(message, fallback string, cause error) *PersistenceError {
	if strings.TrimSpace(message) == "" {
		message = fallback
	}
	return &PersistenceError{Message: message, Cause: cause}
}

func (e *PersistenceError) Error() string {
	return e.Message
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}
