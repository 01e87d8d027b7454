package insight

import (
	"strings"

	"github.com/erp/requisition/internal/domain/shared"
)

// ErrReportNotFound is returned when the report has no filter schema
var ErrReportNotFound = shared.NewDomainError("REPORT_NOT_FOUND", "Report not found")

// MandatoryFieldError lists visible mandatory filters left empty
type MandatoryFieldError struct {
	Labels []string
}

func (e *MandatoryFieldError) Error() string {
	return "Please select: " + strings.Join(e.Labels, ", ")
}

func (e *MandatoryFieldError) Unwrap() error {
	return shared.ErrInvalidInput
}

// InvalidFieldError lists filters whose values could not be coerced
type InvalidFieldError struct {
	Labels []string
}

func (e *InvalidFieldError) Error() string {
	return "Invalid values for: " + strings.Join(e.Labels, ", ")
}

func (e *InvalidFieldError) Unwrap() error {
	return shared.ErrInvalidInput
}
