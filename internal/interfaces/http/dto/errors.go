package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when required fields or filters are empty
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a value cannot be parsed
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
)

// Authentication error codes
const (
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeTokenExpired       = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "ERR_TOKEN_INVALID"
	ErrCodeSessionRevoked     = "ERR_SESSION_REVOKED"
	ErrCodeCameraPermission   = "ERR_CAMERA_PERMISSION"
)

// Resource error codes
const (
	ErrCodeNotFound = "ERR_NOT_FOUND"
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeSubmissionInFlight is used when the draft is already being submitted
	ErrCodeSubmissionInFlight = "ERR_SUBMISSION_IN_FLIGHT"
)

// Business rule error codes
const (
	ErrCodeInvalidState = "ERR_INVALID_STATE"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeTooLarge     = "ERR_REQUEST_TOO_LARGE"
)

// Upstream error codes
const (
	// ErrCodeUpstream is used when the ERP service fails or cannot be reached
	ErrCodeUpstream = "ERR_UPSTREAM"
	// ErrCodePersistence is used when the ERP service rejects a submit or delete
	ErrCodePersistence = "ERR_PERSISTENCE"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeSessionRevoked:     http.StatusUnauthorized,
	ErrCodeCameraPermission:   http.StatusForbidden,

	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeSubmissionInFlight: http.StatusConflict,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeTooLarge:     http.StatusRequestEntityTooLarge,

	ErrCodeUpstream:    http.StatusBadGateway,
	ErrCodePersistence: http.StatusBadGateway,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":               ErrCodeNotFound,
	"INVALID_INPUT":           ErrCodeInvalidInput,
	"INVALID_STATE":           ErrCodeInvalidState,
	"UNAUTHORIZED":            ErrCodeUnauthorized,
	"SESSION_MISSING":         ErrCodeUnauthorized,
	"CONFLICT":                ErrCodeConflict,
	"UPSTREAM_ERROR":          ErrCodeUpstream,
	"INTERNAL_ERROR":          ErrCodeInternal,
	"INVALID_CREDENTIALS":     ErrCodeInvalidCredentials,
	"LINE_INDEX_OUT_OF_RANGE": ErrCodeNotFound,
	"ITEM_NOT_FOUND":          ErrCodeNotFound,
	"ENTRY_NOT_FOUND":         ErrCodeNotFound,
	"REPORT_NOT_FOUND":        ErrCodeNotFound,
	"DRAFT_SUBMITTING":        ErrCodeSubmissionInFlight,
	"DRAFT_MODIFIED":          ErrCodeConflict,
	"SUBMISSION_IN_FLIGHT":    ErrCodeSubmissionInFlight,
	"UNKNOWN_HEADER_FIELD":    ErrCodeValidationFormat,
	"INVALID_HEADER_VALUE":    ErrCodeValidationFormat,
	"DOCUMENT_ID_REQUIRED":    ErrCodeValidationRequired,
	"INVALID_STATUS":          ErrCodeInvalidInput,
	"INVALID_OPTION_KIND":     ErrCodeInvalidInput,
}

// NormalizeErrorCode converts a domain error code to its API error code.
// Codes already in API form, or unknown, are returned as-is.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
