package handler

import (
	"errors"
	"net/http"
	"strconv"

	apprequisition "github.com/erp/requisition/internal/application/requisition"
	"github.com/erp/requisition/internal/domain/insight"
	"github.com/erp/requisition/internal/domain/requisition"
	"github.com/erp/requisition/internal/domain/shared"
	"github.com/erp/requisition/internal/infrastructure/logger"
	"github.com/erp/requisition/internal/interfaces/http/dto"
	"github.com/erp/requisition/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	return c.GetString(middleware.RequestIDKey)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessList sends a list with its total in meta
func (h *BaseHandler) SuccessList(c *gin.Context, data any, total int) {
	c.JSON(http.StatusOK, dto.NewListResponse(data, total))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// session returns the caller's session, writing a 401 when there is none
func (h *BaseHandler) session(c *gin.Context) (shared.SessionContext, bool) {
	s := middleware.GetSession(c)
	if s.IsZero() {
		h.Unauthorized(c, "Authentication required")
		return s, false
	}
	return s, true
}

// lineIndex parses the :index path parameter
func (h *BaseHandler) lineIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		h.BadRequest(c, "Line index must be a non-negative integer")
		return 0, false
	}
	return index, true
}

// HandleError maps application errors to HTTP responses.
// Typed errors are checked before DomainError because several of them
// unwrap to shared.ErrInvalidInput.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := getRequestID(c)

	var (
		validationErr *requisition.ValidationError
		persistErr    *requisition.PersistenceError
		cameraErr     *apprequisition.CameraPermissionError
		mandatoryErr  *insight.MandatoryFieldError
		invalidErr    *insight.InvalidFieldError
		upstreamErr   *shared.UpstreamError
		domainErr     *shared.DomainError
	)
	switch {
	case errors.As(err, &validationErr):
		h.ErrorWithCode(c, dto.ErrCodeValidationRequired, validationErr.Error())
	case errors.As(err, &mandatoryErr):
		h.ErrorWithCode(c, dto.ErrCodeValidationRequired, mandatoryErr.Error())
	case errors.As(err, &invalidErr):
		h.ErrorWithCode(c, dto.ErrCodeValidationFormat, invalidErr.Error())
	case errors.As(err, &persistErr):
		h.ErrorWithCode(c, dto.ErrCodePersistence, persistErr.Message)
	case errors.As(err, &cameraErr):
		h.ErrorWithCode(c, dto.ErrCodeCameraPermission, cameraErr.Error())
	case errors.As(err, &upstreamErr):
		logger.L(c.Request.Context()).Warn("Upstream call failed",
			zap.Int("upstream_status", upstreamErr.StatusCode),
			zap.Error(err))
		h.ErrorWithCode(c, dto.ErrCodeUpstream, "The ERP service is unavailable, please try again")
	case errors.As(err, &domainErr):
		code := dto.NormalizeErrorCode(domainErr.Code)
		c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, domainErr.Message, requestID))
	default:
		logger.L(c.Request.Context()).Error("Unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeInternal,
			"An unexpected error occurred",
			requestID,
		))
	}
}
