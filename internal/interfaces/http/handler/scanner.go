package handler

import (
	apprequisition "github.com/erp/requisition/internal/application/requisition"
	"github.com/erp/requisition/internal/infrastructure/logger"
	"github.com/erp/requisition/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ScannerHandler receives camera scanner failures from the UI
type ScannerHandler struct {
	BaseHandler
}

// NewScannerHandler creates a new ScannerHandler
func NewScannerHandler() *ScannerHandler {
	return &ScannerHandler{}
}

// ReportError classifies a scanner failure. Decode noise is acknowledged
// with 204; a refused camera comes back as ERR_CAMERA_PERMISSION.
func (h *ScannerHandler) ReportError(c *gin.Context) {
	var req apprequisition.ScannerErrorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if err := apprequisition.ClassifyScannerError(req.Name, req.Message); err != nil {
		logger.L(c.Request.Context()).Info("Camera permission refused", zap.String("detail", req.Message))
		h.HandleError(c, err)
		return
	}
	logger.L(c.Request.Context()).Debug("Scanner error ignored", zap.String("name", req.Name))
	h.NoContent(c)
}
