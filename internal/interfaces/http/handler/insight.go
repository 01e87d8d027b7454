package handler

import (
	appinsight "github.com/erp/requisition/internal/application/insight"
	"github.com/erp/requisition/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// InsightHandler serves the report filter panels and report runs
type InsightHandler struct {
	BaseHandler
	insights *appinsight.InsightService
}

// NewInsightHandler creates a new InsightHandler
func NewInsightHandler(insights *appinsight.InsightService) *InsightHandler {
	return &InsightHandler{insights: insights}
}

// ListReports lists the reports available to the client
func (h *InsightHandler) ListReports(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	reports, err := h.insights.ListReports(c.Request.Context(), session)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, reports, len(reports))
}

// Filters returns a report's filter panel
func (h *InsightHandler) Filters(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var query appinsight.SchemaQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	schema, err := h.insights.FilterSchema(c.Request.Context(), session, c.Param("name"), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, schema)
}

// Options returns a dropdown source, passed through from the ERP
func (h *InsightHandler) Options(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var query appinsight.OptionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	options, err := h.insights.FilterOptions(c.Request.Context(), session, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, options)
}

// Run checks and coerces the filters, then runs the report
func (h *InsightHandler) Run(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req appinsight.RunReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	result, err := h.insights.RunReport(c.Request.Context(), session, c.Param("name"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
