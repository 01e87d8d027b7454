package handler

import (
	apprequisition "github.com/erp/requisition/internal/application/requisition"
	"github.com/erp/requisition/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// RequestHandler serves the client's submitted material requests and the
// header picker master data
type RequestHandler struct {
	BaseHandler
	queries      *apprequisition.RequestQueryService
	orchestrator *apprequisition.SubmissionOrchestrator
}

// NewRequestHandler creates a new RequestHandler
func NewRequestHandler(queries *apprequisition.RequestQueryService, orchestrator *apprequisition.SubmissionOrchestrator) *RequestHandler {
	return &RequestHandler{queries: queries, orchestrator: orchestrator}
}

// List returns the client's requests, optionally filtered by ?status=
func (h *RequestHandler) List(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	items, err := h.queries.List(c.Request.Context(), session, c.Query("status"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, items, len(items))
}

// Summary counts the client's requests by status
func (h *RequestHandler) Summary(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	summary, err := h.queries.Summary(c.Request.Context(), session)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Delete hard-deletes a request upstream
func (h *RequestHandler) Delete(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var query apprequisition.DeleteRequestQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	docID := c.Param("docId")
	if err := h.orchestrator.DeleteRequest(c.Request.Context(), session, docID, query.DocumentNumber); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"doc_id": docID, "doc_no": query.DocumentNumber})
}

// Locations lists the client's locations
func (h *RequestHandler) Locations(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	locations, err := h.queries.Locations(c.Request.Context(), session)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, locations, len(locations))
}

// SubLocations lists sub-locations, narrowed by ?location=
func (h *RequestHandler) SubLocations(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	subs, err := h.queries.SubLocations(c.Request.Context(), session, c.Query("location"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, subs, len(subs))
}

// CostCenters lists the client's cost centers
func (h *RequestHandler) CostCenters(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	centers, err := h.queries.CostCenters(c.Request.Context(), session)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, centers, len(centers))
}
