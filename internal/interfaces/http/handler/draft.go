package handler

import (
	apprequisition "github.com/erp/requisition/internal/application/requisition"
	"github.com/erp/requisition/internal/domain/requisition"
	"github.com/erp/requisition/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// DraftHandler serves the session's request draft
type DraftHandler struct {
	BaseHandler
	drafts       *apprequisition.DraftService
	orchestrator *apprequisition.SubmissionOrchestrator
}

// NewDraftHandler creates a new DraftHandler
func NewDraftHandler(drafts *apprequisition.DraftService, orchestrator *apprequisition.SubmissionOrchestrator) *DraftHandler {
	return &DraftHandler{drafts: drafts, orchestrator: orchestrator}
}

// ScanResponse is the line added by a scan and the draft after it
type ScanResponse struct {
	Line  apprequisition.LineResponse  `json:"line"`
	Draft apprequisition.DraftResponse `json:"draft"`
}

func (h *DraftHandler) respond(c *gin.Context, draft *requisition.RequestDraft, err error) {
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, apprequisition.ToDraftResponse(draft))
}

// Current returns the session's draft
func (h *DraftHandler) Current(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	draft, err := h.drafts.Current(c.Request.Context(), session)
	h.respond(c, draft, err)
}

// Reset starts a new request
func (h *DraftHandler) Reset(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	draft, err := h.drafts.Reset(c.Request.Context(), session)
	h.respond(c, draft, err)
}

// Load opens an existing request for editing
func (h *DraftHandler) Load(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req apprequisition.LoadDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	draft, err := h.drafts.Load(c.Request.Context(), session, req)
	h.respond(c, draft, err)
}

// UpdateHeader sets header fields
func (h *DraftHandler) UpdateHeader(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req apprequisition.UpdateHeaderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	draft, err := h.drafts.UpdateHeader(c.Request.Context(), session, req)
	h.respond(c, draft, err)
}

// AddLines appends picker selections
func (h *DraftHandler) AddLines(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req apprequisition.AddLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	draft, err := h.drafts.AddEntries(c.Request.Context(), session, req)
	h.respond(c, draft, err)
}

// RemoveLine soft-deletes a line
func (h *DraftHandler) RemoveLine(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	index, ok := h.lineIndex(c)
	if !ok {
		return
	}
	draft, err := h.drafts.RemoveLine(c.Request.Context(), session, index)
	h.respond(c, draft, err)
}

// RestoreLine brings a soft-deleted line back
func (h *DraftHandler) RestoreLine(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	index, ok := h.lineIndex(c)
	if !ok {
		return
	}
	draft, err := h.drafts.RestoreLine(c.Request.Context(), session, index)
	h.respond(c, draft, err)
}

// UpdateLine edits a line's quantity or price
func (h *DraftHandler) UpdateLine(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	index, ok := h.lineIndex(c)
	if !ok {
		return
	}
	var req apprequisition.UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	draft, err := h.drafts.UpdateLine(c.Request.Context(), session, index, req)
	h.respond(c, draft, err)
}

// DeletedLines lists the soft-deleted lines so they can be restored
func (h *DraftHandler) DeletedLines(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	draft, err := h.drafts.Current(c.Request.Context(), session)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	lines := apprequisition.ToDeletedLineResponses(draft)
	h.SuccessList(c, lines, len(lines))
}

// Scan resolves a scanned code and appends the matching item
func (h *DraftHandler) Scan(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req apprequisition.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	ctx := c.Request.Context()
	added, err := h.orchestrator.ScanAndAdd(ctx, session, req.Code)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	draft, err := h.drafts.Current(ctx, session)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	index := len(draft.Lines) - 1
	for i, l := range draft.Lines {
		if l.LineNumber == added.LineNumber {
			index = i
		}
	}
	h.Success(c, ScanResponse{
		Line:  apprequisition.ToLineResponse(index, added),
		Draft: apprequisition.ToDraftResponse(draft),
	})
}

// Submit sends the draft to the ERP. An empty body submits for posting.
func (h *DraftHandler) Submit(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req apprequisition.SubmitRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
	}

	result, err := h.orchestrator.Submit(c.Request.Context(), session, req.SaveAsDraft)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
