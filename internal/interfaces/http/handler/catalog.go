package handler

import (
	appcatalog "github.com/erp/requisition/internal/application/catalog"
	"github.com/erp/requisition/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the item picker
type CatalogHandler struct {
	BaseHandler
	catalog *appcatalog.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog *appcatalog.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Search lists picker entries for ?tab= and ?q=
func (h *CatalogHandler) Search(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req appcatalog.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	entries, err := h.catalog.Search(c.Request.Context(), session.ClientID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, entries, len(entries))
}

// Refresh rebuilds the client's resolution index from the ERP
func (h *CatalogHandler) Refresh(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	idx, err := h.catalog.Refresh(c.Request.Context(), session.ClientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"entries": idx.Len()})
}
