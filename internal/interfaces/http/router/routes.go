package router

import (
	"github.com/erp/requisition/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers are the API handlers mounted by APIGroups
type Handlers struct {
	Auth    *handler.AuthHandler
	Draft   *handler.DraftHandler
	Scanner *handler.ScannerHandler
	Request *handler.RequestHandler
	Catalog *handler.CatalogHandler
	Insight *handler.InsightHandler
}

// APIGroups builds the requisition API. auth guards every route except
// login and scanner error reports.
func APIGroups(h Handlers, auth ...gin.HandlerFunc) []*DomainGroup {
	public := NewDomainGroup("public", "")
	public.POST("/auth/login", "Sign in against the ERP", h.Auth.Login)
	public.POST("/scanner/errors", "Report a camera scanner failure", h.Scanner.ReportError)

	session := NewDomainGroup("session", "").Use(auth...)
	session.POST("/auth/logout", "End the session", h.Auth.Logout)

	drafts := session.Group("drafts", "/drafts/current")
	drafts.GET("", "Current draft", h.Draft.Current).
		POST("/reset", "Start a new request", h.Draft.Reset).
		POST("/load", "Edit an existing request", h.Draft.Load).
		PATCH("/header", "Set header fields", h.Draft.UpdateHeader).
		POST("/lines", "Add picker selections", h.Draft.AddLines).
		GET("/lines/deleted", "Soft-deleted lines", h.Draft.DeletedLines).
		DELETE("/lines/:index", "Remove a line", h.Draft.RemoveLine).
		POST("/lines/:index/restore", "Restore a removed line", h.Draft.RestoreLine).
		PATCH("/lines/:index", "Edit quantity or price", h.Draft.UpdateLine).
		POST("/scan", "Add a scanned item", h.Draft.Scan).
		POST("/submit", "Submit to the ERP", h.Draft.Submit)

	requests := session.Group("requests", "/requests")
	requests.GET("", "List requests", h.Request.List).
		GET("/summary", "Request counts by status", h.Request.Summary).
		DELETE("/:docId", "Delete a request", h.Request.Delete)

	session.Group("catalog", "/catalog").
		GET("/items", "Search the item picker", h.Catalog.Search).
		POST("/refresh", "Rebuild the barcode index", h.Catalog.Refresh)

	session.Group("master", "/master").
		GET("/locations", "Locations", h.Request.Locations).
		GET("/sub-locations", "Sub-locations", h.Request.SubLocations).
		GET("/cost-centers", "Cost centers", h.Request.CostCenters)

	session.Group("insight", "/insight").
		GET("/reports", "Available reports", h.Insight.ListReports).
		GET("/reports/:name/filters", "Report filter panel", h.Insight.Filters).
		POST("/reports/:name/run", "Run a report", h.Insight.Run).
		GET("/options", "Filter dropdown options", h.Insight.Options)

	return []*DomainGroup{public, session}
}
