package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/erp/requisition/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// Pinger checks a backing store
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness and the draft store's health
type HealthHandler struct {
	BaseHandler
	name      string
	version   string
	store     Pinger
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler. store may be nil for the
// in-memory draft store.
func NewHealthHandler(name, version string, store Pinger) *HealthHandler {
	return &HealthHandler{
		name:      name,
		version:   version,
		store:     store,
		startTime: time.Now(),
	}
}

// HealthResponse is the health payload
type HealthResponse struct {
	Status    string `json:"status"`
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
	Database  string `json:"database"`
}

// Health returns 200 when the draft store answers and 503 otherwise
func (h *HealthHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Database:  "memory",
	}

	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			resp.Status = "unhealthy"
			resp.Database = "unreachable"
			c.JSON(http.StatusServiceUnavailable, dto.NewSuccessResponse(resp))
			return
		}
		resp.Database = "ok"
	}
	h.Success(c, resp)
}
