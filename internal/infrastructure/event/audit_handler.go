package event

import (
	"context"

	"github.com/erp/requisition/internal/domain/requisition"
	"github.com/erp/requisition/internal/domain/shared"
	"github.com/erp/requisition/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// RequestAuditHandler writes an audit log entry for every upstream write
type RequestAuditHandler struct {
	logger *zap.Logger
}

// NewRequestAuditHandler creates a new RequestAuditHandler
func NewRequestAuditHandler(log *zap.Logger) *RequestAuditHandler {
	return &RequestAuditHandler{logger: log.Named("audit")}
}

// EventTypes returns the material request events
func (h *RequestAuditHandler) EventTypes() []string {
	return []string{
		requisition.EventTypeMaterialRequestSubmitted,
		requisition.EventTypeMaterialRequestDeleted,
	}
}

// Handle logs the event
func (h *RequestAuditHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	log := logger.WithTraceContext(ctx, h.logger).With(
		zap.String("event_id", event.EventID().String()),
		zap.String("client_id", event.ClientID()),
		zap.Time("occurred_at", event.OccurredAt()),
	)

	switch e := event.(type) {
	case *requisition.MaterialRequestSubmittedEvent:
		log.Info("Material request written",
			zap.String("operation", string(e.Operation)),
			zap.String("doc_id", e.DocumentID),
			zap.String("doc_no", e.DocumentNumber),
			zap.Bool("posted", e.Posted),
			zap.Int("lines", e.LineCount),
			zap.String("total_amount", e.TotalAmount.StringFixed(3)),
			zap.String("user_name", e.SubmittedBy),
		)
	case *requisition.MaterialRequestDeletedEvent:
		log.Info("Material request deleted",
			zap.String("doc_id", e.DocumentID),
			zap.String("doc_no", e.DocumentNumber),
			zap.String("user_name", e.DeletedBy),
		)
	default:
		log.Debug("Ignoring event", zap.String("event_type", event.EventType()))
	}
	return nil
}

var _ shared.EventHandler = (*RequestAuditHandler)(nil)
