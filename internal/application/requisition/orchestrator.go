package requisition

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/requisition/internal/domain/catalog"
	"github.com/erp/requisition/internal/domain/requisition"
	"github.com/erp/requisition/internal/domain/shared"
	"github.com/erp/requisition/internal/infrastructure/logger"
	"github.com/erp/requisition/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Success messages shown after an accepted submission
const (
	SubmittedMessage = "Material request submitted successfully!"
	UpdatedMessage   = "Material request updated successfully!"
)

// DefaultSubmitGuardTTL bounds how long a crashed submission can hold the guard
const DefaultSubmitGuardTTL = 60 * time.Second

// SubmissionOrchestrator validates a draft, sends it upstream and reconciles
// the answer back into the session's state
type SubmissionOrchestrator struct {
	drafts         requisition.DraftRepository
	gateway        requisition.MaterialRequestGateway
	catalog        CatalogIndexProvider
	guard          shared.InFlightGuard
	guardTTL       time.Duration
	eventPublisher shared.EventPublisher
	metrics        *telemetry.RequisitionMetrics
	logger         *zap.Logger
	now            func() time.Time
}

// NewSubmissionOrchestrator creates a new SubmissionOrchestrator
func NewSubmissionOrchestrator(
	drafts requisition.DraftRepository,
	gateway requisition.MaterialRequestGateway,
	indexes CatalogIndexProvider,
	guard shared.InFlightGuard,
	log *zap.Logger,
) *SubmissionOrchestrator {
	return &SubmissionOrchestrator{
		drafts:   drafts,
		gateway:  gateway,
		catalog:  indexes,
		guard:    guard,
		guardTTL: DefaultSubmitGuardTTL,
		logger:   log,
		now:      time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (o *SubmissionOrchestrator) SetEventPublisher(publisher shared.EventPublisher) {
	o.eventPublisher = publisher
}

// SetMetrics sets the requisition metrics collector
func (o *SubmissionOrchestrator) SetMetrics(m *telemetry.RequisitionMetrics) {
	o.metrics = m
}

// SetGuardTTL overrides how long the submission guard is held at most
func (o *SubmissionOrchestrator) SetGuardTTL(ttl time.Duration) {
	if ttl > 0 {
		o.guardTTL = ttl
	}
}

// Submit sends the session's draft upstream. isDraftSave keeps the document
// unposted. At most one submission per session runs at a time.
func (o *SubmissionOrchestrator) Submit(ctx context.Context, session shared.SessionContext, isDraftSave bool) (*SubmitResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "requisition", "submit",
		telemetry.WithAttribute(telemetry.SpanAttrClientID, session.ClientID))
	defer span.End()

	log := logger.FromContextOr(ctx, o.logger)
	started := o.now()

	draft, err := loadOrCreate(ctx, o.drafts, session, started)
	if err != nil {
		return nil, err
	}
	if missing := draft.ValidateRequired(); len(missing) > 0 {
		return nil, &requisition.ValidationError{MissingFields: missing}
	}

	key := submitGuardKey(session)
	acquired, err := o.guard.TryAcquire(ctx, key, o.guardTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire submission guard: %w", err)
	}
	if !acquired {
		return nil, requisition.ErrSubmissionInFlight
	}
	defer o.release(ctx, key, log)

	// Re-read under the guard. A draft still marked Submitting here was left
	// behind by a holder whose guard expired.
	draft, err = loadOrCreate(ctx, o.drafts, session, started)
	if err != nil {
		return nil, err
	}
	loaded := draft.Version
	if draft.State == requisition.DraftStateSubmitting {
		log.Warn("Recovering draft left in submitting state", zap.String("session_id", session.SessionID.String()))
		draft.AbortSubmit()
	}
	if missing := draft.ValidateRequired(); len(missing) > 0 {
		return nil, &requisition.ValidationError{MissingFields: missing}
	}

	if err := draft.BeginSubmit(); err != nil {
		return nil, err
	}
	wasEditing := draft.WasEditing()
	if err := saveLoaded(ctx, o.drafts, draft, loaded); err != nil {
		return nil, err
	}

	payload := draft.ToSubmissionPayload(isDraftSave, o.now())
	telemetry.SetAttribute(span, telemetry.SpanAttrOperation, string(payload.Operation))
	telemetry.SetAttribute(span, telemetry.SpanAttrLineCount, len(payload.Details[0].Data))

	outcome, err := o.gateway.SubmitMaterialRequest(ctx, session, payload)
	if err != nil || outcome == nil || !outcome.Success {
		abortErr := o.abort(ctx, session, draft, payload, outcome, err, started, log)
		telemetry.RecordError(span, abortErr)
		return nil, abortErr
	}

	docID, docNo := outcome.DocumentID, outcome.DocumentNumber
	if docID == "" {
		docID = payload.MasterData.DocID
	}
	if docNo == "" {
		docNo = payload.MasterData.DocNo
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrDocNo, docNo)
	event := requisition.NewMaterialRequestSubmittedEvent(draft, payload, docID, docNo)

	fresh := requisition.NewRequestDraft(session, o.now())
	if err := o.drafts.Save(ctx, fresh); err != nil {
		// The upstream already has the document; only the local reset failed.
		log.Error("Failed to reset draft after submission", zap.Error(err))
	}

	o.publish(ctx, log, event)
	o.recordSubmission(ctx, session, payload.Operation, telemetry.OutcomeSuccess, started)

	message := SubmittedMessage
	if wasEditing {
		message = UpdatedMessage
	}
	log.Info("Material request submitted",
		zap.String("doc_id", docID),
		zap.String("doc_no", docNo),
		zap.String("operation", string(payload.Operation)),
		zap.Bool("posted", !isDraftSave),
	)

	return &SubmitResult{
		Message:        message,
		DocumentID:     docID,
		DocumentNumber: docNo,
		Operation:      string(payload.Operation),
		Posted:         !isDraftSave,
	}, nil
}

// abort returns the draft to its pre-submit state with edits intact and
// builds the error shown to the user
func (o *SubmissionOrchestrator) abort(
	ctx context.Context,
	session shared.SessionContext,
	draft *requisition.RequestDraft,
	payload requisition.SubmissionPayload,
	outcome *requisition.SubmitOutcome,
	cause error,
	started time.Time,
	log *zap.Logger,
) error {
	submitting := draft.Version
	draft.AbortSubmit()
	if err := saveLoaded(ctx, o.drafts, draft, submitting); err != nil {
		log.Error("Failed to restore draft after rejected submission", zap.Error(err))
	}

	message := upstreamMessage(cause)
	result := telemetry.OutcomeFailed
	if outcome != nil && cause == nil {
		message = outcome.Message
		result = telemetry.OutcomeRejected
	}
	o.recordSubmission(ctx, session, payload.Operation, result, started)

	log.Warn("Material request submission failed",
		zap.String("operation", string(payload.Operation)),
		zap.String("upstream_message", message),
		zap.Error(cause),
	)
	return requisition.NewPersistenceError(message, requisition.SubmitFailedMessage, cause)
}

// ScanAndAdd resolves a scanned code and appends the match as a new line
func (o *SubmissionOrchestrator) ScanAndAdd(ctx context.Context, session shared.SessionContext, code string) (requisition.LineItem, error) {
	idx, err := o.catalog.Index(ctx, session.ClientID)
	if err != nil {
		return requisition.LineItem{}, err
	}

	entry, found := idx.Resolve(code)
	if o.metrics != nil {
		o.metrics.RecordScan(ctx, session.ClientID, found)
	}
	if !found {
		return requisition.LineItem{}, catalog.ErrItemNotFound
	}

	now := o.now()
	draft, err := loadOrCreate(ctx, o.drafts, session, now)
	if err != nil {
		return requisition.LineItem{}, err
	}
	loaded := draft.Version
	added, err := draft.AddItems([]catalog.ResolvedCatalogEntry{entry}, now)
	if err != nil {
		return requisition.LineItem{}, err
	}
	if err := saveLoaded(ctx, o.drafts, draft, loaded); err != nil {
		return requisition.LineItem{}, err
	}
	return added[0], nil
}

// DeleteRequest hard-deletes a document upstream. A session draft editing
// that document is reset.
func (o *SubmissionOrchestrator) DeleteRequest(ctx context.Context, session shared.SessionContext, documentID, documentNumber string) error {
	log := logger.FromContextOr(ctx, o.logger)
	if documentID == "" {
		return requisition.ErrDocumentIDRequired
	}

	if err := o.gateway.DeleteMaterialRequest(ctx, session, documentID, documentNumber); err != nil {
		log.Warn("Material request delete failed", zap.String("doc_id", documentID), zap.Error(err))
		return requisition.NewPersistenceError(upstreamMessage(err), requisition.DeleteFailedMessage, err)
	}

	draft, err := o.drafts.FindBySession(ctx, session.SessionID)
	if err == nil && draft.Header.DocumentID == documentID && draft.State != requisition.DraftStateSubmitting {
		if err := o.drafts.Save(ctx, requisition.NewRequestDraft(session, o.now())); err != nil {
			log.Error("Failed to reset draft of deleted request", zap.Error(err))
		}
	}

	o.publish(ctx, log, requisition.NewMaterialRequestDeletedEvent(session, documentID, documentNumber))
	log.Info("Material request deleted", zap.String("doc_id", documentID), zap.String("doc_no", documentNumber))
	return nil
}

func (o *SubmissionOrchestrator) release(ctx context.Context, key string, log *zap.Logger) {
	if err := o.guard.Release(context.WithoutCancel(ctx), key); err != nil {
		log.Error("Failed to release submission guard", zap.String("key", key), zap.Error(err))
	}
}

func (o *SubmissionOrchestrator) publish(ctx context.Context, log *zap.Logger, event shared.DomainEvent) {
	if o.eventPublisher == nil {
		return
	}
	if err := o.eventPublisher.Publish(ctx, event); err != nil {
		log.Error("Failed to publish event", zap.String("event_type", event.EventType()), zap.Error(err))
	}
}

func (o *SubmissionOrchestrator) recordSubmission(ctx context.Context, session shared.SessionContext, op requisition.Operation, outcome string, started time.Time) {
	if o.metrics == nil {
		return
	}
	o.metrics.RecordSubmission(ctx, session.ClientID, string(op), outcome, o.now().Sub(started))
}

func submitGuardKey(session shared.SessionContext) string {
	return "submit:" + session.SessionID.String()
}

// upstreamMessage returns the reason the upstream gave, if any
func upstreamMessage(err error) string {
	var ue *shared.UpstreamError
	if errors.As(err, &ue) {
		return ue.Message
	}
	return ""
}
