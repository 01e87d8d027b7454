package requisition

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/requisition/internal/domain/catalog"
	"github.com/erp/requisition/internal/domain/requisition"
	"github.com/erp/requisition/internal/domain/shared"
	"go.uber.org/zap"
)

// headerApplyOrder applies the location before the sub-location so a PATCH
// carrying both keeps the sub-location
var headerApplyOrder = []requisition.HeaderField{
	requisition.HeaderLocationCode,
	requisition.HeaderSubLocationCode,
	requisition.HeaderDocumentDate,
	requisition.HeaderRequestedDate,
	requisition.HeaderRequestedTime,
	requisition.HeaderCostCenter,
	requisition.HeaderRemarks,
}

// DraftService handles the editing commands on a session's draft
type DraftService struct {
	drafts  requisition.DraftRepository
	gateway requisition.MaterialRequestGateway
	catalog CatalogIndexProvider
	logger  *zap.Logger
	now     func() time.Time
}

// NewDraftService creates a new DraftService
func NewDraftService(
	drafts requisition.DraftRepository,
	gateway requisition.MaterialRequestGateway,
	indexes CatalogIndexProvider,
	logger *zap.Logger,
) *DraftService {
	return &DraftService{
		drafts:  drafts,
		gateway: gateway,
		catalog: indexes,
		logger:  logger,
		now:     time.Now,
	}
}

// Current returns the session's draft, creating an empty one on first use
func (s *DraftService) Current(ctx context.Context, session shared.SessionContext) (*requisition.RequestDraft, error) {
	return loadOrCreate(ctx, s.drafts, session, s.now())
}

// Reset discards the session's draft and starts a new request
func (s *DraftService) Reset(ctx context.Context, session shared.SessionContext) (*requisition.RequestDraft, error) {
	current, err := s.Current(ctx, session)
	if err != nil {
		return nil, err
	}
	if current.State == requisition.DraftStateSubmitting {
		return nil, requisition.ErrDraftSubmitting
	}

	draft := requisition.NewRequestDraft(session, s.now())
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return draft, nil
}

// Load reads an existing document upstream and makes it the session's draft
func (s *DraftService) Load(ctx context.Context, session shared.SessionContext, req LoadDraftRequest) (*requisition.RequestDraft, error) {
	current, err := s.Current(ctx, session)
	if err != nil {
		return nil, err
	}
	if current.State == requisition.DraftStateSubmitting {
		return nil, requisition.ErrDraftSubmitting
	}

	stored, err := s.gateway.ReadMaterialRequest(ctx, session, req.DocumentID, req.DocumentNumber)
	if err != nil {
		return nil, err
	}

	draft, err := requisition.HydrateRequestDraft(session, stored.Header, stored.Lines, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}

	s.logger.Info("Material request loaded for editing",
		zap.String("doc_id", draft.Header.DocumentID),
		zap.String("doc_no", draft.Header.DocumentNumber),
		zap.Int("lines", len(draft.Lines)),
	)
	return draft, nil
}

// UpdateHeader sets the given header fields
func (s *DraftService) UpdateHeader(ctx context.Context, session shared.SessionContext, req UpdateHeaderRequest) (*requisition.RequestDraft, error) {
	for name := range req.Fields {
		if !isHeaderField(requisition.HeaderField(name)) {
			return nil, requisition.ErrUnknownHeaderField
		}
	}

	return s.mutate(ctx, session, func(d *requisition.RequestDraft, now time.Time) error {
		for _, field := range headerApplyOrder {
			value, ok := req.Fields[string(field)]
			if !ok {
				continue
			}
			if err := d.UpdateHeaderField(field, value, now); err != nil {
				return err
			}
		}
		return nil
	})
}

// AddEntries appends the picked catalog entries as new lines
func (s *DraftService) AddEntries(ctx context.Context, session shared.SessionContext, req AddLinesRequest) (*requisition.RequestDraft, error) {
	idx, err := s.catalog.Index(ctx, session.ClientID)
	if err != nil {
		return nil, err
	}

	candidates := make([]catalog.ResolvedCatalogEntry, 0, len(req.UniqueIDs))
	for _, id := range req.UniqueIDs {
		entry, ok := idx.FindByUniqueID(id)
		if !ok {
			return nil, catalog.ErrEntryNotFound
		}
		candidates = append(candidates, entry)
	}

	return s.mutate(ctx, session, func(d *requisition.RequestDraft, now time.Time) error {
		_, err := d.AddItems(candidates, now)
		return err
	})
}

// RemoveLine removes or soft-deletes the line at index
func (s *DraftService) RemoveLine(ctx context.Context, session shared.SessionContext, index int) (*requisition.RequestDraft, error) {
	return s.mutate(ctx, session, func(d *requisition.RequestDraft, now time.Time) error {
		return d.RemoveLine(index, now)
	})
}

// RestoreLine brings back a soft-deleted line
func (s *DraftService) RestoreLine(ctx context.Context, session shared.SessionContext, index int) (*requisition.RequestDraft, error) {
	return s.mutate(ctx, session, func(d *requisition.RequestDraft, now time.Time) error {
		return d.RestoreLine(index, now)
	})
}

// UpdateLine applies a typed quantity and/or price to the line at index
func (s *DraftService) UpdateLine(ctx context.Context, session shared.SessionContext, index int, req UpdateLineRequest) (*requisition.RequestDraft, error) {
	if req.Quantity == nil && req.UnitPrice == nil {
		return nil, shared.ErrInvalidInput
	}

	return s.mutate(ctx, session, func(d *requisition.RequestDraft, now time.Time) error {
		if req.Quantity != nil {
			if err := d.SetLineQuantity(index, requisition.ParseQuantity(*req.Quantity), now); err != nil {
				return err
			}
		}
		if req.UnitPrice != nil {
			if err := d.SetLineUnitPrice(index, requisition.ParseUnitPrice(*req.UnitPrice), now); err != nil {
				return err
			}
		}
		return nil
	})
}

// mutate loads the draft, applies fn and saves the result.
// Nothing is saved when fn fails, so a failed command leaves the draft as it was.
// The save fails with ErrDraftModified when a submit, reset or another edit
// replaced the draft in between.
func (s *DraftService) mutate(
	ctx context.Context,
	session shared.SessionContext,
	fn func(d *requisition.RequestDraft, now time.Time) error,
) (*requisition.RequestDraft, error) {
	now := s.now()
	draft, err := loadOrCreate(ctx, s.drafts, session, now)
	if err != nil {
		return nil, err
	}
	loaded := draft.Version
	if err := fn(draft, now); err != nil {
		return nil, err
	}
	if err := saveLoaded(ctx, s.drafts, draft, loaded); err != nil {
		return nil, err
	}
	return draft, nil
}

// saveLoaded writes back a draft read at version loaded
func saveLoaded(ctx context.Context, drafts requisition.DraftRepository, draft *requisition.RequestDraft, loaded int) error {
	if err := drafts.SaveWithLock(ctx, draft, loaded); err != nil {
		if errors.Is(err, requisition.ErrDraftModified) {
			return err
		}
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// loadOrCreate returns the stored draft, or a fresh one that is saved first
func loadOrCreate(ctx context.Context, drafts requisition.DraftRepository, session shared.SessionContext, now time.Time) (*requisition.RequestDraft, error) {
	if session.IsZero() {
		return nil, shared.ErrSessionMissing
	}

	draft, err := drafts.FindBySession(ctx, session.SessionID)
	if err == nil {
		return draft, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("find draft: %w", err)
	}

	draft = requisition.NewRequestDraft(session, now)
	if err := drafts.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return draft, nil
}

func isHeaderField(f requisition.HeaderField) bool {
	for _, known := range headerApplyOrder {
		if f == known {
			return true
		}
	}
	return false
}
