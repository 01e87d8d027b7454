package persistence

import (
	"context"
	"sync"

	"github.com/erp/requisition/internal/domain/requisition"
	"github.com/erp/requisition/internal/domain/shared"
	"github.com/google/uuid"
)

// InMemoryDraftRepository keeps drafts in process memory.
// It backs the "memory" driver for local runs and single-instance deployments.
type InMemoryDraftRepository struct {
	mu     sync.RWMutex
	drafts map[uuid.UUID]*requisition.RequestDraft
}

// NewInMemoryDraftRepository creates an empty InMemoryDraftRepository
func NewInMemoryDraftRepository() *InMemoryDraftRepository {
	return &InMemoryDraftRepository{drafts: make(map[uuid.UUID]*requisition.RequestDraft)}
}

func (r *InMemoryDraftRepository) FindBySession(_ context.Context, sessionID uuid.UUID) (*requisition.RequestDraft, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.drafts[sessionID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return cloneDraft(d), nil
}

func (r *InMemoryDraftRepository) Save(_ context.Context, draft *requisition.RequestDraft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drafts[draft.SessionID] = cloneDraft(draft)
	return nil
}

func (r *InMemoryDraftRepository) SaveWithLock(_ context.Context, draft *requisition.RequestDraft, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.drafts[draft.SessionID]
	if !ok || stored.ID != draft.ID || stored.Version != expectedVersion {
		return requisition.ErrDraftModified
	}
	r.drafts[draft.SessionID] = cloneDraft(draft)
	return nil
}

func (r *InMemoryDraftRepository) DeleteBySession(_ context.Context, sessionID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts, sessionID)
	return nil
}

// Len returns the number of stored drafts
func (r *InMemoryDraftRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.drafts)
}

// cloneDraft copies the aggregate so callers never share line storage with the store.
// Pending domain events are not carried over.
func cloneDraft(d *requisition.RequestDraft) *requisition.RequestDraft {
	c := &requisition.RequestDraft{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: d.BaseEntity,
			ClientID:   d.ClientID,
			Version:    d.Version,
		},
		SessionID:   d.SessionID,
		UserName:    d.UserName,
		Header:      d.Header,
		Lines:       make([]requisition.LineItem, len(d.Lines)),
		State:       d.State,
		ResumeState: d.ResumeState,
	}
	copy(c.Lines, d.Lines)
	return c
}

var _ requisition.DraftRepository = (*InMemoryDraftRepository)(nil)
