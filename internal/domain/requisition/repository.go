package requisition

import (
	"context"

	"github.com/google/uuid"
)

// DraftRepository stores the one draft each session owns
type DraftRepository interface {
	// FindBySession returns the session's draft, or shared.ErrNotFound
	FindBySession(ctx context.Context, sessionID uuid.UUID) (*RequestDraft, error)
	// Save creates or replaces the session's draft
	Save(ctx context.Context, draft *RequestDraft) error
	// SaveWithLock writes a loaded draft back only if the stored draft is still
	// the same draft at expectedVersion. Otherwise it returns ErrDraftModified.
	SaveWithLock(ctx context.Context, draft *RequestDraft, expectedVersion int) error
	// DeleteBySession discards the session's draft. Missing drafts are not an error.
	DeleteBySession(ctx context.Context, sessionID uuid.UUID) error
}
