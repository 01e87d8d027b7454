package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/requisition/internal/domain/requisition"
	"github.com/erp/requisition/internal/domain/shared"
	"github.com/erp/requisition/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDraftRepository implements requisition.DraftRepository using GORM
type GormDraftRepository struct {
	db *gorm.DB
}

// NewGormDraftRepository creates a new GormDraftRepository
func NewGormDraftRepository(db *gorm.DB) *GormDraftRepository {
	return &GormDraftRepository{db: db}
}

// WithTx returns a new repository instance with the given transaction
func (r *GormDraftRepository) WithTx(tx *gorm.DB) *GormDraftRepository {
	return &GormDraftRepository{db: tx}
}

// FindBySession loads the draft owned by a session
func (r *GormDraftRepository) FindBySession(ctx context.Context, sessionID uuid.UUID) (*requisition.RequestDraft, error) {
	var model models.RequestDraftModel
	if err := r.db.WithContext(ctx).First(&model, "session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// Save creates or replaces the session's draft.
// A reset draft carries a new ID, so the conflict target is the session, not the key.
func (r *GormDraftRepository) Save(ctx context.Context, draft *requisition.RequestDraft) error {
	model, err := models.RequestDraftModelFromDomain(draft)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"id", "client_id", "version", "created_at", "updated_at",
				"user_name", "state", "resume_state", "header", "lines",
			}),
		}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("save draft for session %s: %w", draft.SessionID, err)
	}
	return nil
}

// SaveWithLock saves a loaded draft with optimistic locking (version check).
// Returns requisition.ErrDraftModified if the stored draft was replaced,
// deleted or changed since it was loaded.
func (r *GormDraftRepository) SaveWithLock(ctx context.Context, draft *requisition.RequestDraft, expectedVersion int) error {
	model, err := models.RequestDraftModelFromDomain(draft)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&models.RequestDraftModel{}).
		Where("session_id = ? AND id = ? AND version = ?", draft.SessionID, draft.ID, expectedVersion).
		Select("version", "updated_at", "user_name", "state", "resume_state", "header", "lines").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("save draft for session %s: %w", draft.SessionID, result.Error)
	}
	if result.RowsAffected == 0 {
		return requisition.ErrDraftModified
	}
	return nil
}

// DeleteBySession removes the session's draft if one exists
func (r *GormDraftRepository) DeleteBySession(ctx context.Context, sessionID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.RequestDraftModel{}).Error
}

// Ensure GormDraftRepository implements requisition.DraftRepository
var _ requisition.DraftRepository = (*GormDraftRepository)(nil)
