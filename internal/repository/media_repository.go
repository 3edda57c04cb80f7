package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"socialnet/internal/model"
)

// MediaRepository defines media reference persistence operations.
type MediaRepository interface {
	Create(ctx context.Context, media *model.Media) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Media, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AttachToPost(ctx context.Context, mediaIDs []uuid.UUID, ownerID, postID uuid.UUID) error
}

type mediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository builds a GORM-backed repository.
func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(ctx context.Context, media *model.Media) error {
	return r.db.WithContext(ctx).Create(media).Error
}

func (r *mediaRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Media, error) {
	var media model.Media
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&media).Error; err != nil {
		return nil, err
	}
	return &media, nil
}

func (r *mediaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Media{}, "id = ?", id).Error
}

// AttachToPost binds unattached media owned by ownerID to a post. Media
// already attached elsewhere is skipped by the owner+unattached filter.
func (r *mediaRepository) AttachToPost(ctx context.Context, mediaIDs []uuid.UUID, ownerID, postID uuid.UUID) error {
	if len(mediaIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.Media{}).
		Where("id IN ? AND owner_id = ? AND post_id IS NULL", mediaIDs, ownerID).
		Update("post_id", postID).Error
}
