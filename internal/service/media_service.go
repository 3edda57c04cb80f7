package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "socialnet/internal/errors"
	"socialnet/internal/model"
	"socialnet/internal/provider"
	"socialnet/internal/repository"
)

const maxMediaSize = 10 << 20 // 10 MiB

var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"video/mp4":  true,
}

// MediaService stores uploaded media and tracks ownership. Uploads start
// unattached; post creation claims them.
type MediaService interface {
	Upload(ctx context.Context, ownerID uuid.UUID, data []byte, filename, mimeType string) (*model.Media, error)
	Delete(ctx context.Context, ownerID, mediaID uuid.UUID) error
}

type mediaService struct {
	repos repository.Repos
	store provider.MediaStore
}

// NewMediaService creates a new media service.
func NewMediaService(repos repository.Repos, store provider.MediaStore) MediaService {
	return &mediaService{repos: repos, store: store}
}

func (s *mediaService) Upload(ctx context.Context, ownerID uuid.UUID, data []byte, filename, mimeType string) (*model.Media, error) {
	if len(data) == 0 || len(data) > maxMediaSize {
		return nil, apperrors.ErrValidation
	}
	if !allowedMimeTypes[mimeType] {
		return nil, apperrors.ErrValidation
	}

	key, url, err := s.store.Upload(ctx, data, filename, mimeType)
	if err != nil {
		return nil, apperrors.ErrProviderFailure
	}

	media := &model.Media{
		OwnerID:   ownerID,
		ObjectKey: key,
		URL:       url,
		MimeType:  mimeType,
		Size:      int64(len(data)),
	}
	if err := s.repos.Media.Create(ctx, media); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			log.Printf("orphan media object %s: %v", key, delErr)
		}
		return nil, fmt.Errorf("create media: %w", err)
	}
	return media, nil
}

// Delete removes an unattached media item. Media already attached to a post
// lives and dies with the post.
func (s *mediaService) Delete(ctx context.Context, ownerID, mediaID uuid.UUID) error {
	media, err := s.repos.Media.FindByID(ctx, mediaID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrValidation
		}
		return fmt.Errorf("find media: %w", err)
	}
	if media.OwnerID != ownerID {
		return apperrors.ErrForbidden
	}
	if media.PostID != nil {
		return apperrors.ErrForbidden
	}

	if err := s.repos.Media.Delete(ctx, mediaID); err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	if err := s.store.Delete(ctx, media.ObjectKey); err != nil {
		log.Printf("remove media object %s: %v", media.ObjectKey, err)
	}
	return nil
}
