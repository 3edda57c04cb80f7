package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"socialnet/internal/model"
)

// CodeRepository defines verification-code persistence operations.
type CodeRepository interface {
	Create(ctx context.Context, code *model.Code) error
	Update(ctx context.Context, code *model.Code) error
	Delete(ctx context.Context, id uuid.UUID) error
	// FindAllByIdentifier returns every historical code, newest first. Checks
	// deliberately scan all of them, not only the latest active one.
	FindAllByIdentifier(ctx context.Context, identifier string) ([]model.Code, error)
	FindActiveByIdentifier(ctx context.Context, identifier string) (*model.Code, error)
	DeactivateByIdentifier(ctx context.Context, identifier string) error
}

type codeRepository struct {
	db *gorm.DB
}

// NewCodeRepository builds a GORM-backed repository.
func NewCodeRepository(db *gorm.DB) CodeRepository {
	return &codeRepository{db: db}
}

func (r *codeRepository) Create(ctx context.Context, code *model.Code) error {
	return r.db.WithContext(ctx).Create(code).Error
}

func (r *codeRepository) Update(ctx context.Context, code *model.Code) error {
	return r.db.WithContext(ctx).Save(code).Error
}

func (r *codeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Code{}, "id = ?", id).Error
}

func (r *codeRepository) FindAllByIdentifier(ctx context.Context, identifier string) ([]model.Code, error) {
	var codes []model.Code
	if err := r.db.WithContext(ctx).Where("identifier = ?", identifier).
		Order("created_at DESC").Find(&codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

func (r *codeRepository) FindActiveByIdentifier(ctx context.Context, identifier string) (*model.Code, error) {
	var code model.Code
	if err := r.db.WithContext(ctx).Where("identifier = ? AND active = ?", identifier, true).
		Order("created_at DESC").First(&code).Error; err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *codeRepository) DeactivateByIdentifier(ctx context.Context, identifier string) error {
	return r.db.WithContext(ctx).Model(&model.Code{}).
		Where("identifier = ? AND active = ?", identifier, true).
		Update("active", false).Error
}
