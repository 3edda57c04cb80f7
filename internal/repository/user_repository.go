package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"socialnet/internal/model"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByIdentifier(ctx context.Context, identifier string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindBySlug(ctx context.Context, slug string) (*model.User, error)
	// ResolveSlug falls back to the slug history when no current slug matches.
	ResolveSlug(ctx context.Context, slug string) (*model.User, error)
	SlugTaken(ctx context.Context, slug string) (bool, error)
	ArchiveSlug(ctx context.Context, userID uuid.UUID, slug string) error
	List(ctx context.Context, search string, page Page) ([]model.User, int64, error)
	AdjustCounter(ctx context.Context, id uuid.UUID, column string, delta int) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("identifier = ?", identifier).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindBySlug(ctx context.Context, slug string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("profile_slug = ?", slug).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ResolveSlug(ctx context.Context, slug string) (*model.User, error) {
	user, err := r.FindBySlug(ctx, slug)
	if err == nil {
		return user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	var history model.SlugHistory
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&history).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, history.UserID)
}

func (r *userRepository) SlugTaken(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("profile_slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := r.db.WithContext(ctx).Model(&model.SlugHistory{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) ArchiveSlug(ctx context.Context, userID uuid.UUID, slug string) error {
	return r.db.WithContext(ctx).Create(&model.SlugHistory{UserID: userID, Slug: slug}).Error
}

func (r *userRepository) List(ctx context.Context, search string, page Page) ([]model.User, int64, error) {
	page = page.Clamp()
	query := r.db.WithContext(ctx).Model(&model.User{}).Where("status = ?", model.StatusActive)
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("username LIKE ? OR display_name LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	if err := query.Order("created_at DESC").Offset(page.Offset()).Limit(page.PerPage).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepository) AdjustCounter(ctx context.Context, id uuid.UUID, column string, delta int) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}
