package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"socialnet/internal/model"
)

// Audience classifies the viewer of an author's post list for privacy
// filtering inside the query, so pagination totals match the returned rows.
type Audience int

const (
	AudiencePublic Audience = iota
	AudienceFollower
	AudienceOwner
)

// PostRepository defines post persistence operations.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	Update(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, audience Audience, page Page) ([]model.Post, int64, error)
	// Feed returns non-deleted posts authored by any of authorIDs, newest
	// first. Private posts of authors other than viewerID are excluded.
	Feed(ctx context.Context, viewerID uuid.UUID, authorIDs []uuid.UUID, page Page) ([]model.Post, int64, error)
	Search(ctx context.Context, text string, page Page) ([]model.Post, int64, error)
	AdjustCounter(ctx context.Context, id uuid.UUID, column string, delta int) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository builds a GORM-backed repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Preload("Media").Preload("Author").
		Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID, audience Audience, page Page) ([]model.Post, int64, error) {
	page = page.Clamp()
	query := r.db.WithContext(ctx).Model(&model.Post{}).
		Where("author_id = ? AND deleted = ?", authorID, false)
	switch audience {
	case AudienceOwner:
		// The author sees everything.
	case AudienceFollower:
		query = query.Where("privacy IN ?", []model.Privacy{model.PrivacyPublic, model.PrivacyFollowersOnly})
	default:
		query = query.Where("privacy = ?", model.PrivacyPublic)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []model.Post
	if err := query.Preload("Media").Order("created_at DESC").
		Offset(page.Offset()).Limit(page.PerPage).Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) Feed(ctx context.Context, viewerID uuid.UUID, authorIDs []uuid.UUID, page Page) ([]model.Post, int64, error) {
	page = page.Clamp()
	if len(authorIDs) == 0 {
		return nil, 0, nil
	}
	query := r.db.WithContext(ctx).Model(&model.Post{}).
		Where("author_id IN ? AND deleted = ?", authorIDs, false).
		Where("privacy <> ? OR author_id = ?", model.PrivacyPrivate, viewerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []model.Post
	if err := query.Preload("Media").Preload("Author").Order("created_at DESC").
		Offset(page.Offset()).Limit(page.PerPage).Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) Search(ctx context.Context, text string, page Page) ([]model.Post, int64, error) {
	page = page.Clamp()
	like := "%" + text + "%"
	query := r.db.WithContext(ctx).Model(&model.Post{}).
		Where("deleted = ? AND privacy = ?", false, model.PrivacyPublic).
		Where("caption LIKE ? OR hashtags LIKE ?", like, like)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []model.Post
	if err := query.Preload("Author").Order("created_at DESC").
		Offset(page.Offset()).Limit(page.PerPage).Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) AdjustCounter(ctx context.Context, id uuid.UUID, column string, delta int) error {
	return r.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}
