package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"socialnet/internal/model"
)

// LikeRepository defines like persistence operations.
type LikeRepository interface {
	Find(ctx context.Context, userID, postID uuid.UUID) (*model.Like, error)
	Create(ctx context.Context, like *model.Like) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository builds a GORM-backed repository.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Find(ctx context.Context, userID, postID uuid.UUID) (*model.Like, error) {
	var like model.Like
	if err := r.db.WithContext(ctx).Where("user_id = ? AND post_id = ?", userID, postID).
		First(&like).Error; err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *likeRepository) Create(ctx context.Context, like *model.Like) error {
	return r.db.WithContext(ctx).Create(like).Error
}

func (r *likeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Like{}, "id = ?", id).Error
}

// FollowRepository defines follow-edge persistence operations.
type FollowRepository interface {
	Find(ctx context.Context, followerID, followedID uuid.UUID) (*model.Follow, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Follow, error)
	Create(ctx context.Context, follow *model.Follow) error
	Update(ctx context.Context, follow *model.Follow) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListFollowers(ctx context.Context, followedID uuid.UUID, page Page) ([]model.Follow, int64, error)
	ListFollowing(ctx context.Context, followerID uuid.UUID, page Page) ([]model.Follow, int64, error)
	ListPending(ctx context.Context, followedID uuid.UUID, page Page) ([]model.Follow, int64, error)
	AcceptedFollowingIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository builds a GORM-backed repository.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Find(ctx context.Context, followerID, followedID uuid.UUID) (*model.Follow, error) {
	var follow model.Follow
	if err := r.db.WithContext(ctx).Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		First(&follow).Error; err != nil {
		return nil, err
	}
	return &follow, nil
}

func (r *followRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Follow, error) {
	var follow model.Follow
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&follow).Error; err != nil {
		return nil, err
	}
	return &follow, nil
}

func (r *followRepository) Create(ctx context.Context, follow *model.Follow) error {
	return r.db.WithContext(ctx).Create(follow).Error
}

func (r *followRepository) Update(ctx context.Context, follow *model.Follow) error {
	return r.db.WithContext(ctx).Save(follow).Error
}

func (r *followRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Follow{}, "id = ?", id).Error
}

func (r *followRepository) ListFollowers(ctx context.Context, followedID uuid.UUID, page Page) ([]model.Follow, int64, error) {
	return r.list(ctx, "followed_id = ? AND status = ?", []interface{}{followedID, model.FollowAccepted}, page)
}

func (r *followRepository) ListFollowing(ctx context.Context, followerID uuid.UUID, page Page) ([]model.Follow, int64, error) {
	return r.list(ctx, "follower_id = ? AND status = ?", []interface{}{followerID, model.FollowAccepted}, page)
}

func (r *followRepository) ListPending(ctx context.Context, followedID uuid.UUID, page Page) ([]model.Follow, int64, error) {
	return r.list(ctx, "followed_id = ? AND status = ?", []interface{}{followedID, model.FollowPending}, page)
}

func (r *followRepository) list(ctx context.Context, cond string, args []interface{}, page Page) ([]model.Follow, int64, error) {
	page = page.Clamp()
	query := r.db.WithContext(ctx).Model(&model.Follow{}).Where(cond, args...)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var follows []model.Follow
	if err := query.Order("created_at DESC").Offset(page.Offset()).Limit(page.PerPage).
		Find(&follows).Error; err != nil {
		return nil, 0, err
	}
	return follows, total, nil
}

func (r *followRepository) AcceptedFollowingIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ? AND status = ?", followerID, model.FollowAccepted).
		Pluck("followed_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// FriendRepository defines friend-request persistence operations.
type FriendRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Friend, error)
	// FindBetween matches a request in either direction between two users.
	FindBetween(ctx context.Context, userA, userB uuid.UUID) (*model.Friend, error)
	Create(ctx context.Context, friend *model.Friend) error
	Update(ctx context.Context, friend *model.Friend) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListFriends(ctx context.Context, userID uuid.UUID, page Page) ([]model.Friend, int64, error)
	ListPending(ctx context.Context, requesteeID uuid.UUID, page Page) ([]model.Friend, int64, error)
	ListSent(ctx context.Context, requesterID uuid.UUID, page Page) ([]model.Friend, int64, error)
}

type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository builds a GORM-backed repository.
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Friend, error) {
	var friend model.Friend
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&friend).Error; err != nil {
		return nil, err
	}
	return &friend, nil
}

func (r *friendRepository) FindBetween(ctx context.Context, userA, userB uuid.UUID) (*model.Friend, error) {
	var friend model.Friend
	if err := r.db.WithContext(ctx).
		Where("(requester_id = ? AND requestee_id = ?) OR (requester_id = ? AND requestee_id = ?)",
			userA, userB, userB, userA).
		First(&friend).Error; err != nil {
		return nil, err
	}
	return &friend, nil
}

func (r *friendRepository) Create(ctx context.Context, friend *model.Friend) error {
	return r.db.WithContext(ctx).Create(friend).Error
}

func (r *friendRepository) Update(ctx context.Context, friend *model.Friend) error {
	return r.db.WithContext(ctx).Save(friend).Error
}

func (r *friendRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Friend{}, "id = ?", id).Error
}

func (r *friendRepository) ListFriends(ctx context.Context, userID uuid.UUID, page Page) ([]model.Friend, int64, error) {
	page = page.Clamp()
	query := r.db.WithContext(ctx).Model(&model.Friend{}).
		Where("(requester_id = ? OR requestee_id = ?) AND status = ?", userID, userID, model.FriendAccepted)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var friends []model.Friend
	if err := query.Order("accepted_at DESC").Offset(page.Offset()).Limit(page.PerPage).
		Find(&friends).Error; err != nil {
		return nil, 0, err
	}
	return friends, total, nil
}

func (r *friendRepository) ListPending(ctx context.Context, requesteeID uuid.UUID, page Page) ([]model.Friend, int64, error) {
	return r.listByStatus(ctx, "requestee_id", requesteeID, page)
}

func (r *friendRepository) ListSent(ctx context.Context, requesterID uuid.UUID, page Page) ([]model.Friend, int64, error) {
	return r.listByStatus(ctx, "requester_id", requesterID, page)
}

func (r *friendRepository) listByStatus(ctx context.Context, column string, userID uuid.UUID, page Page) ([]model.Friend, int64, error) {
	page = page.Clamp()
	query := r.db.WithContext(ctx).Model(&model.Friend{}).
		Where(column+" = ? AND status = ?", userID, model.FriendPending)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var friends []model.Friend
	if err := query.Order("created_at DESC").Offset(page.Offset()).Limit(page.PerPage).
		Find(&friends).Error; err != nil {
		return nil, 0, err
	}
	return friends, total, nil
}
