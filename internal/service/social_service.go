package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "socialnet/internal/errors"
	"socialnet/internal/metrics"
	"socialnet/internal/model"
	"socialnet/internal/repository"
)

// ToggleResult reports the state after a like or follow toggle.
type ToggleResult struct {
	Active  bool   `json:"active"`
	Pending bool   `json:"pending,omitempty"`
	Count   int    `json:"count"`
	Message string `json:"message"`
}

// SocialService covers likes and the follow graph.
type SocialService interface {
	ToggleLike(ctx context.Context, userID, postID uuid.UUID) (*ToggleResult, error)
	ToggleFollow(ctx context.Context, followerID, followedID uuid.UUID) (*ToggleResult, error)
	AcceptFollowRequest(ctx context.Context, userID, requestID uuid.UUID) error
	RejectFollowRequest(ctx context.Context, userID, requestID uuid.UUID) error
	RemoveFollower(ctx context.Context, userID, followerID uuid.UUID) error
	ListFollowers(ctx context.Context, userID uuid.UUID, page repository.Page) ([]model.Follow, *repository.PageInfo, error)
	ListFollowing(ctx context.Context, userID uuid.UUID, page repository.Page) ([]model.Follow, *repository.PageInfo, error)
	ListFollowRequests(ctx context.Context, userID uuid.UUID, page repository.Page) ([]model.Follow, *repository.PageInfo, error)
}

type socialService struct {
	repos repository.Repos
}

// NewSocialService creates a new social graph service.
func NewSocialService(repos repository.Repos) SocialService {
	return &socialService{repos: repos}
}

// ToggleLike flips the like edge for (user, post) and moves the post's like
// counter with it. Likes respect post visibility.
func (s *socialService) ToggleLike(ctx context.Context, userID, postID uuid.UUID) (*ToggleResult, error) {
	post, err := s.repos.Posts.FindByID(ctx, postID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}

	follows, err := isAcceptedFollower(ctx, s.repos, userID, post.AuthorID)
	if err != nil {
		return nil, err
	}
	if !post.CanView(userID, follows) {
		return nil, apperrors.ErrPostNotFound
	}

	var result *ToggleResult
	err = s.repos.WithTransaction(ctx, func(tx repository.Repos) error {
		existing, err := tx.Likes.Find(ctx, userID, postID)
		if err != nil && err != gorm.ErrRecordNotFound {
			return fmt.Errorf("find like: %w", err)
		}

		if existing != nil {
			if err := tx.Likes.Delete(ctx, existing.ID); err != nil {
				return fmt.Errorf("delete like: %w", err)
			}
			if err := tx.Posts.AdjustCounter(ctx, postID, "likes_count", -1); err != nil {
				return fmt.Errorf("adjust likes count: %w", err)
			}
			result = &ToggleResult{Active: false, Count: post.LikesCount - 1, Message: "like removed"}
			metrics.SocialActionsTotal.WithLabelValues("unlike").Inc()
			return nil
		}

		if err := tx.Likes.Create(ctx, &model.Like{UserID: userID, PostID: postID}); err != nil {
			return fmt.Errorf("create like: %w", err)
		}
		if err := tx.Posts.AdjustCounter(ctx, postID, "likes_count", 1); err != nil {
			return fmt.Errorf("adjust likes count: %w", err)
		}
		if err := notify(ctx, tx, post.AuthorID, userID, &postID, model.LikePayload{PostID: postID}); err != nil {
			return fmt.Errorf("notify like: %w", err)
		}
		result = &ToggleResult{Active: true, Count: post.LikesCount + 1, Message: "post liked"}
		metrics.SocialActionsTotal.WithLabelValues("like").Inc()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ToggleFollow flips the follow edge. Following a private account yields a
// pending request; unfollow removes either state. Counters move only on
// accepted edges.
func (s *socialService) ToggleFollow(ctx context.Context, followerID, followedID uuid.UUID) (*ToggleResult, error) {
	if followerID == followedID {
		return nil, apperrors.ErrSelfAction
	}

	target, err := s.repos.Users.FindByID(ctx, followedID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !target.IsActive() {
		return nil, apperrors.ErrUserNotFound
	}

	var result *ToggleResult
	err = s.repos.WithTransaction(ctx, func(tx repository.Repos) error {
		existing, err := tx.Follows.Find(ctx, followerID, followedID)
		if err != nil && err != gorm.ErrRecordNotFound {
			return fmt.Errorf("find follow: %w", err)
		}

		if existing != nil {
			if err := tx.Follows.Delete(ctx, existing.ID); err != nil {
				return fmt.Errorf("delete follow: %w", err)
			}
			if existing.Status == model.FollowAccepted {
				if err := s.adjustFollowCounters(ctx, tx, followerID, followedID, -1); err != nil {
					return err
				}
			}
			result = &ToggleResult{Active: false, Count: target.FollowersCount - 1, Message: "unfollowed"}
			metrics.SocialActionsTotal.WithLabelValues("unfollow").Inc()
			return nil
		}

		follow := &model.Follow{FollowerID: followerID, FollowedID: followedID, Status: model.FollowAccepted}
		if target.PrivateAccount {
			follow.Status = model.FollowPending
		}
		if err := tx.Follows.Create(ctx, follow); err != nil {
			return fmt.Errorf("create follow: %w", err)
		}

		if follow.Status == model.FollowAccepted {
			if err := s.adjustFollowCounters(ctx, tx, followerID, followedID, 1); err != nil {
				return err
			}
			if err := notify(ctx, tx, followedID, followerID, nil, model.FollowPayload{FollowType: model.NotifyFollow}); err != nil {
				return fmt.Errorf("notify follow: %w", err)
			}
			result = &ToggleResult{Active: true, Count: target.FollowersCount + 1, Message: "followed"}
			metrics.SocialActionsTotal.WithLabelValues("follow").Inc()
			return nil
		}

		if err := notify(ctx, tx, followedID, followerID, &follow.ID, model.FollowPayload{FollowType: model.NotifyFollowRequest, Pending: true}); err != nil {
			return fmt.Errorf("notify follow request: %w", err)
		}
		result = &ToggleResult{Active: false, Pending: true, Count: target.FollowersCount, Message: "follow request sent"}
		metrics.SocialActionsTotal.WithLabelValues("follow_request").Inc()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AcceptFollowRequest promotes a pending edge to accepted and moves both
// counters.
func (s *socialService) AcceptFollowRequest(ctx context.Context, userID, requestID uuid.UUID) error {
	return s.repos.WithTransaction(ctx, func(tx repository.Repos) error {
		follow, err := s.pendingRequest(ctx, tx, userID, requestID)
		if err != nil {
			return err
		}

		follow.Status = model.FollowAccepted
		if err := tx.Follows.Update(ctx, follow); err != nil {
			return fmt.Errorf("accept follow: %w", err)
		}
		if err := s.adjustFollowCounters(ctx, tx, follow.FollowerID, follow.FollowedID, 1); err != nil {
			return err
		}
		metrics.SocialActionsTotal.WithLabelValues("follow_accept").Inc()
		return notify(ctx, tx, follow.FollowerID, userID, nil, model.FollowPayload{FollowType: model.NotifyFollowAccept})
	})
}

// RejectFollowRequest drops a pending edge without touching counters.
func (s *socialService) RejectFollowRequest(ctx context.Context, userID, requestID uuid.UUID) error {
	return s.repos.WithTransaction(ctx, func(tx repository.Repos) error {
		follow, err := s.pendingRequest(ctx, tx, userID, requestID)
		if err != nil {
			return err
		}
		metrics.SocialActionsTotal.WithLabelValues("follow_reject").Inc()
		return tx.Follows.Delete(ctx, follow.ID)
	})
}

// RemoveFollower drops an accepted inbound edge.
func (s *socialService) RemoveFollower(ctx context.Context, userID, followerID uuid.UUID) error {
	return s.repos.WithTransaction(ctx, func(tx repository.Repos) error {
		follow, err := tx.Follows.Find(ctx, followerID, userID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.ErrUserNotFound
			}
			return fmt.Errorf("find follow: %w", err)
		}
		if err := tx.Follows.Delete(ctx, follow.ID); err != nil {
			return fmt.Errorf("delete follow: %w", err)
		}
		if follow.Status == model.FollowAccepted {
			return s.adjustFollowCounters(ctx, tx, followerID, userID, -1)
		}
		return nil
	})
}

func (s *socialService) ListFollowers(ctx context.Context, userID uuid.UUID, page repository.Page) ([]model.Follow, *repository.PageInfo, error) {
	follows, total, err := s.repos.Follows.ListFollowers(ctx, userID, page)
	if err != nil {
		return nil, nil, fmt.Errorf("list followers: %w", err)
	}
	return follows, repository.NewPageInfo(total, page), nil
}

func (s *socialService) ListFollowing(ctx context.Context, userID uuid.UUID, page repository.Page) ([]model.Follow, *repository.PageInfo, error) {
	follows, total, err := s.repos.Follows.ListFollowing(ctx, userID, page)
	if err != nil {
		return nil, nil, fmt.Errorf("list following: %w", err)
	}
	return follows, repository.NewPageInfo(total, page), nil
}

func (s *socialService) ListFollowRequests(ctx context.Context, userID uuid.UUID, page repository.Page) ([]model.Follow, *repository.PageInfo, error) {
	follows, total, err := s.repos.Follows.ListPending(ctx, userID, page)
	if err != nil {
		return nil, nil, fmt.Errorf("list follow requests: %w", err)
	}
	return follows, repository.NewPageInfo(total, page), nil
}

// pendingRequest loads a pending follow request addressed to userID.
func (s *socialService) pendingRequest(ctx context.Context, tx repository.Repos, userID, requestID uuid.UUID) (*model.Follow, error) {
	follow, err := tx.Follows.FindByID(ctx, requestID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find follow request: %w", err)
	}
	if follow.FollowedID != userID {
		return nil, apperrors.ErrForbidden
	}
	if follow.Status != model.FollowPending {
		return nil, apperrors.ErrDuplicateAction
	}
	return follow, nil
}

func (s *socialService) adjustFollowCounters(ctx context.Context, tx repository.Repos, followerID, followedID uuid.UUID, delta int) error {
	if err := tx.Users.AdjustCounter(ctx, followedID, "followers_count", delta); err != nil {
		return fmt.Errorf("adjust followers count: %w", err)
	}
	if err := tx.Users.AdjustCounter(ctx, followerID, "following_count", delta); err != nil {
		return fmt.Errorf("adjust following count: %w", err)
	}
	return nil
}
