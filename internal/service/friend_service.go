package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "socialnet/internal/errors"
	"socialnet/internal/metrics"
	"socialnet/internal/model"
	"socialnet/internal/repository"
)

// FriendService covers the asymmetric friend-request lifecycle.
type FriendService interface {
	Request(ctx context.Context, requesterID, requesteeID uuid.UUID) (*model.Friend, error)
	Accept(ctx context.Context, userID, requestID uuid.UUID) error
	Reject(ctx context.Context, userID, requestID uuid.UUID) error
	Cancel(ctx context.Context, userID, requestID uuid.UUID) error
	Remove(ctx context.Context, userID, friendID uuid.UUID) error
	ListFriends(ctx context.Context, userID uuid.UUID, page repository.Page) ([]model.Friend, *repository.PageInfo, error)
	ListIncoming(ctx context.Context, userID uuid.UUID, page repository.Page) ([]model.Friend, *repository.PageInfo, error)
	ListSent(ctx context.Context, userID uuid.UUID, page repository.Page) ([]model.Friend, *repository.PageInfo, error)
}

type friendService struct {
	repos repository.Repos
}

// NewFriendService creates a new friendship service.
func NewFriendService(repos repository.Repos) FriendService {
	return &friendService{repos: repos}
}

// Request creates a pending request. An existing edge in either direction
// blocks a new one; a rejected edge may be re-requested by replacing it.
func (s *friendService) Request(ctx context.Context, requesterID, requesteeID uuid.UUID) (*model.Friend, error) {
	if requesterID == requesteeID {
		return nil, apperrors.ErrSelfAction
	}

	target, err := s.repos.Users.FindByID(ctx, requesteeID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !target.IsActive() {
		return nil, apperrors.ErrUserNotFound
	}

	var friend *model.Friend
	err = s.repos.WithTransaction(ctx, func(tx repository.Repos) error {
		existing, err := tx.Friends.FindBetween(ctx, requesterID, requesteeID)
		if err != nil && err != gorm.ErrRecordNotFound {
			return fmt.Errorf("find friendship: %w", err)
		}

		if existing != nil {
			if existing.Status != model.FriendRejected {
				return apperrors.ErrDuplicateAction
			}
			if err := tx.Friends.Delete(ctx, existing.ID); err != nil {
				return fmt.Errorf("clear rejected friendship: %w", err)
			}
		}

		friend = &model.Friend{RequesterID: requesterID, RequesteeID: requesteeID, Status: model.FriendPending}
		if err := tx.Friends.Create(ctx, friend); err != nil {
			return fmt.Errorf("create friendship: %w", err)
		}

		metrics.SocialActionsTotal.WithLabelValues("friend_request").Inc()
		return notify(ctx, tx, requesteeID, requesterID, &friend.ID,
			model.FriendPayload{FriendType: model.NotifyFriendRequest, RequestID: friend.ID})
	})
	if err != nil {
		return nil, err
	}
	return friend, nil
}

// Accept marks a pending request accepted. Only the requestee accepts.
func (s *friendService) Accept(ctx context.Context, userID, requestID uuid.UUID) error {
	return s.repos.WithTransaction(ctx, func(tx repository.Repos) error {
		friend, err := s.pending(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if friend.RequesteeID != userID {
			return apperrors.ErrForbidden
		}

		now := time.Now()
		friend.Status = model.FriendAccepted
		friend.AcceptedAt = &now
		if err := tx.Friends.Update(ctx, friend); err != nil {
			return fmt.Errorf("accept friendship: %w", err)
		}

		metrics.SocialActionsTotal.WithLabelValues("friend_accept").Inc()
		return notify(ctx, tx, friend.RequesterID, userID, &friend.ID,
			model.FriendPayload{FriendType: model.NotifyFriendAccept, RequestID: friend.ID})
	})
}

// Reject marks a pending request rejected. The row stays so the requester's
// sent list shows the outcome.
func (s *friendService) Reject(ctx context.Context, userID, requestID uuid.UUID) error {
	return s.repos.WithTransaction(ctx, func(tx repository.Repos) error {
		friend, err := s.pending(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if friend.RequesteeID != userID {
			return apperrors.ErrForbidden
		}

		friend.Status = model.FriendRejected
		metrics.SocialActionsTotal.WithLabelValues("friend_reject").Inc()
		return tx.Friends.Update(ctx, friend)
	})
}

// Cancel withdraws the caller's own pending request.
func (s *friendService) Cancel(ctx context.Context, userID, requestID uuid.UUID) error {
	return s.repos.WithTransaction(ctx, func(tx repository.Repos) error {
		friend, err := s.pending(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if friend.RequesterID != userID {
			return apperrors.ErrForbidden
		}
		return tx.Friends.Delete(ctx, friend.ID)
	})
}

// Remove deletes an accepted friendship from either side.
func (s *friendService) Remove(ctx context.Context, userID, friendID uuid.UUID) error {
	friend, err := s.repos.Friends.FindBetween(ctx, userID, friendID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find friendship: %w", err)
	}
	if friend.Status != model.FriendAccepted {
		return apperrors.ErrUserNotFound
	}

	metrics.SocialActionsTotal.WithLabelValues("friend_remove").Inc()
	return s.repos.Friends.Delete(ctx, friend.ID)
}

func (s *friendService) ListFriends(ctx context.Context, userID uuid.UUID, page repository.Page) ([]model.Friend, *repository.PageInfo, error) {
	friends, total, err := s.repos.Friends.ListFriends(ctx, userID, page)
	if err != nil {
		return nil, nil, fmt.Errorf("list friends: %w", err)
	}
	return friends, repository.NewPageInfo(total, page), nil
}

func (s *friendService) ListIncoming(ctx context.Context, userID uuid.UUID, page repository.Page) ([]model.Friend, *repository.PageInfo, error) {
	friends, total, err := s.repos.Friends.ListPending(ctx, userID, page)
	if err != nil {
		return nil, nil, fmt.Errorf("list incoming requests: %w", err)
	}
	return friends, repository.NewPageInfo(total, page), nil
}

func (s *friendService) ListSent(ctx context.Context, userID uuid.UUID, page repository.Page) ([]model.Friend, *repository.PageInfo, error) {
	friends, total, err := s.repos.Friends.ListSent(ctx, userID, page)
	if err != nil {
		return nil, nil, fmt.Errorf("list sent requests: %w", err)
	}
	return friends, repository.NewPageInfo(total, page), nil
}

func (s *friendService) pending(ctx context.Context, tx repository.Repos, requestID uuid.UUID) (*model.Friend, error) {
	friend, err := tx.Friends.FindByID(ctx, requestID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find friend request: %w", err)
	}
	if friend.Status != model.FriendPending {
		return nil, apperrors.ErrDuplicateAction
	}
	return friend, nil
}
