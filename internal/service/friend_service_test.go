package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "socialnet/internal/errors"
	"socialnet/internal/model"
	"socialnet/internal/repository"
)

func friendTestRepos() (repository.Repos, *MockUserRepository, *MockFriendRepository, *MockNotificationRepository) {
	users := new(MockUserRepository)
	friends := new(MockFriendRepository)
	notifications := new(MockNotificationRepository)

	repos := repository.Repos{
		Users:         users,
		Friends:       friends,
		Notifications: notifications,
	}
	return repos, users, friends, notifications
}

func TestFriendService_Request(t *testing.T) {
	requesterID := uuid.New()
	requesteeID := uuid.New()

	activeUser := func() *model.User {
		return &model.User{ID: requesteeID, Status: model.StatusActive}
	}

	t.Run("creates a pending request and notifies the requestee", func(t *testing.T) {
		repos, users, friends, notifications := friendTestRepos()
		users.On("FindByID", mock.Anything, requesteeID).Return(activeUser(), nil)
		friends.On("FindBetween", mock.Anything, requesterID, requesteeID).Return(nil, gorm.ErrRecordNotFound)
		friends.On("Create", mock.Anything, mock.MatchedBy(func(f *model.Friend) bool {
			return f.RequesterID == requesterID && f.RequesteeID == requesteeID && f.Status == model.FriendPending
		})).Return(nil)
		notifications.On("Create", mock.Anything, mock.MatchedBy(func(n *model.Notification) bool {
			return n.UserID == requesteeID && n.Type == model.NotifyFriendRequest
		})).Return(nil)

		friend, err := NewFriendService(repos).Request(context.Background(), requesterID, requesteeID)

		assert.NoError(t, err)
		assert.Equal(t, model.FriendPending, friend.Status)
		friends.AssertExpectations(t)
		notifications.AssertExpectations(t)
	})

	t.Run("existing edge in either direction blocks a new request", func(t *testing.T) {
		repos, users, friends, _ := friendTestRepos()
		users.On("FindByID", mock.Anything, requesteeID).Return(activeUser(), nil)
		friends.On("FindBetween", mock.Anything, requesterID, requesteeID).Return(&model.Friend{
			ID: uuid.New(), RequesterID: requesteeID, RequesteeID: requesterID, Status: model.FriendPending,
		}, nil)

		_, err := NewFriendService(repos).Request(context.Background(), requesterID, requesteeID)

		assert.ErrorIs(t, err, apperrors.ErrDuplicateAction)
		friends.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejected edge is replaced by a fresh pending request", func(t *testing.T) {
		rejectedID := uuid.New()
		repos, users, friends, notifications := friendTestRepos()
		users.On("FindByID", mock.Anything, requesteeID).Return(activeUser(), nil)
		friends.On("FindBetween", mock.Anything, requesterID, requesteeID).Return(&model.Friend{
			ID: rejectedID, RequesterID: requesterID, RequesteeID: requesteeID, Status: model.FriendRejected,
		}, nil)
		friends.On("Delete", mock.Anything, rejectedID).Return(nil)
		friends.On("Create", mock.Anything, mock.AnythingOfType("*model.Friend")).Return(nil)
		notifications.On("Create", mock.Anything, mock.Anything).Return(nil)

		friend, err := NewFriendService(repos).Request(context.Background(), requesterID, requesteeID)

		assert.NoError(t, err)
		assert.Equal(t, model.FriendPending, friend.Status)
		friends.AssertExpectations(t)
	})

	t.Run("self request is rejected", func(t *testing.T) {
		repos, _, _, _ := friendTestRepos()

		_, err := NewFriendService(repos).Request(context.Background(), requesterID, requesterID)

		assert.ErrorIs(t, err, apperrors.ErrSelfAction)
	})

	t.Run("blocked requestee reads as not found", func(t *testing.T) {
		repos, users, _, _ := friendTestRepos()
		users.On("FindByID", mock.Anything, requesteeID).Return(&model.User{
			ID: requesteeID, Status: model.StatusBlocked,
		}, nil)

		_, err := NewFriendService(repos).Request(context.Background(), requesterID, requesteeID)

		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestFriendService_Accept(t *testing.T) {
	requesterID := uuid.New()
	requesteeID := uuid.New()
	requestID := uuid.New()

	pendingRequest := func() *model.Friend {
		return &model.Friend{ID: requestID, RequesterID: requesterID, RequesteeID: requesteeID, Status: model.FriendPending}
	}

	t.Run("requestee accepts and the requester is notified", func(t *testing.T) {
		repos, _, friends, notifications := friendTestRepos()
		friends.On("FindByID", mock.Anything, requestID).Return(pendingRequest(), nil)
		friends.On("Update", mock.Anything, mock.MatchedBy(func(f *model.Friend) bool {
			return f.Status == model.FriendAccepted && f.AcceptedAt != nil
		})).Return(nil)
		notifications.On("Create", mock.Anything, mock.MatchedBy(func(n *model.Notification) bool {
			return n.UserID == requesterID && n.Type == model.NotifyFriendAccept
		})).Return(nil)

		err := NewFriendService(repos).Accept(context.Background(), requesteeID, requestID)

		assert.NoError(t, err)
		friends.AssertExpectations(t)
		notifications.AssertExpectations(t)
	})

	t.Run("only the requestee may accept", func(t *testing.T) {
		repos, _, friends, _ := friendTestRepos()
		friends.On("FindByID", mock.Anything, requestID).Return(pendingRequest(), nil)

		err := NewFriendService(repos).Accept(context.Background(), requesterID, requestID)

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		friends.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("already accepted request reads as a duplicate", func(t *testing.T) {
		repos, _, friends, _ := friendTestRepos()
		accepted := pendingRequest()
		accepted.Status = model.FriendAccepted
		friends.On("FindByID", mock.Anything, requestID).Return(accepted, nil)

		err := NewFriendService(repos).Accept(context.Background(), requesteeID, requestID)

		assert.ErrorIs(t, err, apperrors.ErrDuplicateAction)
	})
}

func TestFriendService_RejectAndCancel(t *testing.T) {
	requesterID := uuid.New()
	requesteeID := uuid.New()
	requestID := uuid.New()

	pendingRequest := func() *model.Friend {
		return &model.Friend{ID: requestID, RequesterID: requesterID, RequesteeID: requesteeID, Status: model.FriendPending}
	}

	t.Run("reject keeps the row so the sent list shows the outcome", func(t *testing.T) {
		repos, _, friends, _ := friendTestRepos()
		friends.On("FindByID", mock.Anything, requestID).Return(pendingRequest(), nil)
		friends.On("Update", mock.Anything, mock.MatchedBy(func(f *model.Friend) bool {
			return f.Status == model.FriendRejected
		})).Return(nil)

		err := NewFriendService(repos).Reject(context.Background(), requesteeID, requestID)

		assert.NoError(t, err)
		friends.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("cancel deletes the caller's own pending request", func(t *testing.T) {
		repos, _, friends, _ := friendTestRepos()
		friends.On("FindByID", mock.Anything, requestID).Return(pendingRequest(), nil)
		friends.On("Delete", mock.Anything, requestID).Return(nil)

		err := NewFriendService(repos).Cancel(context.Background(), requesterID, requestID)

		assert.NoError(t, err)
		friends.AssertExpectations(t)
	})

	t.Run("requestee cannot cancel the requester's request", func(t *testing.T) {
		repos, _, friends, _ := friendTestRepos()
		friends.On("FindByID", mock.Anything, requestID).Return(pendingRequest(), nil)

		err := NewFriendService(repos).Cancel(context.Background(), requesteeID, requestID)

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestFriendService_Remove(t *testing.T) {
	userID := uuid.New()
	friendID := uuid.New()

	t.Run("removes an accepted friendship from either side", func(t *testing.T) {
		edgeID := uuid.New()
		repos, _, friends, _ := friendTestRepos()
		friends.On("FindBetween", mock.Anything, userID, friendID).Return(&model.Friend{
			ID: edgeID, RequesterID: friendID, RequesteeID: userID, Status: model.FriendAccepted,
		}, nil)
		friends.On("Delete", mock.Anything, edgeID).Return(nil)

		err := NewFriendService(repos).Remove(context.Background(), userID, friendID)

		assert.NoError(t, err)
		friends.AssertExpectations(t)
	})

	t.Run("pending edge is not removable as a friendship", func(t *testing.T) {
		repos, _, friends, _ := friendTestRepos()
		friends.On("FindBetween", mock.Anything, userID, friendID).Return(&model.Friend{
			ID: uuid.New(), RequesterID: userID, RequesteeID: friendID, Status: model.FriendPending,
		}, nil)

		err := NewFriendService(repos).Remove(context.Background(), userID, friendID)

		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		friends.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
