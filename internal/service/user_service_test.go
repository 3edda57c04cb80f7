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

func strPtr(s string) *string { return &s }

func TestUserService_UpdateProfile_SlugDerivation(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name         string
		username     string
		currentSlug  string
		setupMock    func(*MockUserRepository)
		expectedSlug string
	}{
		{
			name:        "free slug is taken as is",
			username:    "Alice_99",
			currentSlug: "",
			setupMock: func(users *MockUserRepository) {
				users.On("SlugTaken", mock.Anything, "alice_99").Return(false, nil)
			},
			expectedSlug: "alice_99",
		},
		{
			name:        "collision appends a numeric suffix",
			username:    "Alice",
			currentSlug: "",
			setupMock: func(users *MockUserRepository) {
				users.On("SlugTaken", mock.Anything, "alice").Return(true, nil)
				users.On("SlugTaken", mock.Anything, "alice1").Return(true, nil)
				users.On("SlugTaken", mock.Anything, "alice2").Return(false, nil)
			},
			expectedSlug: "alice2",
		},
		{
			name:        "rename archives the previous slug",
			username:    "Brand New",
			currentSlug: "oldname",
			setupMock: func(users *MockUserRepository) {
				users.On("SlugTaken", mock.Anything, "brandnew").Return(false, nil)
				users.On("ArchiveSlug", mock.Anything, userID, "oldname").Return(nil)
			},
			expectedSlug: "brandnew",
		},
		{
			name:        "symbols-only username falls back to a default base",
			username:    "!!!",
			currentSlug: "",
			setupMock: func(users *MockUserRepository) {
				users.On("SlugTaken", mock.Anything, "user").Return(false, nil)
			},
			expectedSlug: "user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			users.On("FindByID", mock.Anything, userID).Return(&model.User{
				ID:          userID,
				Username:    "previous",
				ProfileSlug: tt.currentSlug,
				Status:      model.StatusActive,
			}, nil)
			tt.setupMock(users)
			users.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

			service := NewUserService(repository.Repos{Users: users})
			updated, err := service.UpdateProfile(context.Background(), userID, ProfileUpdate{Username: &tt.username})

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedSlug, updated.ProfileSlug)
			assert.Equal(t, tt.username, updated.Username)
			users.AssertExpectations(t)
		})
	}
}

func TestUserService_UpdateProfile_UnchangedUsernameSkipsSlugWork(t *testing.T) {
	userID := uuid.New()
	users := new(MockUserRepository)
	users.On("FindByID", mock.Anything, userID).Return(&model.User{
		ID: userID, Username: "alice", ProfileSlug: "alice", Status: model.StatusActive,
	}, nil)
	users.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	service := NewUserService(repository.Repos{Users: users})
	_, err := service.UpdateProfile(context.Background(), userID, ProfileUpdate{
		Username: strPtr("alice"),
		Bio:      strPtr("new bio"),
	})

	assert.NoError(t, err)
	users.AssertNotCalled(t, "SlugTaken", mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "ArchiveSlug", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_GetBySlug(t *testing.T) {
	userID := uuid.New()

	t.Run("historical slug resolves to the renamed profile", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("ResolveSlug", mock.Anything, "oldname").Return(&model.User{
			ID: userID, ProfileSlug: "newname", Status: model.StatusActive,
		}, nil)

		service := NewUserService(repository.Repos{Users: users})
		view, err := service.GetBySlug(context.Background(), uuid.Nil, "OldName", model.RoleUser)

		assert.NoError(t, err)
		assert.Equal(t, "newname", view.ProfileSlug)
	})

	t.Run("unknown slug is not found", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("ResolveSlug", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

		service := NewUserService(repository.Repos{Users: users})
		_, err := service.GetBySlug(context.Background(), uuid.Nil, "ghost", model.RoleUser)

		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestUserService_GetByID_PIIRedaction(t *testing.T) {
	subjectID := uuid.New()
	viewerID := uuid.New()
	subject := &model.User{
		ID:     subjectID,
		Email:  "subject@example.com",
		Phone:  "+77011112223",
		Status: model.StatusActive,
	}

	t.Run("stranger sees no PII", func(t *testing.T) {
		users := new(MockUserRepository)
		follows := new(MockFollowRepository)
		friends := new(MockFriendRepository)
		users.On("FindByID", mock.Anything, subjectID).Return(subject, nil)
		follows.On("Find", mock.Anything, viewerID, subjectID).Return(nil, gorm.ErrRecordNotFound)
		follows.On("Find", mock.Anything, subjectID, viewerID).Return(nil, gorm.ErrRecordNotFound)
		friends.On("FindBetween", mock.Anything, viewerID, subjectID).Return(nil, gorm.ErrRecordNotFound)

		service := NewUserService(repository.Repos{Users: users, Follows: follows, Friends: friends})
		view, err := service.GetByID(context.Background(), viewerID, subjectID, model.RoleUser)

		assert.NoError(t, err)
		assert.Empty(t, view.Email)
		assert.Empty(t, view.Phone)
	})

	t.Run("self sees own PII", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByID", mock.Anything, subjectID).Return(subject, nil)

		service := NewUserService(repository.Repos{Users: users})
		view, err := service.GetByID(context.Background(), subjectID, subjectID, model.RoleUser)

		assert.NoError(t, err)
		assert.Equal(t, "subject@example.com", view.Email)
	})

	t.Run("admin sees PII and follow state", func(t *testing.T) {
		users := new(MockUserRepository)
		follows := new(MockFollowRepository)
		friends := new(MockFriendRepository)
		users.On("FindByID", mock.Anything, subjectID).Return(subject, nil)
		follows.On("Find", mock.Anything, viewerID, subjectID).
			Return(&model.Follow{Status: model.FollowAccepted}, nil)
		follows.On("Find", mock.Anything, subjectID, viewerID).Return(nil, gorm.ErrRecordNotFound)
		friends.On("FindBetween", mock.Anything, viewerID, subjectID).Return(nil, gorm.ErrRecordNotFound)

		service := NewUserService(repository.Repos{Users: users, Follows: follows, Friends: friends})
		view, err := service.GetByID(context.Background(), viewerID, subjectID, model.RoleAdmin)

		assert.NoError(t, err)
		assert.Equal(t, "subject@example.com", view.Email)
		assert.True(t, view.IsFollowing)
	})
}
