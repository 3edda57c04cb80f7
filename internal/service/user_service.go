package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "socialnet/internal/errors"
	"socialnet/internal/model"
	"socialnet/internal/repository"
)

var slugCleaner = regexp.MustCompile(`[^a-z0-9_]+`)

// ProfileUpdate carries the editable profile fields. Nil pointers mean "do
// not touch".
type ProfileUpdate struct {
	Username       *string `json:"username" validate:"omitempty,min=3,max=32"`
	DisplayName    *string `json:"display_name" validate:"omitempty,max=64"`
	Bio            *string `json:"bio" validate:"omitempty,max=500"`
	AvatarURL      *string `json:"avatar_url" validate:"omitempty,url"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Phone          *string `json:"phone"`
	Birthdate      *string `json:"birthdate" validate:"omitempty,datetime=2006-01-02"`
	PrivateAccount *bool   `json:"private_account"`
}

// ProfileView is a user profile as seen by a particular viewer.
type ProfileView struct {
	model.UserView
	IsFollowing     bool   `json:"is_following"`
	FollowPending   bool   `json:"follow_pending"`
	IsFollowedBy    bool   `json:"is_followed_by"`
	FriendshipState string `json:"friendship_state,omitempty"`
}

// UserService exposes profile management and the user directory.
type UserService interface {
	GetByID(ctx context.Context, viewerID, userID uuid.UUID, viewerRole model.Role) (*ProfileView, error)
	GetBySlug(ctx context.Context, viewerID uuid.UUID, slug string, viewerRole model.Role) (*ProfileView, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*model.User, error)
	Deactivate(ctx context.Context, userID uuid.UUID) error
	List(ctx context.Context, search string, page repository.Page) ([]model.UserView, *repository.PageInfo, error)
}

type userService struct {
	repos repository.Repos
}

// NewUserService creates a new user service.
func NewUserService(repos repository.Repos) UserService {
	return &userService{repos: repos}
}

func (s *userService) GetByID(ctx context.Context, viewerID, userID uuid.UUID, viewerRole model.Role) (*ProfileView, error) {
	user, err := s.repos.Users.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return s.buildView(ctx, viewerID, user, viewerRole)
}

// GetBySlug resolves current slugs first, then the slug history, so renamed
// profiles keep working under old links.
func (s *userService) GetBySlug(ctx context.Context, viewerID uuid.UUID, slug string, viewerRole model.Role) (*ProfileView, error) {
	user, err := s.repos.Users.ResolveSlug(ctx, strings.ToLower(slug))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("resolve slug: %w", err)
	}
	return s.buildView(ctx, viewerID, user, viewerRole)
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*model.User, error) {
	var user *model.User
	err := s.repos.WithTransaction(ctx, func(tx repository.Repos) error {
		var err error
		user, err = tx.Users.FindByID(ctx, userID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.ErrUserNotFound
			}
			return fmt.Errorf("find user: %w", err)
		}

		if update.Username != nil && *update.Username != user.Username {
			slug, err := s.assignSlug(ctx, tx, user, *update.Username)
			if err != nil {
				return err
			}
			user.Username = *update.Username
			user.ProfileSlug = slug
		}
		if update.DisplayName != nil {
			user.DisplayName = *update.DisplayName
		}
		if update.Bio != nil {
			user.Bio = *update.Bio
		}
		if update.AvatarURL != nil {
			user.AvatarURL = *update.AvatarURL
		}
		if update.Email != nil {
			user.Email = *update.Email
		}
		if update.Phone != nil {
			user.Phone = *update.Phone
		}
		if update.Birthdate != nil {
			birthdate, err := time.Parse("2006-01-02", *update.Birthdate)
			if err != nil {
				return apperrors.ErrValidation
			}
			user.Birthdate = &birthdate
		}
		if update.PrivateAccount != nil {
			user.PrivateAccount = *update.PrivateAccount
		}

		return tx.Users.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Deactivate soft-disables the account. A deactivated user can come back by
// passing verification again; sessions die at the next refresh.
func (s *userService) Deactivate(ctx context.Context, userID uuid.UUID) error {
	user, err := s.repos.Users.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}
	user.Status = model.StatusDeactivated
	return s.repos.Users.Update(ctx, user)
}

func (s *userService) List(ctx context.Context, search string, page repository.Page) ([]model.UserView, *repository.PageInfo, error) {
	users, total, err := s.repos.Users.List(ctx, search, page)
	if err != nil {
		return nil, nil, fmt.Errorf("list users: %w", err)
	}

	views := make([]model.UserView, 0, len(users))
	for i := range users {
		views = append(views, users[i].PublicView(nil))
	}
	return views, repository.NewPageInfo(total, page), nil
}

// assignSlug derives a unique profile slug from the username and archives
// the previous one so old links still resolve.
func (s *userService) assignSlug(ctx context.Context, tx repository.Repos, user *model.User, username string) (string, error) {
	base := slugCleaner.ReplaceAllString(strings.ToLower(username), "")
	if base == "" {
		base = "user"
	}

	if base == user.ProfileSlug {
		return base, nil
	}

	slug := base
	for suffix := 1; ; suffix++ {
		taken, err := tx.Users.SlugTaken(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if !taken {
			break
		}
		slug = fmt.Sprintf("%s%d", base, suffix)
	}

	if user.ProfileSlug != "" {
		if err := tx.Users.ArchiveSlug(ctx, user.ID, user.ProfileSlug); err != nil {
			return "", fmt.Errorf("archive slug: %w", err)
		}
	}
	return slug, nil
}

func (s *userService) buildView(ctx context.Context, viewerID uuid.UUID, user *model.User, viewerRole model.Role) (*ProfileView, error) {
	var viewer *model.User
	if viewerID != uuid.Nil {
		viewer = &model.User{ID: viewerID, Role: viewerRole}
	}
	view := &ProfileView{UserView: user.PublicView(viewer)}
	if viewerID == uuid.Nil || viewerID == user.ID {
		return view, nil
	}

	if follow, err := s.repos.Follows.Find(ctx, viewerID, user.ID); err == nil && follow != nil {
		view.IsFollowing = follow.Status == model.FollowAccepted
		view.FollowPending = follow.Status == model.FollowPending
	}
	if back, err := s.repos.Follows.Find(ctx, user.ID, viewerID); err == nil && back != nil {
		view.IsFollowedBy = back.Status == model.FollowAccepted
	}
	if friend, err := s.repos.Friends.FindBetween(ctx, viewerID, user.ID); err == nil && friend != nil {
		view.FriendshipState = string(friend.Status)
	}
	return view, nil
}
