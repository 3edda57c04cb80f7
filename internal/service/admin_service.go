package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "socialnet/internal/errors"
	"socialnet/internal/model"
	"socialnet/internal/repository"
)

// AdminService covers user administration: role changes, bans and the audit
// trail. Role checks live here, not in handlers, so every caller gets them.
type AdminService interface {
	ListUsers(ctx context.Context, actorRole model.Role, search string, page repository.Page) ([]model.User, *repository.PageInfo, error)
	BanUser(ctx context.Context, actorID uuid.UUID, actorRole model.Role, userID uuid.UUID, reason string) error
	UnbanUser(ctx context.Context, actorID uuid.UUID, actorRole model.Role, userID uuid.UUID) error
	SetRole(ctx context.Context, actorID uuid.UUID, actorRole model.Role, userID uuid.UUID, role model.Role) error
	AuditTrail(ctx context.Context, actorRole model.Role, page repository.Page) ([]model.AuditLog, *repository.PageInfo, error)
}

type adminService struct {
	repos repository.Repos
	audit *AuditWriter
}

// NewAdminService creates a new administration service.
func NewAdminService(repos repository.Repos, audit *AuditWriter) AdminService {
	return &adminService{repos: repos, audit: audit}
}

// ListUsers returns the full user table, moderator and up.
func (s *adminService) ListUsers(ctx context.Context, actorRole model.Role, search string, page repository.Page) ([]model.User, *repository.PageInfo, error) {
	if !actorRole.AtLeast(model.RoleModerator) {
		return nil, nil, apperrors.ErrForbidden
	}

	users, total, err := s.repos.Users.List(ctx, search, page)
	if err != nil {
		return nil, nil, fmt.Errorf("list users: %w", err)
	}
	return users, repository.NewPageInfo(total, page), nil
}

// BanUser blocks an account, admin and up. An actor can never ban someone of
// equal or higher rank, or themselves.
func (s *adminService) BanUser(ctx context.Context, actorID uuid.UUID, actorRole model.Role, userID uuid.UUID, reason string) error {
	if !actorRole.AtLeast(model.RoleAdmin) {
		return apperrors.ErrForbidden
	}
	if actorID == userID {
		return apperrors.ErrSelfAction
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role.AtLeast(actorRole) {
		return apperrors.ErrForbidden
	}
	if user.Status == model.StatusBlocked {
		return apperrors.ErrDuplicateAction
	}

	user.Status = model.StatusBlocked
	if err := s.repos.Users.Update(ctx, user); err != nil {
		return fmt.Errorf("block user: %w", err)
	}

	s.audit.Record(actorID, "user_ban", "user", userID.String(), reason)
	return nil
}

// UnbanUser reactivates a blocked account, admin and up.
func (s *adminService) UnbanUser(ctx context.Context, actorID uuid.UUID, actorRole model.Role, userID uuid.UUID) error {
	if !actorRole.AtLeast(model.RoleAdmin) {
		return apperrors.ErrForbidden
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.Status != model.StatusBlocked {
		return apperrors.ErrDuplicateAction
	}

	user.Status = model.StatusActive
	if err := s.repos.Users.Update(ctx, user); err != nil {
		return fmt.Errorf("unblock user: %w", err)
	}

	s.audit.Record(actorID, "user_unban", "user", userID.String(), "")
	return nil
}

// SetRole changes a user's role. Superadmin only, and the superadmin role
// itself is never grantable through the API.
func (s *adminService) SetRole(ctx context.Context, actorID uuid.UUID, actorRole model.Role, userID uuid.UUID, role model.Role) error {
	if !actorRole.AtLeast(model.RoleSuperadmin) {
		return apperrors.ErrForbidden
	}
	if role == model.RoleSuperadmin {
		return apperrors.ErrForbidden
	}
	if actorID == userID {
		return apperrors.ErrSelfAction
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}

	previous := user.Role
	user.Role = role
	if err := s.repos.Users.Update(ctx, user); err != nil {
		return fmt.Errorf("update role: %w", err)
	}

	s.audit.Record(actorID, "role_change", "user", userID.String(),
		fmt.Sprintf("%s -> %s", previous, role))
	return nil
}

// AuditTrail returns the administrative action log, admin and up.
func (s *adminService) AuditTrail(ctx context.Context, actorRole model.Role, page repository.Page) ([]model.AuditLog, *repository.PageInfo, error) {
	if !actorRole.AtLeast(model.RoleAdmin) {
		return nil, nil, apperrors.ErrForbidden
	}

	entries, total, err := s.repos.AuditLogs.List(ctx, page)
	if err != nil {
		return nil, nil, fmt.Errorf("list audit log: %w", err)
	}
	return entries, repository.NewPageInfo(total, page), nil
}

func (s *adminService) findUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.repos.Users.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
