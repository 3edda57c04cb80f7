package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"socialnet/internal/model"
	"socialnet/internal/service"
)

// AdminHandler handles user administration endpoints.
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// BanRequest carries the reason recorded in the audit trail.
type BanRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// SetRoleRequest carries the new role.
type SetRoleRequest struct {
	Role model.Role `json:"role" validate:"required,oneof=user moderator admin"`
}

// ListUsers godoc
// @Summary Full user directory (moderation)
// @Tags admin
// @Produce json
// @Param q query string false "Search"
// @Param page query int false "Page number"
// @Success 200 {object} listResponse
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, pageInfo, err := h.adminService.ListUsers(c.Request().Context(), currentRole(c), c.QueryParam("q"), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse{Items: users, Pagination: pageInfo})
}

// BanUser godoc
// @Summary Block a user
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body BanRequest true "Ban reason"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /admin/users/{id}/ban [post]
func (h *AdminHandler) BanUser(c echo.Context) error {
	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req BanRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.adminService.BanUser(c.Request().Context(), currentUserID(c), currentRole(c), userID, req.Reason); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user banned"})
}

// UnbanUser godoc
// @Summary Unblock a user
// @Tags admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /admin/users/{id}/unban [post]
func (h *AdminHandler) UnbanUser(c echo.Context) error {
	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.adminService.UnbanUser(c.Request().Context(), currentUserID(c), currentRole(c), userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user unbanned"})
}

// SetRole godoc
// @Summary Change a user's role (superadmin)
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body SetRoleRequest true "New role"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /admin/users/{id}/role [put]
func (h *AdminHandler) SetRole(c echo.Context) error {
	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req SetRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.adminService.SetRole(c.Request().Context(), currentUserID(c), currentRole(c), userID, req.Role); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "role updated"})
}

// AuditTrail godoc
// @Summary Administrative action log
// @Tags admin
// @Produce json
// @Param page query int false "Page number"
// @Success 200 {object} listResponse
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /admin/audit-log [get]
func (h *AdminHandler) AuditTrail(c echo.Context) error {
	entries, pageInfo, err := h.adminService.AuditTrail(c.Request().Context(), currentRole(c), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse{Items: entries, Pagination: pageInfo})
}
