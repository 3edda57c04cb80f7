package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"socialnet/internal/service"
)

// UserHandler handles profile and user-directory endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me godoc
// @Summary Current user's profile
// @Tags users
// @Produce json
// @Success 200 {object} service.ProfileView
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	userID := currentUserID(c)
	view, err := h.userService.GetByID(c.Request().Context(), userID, userID, currentRole(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// UpdateMe godoc
// @Summary Update current user's profile
// @Tags users
// @Accept json
// @Produce json
// @Param request body service.ProfileUpdate true "Profile fields"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/me [patch]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	var req service.ProfileUpdate
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), currentUserID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// DeactivateMe godoc
// @Summary Deactivate current user's account
// @Tags users
// @Produce json
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /users/me [delete]
func (h *UserHandler) DeactivateMe(c echo.Context) error {
	if err := h.userService.Deactivate(c.Request().Context(), currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "account deactivated"})
}

// GetUser godoc
// @Summary User profile by id
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} service.ProfileView
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	view, err := h.userService.GetByID(c.Request().Context(), currentUserID(c), userID, currentRole(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// GetBySlug godoc
// @Summary User profile by slug
// @Description Old slugs keep resolving after a rename.
// @Tags users
// @Produce json
// @Param slug path string true "Profile slug"
// @Success 200 {object} service.ProfileView
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/slug/{slug} [get]
func (h *UserHandler) GetBySlug(c echo.Context) error {
	view, err := h.userService.GetBySlug(c.Request().Context(), currentUserID(c), c.Param("slug"), currentRole(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// Search godoc
// @Summary Search active users
// @Tags users
// @Produce json
// @Param q query string false "Username or display name substring"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Success 200 {object} listResponse
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) Search(c echo.Context) error {
	views, pageInfo, err := h.userService.List(c.Request().Context(), c.QueryParam("q"), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse{Items: views, Pagination: pageInfo})
}
