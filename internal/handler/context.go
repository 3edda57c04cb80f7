package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "socialnet/internal/errors"
	"socialnet/internal/model"
	"socialnet/internal/repository"
)

// currentUserKey is where the auth middleware stores the resolved user. The
// user row is loaded once per request; handlers and role checks read that
// copy instead of trusting the token's role claim.
const currentUserKey = "currentUser"

// SetCurrentUser stores the resolved user on the request context.
func SetCurrentUser(c echo.Context, user *model.User) {
	c.Set(currentUserKey, user)
}

// CurrentUser returns the authenticated user, or nil on public routes.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(currentUserKey).(*model.User)
	return user
}

func currentUserID(c echo.Context) uuid.UUID {
	if user := CurrentUser(c); user != nil {
		return user.ID
	}
	return uuid.Nil
}

func currentRole(c echo.Context) model.Role {
	if user := CurrentUser(c); user != nil {
		return user.Role
	}
	return model.RoleUser
}

// respondError translates a domain error into the standard error body. Rate
// limit rejections also carry a Retry-After header.
func respondError(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.RetryAfter > 0 {
		c.Response().Header().Set("Retry-After", strconv.Itoa(httpErr.RetryAfter))
	}
	return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func pageFromQuery(c echo.Context) repository.Page {
	number, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))
	return repository.Page{Number: number, PerPage: perPage}.Clamp()
}

// listResponse is the standard paginated envelope.
type listResponse struct {
	Items      interface{}          `json:"items"`
	Pagination *repository.PageInfo `json:"pagination"`
}
