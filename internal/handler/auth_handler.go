package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"socialnet/internal/service"
)

// AuthHandler handles the unified verification-code flow and token
// lifecycle endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// IdentifierRequest carries a phone number or email in any accepted format.
type IdentifierRequest struct {
	Identifier string `json:"identifier" validate:"required,max=255"`
}

// VerifyCodeRequest carries an identifier plus the 6-digit code.
type VerifyCodeRequest struct {
	Identifier string `json:"identifier" validate:"required,max=255"`
	Code       string `json:"code" validate:"required,len=6,numeric"`
}

// RefreshRequest carries a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AdminLoginRequest carries console credentials.
type AdminLoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RequestCode godoc
// @Summary Request a verification code
// @Description Sends a code to new users. Registered users are told to request one explicitly.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body IdentifierRequest true "Phone or email"
// @Success 200 {object} service.CodeRequestResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /auth/request-code [post]
func (h *AuthHandler) RequestCode(c echo.Context) error {
	var req IdentifierRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.authService.RequestCode(c.Request().Context(), req.Identifier)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// VerifyCode godoc
// @Summary Verify a code and authenticate
// @Description Creates the account on first successful verification.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyCodeRequest true "Identifier and code"
// @Success 200 {object} service.AuthResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /auth/verify-code [post]
func (h *AuthHandler) VerifyCode(c echo.Context) error {
	var req VerifyCodeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.authService.VerifyCode(c.Request().Context(), req.Identifier, req.Code)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// ResendCode godoc
// @Summary Resend a verification code
// @Description Deactivates previous codes and sends a fresh one.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body IdentifierRequest true "Phone or email"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /auth/resend-code [post]
func (h *AuthHandler) ResendCode(c echo.Context) error {
	var req IdentifierRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.ResendCode(c.Request().Context(), req.Identifier); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "verification code sent"})
}

// ForceSendCode godoc
// @Summary Send a code regardless of registration state
// @Tags auth
// @Accept json
// @Produce json
// @Param request body IdentifierRequest true "Phone or email"
// @Success 200 {object} service.CodeRequestResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /auth/force-send-code [post]
func (h *AuthHandler) ForceSendCode(c echo.Context) error {
	var req IdentifierRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.authService.ForceSendCode(c.Request().Context(), req.Identifier)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Refresh godoc
// @Summary Exchange a refresh token for a new access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} service.AuthResult
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Logout godoc
// @Summary Revoke a refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var req RefreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// GoogleLogin godoc
// @Summary Redirect to the Google consent screen
// @Tags auth
// @Success 302
// @Failure 502 {object} errors.ErrorResponse
// @Router /auth/google [get]
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	url, err := h.authService.GoogleAuthURL(c.QueryParam("state"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Redirect(http.StatusFound, url)
}

// GoogleCallback godoc
// @Summary Complete the Google OAuth flow
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code"
// @Success 200 {object} service.AuthResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	code := c.QueryParam("code")
	if code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing authorization code")
	}

	result, err := h.authService.GoogleCallback(c.Request().Context(), code)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// AdminLogin godoc
// @Summary Console login for moderators and admins
// @Tags auth
// @Accept json
// @Produce json
// @Param request body AdminLoginRequest true "Credentials"
// @Success 200 {object} service.AuthResult
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/admin/login [post]
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	var req AdminLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.authService.AdminLogin(c.Request().Context(), req.Login, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
