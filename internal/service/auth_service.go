package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"socialnet/internal/auth"
	apperrors "socialnet/internal/errors"
	"socialnet/internal/identity"
	"socialnet/internal/metrics"
	"socialnet/internal/model"
	"socialnet/internal/provider"
	"socialnet/internal/ratelimit"
	"socialnet/internal/repository"
)

const (
	codeRequestsPerWindow = 3
	codeRequestWindow     = time.Minute

	defaultDisplayName = "Пользователь"
)

// CodeRequestResult describes the outcome of a request-code call.
type CodeRequestResult struct {
	Identifier      string        `json:"identifier"`
	Type            identity.Kind `json:"type"`
	IsNewUser       bool          `json:"is_new_user"`
	HasExistingCode bool          `json:"has_existing_code"`
	// RequiresManualCodeRequest is set for registered users: no code is sent
	// automatically, they must ask for one through force-send.
	RequiresManualCodeRequest bool   `json:"requires_manual_code_request,omitempty"`
	Message                   string `json:"message"`
}

// AuthResult is a completed authentication: token pair plus the user.
type AuthResult struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token,omitempty"`
	User         *model.User `json:"user"`
	IsNewUser    bool        `json:"is_new_user"`
}

// AuthService handles the unified verification-code flow, token refresh and
// the Google OAuth callback.
type AuthService interface {
	RequestCode(ctx context.Context, rawIdentifier string) (*CodeRequestResult, error)
	VerifyCode(ctx context.Context, rawIdentifier, code string) (*AuthResult, error)
	ResendCode(ctx context.Context, rawIdentifier string) error
	ForceSendCode(ctx context.Context, rawIdentifier string) (*CodeRequestResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, refreshToken string) error
	GoogleAuthURL(state string) (string, error)
	GoogleCallback(ctx context.Context, code string) (*AuthResult, error)
	AdminLogin(ctx context.Context, login, password string) (*AuthResult, error)
}

type authService struct {
	repos      repository.Repos
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	limiter    *ratelimit.Limiter
	sms        provider.SmsSender
	mail       provider.MailSender
	google     *provider.GoogleOAuth
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	repos repository.Repos,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	limiter *ratelimit.Limiter,
	sms provider.SmsSender,
	mail provider.MailSender,
	google *provider.GoogleOAuth,
) AuthService {
	return &authService{
		repos:      repos,
		jwtService: jwtService,
		tokenStore: tokenStore,
		limiter:    limiter,
		sms:        sms,
		mail:       mail,
		google:     google,
	}
}

// RequestCode issues and sends a verification code for new users. Registered
// users are told to request a code explicitly instead of getting one sent on
// every login-screen visit.
func (s *authService) RequestCode(ctx context.Context, rawIdentifier string) (*CodeRequestResult, error) {
	canonical, kind, err := s.resolveIdentifier(rawIdentifier)
	if err != nil {
		return nil, err
	}

	if err := s.checkRateLimit(canonical); err != nil {
		return nil, err
	}

	user, err := s.findUser(ctx, canonical)
	if err != nil {
		return nil, err
	}

	if user != nil {
		metrics.CodeRequestsTotal.WithLabelValues(string(kind), "manual_required").Inc()
		return &CodeRequestResult{
			Identifier:                canonical,
			Type:                      kind,
			IsNewUser:                 false,
			RequiresManualCodeRequest: true,
			Message:                   "Пользователь уже зарегистрирован. Введите код, отправленный ранее, или запросите новый код.",
		}, nil
	}

	// New users reuse a still-active code instead of getting a fresh one.
	// An exhausted code can never verify, so it does not count as reusable.
	existing, err := s.repos.Codes.FindActiveByIdentifier(ctx, canonical)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("find active code: %w", err)
	}
	if existing != nil && existing.Attempts < model.MaxCodeAttempts {
		metrics.CodeRequestsTotal.WithLabelValues(string(kind), "existing").Inc()
		return &CodeRequestResult{
			Identifier:      canonical,
			Type:            kind,
			IsNewUser:       true,
			HasExistingCode: true,
			Message:         "Code already exists and is still valid",
		}, nil
	}

	if err := s.issueAndSend(ctx, canonical, kind, nil); err != nil {
		metrics.CodeRequestsTotal.WithLabelValues(string(kind), "send_failed").Inc()
		return nil, err
	}

	metrics.CodeRequestsTotal.WithLabelValues(string(kind), "sent").Inc()
	return &CodeRequestResult{
		Identifier: canonical,
		Type:       kind,
		IsNewUser:  true,
		Message:    fmt.Sprintf("Verification code sent to %s", kind),
	}, nil
}

// VerifyCode checks a plaintext code and authenticates the identifier,
// creating the user on first success.
func (s *authService) VerifyCode(ctx context.Context, rawIdentifier, code string) (*AuthResult, error) {
	canonical, _, err := s.resolveIdentifier(rawIdentifier)
	if err != nil {
		return nil, err
	}
	if len(code) != 6 || !allDigits(code) {
		return nil, apperrors.ErrInvalidCode
	}

	record, err := s.checkCode(ctx, canonical, code)
	if err != nil {
		metrics.CodeVerificationsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	var (
		user      *model.User
		isNewUser bool
	)
	err = s.repos.WithTransaction(ctx, func(tx repository.Repos) error {
		var txErr error
		user, txErr = tx.Users.FindByIdentifier(ctx, canonical)
		if txErr == gorm.ErrRecordNotFound {
			user, txErr = nil, nil
		} else if txErr != nil {
			return fmt.Errorf("find user: %w", txErr)
		}
		if user == nil {
			kind := identity.Detect(canonical)
			user = &model.User{
				Identifier:  canonical,
				Kind:        kind,
				DisplayName: defaultDisplayName,
				Verified:    true,
			}
			if kind == identity.KindEmail {
				user.Email = canonical
			} else {
				user.Phone = canonical
			}
			if err := tx.Users.Create(ctx, user); err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			isNewUser = true
		} else if !user.IsActive() {
			return apperrors.ErrUserBlocked
		}

		// Mark verified without deactivating: the code stays reusable.
		now := time.Now()
		record.VerifiedAt = &now
		if record.UserID == nil {
			record.UserID = &user.ID
		}
		return tx.Codes.Update(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	result.IsNewUser = isNewUser

	metrics.CodeVerificationsTotal.WithLabelValues("ok").Inc()
	metrics.LoginsTotal.WithLabelValues(string(user.Kind), "ok").Inc()
	return result, nil
}

// ResendCode deactivates previous codes and sends a fresh one.
func (s *authService) ResendCode(ctx context.Context, rawIdentifier string) error {
	canonical, kind, err := s.resolveIdentifier(rawIdentifier)
	if err != nil {
		return err
	}

	if err := s.repos.Codes.DeactivateByIdentifier(ctx, canonical); err != nil {
		return fmt.Errorf("deactivate codes: %w", err)
	}

	user, err := s.findUser(ctx, canonical)
	if err != nil {
		return err
	}
	return s.issueAndSend(ctx, canonical, kind, user)
}

// ForceSendCode sends a code regardless of registration state, still rate
// limited.
func (s *authService) ForceSendCode(ctx context.Context, rawIdentifier string) (*CodeRequestResult, error) {
	canonical, kind, err := s.resolveIdentifier(rawIdentifier)
	if err != nil {
		return nil, err
	}

	if err := s.checkRateLimit(canonical); err != nil {
		return nil, err
	}

	user, err := s.findUser(ctx, canonical)
	if err != nil {
		return nil, err
	}

	if err := s.issueAndSend(ctx, canonical, kind, user); err != nil {
		metrics.CodeRequestsTotal.WithLabelValues(string(kind), "send_failed").Inc()
		return nil, err
	}

	metrics.CodeRequestsTotal.WithLabelValues(string(kind), "sent").Inc()
	return &CodeRequestResult{
		Identifier: canonical,
		Type:       kind,
		IsNewUser:  user == nil,
		Message:    fmt.Sprintf("Verification code sent to %s", kind),
	}, nil
}

// Refresh validates a refresh-scope token and reissues an access token. The
// refresh token itself is not rotated.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken, auth.ScopeRefresh)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	storedUserID, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil || storedUserID != claims.UserID {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.repos.Users.FindByID(ctx, claims.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.IsActive() {
		return nil, apperrors.ErrUserBlocked
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("refresh", "ok").Inc()
	return &AuthResult{AccessToken: accessToken, User: user}, nil
}

// Logout revokes the refresh token's registration.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.jwtService.ValidateToken(refreshToken, auth.ScopeRefresh)
	if err != nil {
		return apperrors.ErrInvalidToken
	}
	return s.tokenStore.DeleteRefreshToken(ctx, claims.ID)
}

// GoogleAuthURL returns the consent redirect for the OAuth flow.
func (s *authService) GoogleAuthURL(state string) (string, error) {
	if s.google == nil || !s.google.Enabled() {
		return "", apperrors.ErrProviderFailure
	}
	return s.google.AuthURL(state), nil
}

// GoogleCallback exchanges the authorization code and authenticates the
// Google subject, creating the user on first login.
func (s *authService) GoogleCallback(ctx context.Context, code string) (*AuthResult, error) {
	if s.google == nil || !s.google.Enabled() {
		return nil, apperrors.ErrProviderFailure
	}

	profile, err := s.google.ExchangeCode(ctx, code)
	if err != nil {
		log.Printf("google oauth exchange failed: %v", err)
		metrics.LoginsTotal.WithLabelValues("google", "provider_error").Inc()
		return nil, apperrors.ErrProviderFailure
	}

	canonical := "google:" + profile.Sub
	user, err := s.findUser(ctx, canonical)
	if err != nil {
		return nil, err
	}
	if user == nil && profile.Email != "" {
		// Link to an existing email-based account when one exists.
		email, _ := identity.Normalize(profile.Email)
		user, err = s.findUser(ctx, email)
		if err != nil {
			return nil, err
		}
	}

	isNewUser := false
	if user == nil {
		user = &model.User{
			Identifier:  canonical,
			Kind:        identity.KindGoogle,
			DisplayName: profile.Name,
			Email:       profile.Email,
			AvatarURL:   profile.Picture,
			Verified:    true,
		}
		if user.DisplayName == "" {
			user.DisplayName = defaultDisplayName
		}
		if err := s.repos.Users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		isNewUser = true
	} else if !user.IsActive() {
		return nil, apperrors.ErrUserBlocked
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	result.IsNewUser = isNewUser

	metrics.LoginsTotal.WithLabelValues("google", "ok").Inc()
	return result, nil
}

// AdminLogin authenticates a moderator-or-above account by password.
func (s *authService) AdminLogin(ctx context.Context, login, password string) (*AuthResult, error) {
	user, err := s.repos.Users.FindByUsername(ctx, login)
	if err == gorm.ErrRecordNotFound {
		user, err = s.repos.Users.FindByIdentifier(ctx, login)
	}
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.PasswordHash == "" || !user.Role.AtLeast(model.RoleModerator) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive() {
		return nil, apperrors.ErrUserBlocked
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("admin", "ok").Inc()
	return result, nil
}

// resolveIdentifier normalizes raw input and applies the per-kind format
// check.
func (s *authService) resolveIdentifier(raw string) (string, identity.Kind, error) {
	if raw == "" {
		return "", "", apperrors.ErrInvalidIdentifier
	}
	canonical, kind := identity.Normalize(raw)
	if !identity.Valid(canonical, kind) {
		return "", "", apperrors.ErrInvalidIdentifier
	}
	return canonical, kind, nil
}

func (s *authService) checkRateLimit(canonical string) error {
	if s.limiter.Allow(canonical, codeRequestsPerWindow, codeRequestWindow) {
		return nil
	}
	return &apperrors.RateLimitedError{
		RetryAfterSeconds: s.limiter.RemainingSeconds(canonical, codeRequestsPerWindow, codeRequestWindow),
	}
}

func (s *authService) findUser(ctx context.Context, canonical string) (*model.User, error) {
	user, err := s.repos.Users.FindByIdentifier(ctx, canonical)
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// issueAndSend creates a code row, dispatches it to the matching channel and
// rolls the row back when sending fails so no orphan code survives.
func (s *authService) issueAndSend(ctx context.Context, canonical string, kind identity.Kind, owner *model.User) error {
	plaintext, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	record := &model.Code{
		Identifier: canonical,
		Kind:       kind,
		CodeHash:   model.HashCode(plaintext),
		Active:     true,
	}
	if owner != nil {
		record.UserID = &owner.ID
	}
	if err := s.repos.Codes.Create(ctx, record); err != nil {
		return fmt.Errorf("create code: %w", err)
	}

	var sendErr error
	if kind == identity.KindPhone {
		sendErr = s.sms.Send(ctx, canonical, plaintext)
	} else {
		sendErr = s.mail.Send(ctx, canonical, plaintext)
	}
	if sendErr != nil {
		log.Printf("code delivery to %s failed: %v", canonical, sendErr)
		if delErr := s.repos.Codes.Delete(ctx, record.ID); delErr != nil {
			log.Printf("rollback code %s failed: %v", record.ID, delErr)
		}
		return apperrors.ErrProviderFailure
	}
	return nil
}

// checkCode scans every historical code for the identifier, matching by
// hash. A wrong guess charges an attempt against the newest code.
func (s *authService) checkCode(ctx context.Context, canonical, plaintext string) (*model.Code, error) {
	codes, err := s.repos.Codes.FindAllByIdentifier(ctx, canonical)
	if err != nil {
		return nil, fmt.Errorf("find codes: %w", err)
	}
	if len(codes) == 0 {
		return nil, apperrors.ErrInvalidCode
	}

	for i := range codes {
		if !codes[i].Matches(plaintext) {
			continue
		}
		if codes[i].Exhausted() {
			return nil, apperrors.ErrCodeExhausted
		}
		if !codes[i].Active {
			continue
		}
		return &codes[i], nil
	}

	// No match: charge the newest code (codes are ordered newest first).
	newest := &codes[0]
	newest.Attempts++
	if err := s.repos.Codes.Update(ctx, newest); err != nil {
		log.Printf("record failed attempt for %s: %v", canonical, err)
	}
	return nil, apperrors.ErrInvalidCode
}

func (s *authService) issueTokens(ctx context.Context, user *model.User) (*AuthResult, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID, s.jwtService.RefreshTTL()); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// generateCode returns a uniformly random 6-digit code, leading zeros kept.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
