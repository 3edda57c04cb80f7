package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"socialnet/internal/auth"
	apperrors "socialnet/internal/errors"
	"socialnet/internal/model"
	"socialnet/internal/ratelimit"
	"socialnet/internal/repository"
)

func newTestAuthService(users *MockUserRepository, codes *MockCodeRepository, tokens *MockTokenStore, sms *MockSmsSender, mail *MockMailSender) AuthService {
	repos := repository.Repos{Users: users, Codes: codes}
	jwtService := auth.NewJWTService("test-secret", time.Hour, 24*time.Hour)
	return NewAuthService(repos, jwtService, tokens, ratelimit.NewLimiter(), sms, mail, nil)
}

func TestAuthService_RequestCode(t *testing.T) {
	tests := []struct {
		name          string
		identifier    string
		setupMock     func(*MockUserRepository, *MockCodeRepository, *MockSmsSender, *MockMailSender)
		expectedError error
		check         func(*testing.T, *CodeRequestResult)
	}{
		{
			name:       "new phone user gets a code",
			identifier: "87011112223",
			setupMock: func(users *MockUserRepository, codes *MockCodeRepository, sms *MockSmsSender, mail *MockMailSender) {
				users.On("FindByIdentifier", mock.Anything, "+77011112223").Return(nil, gorm.ErrRecordNotFound)
				codes.On("FindActiveByIdentifier", mock.Anything, "+77011112223").Return(nil, gorm.ErrRecordNotFound)
				codes.On("Create", mock.Anything, mock.AnythingOfType("*model.Code")).Return(nil)
				sms.On("Send", mock.Anything, "+77011112223", mock.AnythingOfType("string")).Return(nil)
			},
			check: func(t *testing.T, result *CodeRequestResult) {
				assert.True(t, result.IsNewUser)
				assert.False(t, result.RequiresManualCodeRequest)
				assert.Equal(t, "+77011112223", result.Identifier)
			},
		},
		{
			name:       "new email user gets a code by mail",
			identifier: "User@Example.com",
			setupMock: func(users *MockUserRepository, codes *MockCodeRepository, sms *MockSmsSender, mail *MockMailSender) {
				users.On("FindByIdentifier", mock.Anything, "user@example.com").Return(nil, gorm.ErrRecordNotFound)
				codes.On("FindActiveByIdentifier", mock.Anything, "user@example.com").Return(nil, gorm.ErrRecordNotFound)
				codes.On("Create", mock.Anything, mock.AnythingOfType("*model.Code")).Return(nil)
				mail.On("Send", mock.Anything, "user@example.com", mock.AnythingOfType("string")).Return(nil)
			},
			check: func(t *testing.T, result *CodeRequestResult) {
				assert.True(t, result.IsNewUser)
			},
		},
		{
			name:       "registered user must request manually",
			identifier: "+77011112223",
			setupMock: func(users *MockUserRepository, codes *MockCodeRepository, sms *MockSmsSender, mail *MockMailSender) {
				users.On("FindByIdentifier", mock.Anything, "+77011112223").
					Return(&model.User{ID: uuid.New(), Identifier: "+77011112223"}, nil)
			},
			check: func(t *testing.T, result *CodeRequestResult) {
				assert.False(t, result.IsNewUser)
				assert.True(t, result.RequiresManualCodeRequest)
			},
		},
		{
			name:       "existing active code is reused",
			identifier: "87011112223",
			setupMock: func(users *MockUserRepository, codes *MockCodeRepository, sms *MockSmsSender, mail *MockMailSender) {
				users.On("FindByIdentifier", mock.Anything, "+77011112223").Return(nil, gorm.ErrRecordNotFound)
				codes.On("FindActiveByIdentifier", mock.Anything, "+77011112223").
					Return(&model.Code{Identifier: "+77011112223", Active: true}, nil)
			},
			check: func(t *testing.T, result *CodeRequestResult) {
				assert.True(t, result.HasExistingCode)
			},
		},
		{
			name:       "exhausted active code is not reused",
			identifier: "87011112223",
			setupMock: func(users *MockUserRepository, codes *MockCodeRepository, sms *MockSmsSender, mail *MockMailSender) {
				users.On("FindByIdentifier", mock.Anything, "+77011112223").Return(nil, gorm.ErrRecordNotFound)
				codes.On("FindActiveByIdentifier", mock.Anything, "+77011112223").
					Return(&model.Code{Identifier: "+77011112223", Active: true, Attempts: model.MaxCodeAttempts}, nil)
				codes.On("Create", mock.Anything, mock.AnythingOfType("*model.Code")).Return(nil)
				sms.On("Send", mock.Anything, "+77011112223", mock.AnythingOfType("string")).Return(nil)
			},
			check: func(t *testing.T, result *CodeRequestResult) {
				assert.False(t, result.HasExistingCode)
				assert.True(t, result.IsNewUser)
			},
		},
		{
			name:       "send failure rolls the code back",
			identifier: "87011112223",
			setupMock: func(users *MockUserRepository, codes *MockCodeRepository, sms *MockSmsSender, mail *MockMailSender) {
				users.On("FindByIdentifier", mock.Anything, "+77011112223").Return(nil, gorm.ErrRecordNotFound)
				codes.On("FindActiveByIdentifier", mock.Anything, "+77011112223").Return(nil, gorm.ErrRecordNotFound)
				codes.On("Create", mock.Anything, mock.AnythingOfType("*model.Code")).Return(nil)
				sms.On("Send", mock.Anything, "+77011112223", mock.AnythingOfType("string")).Return(assert.AnError)
				codes.On("Delete", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(nil)
			},
			expectedError: apperrors.ErrProviderFailure,
		},
		{
			name:          "invalid identifier",
			identifier:    "not-a-phone",
			setupMock:     func(*MockUserRepository, *MockCodeRepository, *MockSmsSender, *MockMailSender) {},
			expectedError: apperrors.ErrInvalidIdentifier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			codes := new(MockCodeRepository)
			sms := new(MockSmsSender)
			mail := new(MockMailSender)
			tt.setupMock(users, codes, sms, mail)

			service := newTestAuthService(users, codes, new(MockTokenStore), sms, mail)
			result, err := service.RequestCode(context.Background(), tt.identifier)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, result)
				tt.check(t, result)
			}

			users.AssertExpectations(t)
			codes.AssertExpectations(t)
			sms.AssertExpectations(t)
			mail.AssertExpectations(t)
		})
	}
}

func TestAuthService_RequestCode_RateLimited(t *testing.T) {
	users := new(MockUserRepository)
	codes := new(MockCodeRepository)
	sms := new(MockSmsSender)
	users.On("FindByIdentifier", mock.Anything, "+77011112223").Return(nil, gorm.ErrRecordNotFound)
	codes.On("FindActiveByIdentifier", mock.Anything, "+77011112223").Return(nil, gorm.ErrRecordNotFound)
	codes.On("Create", mock.Anything, mock.AnythingOfType("*model.Code")).Return(nil)
	sms.On("Send", mock.Anything, "+77011112223", mock.AnythingOfType("string")).Return(nil)

	service := newTestAuthService(users, codes, new(MockTokenStore), sms, new(MockMailSender))

	for i := 0; i < 3; i++ {
		_, err := service.RequestCode(context.Background(), "87011112223")
		assert.NoError(t, err)
	}

	_, err := service.RequestCode(context.Background(), "87011112223")
	assert.ErrorIs(t, err, apperrors.ErrRateLimited)

	var limited *apperrors.RateLimitedError
	assert.ErrorAs(t, err, &limited)
	assert.Greater(t, limited.RetryAfterSeconds, 0)
}

func TestAuthService_VerifyCode(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name          string
		identifier    string
		code          string
		setupMock     func(*MockUserRepository, *MockCodeRepository, *MockTokenStore)
		expectedError error
		wantNewUser   bool
	}{
		{
			name:       "correct code creates the user",
			identifier: "87011112223",
			code:       "123456",
			setupMock: func(users *MockUserRepository, codes *MockCodeRepository, tokens *MockTokenStore) {
				codes.On("FindAllByIdentifier", mock.Anything, "+77011112223").Return([]model.Code{
					{Identifier: "+77011112223", CodeHash: model.HashCode("123456"), Active: true},
				}, nil)
				users.On("FindByIdentifier", mock.Anything, "+77011112223").Return(nil, gorm.ErrRecordNotFound)
				users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil).Run(func(args mock.Arguments) {
					args.Get(1).(*model.User).ID = userID
				})
				codes.On("Update", mock.Anything, mock.AnythingOfType("*model.Code")).Return(nil)
				tokens.On("StoreRefreshToken", mock.Anything, mock.AnythingOfType("string"), userID, mock.Anything).Return(nil)
			},
			wantNewUser: true,
		},
		{
			name:       "verified code stays usable for an existing user",
			identifier: "87011112223",
			code:       "123456",
			setupMock: func(users *MockUserRepository, codes *MockCodeRepository, tokens *MockTokenStore) {
				verifiedAt := time.Now().Add(-time.Hour)
				codes.On("FindAllByIdentifier", mock.Anything, "+77011112223").Return([]model.Code{
					{Identifier: "+77011112223", CodeHash: model.HashCode("123456"), Active: true, UserID: &userID, VerifiedAt: &verifiedAt},
				}, nil)
				users.On("FindByIdentifier", mock.Anything, "+77011112223").
					Return(&model.User{ID: userID, Identifier: "+77011112223", Status: model.StatusActive}, nil)
				codes.On("Update", mock.Anything, mock.AnythingOfType("*model.Code")).Return(nil)
				tokens.On("StoreRefreshToken", mock.Anything, mock.AnythingOfType("string"), userID, mock.Anything).Return(nil)
			},
		},
		{
			name:       "wrong code charges an attempt",
			identifier: "87011112223",
			code:       "999999",
			setupMock: func(users *MockUserRepository, codes *MockCodeRepository, tokens *MockTokenStore) {
				codes.On("FindAllByIdentifier", mock.Anything, "+77011112223").Return([]model.Code{
					{Identifier: "+77011112223", CodeHash: model.HashCode("123456"), Active: true, Attempts: 2},
				}, nil)
				codes.On("Update", mock.Anything, mock.MatchedBy(func(c *model.Code) bool {
					return c.Attempts == 3
				})).Return(nil)
			},
			expectedError: apperrors.ErrInvalidCode,
		},
		{
			name:       "exhausted code is rejected",
			identifier: "87011112223",
			code:       "123456",
			setupMock: func(users *MockUserRepository, codes *MockCodeRepository, tokens *MockTokenStore) {
				codes.On("FindAllByIdentifier", mock.Anything, "+77011112223").Return([]model.Code{
					{Identifier: "+77011112223", CodeHash: model.HashCode("123456"), Active: true, Attempts: model.MaxCodeAttempts},
				}, nil)
			},
			expectedError: apperrors.ErrCodeExhausted,
		},
		{
			name:       "blocked user cannot authenticate",
			identifier: "87011112223",
			code:       "123456",
			setupMock: func(users *MockUserRepository, codes *MockCodeRepository, tokens *MockTokenStore) {
				codes.On("FindAllByIdentifier", mock.Anything, "+77011112223").Return([]model.Code{
					{Identifier: "+77011112223", CodeHash: model.HashCode("123456"), Active: true},
				}, nil)
				users.On("FindByIdentifier", mock.Anything, "+77011112223").
					Return(&model.User{ID: userID, Status: model.StatusBlocked}, nil)
			},
			expectedError: apperrors.ErrUserBlocked,
		},
		{
			name:          "malformed code",
			identifier:    "87011112223",
			code:          "12ab56",
			setupMock:     func(*MockUserRepository, *MockCodeRepository, *MockTokenStore) {},
			expectedError: apperrors.ErrInvalidCode,
		},
		{
			name:       "no codes on record",
			identifier: "87011112223",
			code:       "123456",
			setupMock: func(users *MockUserRepository, codes *MockCodeRepository, tokens *MockTokenStore) {
				codes.On("FindAllByIdentifier", mock.Anything, "+77011112223").Return([]model.Code{}, nil)
			},
			expectedError: apperrors.ErrInvalidCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			codes := new(MockCodeRepository)
			tokens := new(MockTokenStore)
			tt.setupMock(users, codes, tokens)

			service := newTestAuthService(users, codes, tokens, new(MockSmsSender), new(MockMailSender))
			result, err := service.VerifyCode(context.Background(), tt.identifier, tt.code)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, result)
				assert.NotEmpty(t, result.AccessToken)
				assert.NotEmpty(t, result.RefreshToken)
				assert.Equal(t, tt.wantNewUser, result.IsNewUser)
			}

			users.AssertExpectations(t)
			codes.AssertExpectations(t)
			tokens.AssertExpectations(t)
		})
	}
}

func TestAuthService_ResendCode_DeactivatesOldCodes(t *testing.T) {
	users := new(MockUserRepository)
	codes := new(MockCodeRepository)
	sms := new(MockSmsSender)

	codes.On("DeactivateByIdentifier", mock.Anything, "+77011112223").Return(nil)
	users.On("FindByIdentifier", mock.Anything, "+77011112223").Return(nil, gorm.ErrRecordNotFound)
	codes.On("Create", mock.Anything, mock.AnythingOfType("*model.Code")).Return(nil)
	sms.On("Send", mock.Anything, "+77011112223", mock.AnythingOfType("string")).Return(nil)

	service := newTestAuthService(users, codes, new(MockTokenStore), sms, new(MockMailSender))
	err := service.ResendCode(context.Background(), "87011112223")

	assert.NoError(t, err)
	codes.AssertExpectations(t)
	sms.AssertExpectations(t)
}

func TestAuthService_Refresh(t *testing.T) {
	userID := uuid.New()
	jwtService := auth.NewJWTService("test-secret", time.Hour, 24*time.Hour)
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(userID, string(model.RoleUser))
	assert.NoError(t, err)

	tests := []struct {
		name          string
		token         string
		setupMock     func(*MockUserRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:  "valid refresh reissues access",
			token: refreshToken,
			setupMock: func(users *MockUserRepository, tokens *MockTokenStore) {
				tokens.On("GetRefreshToken", mock.Anything, tokenID).Return(userID, nil)
				users.On("FindByID", mock.Anything, userID).
					Return(&model.User{ID: userID, Status: model.StatusActive}, nil)
			},
		},
		{
			name:  "unregistered token id is rejected",
			token: refreshToken,
			setupMock: func(users *MockUserRepository, tokens *MockTokenStore) {
				tokens.On("GetRefreshToken", mock.Anything, tokenID).Return(uuid.Nil, assert.AnError)
			},
			expectedError: apperrors.ErrInvalidToken,
		},
		{
			name:          "garbage token is rejected",
			token:         "not-a-token",
			setupMock:     func(*MockUserRepository, *MockTokenStore) {},
			expectedError: apperrors.ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			tokens := new(MockTokenStore)
			tt.setupMock(users, tokens)

			repos := repository.Repos{Users: users}
			service := NewAuthService(repos, jwtService, tokens, ratelimit.NewLimiter(), new(MockSmsSender), new(MockMailSender), nil)

			result, err := service.Refresh(context.Background(), tt.token)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, result)
				assert.NotEmpty(t, result.AccessToken)
				assert.Empty(t, result.RefreshToken)
			}

			users.AssertExpectations(t)
			tokens.AssertExpectations(t)
		})
	}
}

func TestAuthService_AdminLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	adminID := uuid.New()
	admin := &model.User{
		ID:           adminID,
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		Status:       model.StatusActive,
	}

	tests := []struct {
		name          string
		login         string
		password      string
		setupMock     func(*MockUserRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:     "successful login",
			login:    "admin",
			password: "secret-password",
			setupMock: func(users *MockUserRepository, tokens *MockTokenStore) {
				users.On("FindByUsername", mock.Anything, "admin").Return(admin, nil)
				tokens.On("StoreRefreshToken", mock.Anything, mock.AnythingOfType("string"), adminID, mock.Anything).Return(nil)
			},
		},
		{
			name:     "wrong password",
			login:    "admin",
			password: "wrong",
			setupMock: func(users *MockUserRepository, tokens *MockTokenStore) {
				users.On("FindByUsername", mock.Anything, "admin").Return(admin, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "regular user cannot use the console",
			login:    "someone",
			password: "secret-password",
			setupMock: func(users *MockUserRepository, tokens *MockTokenStore) {
				users.On("FindByUsername", mock.Anything, "someone").Return(&model.User{
					ID:           uuid.New(),
					Username:     "someone",
					PasswordHash: string(hash),
					Role:         model.RoleUser,
					Status:       model.StatusActive,
				}, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "unknown login",
			login:    "ghost",
			password: "secret-password",
			setupMock: func(users *MockUserRepository, tokens *MockTokenStore) {
				users.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)
				users.On("FindByIdentifier", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			tokens := new(MockTokenStore)
			tt.setupMock(users, tokens)

			service := newTestAuthService(users, new(MockCodeRepository), tokens, new(MockSmsSender), new(MockMailSender))
			result, err := service.AdminLogin(context.Background(), tt.login, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, result)
				assert.NotEmpty(t, result.AccessToken)
			}

			users.AssertExpectations(t)
			tokens.AssertExpectations(t)
		})
	}
}
