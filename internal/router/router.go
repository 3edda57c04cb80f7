package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"gorm.io/gorm"

	"socialnet/internal/auth"
	"socialnet/internal/config"
	apperrors "socialnet/internal/errors"
	"socialnet/internal/handler"
	"socialnet/internal/model"
	"socialnet/internal/repository"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Post         *handler.PostHandler
	Social       *handler.SocialHandler
	Friend       *handler.FriendHandler
	Comment      *handler.CommentHandler
	Notification *handler.NotificationHandler
	Report       *handler.ReportHandler
	Admin        *handler.AdminHandler
	Media        *handler.MediaHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, repos repository.Repos, h Handlers) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/request-code", h.Auth.RequestCode)
	api.POST("/auth/verify-code", h.Auth.VerifyCode)
	api.POST("/auth/resend-code", h.Auth.ResendCode)
	api.POST("/auth/force-send-code", h.Auth.ForceSendCode)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.POST("/auth/logout", h.Auth.Logout)
	api.GET("/auth/google", h.Auth.GoogleLogin)
	api.GET("/auth/google/callback", h.Auth.GoogleCallback)
	api.POST("/auth/admin/login", h.Auth.AdminLogin)

	// Secured routes: JWT signature first, then one user load per request.
	// Role checks read the loaded row, not the token claim, so bans and
	// role changes take effect on the next request.
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return &auth.Claims{}
		},
	}), resolveUser(repos))

	// Profile
	secured.GET("/users/me", h.User.Me)
	secured.PATCH("/users/me", h.User.UpdateMe)
	secured.DELETE("/users/me", h.User.DeactivateMe)
	secured.GET("/users", h.User.Search)
	secured.GET("/users/slug/:slug", h.User.GetBySlug)
	secured.GET("/users/:id", h.User.GetUser)

	// Posts
	secured.POST("/posts", h.Post.Create)
	secured.GET("/posts/search", h.Post.Search)
	secured.POST("/posts/suggest-hashtags", h.Post.SuggestHashtags)
	secured.GET("/posts/:id", h.Post.Get)
	secured.PATCH("/posts/:id", h.Post.Update)
	secured.DELETE("/posts/:id", h.Post.Delete)
	secured.GET("/users/:id/posts", h.Post.ListByAuthor)
	secured.GET("/feed", h.Post.Feed)

	// Likes and follows
	secured.POST("/posts/:id/like", h.Social.ToggleLike)
	secured.POST("/users/:id/follow", h.Social.ToggleFollow)
	secured.GET("/users/:id/followers", h.Social.ListFollowers)
	secured.GET("/users/:id/following", h.Social.ListFollowing)
	secured.GET("/follow-requests", h.Social.ListFollowRequests)
	secured.POST("/follow-requests/:id/accept", h.Social.AcceptFollowRequest)
	secured.POST("/follow-requests/:id/reject", h.Social.RejectFollowRequest)
	secured.DELETE("/followers/:id", h.Social.RemoveFollower)

	// Friends
	secured.POST("/users/:id/friend-request", h.Friend.Request)
	secured.GET("/friend-requests", h.Friend.ListIncoming)
	secured.GET("/friend-requests/sent", h.Friend.ListSent)
	secured.POST("/friend-requests/:id/accept", h.Friend.Accept)
	secured.POST("/friend-requests/:id/reject", h.Friend.Reject)
	secured.DELETE("/friend-requests/:id", h.Friend.Cancel)
	secured.GET("/friends", h.Friend.ListFriends)
	secured.DELETE("/friends/:id", h.Friend.Remove)

	// Comments
	secured.POST("/posts/:id/comments", h.Comment.Create)
	secured.GET("/posts/:id/comments", h.Comment.ListByPost)
	secured.PATCH("/comments/:id", h.Comment.Update)
	secured.DELETE("/comments/:id", h.Comment.Delete)

	// Notifications
	secured.GET("/notifications", h.Notification.List)
	secured.GET("/notifications/unread-count", h.Notification.UnreadCount)
	secured.POST("/notifications/:id/read", h.Notification.MarkRead)
	secured.POST("/notifications/read-all", h.Notification.MarkAllRead)

	// Media
	secured.POST("/media", h.Media.Upload)
	secured.DELETE("/media/:id", h.Media.Delete)

	// Reports
	secured.POST("/reports", h.Report.Create)

	// Moderation
	moderation := secured.Group("/moderation", requireRole(model.RoleModerator))
	moderation.GET("/reports", h.Report.List)
	moderation.POST("/reports/:id/resolve", h.Report.Resolve)
	moderation.POST("/reports/:id/dismiss", h.Report.Dismiss)

	// Administration
	admin := secured.Group("/admin", requireRole(model.RoleModerator))
	admin.GET("/users", h.Admin.ListUsers)
	admin.POST("/users/:id/ban", h.Admin.BanUser)
	admin.POST("/users/:id/unban", h.Admin.UnbanUser)
	admin.PUT("/users/:id/role", h.Admin.SetRole)
	admin.GET("/audit-log", h.Admin.AuditTrail)
}

// resolveUser verifies the token scope and loads the user row behind it.
func resolveUser(repos repository.Repos) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok || claims.Scope != auth.ScopeAccess {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			user, err := repos.Users.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
			}
			if !user.IsActive() {
				httpErr := apperrors.MapErrorToHTTP(apperrors.ErrUserBlocked)
				return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
			}

			handler.SetCurrentUser(c, user)
			return next(c)
		}
	}
}

// requireRole gates a route group on the resolved user's role.
func requireRole(required model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := handler.CurrentUser(c)
			if user == nil || !user.Role.AtLeast(required) {
				httpErr := apperrors.MapErrorToHTTP(apperrors.ErrForbidden)
				return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			return next(c)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
