package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "socialnet/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"socialnet/internal/auth"
	"socialnet/internal/cache"
	"socialnet/internal/config"
	"socialnet/internal/db"
	"socialnet/internal/handler"
	"socialnet/internal/metrics"
	"socialnet/internal/model"
	"socialnet/internal/provider"
	"socialnet/internal/ratelimit"
	"socialnet/internal/repository"
	"socialnet/internal/router"
	"socialnet/internal/service"
)

// @title Social Network API
// @version 1.0
// @description Social network backend with passwordless auth, posts, follows, friends, and moderation.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.AuditLog{},
			&model.Report{},
			&model.Notification{},
			&model.Friend{},
			&model.Follow{},
			&model.Like{},
			&model.Comment{},
			&model.Media{},
			&model.Post{},
			&model.Code{},
			&model.SlugHistory{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.SlugHistory{},
		&model.Code{},
		&model.Post{},
		&model.Media{},
		&model.Comment{},
		&model.Like{},
		&model.Follow{},
		&model.Friend{},
		&model.Notification{},
		&model.Report{},
		&model.AuditLog{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	metrics.MustRegister()

	repos := repository.NewRepos(gormDB)

	// Auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	tokenStore := auth.NewTokenStore(cacheClient)

	limiter := ratelimit.NewLimiter()
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	go limiter.RunCleanup(cleanupCtx, 5*time.Minute, time.Hour)

	// External providers
	smsSender := provider.NewMobizonSender(cfg.SMSAPIKey, cfg.SMSBaseURL, cfg.SMSDebug, cfg.ProviderTimeout)
	mailSender := provider.NewRelayMailSender(cfg.MailBaseURL, cfg.MailAPIKey, cfg.MailFrom, cfg.ProviderTimeout)
	googleOAuth := provider.NewGoogleOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	captionGen := provider.NewHTTPCaptionGenerator(cfg.CaptionsURL, cfg.CaptionsAPIKey, cfg.ProviderTimeout)
	mediaStore, err := provider.NewDiskMediaStore(cfg.MediaDir, cfg.MediaBaseURL)
	if err != nil {
		log.Fatalf("media store init: %v", err)
	}

	auditWriter := service.NewAuditWriter(repos.AuditLogs)
	defer auditWriter.Close()

	// Services
	authService := service.NewAuthService(repos, jwtService, tokenStore, limiter, smsSender, mailSender, googleOAuth)
	userService := service.NewUserService(repos)
	postService := service.NewPostService(repos, captionGen)
	socialService := service.NewSocialService(repos)
	friendService := service.NewFriendService(repos)
	commentService := service.NewCommentService(repos)
	notificationService := service.NewNotificationService(repos)
	reportService := service.NewReportService(repos, auditWriter)
	adminService := service.NewAdminService(repos, auditWriter)
	mediaService := service.NewMediaService(repos, mediaStore)

	// Register routes
	router.Register(e, cfg, repos, router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		User:         handler.NewUserHandler(userService),
		Post:         handler.NewPostHandler(postService),
		Social:       handler.NewSocialHandler(socialService),
		Friend:       handler.NewFriendHandler(friendService),
		Comment:      handler.NewCommentHandler(commentService),
		Notification: handler.NewNotificationHandler(notificationService),
		Report:       handler.NewReportHandler(reportService),
		Admin:        handler.NewAdminHandler(adminService),
		Media:        handler.NewMediaHandler(mediaService),
	})

	// Log swagger full path
	swaggerURL := "http://localhost:" + cfg.ServerPort + "/swagger/index.html"
	if cfg.SwaggerHost != "" {
		swaggerURL = cfg.SwaggerHost + "/swagger/index.html"
	}
	log.Printf("Swagger documentation available at: %s", swaggerURL)

	// Graceful shutdown so the audit writer flushes its buffer
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
