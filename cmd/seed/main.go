package main

import (
	"context"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"socialnet/internal/config"
	"socialnet/internal/db"
	"socialnet/internal/identity"
	"socialnet/internal/model"
	"socialnet/internal/repository"
)

func main() {
	log.Println("Starting seed script...")

	// Load configuration
	cfg := config.Load()

	// Connect to database
	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	username := getEnv("SUPERADMIN_USERNAME", "superadmin")
	email := getEnv("SUPERADMIN_EMAIL", "superadmin@localhost")
	password := getEnv("SUPERADMIN_PASSWORD", "")
	if password == "" {
		log.Fatal("SUPERADMIN_PASSWORD must be set")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	users := repository.NewUserRepository(gormDB)
	ctx := context.Background()

	existing, err := users.FindByIdentifier(ctx, email)
	if err != nil && err != gorm.ErrRecordNotFound {
		log.Fatalf("Failed to look up superadmin: %v", err)
	}

	if existing != nil {
		existing.PasswordHash = string(hash)
		existing.Role = model.RoleSuperadmin
		existing.Status = model.StatusActive
		if err := users.Update(ctx, existing); err != nil {
			log.Fatalf("Failed to update superadmin: %v", err)
		}
		log.Printf("Superadmin %q updated", existing.Username)
		return
	}

	admin := &model.User{
		Identifier:  email,
		Kind:        identity.KindEmail,
		Email:       email,
		Username:    username,
		ProfileSlug: username,
		DisplayName: "Administrator",
		Role:        model.RoleSuperadmin,
		Status:      model.StatusActive,
		Verified:    true,

		PasswordHash: string(hash),
	}
	if err := users.Create(ctx, admin); err != nil {
		log.Fatalf("Failed to create superadmin: %v", err)
	}
	log.Printf("Superadmin %q created (id %s)", admin.Username, admin.ID)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
