package main

import (
	"log"
	"os"

	"github.com/nandanhq/peerverse/internal/config"
	"github.com/nandanhq/peerverse/internal/model"
	"github.com/nandanhq/peerverse/internal/server"
	"github.com/nandanhq/peerverse/pkg/database"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if cfg.AppEnv == "development" {
		if err := seedAdminUser(db); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	redisClient := newRedisClient(cfg.RedisURL)

	srv := server.NewServer(cfg, db, redisClient)

	log.Printf("Listening on :%s", cfg.Port)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func newRedisClient(redisURL string) *redis.Client {
	if redisURL == "" {
		log.Println("REDIS_URL not set, running without redis (caching, rate limiting and chat fan-out disabled)")
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	return redis.NewClient(opts)
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.College{},
		&model.User{},
		&model.Post{},
		&model.Reply{},
		&model.Upvote{},
		&model.KarmaLog{},
		&model.ChatMessage{},
		&model.MentorRequest{},
	)
}

func seedAdminUser(db *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@peerverse.dev"
	}

	var count int64
	if err := db.Model(&model.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := model.User{
		Name:            "Administrator",
		Email:           email,
		PasswordHash:    string(hash),
		IsAdmin:         true,
		IsEmailVerified: true,
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user seeded: %s", email)
	return nil
}
