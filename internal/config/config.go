package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string
	MySQLDSN   string
	RedisAddr  string
	RedisDB    int
	RedisPass  string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	SMSAPIKey   string
	SMSBaseURL  string
	SMSDebug    bool
	MailAPIKey  string
	MailBaseURL string
	MailFrom    string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	MediaDir       string
	MediaBaseURL   string
	CaptionsURL    string
	CaptionsAPIKey string

	ProviderTimeout time.Duration

	SwaggerHost string
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		MySQLDSN:   getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/socialnet?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:    getEnvInt("REDIS_DB", 0),
		RedisPass:  os.Getenv("REDIS_PASSWORD"),

		JWTSecret:       getEnv("JWT_SECRET", "change-me"),
		AccessTokenTTL:  getEnvDuration("ACCESS_TOKEN_TTL", time.Hour),
		RefreshTokenTTL: getEnvDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour),

		SMSAPIKey:   os.Getenv("SMS_API_KEY"),
		SMSBaseURL:  getEnv("SMS_BASE_URL", "https://api.mobizon.kz/service/message/sendsmsmessage"),
		SMSDebug:    getEnvBool("SMS_DEBUG_MODE", false),
		MailAPIKey:  os.Getenv("MAIL_API_KEY"),
		MailBaseURL: os.Getenv("MAIL_BASE_URL"),
		MailFrom:    getEnv("MAIL_FROM", "no-reply@localhost"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URI"),

		MediaDir:       getEnv("MEDIA_DIR", "./uploads"),
		MediaBaseURL:   getEnv("MEDIA_BASE_URL", "/media"),
		CaptionsURL:    os.Getenv("CAPTIONS_URL"),
		CaptionsAPIKey: os.Getenv("CAPTIONS_API_KEY"),

		ProviderTimeout: getEnvDuration("PROVIDER_TIMEOUT", 30*time.Second),

		SwaggerHost: os.Getenv("SWAGGER_HOST"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
