package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvLive  = "live"
)

type SocialLinks struct {
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
}

type Config struct {
	AppEnv       string
	Port         string
	BaseURLLocal string
	BaseURLLive  string
	OriginURL    string

	DatabaseURL  string
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBSSLMode    string
	MigrationDir string

	SessionSecret    string
	SessionTTL       time.Duration
	HashidsSalt      string
	HashidsMinLength int

	RecaptchaSiteKey   string
	RecaptchaSecretKey string

	PhoneNumber    string
	WhatsAppNumber string
	Social         SocialLinks

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	RedisURL      string
	RedisAddr     string
	RedisPassword string

	UploadDir     string
	MaxUploadSize int64
}

// Load reads .env (when present) and the process environment once.
// The returned Config is treated as read-only by the rest of the program.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	maxUploadSize, _ := strconv.ParseInt(os.Getenv("MAX_UPLOAD_SIZE"), 10, 64)
	if maxUploadSize <= 0 {
		maxUploadSize = 5242880
	}

	smtpPort, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		smtpPort = 587
	}

	hashidsMin, err := strconv.Atoi(os.Getenv("HASHIDS_MIN_LENGTH"))
	if err != nil || hashidsMin < 0 {
		hashidsMin = 8
	}

	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil || sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}

	cfg := &Config{
		AppEnv:       normalizeEnv(getEnv("APP_ENV", EnvLocal)),
		Port:         getEnv("APP_PORT", getEnv("PORT", "8082")),
		BaseURLLocal: strings.TrimRight(getEnv("BASE_URL_LOCAL", "http://localhost:8082"), "/"),
		BaseURLLive:  strings.TrimRight(os.Getenv("BASE_URL_LIVE"), "/"),
		OriginURL:    os.Getenv("ORIGIN_URL"),

		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBUser:       getEnv("DB_USER", "postgres"),
		DBPassword:   getEnv("DB_PASSWORD", "postgres"),
		DBName:       getEnv("DB_NAME", "storefront"),
		DBSSLMode:    getEnv("DB_SSLMODE", "disable"),
		MigrationDir: getEnv("MIGRATION_DIR", "database/migration"),

		SessionSecret:    os.Getenv("SESSION_SECRET"),
		SessionTTL:       sessionTTL,
		HashidsSalt:      os.Getenv("HASHIDS_SALT"),
		HashidsMinLength: hashidsMin,

		RecaptchaSiteKey:   os.Getenv("RECAPTCHA_SITE_KEY"),
		RecaptchaSecretKey: os.Getenv("RECAPTCHA_SECRET_KEY"),

		PhoneNumber:    os.Getenv("PHONE_NUMBER"),
		WhatsAppNumber: getEnv("WHATSAPP_NUMBER", os.Getenv("PHONE_NUMBER")),
		Social: SocialLinks{
			Instagram: os.Getenv("SOCIAL_INSTAGRAM"),
			Facebook:  os.Getenv("SOCIAL_FACEBOOK"),
			TikTok:    os.Getenv("SOCIAL_TIKTOK"),
			YouTube:   os.Getenv("SOCIAL_YOUTUBE"),
		},

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: smtpPort,
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: os.Getenv("SMTP_FROM"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),

		RedisURL:      os.Getenv("REDIS_URL"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadSize: maxUploadSize,
	}

	if cfg.IsProduction() {
		if cfg.SessionSecret == "" {
			return nil, errors.New("SESSION_SECRET is required in live environment")
		}
		if cfg.HashidsSalt == "" {
			return nil, errors.New("HASHIDS_SALT is required in live environment")
		}
		if cfg.BaseURLLive == "" {
			return nil, errors.New("BASE_URL_LIVE is required in live environment")
		}
	} else {
		if cfg.SessionSecret == "" {
			cfg.SessionSecret = "local-session-secret"
		}
		if cfg.HashidsSalt == "" {
			cfg.HashidsSalt = "local-hashids-salt"
		}
	}

	log.Println("Configuration loaded successfully")
	log.Printf("Environment: %s", cfg.AppEnv)
	log.Printf("Server will run on port: %s", cfg.Port)
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvLive
}

// BaseURL returns the public base URL for the active environment.
func (c *Config) BaseURL() string {
	if c.IsProduction() {
		return c.BaseURLLive
	}
	return c.BaseURLLocal
}

func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPass != ""
}

func (c *Config) CloudinaryConfigured() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

func normalizeEnv(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "live", "production", "prod":
		return EnvLive
	default:
		return EnvLocal
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
