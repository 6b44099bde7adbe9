package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Storage backends selectable with STORAGE_BACKEND.
const (
	BackendLocal    = "local"
	BackendGitHub   = "github"
	BackendGCS      = "gcs"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool

	// Telegram and session
	BotToken          string
	InitDataMaxAge    time.Duration
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	SessionCookieName string
	LoginRateLimit    string
	CORSAllowedOrigin []string

	// Document storage
	StorageBackend   string
	StoreTimeout     time.Duration
	StoreMaxAttempts int
	DataDir          string
	GitHubToken      string
	GitHubRepo       string
	GitHubBranch     string
	GitHubDataPath   string
	GitHubAPIURL     string
	GCSBucket        string
	GCSPrefix        string
	GCSCredentials   string
	RedisAddress     string
	RedisPassword    string
	RedisDB          int
	RedisKeyPrefix   string
	DatabaseURL      string

	// Accounts and setup
	StartingBalance      decimal.Decimal
	AdminTokenHash       string
	AdminTelegramID      int64
	AdminUsername        string
	AdminStartingBalance decimal.Decimal

	PosthogAPIKey string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "5000")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("BOT_TOKEN", "")
	viper.SetDefault("INIT_DATA_MAX_AGE", "24h")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "168h")
	viper.SetDefault("JWT_ISSUER", "homeos-backend")
	viper.SetDefault("SESSION_COOKIE_NAME", "homeos_session")
	viper.SetDefault("LOGIN_RATE_LIMIT", "10-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("STORAGE_BACKEND", BackendLocal)
	viper.SetDefault("STORE_TIMEOUT", "10s")
	viper.SetDefault("STORE_MAX_ATTEMPTS", 5)
	viper.SetDefault("DATA_DIR", "server_data")
	viper.SetDefault("GITHUB_TOKEN", "")
	viper.SetDefault("GITHUB_REPO", "")
	viper.SetDefault("GITHUB_BRANCH", "main")
	viper.SetDefault("GITHUB_DATA_PATH", "data")
	viper.SetDefault("GITHUB_API_URL", "")
	viper.SetDefault("GCS_BUCKET", "")
	viper.SetDefault("GCS_PREFIX", "homeos/")
	viper.SetDefault("GCS_CREDENTIALS_JSON", "")
	viper.SetDefault("REDIS_ADDRESS", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_KEY_PREFIX", "homeos:doc:")
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("STARTING_BALANCE", "1000")
	viper.SetDefault("ADMIN_TOKEN_HASH", "")
	viper.SetDefault("ADMIN_TELEGRAM_ID", 0)
	viper.SetDefault("ADMIN_USERNAME", "admin")
	viper.SetDefault("ADMIN_STARTING_BALANCE", "100000")
	viper.SetDefault("POSTHOG_API_KEY", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.BotToken = viper.GetString("BOT_TOKEN")
	if cfg.BotToken == "" {
		log.Println("Warning: BOT_TOKEN not set. Telegram authentication will not work.")
	}
	cfg.InitDataMaxAge = durationOrDefault("INIT_DATA_MAX_AGE", 24*time.Hour)

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTExpiryDuration = durationOrDefault("JWT_EXPIRY_DURATION", 7*24*time.Hour)
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	cfg.SessionCookieName = viper.GetString("SESSION_COOKIE_NAME")
	cfg.LoginRateLimit = viper.GetString("LOGIN_RATE_LIMIT")
	cfg.CORSAllowedOrigin = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))

	cfg.StorageBackend = strings.ToLower(viper.GetString("STORAGE_BACKEND"))
	cfg.StoreTimeout = durationOrDefault("STORE_TIMEOUT", 10*time.Second)
	cfg.StoreMaxAttempts = viper.GetInt("STORE_MAX_ATTEMPTS")
	if cfg.StoreMaxAttempts < 1 {
		log.Printf("Warning: Invalid value for STORE_MAX_ATTEMPTS (%d). Defaulting to 5.\n", cfg.StoreMaxAttempts)
		cfg.StoreMaxAttempts = 5
	}
	cfg.DataDir = viper.GetString("DATA_DIR")
	cfg.GitHubToken = viper.GetString("GITHUB_TOKEN")
	cfg.GitHubRepo = viper.GetString("GITHUB_REPO")
	cfg.GitHubBranch = viper.GetString("GITHUB_BRANCH")
	cfg.GitHubDataPath = viper.GetString("GITHUB_DATA_PATH")
	cfg.GitHubAPIURL = viper.GetString("GITHUB_API_URL")
	cfg.GCSBucket = viper.GetString("GCS_BUCKET")
	cfg.GCSPrefix = viper.GetString("GCS_PREFIX")
	cfg.GCSCredentials = viper.GetString("GCS_CREDENTIALS_JSON")
	cfg.RedisAddress = viper.GetString("REDIS_ADDRESS")
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	cfg.RedisDB = viper.GetInt("REDIS_DB")
	cfg.RedisKeyPrefix = viper.GetString("REDIS_KEY_PREFIX")
	cfg.DatabaseURL = viper.GetString("PGSQL_URL")

	switch cfg.StorageBackend {
	case BackendGitHub:
		if cfg.GitHubToken == "" || cfg.GitHubRepo == "" {
			log.Println("Warning: STORAGE_BACKEND=github but GITHUB_TOKEN or GITHUB_REPO is not set.")
		}
	case BackendGCS:
		if cfg.GCSBucket == "" {
			log.Println("Warning: STORAGE_BACKEND=gcs but GCS_BUCKET is not set.")
		}
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			log.Println("Warning: STORAGE_BACKEND=postgres but PGSQL_URL is not set.")
		}
	case BackendLocal:
		log.Println("Warning: local storage backend does not enforce document versions; run a single instance only.")
	}

	cfg.StartingBalance = decimalOrDefault("STARTING_BALANCE", decimal.NewFromInt(1000))
	cfg.AdminTokenHash = viper.GetString("ADMIN_TOKEN_HASH")
	cfg.AdminTelegramID = viper.GetInt64("ADMIN_TELEGRAM_ID")
	cfg.AdminUsername = viper.GetString("ADMIN_USERNAME")
	cfg.AdminStartingBalance = decimalOrDefault("ADMIN_STARTING_BALANCE", decimal.NewFromInt(100000))

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")

	return cfg, nil
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}

func decimalOrDefault(key string, def decimal.Decimal) decimal.Decimal {
	raw := viper.GetString(key)
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
